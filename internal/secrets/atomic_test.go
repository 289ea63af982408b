package secrets

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteFileAtomic_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.enc")

	if err := WriteFileAtomic(path, []byte("payload"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Expected payload, got %q", data)
	}

	if runtime.GOOS != "windows" {
		info, _ := os.Stat(path)
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
		}
	}

	assertNoTempFiles(t, filepath.Dir(path))
}

func TestWriteFileAtomic_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	writeTestFile(t, path, "old")

	if err := WriteFileAtomic(path, []byte("new"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("Expected new, got %q", data)
	}
}

func TestStage_NotVisibleUntilCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	staged, err := Stage(path, []byte("staged"), 0600)
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Destination should not exist before Commit")
	}
	if data, err := os.ReadFile(staged.Path()); err != nil || string(data) != "staged" {
		t.Fatalf("Staged file should hold the data, got %q (%v)", data, err)
	}

	if err := staged.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "staged" {
		t.Errorf("Expected staged, got %q", data)
	}
	assertNoTempFiles(t, dir)

	if err := staged.Commit(); err == nil {
		t.Error("Second Commit should fail")
	}
}

func TestStage_Discard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")
	writeTestFile(t, path, "original")

	staged, err := Stage(path, []byte("replacement"), 0600)
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	staged.Discard()
	staged.Discard()

	if data, _ := os.ReadFile(path); string(data) != "original" {
		t.Errorf("Discard should leave the destination untouched, got %q", data)
	}
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp-*"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Expected no temporary files, found: %v", matches)
	}
}
