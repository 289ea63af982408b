package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/envcloak/internal/secrets"
)

// TestRotateKeysIntegration contains integration tests for the `envcloak rotate-keys` command.
func TestRotateKeysIntegration(t *testing.T) {
	t.Run("DryRunValidKeys", testRotateDryRunValidKeys)
	t.Run("InPlace", testRotateInPlace)
	t.Run("MissingNewKey", testRotateMissingNewKey)
}

func setupRotateFiles(t *testing.T, dir string) (encrypted, oldKey, newKey string, newKeyValue secrets.Key) {
	t.Helper()
	encrypted = filepath.Join(dir, "variables.env.enc")
	oldKey = filepath.Join(dir, "old.key")
	newKey = filepath.Join(dir, "new.key")
	old := createKeyFile(t, oldKey)
	newKeyValue = createKeyFile(t, newKey)

	sealed, err := secrets.EncryptBytes([]byte("DB_USER=admin\n"), old)
	if err != nil {
		t.Fatalf("EncryptBytes failed: %v", err)
	}
	createFile(t, encrypted, string(sealed))
	return encrypted, oldKey, newKey, newKeyValue
}

func testRotateDryRunValidKeys(t *testing.T) {
	dir := setupTestEnvironment(t)
	encrypted, oldKey, newKey, _ := setupRotateFiles(t, dir)
	output := filepath.Join(dir, "variables.env.rotated")
	before := snapshotDir(t, dir)

	out, err := runCLI(t, "rotate-keys", "-i", encrypted, "--old-key-file", oldKey, "--new-key-file", newKey, "-o", output, "--dry-run")
	if err != nil {
		t.Fatalf("Dry run failed: %v\nOutput: %s", err, out)
	}
	if !strings.Contains(out, "Dry-run checks passed successfully.") {
		t.Errorf("Expected passing report, got: %s", out)
	}
	if strings.Contains(out, "does not exist") {
		t.Errorf("Expected no missing paths, got: %s", out)
	}
	verifyUnchanged(t, dir, before)
}

func testRotateInPlace(t *testing.T) {
	dir := setupTestEnvironment(t)
	encrypted, oldKey, newKey, newKeyValue := setupRotateFiles(t, dir)

	out, err := runCLI(t, "rotate-keys", "-i", encrypted, "--old-key-file", oldKey, "--new-key-file", newKey)
	if err != nil {
		t.Fatalf("rotate-keys failed: %v\nOutput: %s", err, out)
	}

	data, err := os.ReadFile(encrypted)
	if err != nil {
		t.Fatalf("Failed to read rotated file: %v", err)
	}
	plaintext, err := secrets.DecryptBytes(data, newKeyValue)
	if err != nil || string(plaintext) != "DB_USER=admin\n" {
		t.Errorf("Expected rotated file to open under the new key, got %q (err: %v)", plaintext, err)
	}
}

func testRotateMissingNewKey(t *testing.T) {
	dir := setupTestEnvironment(t)
	encrypted, oldKey, _, _ := setupRotateFiles(t, dir)
	missing := filepath.Join(dir, "missing.key")
	before := snapshotDir(t, dir)

	out, err := runCLI(t, "rotate-keys", "-i", encrypted, "--old-key-file", oldKey, "--new-key-file", missing)
	if err == nil {
		t.Fatalf("Expected failure, output: %s", out)
	}
	if !strings.Contains(out, "New key file does not exist: "+missing) {
		t.Errorf("Expected missing new key reason, got: %s", out)
	}
	verifyUnchanged(t, dir, before)
}
