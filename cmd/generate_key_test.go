package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/envcloak/internal/secrets"
)

const scenarioSalt = "a3b4c5d6e7f8f9a0a1b2c3d4e5f6a7b8"

// TestGenerateKeyIntegration contains integration tests for the key generation commands.
func TestGenerateKeyIntegration(t *testing.T) {
	t.Run("GenerateKey", testGenerateKey)
	t.Run("GenerateKeyNoGitignore", testGenerateKeyNoGitignore)
	t.Run("GenerateKeyExisting", testGenerateKeyExisting)
	t.Run("PasswordDryRunWithSalt", testPasswordDryRunWithSalt)
	t.Run("PasswordDryRunInvalidSalt", testPasswordDryRunInvalidSalt)
	t.Run("PasswordDeterministic", testPasswordDeterministic)
	t.Run("PasswordGeneratedSalt", testPasswordGeneratedSalt)
	t.Run("PasswordFromStdin", testPasswordFromStdin)
	t.Run("PasswordNotReadWhenChecksFail", testPasswordNotReadWhenChecksFail)
}

func testGenerateKey(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyFile := filepath.Join(dir, "project.key")

	output, err := runCLI(t, "generate-key", "-o", keyFile)
	if err != nil {
		t.Fatalf("generate-key failed: %v\nOutput: %s", err, output)
	}

	if _, err := secrets.LoadKey(keyFile); err != nil {
		t.Fatalf("Generated key does not load: %v", err)
	}
	info, err := os.Stat(keyFile)
	if err != nil {
		t.Fatalf("Failed to stat key: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected key mode 0600, got %o", info.Mode().Perm())
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil || !strings.Contains(string(gitignore), "project.key") {
		t.Errorf("Expected project.key in .gitignore, got %q (err: %v)", gitignore, err)
	}
}

func testGenerateKeyNoGitignore(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyFile := filepath.Join(dir, "project.key")

	if output, err := runCLI(t, "generate-key", "-o", keyFile, "--no-gitignore"); err != nil {
		t.Fatalf("generate-key failed: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitignore")); !os.IsNotExist(err) {
		t.Error("Expected no .gitignore with --no-gitignore")
	}
}

func testGenerateKeyExisting(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyFile := filepath.Join(dir, "project.key")
	createFile(t, keyFile, "old")

	output, err := runCLI(t, "generate-key", "-o", keyFile)
	if err == nil {
		t.Fatalf("Expected failure for an existing key, output: %s", output)
	}
	if !strings.Contains(output, "Output path already exists: "+keyFile) {
		t.Errorf("Expected existing output reason, got: %s", output)
	}

	if output, err := runCLI(t, "generate-key", "-o", keyFile, "--force"); err != nil {
		t.Fatalf("generate-key --force failed: %v\nOutput: %s", err, output)
	}
}

func testPasswordDryRunWithSalt(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyFile := filepath.Join(dir, "password.key")
	before := snapshotDir(t, dir)

	output, err := runCLI(t, "generate-key-from-password", "-p", "MySecretPassword", "-s", scenarioSalt, "-o", keyFile, "--dry-run")
	if err != nil {
		t.Fatalf("Dry run failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Dry-run checks passed successfully.") {
		t.Errorf("Expected passing report, got: %s", output)
	}
	verifyUnchanged(t, dir, before)
}

func testPasswordDryRunInvalidSalt(t *testing.T) {
	dir := setupTestEnvironment(t)

	output, err := runCLI(t, "generate-key-from-password", "-p", "pw", "-s", "not-hex", "-o", filepath.Join(dir, "k"), "--dry-run")
	if err != nil {
		t.Fatalf("Dry run should exit 0, got %v", err)
	}
	if !strings.Contains(output, "Invalid salt: must be a 16-byte hex string") {
		t.Errorf("Expected invalid salt reason, got: %s", output)
	}
}

func testPasswordDeterministic(t *testing.T) {
	dir := setupTestEnvironment(t)
	first := filepath.Join(dir, "first.key")
	second := filepath.Join(dir, "second.key")

	for _, keyFile := range []string{first, second} {
		if output, err := runCLI(t, "generate-key-from-password", "-p", "MySecretPassword", "-s", scenarioSalt, "-o", keyFile); err != nil {
			t.Fatalf("generate-key-from-password failed: %v\nOutput: %s", err, output)
		}
	}

	a, errA := os.ReadFile(first)
	b, errB := os.ReadFile(second)
	if errA != nil || errB != nil || string(a) != string(b) {
		t.Error("Same password and salt should produce identical key files")
	}
}

func testPasswordGeneratedSalt(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyFile := filepath.Join(dir, "password.key")

	output, err := runCLI(t, "generate-key-from-password", "-p", "MySecretPassword", "-o", keyFile)
	if err != nil {
		t.Fatalf("generate-key-from-password failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Generated salt:") {
		t.Errorf("Expected the generated salt to be printed, got: %s", output)
	}
}

// pipeStdin replaces os.Stdin with a pipe holding content and returns the
// read end so a test can see what was left unread.
func pipeStdin(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	if _, err := w.WriteString(content); err != nil {
		t.Fatalf("Failed to write to pipe: %v", err)
	}
	w.Close()

	original := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = original
		r.Close()
	})
	return r
}

func testPasswordFromStdin(t *testing.T) {
	dir := setupTestEnvironment(t)
	fromFlag := filepath.Join(dir, "flag.key")
	fromStdin := filepath.Join(dir, "stdin.key")

	if output, err := runCLI(t, "generate-key-from-password", "-p", "MySecretPassword", "-s", scenarioSalt, "-o", fromFlag); err != nil {
		t.Fatalf("generate-key-from-password failed: %v\nOutput: %s", err, output)
	}

	pipeStdin(t, "MySecretPassword\n")
	if output, err := runCLI(t, "generate-key-from-password", "-s", scenarioSalt, "-o", fromStdin); err != nil {
		t.Fatalf("generate-key-from-password with piped password failed: %v\nOutput: %s", err, output)
	}

	a, errA := os.ReadFile(fromFlag)
	b, errB := os.ReadFile(fromStdin)
	if errA != nil || errB != nil || string(a) != string(b) {
		t.Error("Piped password should derive the same key as --password")
	}
}

func testPasswordNotReadWhenChecksFail(t *testing.T) {
	tests := []struct {
		name   string
		salt   string
		exists bool
		want   string
	}{
		{name: "ExistingOutput", salt: scenarioSalt, exists: true, want: "Output path already exists: "},
		{name: "InvalidSalt", salt: "not-hex", want: "Invalid salt: must be a 16-byte hex string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestEnvironment(t)
			keyFile := filepath.Join(dir, "password.key")
			if tt.exists {
				createFile(t, keyFile, "old")
			}
			stdin := pipeStdin(t, "MySecretPassword\n")

			output, err := runCLI(t, "generate-key-from-password", "-s", tt.salt, "-o", keyFile)
			if err == nil {
				t.Fatalf("Expected failure, output: %s", output)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("Expected %q, got: %s", tt.want, output)
			}

			left, err := io.ReadAll(stdin)
			if err != nil {
				t.Fatalf("Failed to read stdin: %v", err)
			}
			if string(left) != "MySecretPassword\n" {
				t.Errorf("Password should not be read before checks pass, %q left unread", left)
			}
		})
	}
}
