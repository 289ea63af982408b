package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	originalNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = originalNoColor }()

	result := Code.Sprint("envcloak generate-key")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "envcloak encrypt", "`envcloak encrypt`"},
		{"Path has no decoration", Path, "variables.env.enc", "variables.env.enc"},
		{"Flag has no decoration", Flag, "--dry-run", "--dry-run"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Warning has no decoration", Warning, "[dry-run]", "[dry-run]"},
		{"Info has no decoration", Info, "→", "→"},
		{"Muted adds parentheses", Muted, "2 files", "(2 files)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatterSprintf(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	result := Code.Sprintf("envcloak %s", "rotate-keys")
	want := "`envcloak rotate-keys`"
	if result != want {
		t.Errorf("Code.Sprintf() = %q, want %q", result, want)
	}
}

func TestStatusLines(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := SuccessLine("done"); got != "✓ done" {
		t.Errorf("SuccessLine() = %q", got)
	}
	if got := ErrorLine("failed"); got != "✗ failed" {
		t.Errorf("ErrorLine() = %q", got)
	}
	if got := HintLine("retry"); got != "→ retry" {
		t.Errorf("HintLine() = %q", got)
	}
}

func TestIndent(t *testing.T) {
	got := Indent("a\n\nb", 2)
	want := "  a\n\n  b"
	if got != want {
		t.Errorf("Indent() = %q, want %q", got, want)
	}
}

func TestEnsureNewline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "\n"},
		{"text", "text\n"},
		{"text\n", "text\n"},
	}
	for _, tt := range tests {
		if got := EnsureNewline(tt.in); got != tt.want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoColorFunction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !noColor() {
		t.Error("noColor() should return true when NO_COLOR is set")
	}
}
