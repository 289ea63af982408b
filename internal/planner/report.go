package planner

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// PassedMessage opens the report of a plan without failures.
	PassedMessage = "Dry-run checks passed successfully."

	// FailedMessage opens the report of a plan with failures.
	FailedMessage = "Dry-run checks failed:"
)

// Report renders the dry-run report for p. It performs no I/O, and the same
// plan always renders the same text.
func Report(p *Plan) string {
	var b strings.Builder

	if !p.WouldSucceed {
		b.WriteString(FailedMessage)
		b.WriteString("\n")
		for _, reason := range p.Reasons() {
			b.WriteString("  - ")
			b.WriteString(reason)
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(PassedMessage)
	b.WriteString("\n")
	for _, line := range describeActions(p) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func describeActions(p *Plan) []string {
	var lines []string

	if p.Command.Directory != "" && len(p.Actions) == 0 {
		return []string{fmt.Sprintf("No files to process in %s", p.Input)}
	}

	for _, a := range p.Actions {
		switch p.Kind() {
		case KindEncrypt:
			lines = append(lines, fmt.Sprintf("Would encrypt %s -> %s", a.Source, a.Destination))
		case KindDecrypt:
			lines = append(lines, fmt.Sprintf("Would decrypt %s -> %s", a.Source, a.Destination))
		case KindRotateKeys:
			if p.InPlace {
				lines = append(lines, fmt.Sprintf("Would re-encrypt %s in place under the new key", a.Source))
			} else {
				lines = append(lines, fmt.Sprintf("Would re-encrypt %s under the new key -> %s", a.Source, a.Destination))
			}
		case KindGenerateKey:
			lines = append(lines, fmt.Sprintf("Would write a random key to %s", a.Destination))
		case KindGenerateKeyFromPassword:
			lines = append(lines, fmt.Sprintf("Would write a password-derived key to %s", a.Destination))
		}
	}

	if p.Gitignore != "" {
		lines = append(lines, fmt.Sprintf("Would add %s to %s", filepath.Base(p.Output), p.Gitignore))
	}

	return lines
}
