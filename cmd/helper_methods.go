package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/envcloak/internal/configs"
	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
	"github.com/PolarWolf314/envcloak/internal/planner"
	"github.com/PolarWolf314/envcloak/internal/ui"
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// printReport writes a dry-run report. Dry runs always exit 0.
func printReport(report string) {
	fmt.Print(ui.EnsureNewline(report))
}

// runOptions builds the workflow options shared by every command.
func runOptions(dryRun bool) workflows.RunOptions {
	cfg := Config
	if cfg == nil {
		cfg = configs.DefaultConfig()
	}
	return workflows.RunOptions{
		DryRun:    dryRun,
		Workers:   cfg.Defaults.Workers,
		AuditPath: cfg.Audit.Path,
	}
}

// extension returns the configured encrypted file suffix.
func extension() string {
	if Config == nil || Config.Defaults.Extension == "" {
		return configs.DefaultExtension
	}
	return Config.Defaults.Extension
}

// gitignoreEnabled applies --no-gitignore over the configured default.
func gitignoreEnabled(noGitignore bool) bool {
	if noGitignore {
		return false
	}
	if Config == nil {
		return true
	}
	return Config.Defaults.Gitignore
}

// failureMessage renders err for the spinner's final message.
func failureMessage(action string, err error) string {
	var precondition *planner.PreconditionError
	if errors.As(err, &precondition) {
		var b strings.Builder
		b.WriteString(ui.ErrorLine("Cannot " + action + ":"))
		for _, c := range precondition.Failures {
			b.WriteString("\n  - " + c.Reason)
		}
		b.WriteString("\n" + ui.HintLine("Run with "+ui.Flag.Sprint("--dry-run")+" to check without writing"))
		return b.String()
	}

	var batch *workflows.BatchError
	if errors.As(err, &batch) {
		var b strings.Builder
		b.WriteString(ui.ErrorLine(fmt.Sprintf("Failed to %s %d of %d files:", action, len(batch.Failures), batch.Total)))
		for _, f := range batch.Failures {
			b.WriteString("\n  - " + ui.Path.Sprint(f.Source) + ": " + describe(f.Err))
		}
		return b.String()
	}

	return ui.ErrorLine("Failed to "+action+": ") + describe(err)
}

// describe turns sentinel errors into short user-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrRotationVerificationFailed):
		return "the re-encrypted file did not verify under the new key; nothing was changed"
	case kerrors.IsAuthenticationFailed(err):
		return "authentication failed (wrong key or the file was modified)"
	case kerrors.IsMalformedEnvelope(err):
		return "not an envcloak encrypted file or unsupported version"
	default:
		return err.Error()
	}
}

// fail sets the spinner's final message for err and returns it marked as
// reported.
func fail(s *spinner.Spinner, action string, err error) error {
	s.FinalMSG = failureMessage(action, err)
	return reported(err)
}

// warnAudit reports an audit log that could not be written. The operation
// itself has already succeeded.
func warnAudit(o workflows.Outcome) {
	if o.AuditErr != nil {
		Logger.WarnfAlways("Failed to write audit log: %v", o.AuditErr)
	}
}

func addDryRunFlag(c *cobra.Command, p *bool) {
	c.Flags().BoolVar(p, "dry-run", false, "validate and show what would happen without writing anything")
}

// printFailure writes msg to stdout and returns it as an error.
func printFailure(msg string) error {
	fmt.Print(ui.EnsureNewline(msg))
	return errors.New(msg)
}
