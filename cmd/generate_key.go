package cmd

import (
	"github.com/PolarWolf314/envcloak/internal/ui"
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	generateKeyOutput      string
	generateKeyForce       bool
	generateKeyNoGitignore bool
	generateKeyDryRun      bool
)

func init() {
	generateKeyCmd.Flags().StringVarP(&generateKeyOutput, "output", "o", "", "key file to write")
	generateKeyCmd.Flags().BoolVarP(&generateKeyForce, "force", "f", false, "overwrite an existing key file")
	generateKeyCmd.Flags().BoolVar(&generateKeyNoGitignore, "no-gitignore", false, "do not add the key file to .gitignore")
	addDryRunFlag(generateKeyCmd, &generateKeyDryRun)
}

func resetGenerateKeyState() {
	generateKeyOutput = ""
	generateKeyForce = false
	generateKeyNoGitignore = false
	generateKeyDryRun = false
}

var generateKeyCmd = &cobra.Command{
	Use:   "generate-key",
	Short: "Generate a random 32-byte key file",
	Long: `Writes 32 random bytes to a new key file with mode 0600.

The key file name is added to the .gitignore next to it unless
--no-gitignore is given or gitignore is disabled in the config.

Examples:
  envcloak generate-key -o project.key
  envcloak generate-key -o keys/ci.key --no-gitignore`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting generate-key command")
		opts := workflows.GenerateKeyOptions{
			Output:     generateKeyOutput,
			Force:      generateKeyForce,
			Gitignore:  gitignoreEnabled(generateKeyNoGitignore),
			RunOptions: runOptions(generateKeyDryRun),
		}

		if opts.DryRun {
			result, err := workflows.GenerateKey(cmd.Context(), opts)
			if err != nil {
				return Logger.ErrorfAndReturn("dry run failed: %v", err)
			}
			printReport(result.Report)
			return nil
		}

		s, cleanup := startSpinner("Generating key...")
		defer cleanup()

		result, err := workflows.GenerateKey(cmd.Context(), opts)
		if err != nil {
			return fail(s, "generate key", err)
		}

		warnAudit(result.Outcome)
		Logger.Infof("Key written to %s", result.KeyFile)
		s.FinalMSG = ui.SuccessLine("Key written to "+ui.Path.Sprint(result.KeyFile)) + gitignoreLine(result)
		return nil
	},
}

func gitignoreLine(r *workflows.GenerateKeyResult) string {
	switch {
	case r.Gitignore == "":
		return "\n" + ui.HintLine("Keep the key file out of version control")
	case r.GitignoreUpdated:
		return "\n" + ui.HintLine("Added to "+ui.Path.Sprint(r.Gitignore))
	default:
		return "\n" + ui.HintLine("Already listed in "+ui.Path.Sprint(r.Gitignore))
	}
}
