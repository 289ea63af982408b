package cmd

import (
	"github.com/PolarWolf314/envcloak/internal/ui"
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	rotateInput      string
	rotateOutput     string
	rotateOldKeyFile string
	rotateNewKeyFile string
	rotateForce      bool
	rotateDryRun     bool
)

func init() {
	rotateKeysCmd.Flags().StringVarP(&rotateInput, "input", "i", "", "encrypted file to re-encrypt")
	rotateKeysCmd.Flags().StringVarP(&rotateOutput, "output", "o", "", "where to write the re-encrypted file (default: replace the input)")
	rotateKeysCmd.Flags().StringVar(&rotateOldKeyFile, "old-key-file", "", "key the input is encrypted with")
	rotateKeysCmd.Flags().StringVar(&rotateNewKeyFile, "new-key-file", "", "key to re-encrypt with")
	rotateKeysCmd.Flags().BoolVarP(&rotateForce, "force", "f", false, "overwrite an existing output")
	addDryRunFlag(rotateKeysCmd, &rotateDryRun)
	_ = rotateKeysCmd.MarkFlagRequired("input")
}

func resetRotateKeysState() {
	rotateInput = ""
	rotateOutput = ""
	rotateOldKeyFile = ""
	rotateNewKeyFile = ""
	rotateForce = false
	rotateDryRun = false
}

var rotateKeysCmd = &cobra.Command{
	Use:   "rotate-keys",
	Short: "Re-encrypt a file under a new key",
	Long: `Decrypts an encrypted file with the old key and encrypts it again with the
new key. The plaintext never touches the disk.

The new file is staged next to the output, read back and checked against
the new key before it replaces the output. If any step fails the original
file is left as it was.

Examples:
  envcloak rotate-keys -i .env.enc --old-key-file old.key --new-key-file new.key
  envcloak rotate-keys -i .env.enc -o .env.next.enc --old-key-file old.key --new-key-file new.key --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate-keys command")
		opts := workflows.RotateKeysOptions{
			Input:      rotateInput,
			Output:     rotateOutput,
			OldKeyFile: rotateOldKeyFile,
			NewKeyFile: rotateNewKeyFile,
			Force:      rotateForce,
			RunOptions: runOptions(rotateDryRun),
		}

		if opts.DryRun {
			result, err := workflows.RotateKeys(cmd.Context(), opts)
			if err != nil {
				return Logger.ErrorfAndReturn("dry run failed: %v", err)
			}
			printReport(result.Report)
			return nil
		}

		s, cleanup := startSpinner("Rotating key...")
		defer cleanup()

		result, err := workflows.RotateKeys(cmd.Context(), opts)
		if err != nil {
			return fail(s, "rotate keys", err)
		}

		warnAudit(result.Outcome)
		Logger.Infof("Rotated %s", result.Output)
		if result.Plan.InPlace {
			s.FinalMSG = ui.SuccessLine(ui.Path.Sprint(result.Output) + " is now encrypted under the new key")
		} else {
			s.FinalMSG = ui.SuccessLine("Re-encrypted " + ui.Path.Sprint(result.Input) + " to " + ui.Path.Sprint(result.Output))
		}
		s.FinalMSG += "\n" + ui.HintLine("The old key can no longer decrypt "+ui.Path.Sprint(result.Output))
		return nil
	},
}
