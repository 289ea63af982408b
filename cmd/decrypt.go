package cmd

import (
	"fmt"

	"github.com/PolarWolf314/envcloak/internal/ui"
	"github.com/PolarWolf314/envcloak/internal/utils"
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/spf13/cobra"
)

var decryptFlags fileFlags

func init() {
	decryptFlags.register(decryptCmd)
}

func resetDecryptState() {
	decryptFlags.reset()
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a file or a directory of encrypted files",
	Long: `Decrypts an encrypted file, or every encrypted file in a directory.

Without --output a single file is written next to the input with the
extension removed. Decryption fails without writing anything if the key is
wrong or the file was modified.

Examples:
  envcloak decrypt -i .env.enc -k project.key
  envcloak decrypt --directory sealed -o config -k project.key -r`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		opts := workflows.DecryptOptions(decryptFlags.options())

		if opts.DryRun {
			Logger.Debugf("Running decrypt in dry-run mode")
			result, err := workflows.Decrypt(cmd.Context(), opts)
			if err != nil {
				return Logger.ErrorfAndReturn("dry run failed: %v", err)
			}
			printReport(result.Report)
			return nil
		}

		s, cleanup := startSpinner("Decrypting files...")
		defer cleanup()

		result, err := workflows.Decrypt(cmd.Context(), opts)
		if result != nil {
			warnAudit(result.Outcome)
		}
		if err != nil {
			return fail(s, "decrypt", err)
		}

		written := result.Written()
		Logger.Infof("Decrypt command completed successfully. Created %d files", len(written))

		if len(written) == 0 {
			s.FinalMSG = ui.SuccessLine("No files to decrypt in " + ui.Path.Sprint(result.Plan.Input))
			return nil
		}

		s.FinalMSG = ui.SuccessLine(fmt.Sprintf("Decrypted %d file(s)!", len(written))) + "\n" +
			"The following files were created:" + utils.FormatPaths(written) +
			ui.HintLine("Decrypted files hold plaintext secrets; do not commit them")
		return nil
	},
}
