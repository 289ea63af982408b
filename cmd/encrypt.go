package cmd

import (
	"fmt"

	"github.com/PolarWolf314/envcloak/internal/ui"
	"github.com/PolarWolf314/envcloak/internal/utils"
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/spf13/cobra"
)

var encryptFlags fileFlags

func init() {
	encryptFlags.register(encryptCmd)
}

func resetEncryptState() {
	encryptFlags.reset()
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a file or a directory of files",
	Long: `Encrypts a file, or every file in a directory, under a 32-byte key.

A single file is written next to the input with the configured extension
(.enc by default) unless --output is given. Directory mode requires
--output and mirrors the input layout there. Existing outputs are never
replaced without --force.

Examples:
  envcloak encrypt -i .env -k project.key
  envcloak encrypt --directory config -o sealed -k project.key -r --pattern '*.env'
  envcloak encrypt -i .env -k project.key --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		opts := encryptFlags.options()

		if opts.DryRun {
			Logger.Debugf("Running encrypt in dry-run mode")
			result, err := workflows.Encrypt(cmd.Context(), opts)
			if err != nil {
				return Logger.ErrorfAndReturn("dry run failed: %v", err)
			}
			printReport(result.Report)
			return nil
		}

		s, cleanup := startSpinner("Encrypting files...")
		defer cleanup()

		result, err := workflows.Encrypt(cmd.Context(), opts)
		if result != nil {
			warnAudit(result.Outcome)
		}
		if err != nil {
			return fail(s, "encrypt", err)
		}

		written := result.Written()
		Logger.Infof("Encrypt command completed successfully. Created %d files", len(written))

		if len(written) == 0 {
			s.FinalMSG = ui.SuccessLine("No files to encrypt in " + ui.Path.Sprint(result.Plan.Input))
			return nil
		}

		s.FinalMSG = ui.SuccessLine(fmt.Sprintf("Encrypted %d file(s)!", len(written))) + "\n" +
			"The following files were created:" + utils.FormatPaths(written) +
			ui.HintLine("Keep the key file out of version control")
		return nil
	},
}
