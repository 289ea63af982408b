package cmd

import (
	"fmt"

	"github.com/PolarWolf314/envcloak/internal/ui"
	"github.com/PolarWolf314/envcloak/internal/utils"
	"github.com/PolarWolf314/envcloak/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	passwordKeyOutput      string
	passwordKeyPassword    string
	passwordKeySalt        string
	passwordKeyForce       bool
	passwordKeyNoGitignore bool
	passwordKeyDryRun      bool
)

func init() {
	generateKeyFromPasswordCmd.Flags().StringVarP(&passwordKeyOutput, "output", "o", "", "key file to write")
	generateKeyFromPasswordCmd.Flags().StringVarP(&passwordKeyPassword, "password", "p", "", "password (prompted for when omitted)")
	generateKeyFromPasswordCmd.Flags().StringVarP(&passwordKeySalt, "salt", "s", "", "16-byte salt as hex (random when omitted)")
	generateKeyFromPasswordCmd.Flags().BoolVarP(&passwordKeyForce, "force", "f", false, "overwrite an existing key file")
	generateKeyFromPasswordCmd.Flags().BoolVar(&passwordKeyNoGitignore, "no-gitignore", false, "do not add the key file to .gitignore")
	addDryRunFlag(generateKeyFromPasswordCmd, &passwordKeyDryRun)
}

func resetGenerateKeyFromPasswordState() {
	passwordKeyOutput = ""
	passwordKeyPassword = ""
	passwordKeySalt = ""
	passwordKeyForce = false
	passwordKeyNoGitignore = false
	passwordKeyDryRun = false
}

var generateKeyFromPasswordCmd = &cobra.Command{
	Use:   "generate-key-from-password",
	Short: "Derive a key file from a password and salt",
	Long: `Derives a 32-byte key from a password and a 16-byte salt with scrypt and
writes it to a new key file with mode 0600.

The same password and salt always give the same key. When --salt is
omitted a random one is generated and printed; keep it to derive the key
again. When --password is omitted the password is read from the terminal
without echo, or from stdin when it is piped.

Examples:
  envcloak generate-key-from-password -o project.key -s a3b4c5d6e7f8f9a0a1b2c3d4e5f6a7b8
  echo "$PASSWORD" | envcloak generate-key-from-password -o project.key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting generate-key-from-password command")

		opts := workflows.GenerateKeyFromPasswordOptions{
			Output:     passwordKeyOutput,
			Salt:       passwordKeySalt,
			Force:      passwordKeyForce,
			Gitignore:  gitignoreEnabled(passwordKeyNoGitignore),
			RunOptions: runOptions(passwordKeyDryRun),
		}

		if cmd.Flags().Changed("password") {
			opts.Password = []byte(passwordKeyPassword)
		} else if !opts.DryRun {
			// Check the salt and output before asking for the password.
			if err := checkPasswordKeyPlan(cmd, opts); err != nil {
				return err
			}
			Logger.Debugf("Reading password interactively")
			p, err := utils.ReadPassword()
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
			opts.Password = p
		}
		defer utils.Wipe(opts.Password)

		if opts.DryRun {
			result, err := workflows.GenerateKeyFromPassword(cmd.Context(), opts)
			if err != nil {
				return Logger.ErrorfAndReturn("dry run failed: %v", err)
			}
			printReport(result.Report)
			return nil
		}

		s, cleanup := startSpinner("Deriving key...")
		defer cleanup()

		result, err := workflows.GenerateKeyFromPassword(cmd.Context(), opts)
		if err != nil {
			return fail(s, "generate key", err)
		}

		warnAudit(result.Outcome)
		Logger.Infof("Key written to %s", result.KeyFile)
		msg := ui.SuccessLine("Key written to " + ui.Path.Sprint(result.KeyFile))
		if result.SaltGenerated {
			msg += "\n" + ui.HintLine("Generated salt: "+ui.Code.Sprint(result.Salt)) +
				"\n" + ui.Indent("Pass it with "+ui.Flag.Sprint("--salt")+" to derive the same key again", 2)
		}
		s.FinalMSG = msg + gitignoreLine(&result.GenerateKeyResult)
		return nil
	},
}

// checkPasswordKeyPlan validates opts without writing anything and prints
// the failed checks.
func checkPasswordKeyPlan(cmd *cobra.Command, opts workflows.GenerateKeyFromPasswordOptions) error {
	opts.DryRun = true
	result, err := workflows.GenerateKeyFromPassword(cmd.Context(), opts)
	if err != nil {
		return Logger.ErrorfAndReturn("failed to check preconditions: %v", err)
	}
	if err := result.Plan.Err(); err != nil {
		fmt.Print(ui.EnsureNewline(failureMessage("generate key", err)))
		return reported(err)
	}
	return nil
}
