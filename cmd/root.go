package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/envcloak/internal/configs"
	logger "github.com/PolarWolf314/envcloak/internal/logging"
	"github.com/PolarWolf314/envcloak/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configFlag string
	Logger     logger.Logger

	// Config is the effective configuration, loaded before every command.
	Config     *configs.Config
	ConfigFile string

	RootCmd = &cobra.Command{
		Use:   "envcloak",
		Short: "Encrypt .env and other secret files with a symmetric key",
		Long: `envcloak encrypts configuration and secret files with AES-256-GCM.

Keys are 32 random bytes or derived from a password with scrypt. Every
command that writes files has a --dry-run mode that runs the same checks
and prints what would happen without touching the filesystem.

Examples:
  # Create a key and encrypt a file with it
  envcloak generate-key -o project.key
  envcloak encrypt -i .env -k project.key

  # Check what a directory decryption would do
  envcloak decrypt --directory secrets -o plain -k project.key --dry-run

  # Move a file to a new key
  envcloak rotate-keys -i .env.enc --old-key-file old.key --new-key-file new.key`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)

			if debug {
				cmd.Flags().VisitAll(func(f *pflag.Flag) {
					if f.Changed && f.Name != "password" {
						Logger.Debugf("Flag --%s=%s", f.Name, f.Value.String())
					}
				})
			}

			path, err := configs.ConfigPath(configFlag)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to locate config: %v", err)
			}
			ConfigFile = path

			Logger.Debugf("Loading config from %s", path)
			cfg, err := configs.LoadConfig(path)
			if err != nil {
				return Logger.ErrorfAndReturn("%v", err)
			}
			Config = cfg
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default $ENVCLOAK_CONFIG or <user config dir>/envcloak/config.toml)")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(generateKeyCmd)
	RootCmd.AddCommand(generateKeyFromPasswordCmd)
	RootCmd.AddCommand(rotateKeysCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// reportedError marks an error whose message was already printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// reported returns err so that Execute does not print it again.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// Execute runs the root command and prints any error not already shown.
func Execute() error {
	err := RootCmd.Execute()
	if err == nil {
		return nil
	}

	var r reportedError
	if !errors.As(err, &r) {
		fmt.Fprint(os.Stderr, ui.EnsureNewline(ui.ErrorLine(err.Error())))
	}
	return err
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configFlag = ""
	Config = nil
	ConfigFile = ""
	resetEncryptState()
	resetDecryptState()
	resetGenerateKeyState()
	resetGenerateKeyFromPasswordState()
	resetRotateKeysState()
	ResetConfigState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears Changed on every flag of c and its children so
// flag group checks start fresh.
func resetCobraFlagState(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetCobraFlagState(child)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
