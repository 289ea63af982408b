package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage envcloak configuration",
	Long: `Provides commands for managing the envcloak configuration file.

The file is read from --config, else $ENVCLOAK_CONFIG, else
<user config dir>/envcloak/config.toml. A missing file means defaults.

Examples:
  # Write the default configuration
  envcloak config init

  # Show the effective configuration
  envcloak config show`,
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}

// ResetConfigState resets all config command global variables to their default values for testing.
func ResetConfigState() {
	resetConfigInitState()
	resetConfigShowState()
	resetCobraFlagState(ConfigCmd)
}
