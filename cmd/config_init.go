package cmd

import (
	"os"

	"github.com/PolarWolf314/envcloak/internal/configs"
	"github.com/PolarWolf314/envcloak/internal/planner"
	"github.com/PolarWolf314/envcloak/internal/ui"

	"github.com/spf13/cobra"
)

var (
	configInitForce  bool
	configInitDryRun bool
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	addDryRunFlag(configInitCmd, &configInitDryRun)
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
	configInitDryRun = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Writes the default configuration to the config file location.

An existing file is kept unless --force is given.

Examples:
  envcloak config init
  envcloak --config ./envcloak.toml config init --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		path := ConfigFile

		_, err := os.Stat(path)
		exists := err == nil
		Logger.Debugf("Config file %s exists: %t", path, exists)

		if configInitDryRun {
			switch {
			case exists && !configInitForce:
				printReport(planner.FailedMessage + "\n  - Output path already exists: " + path)
			case exists:
				printReport(planner.PassedMessage + "\nWould overwrite " + path + " with the default configuration")
			default:
				printReport(planner.PassedMessage + "\nWould write the default configuration to " + path)
			}
			return nil
		}

		if exists && !configInitForce {
			msg := ui.ErrorLine("Config file already exists: "+ui.Path.Sprint(path)) + "\n" +
				ui.HintLine("Use "+ui.Flag.Sprint("--force")+" to replace it")
			return reported(printFailure(msg))
		}

		if err := configs.SaveConfig(path, configs.DefaultConfig()); err != nil {
			return Logger.ErrorfAndReturn("failed to write config: %v", err)
		}

		Logger.Infof("Config written to %s", path)
		printReport(ui.SuccessLine("Config written to " + ui.Path.Sprint(path)))
		return nil
	},
}
