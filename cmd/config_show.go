package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/envcloak/internal/configs"
	"github.com/PolarWolf314/envcloak/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays the configuration envcloak is using, with defaults filled in for
anything the file leaves out.

Examples:
  envcloak config show
  envcloak config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		cfg := Config
		if cfg == nil {
			cfg = configs.DefaultConfig()
		}

		if configShowJSON {
			out := map[string]interface{}{
				"path":      ConfigFile,
				"extension": cfg.Defaults.Extension,
				"workers":   cfg.Defaults.Workers,
				"gitignore": cfg.Defaults.Gitignore,
				"audit":     cfg.Audit.Path,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to encode config: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		source := ui.Muted.Sprint("defaults, no file")
		if _, err := os.Stat(ConfigFile); err == nil {
			source = ui.Path.Sprint(ConfigFile)
		}

		encoded, err := configs.EncodeTOML(cfg)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to encode config: %v", err)
		}

		fmt.Println("Config: " + source)
		fmt.Print(ui.EnsureNewline(encoded))
		return nil
	},
}
