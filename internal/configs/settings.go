package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigEnvVar overrides the default config location.
const ConfigEnvVar = "ENVCLOAK_CONFIG"

// ConfigPath resolves the config file location: the explicit path if set,
// then $ENVCLOAK_CONFIG, then envcloak/config.toml under the user config dir.
func ConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}

	return filepath.Join(configDir, "envcloak", "config.toml"), nil
}
