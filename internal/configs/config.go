package configs

import (
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
)

// Config is the on-disk envcloak configuration.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Audit    Audit    `toml:"audit"`
}

// Defaults holds command defaults that flags can override.
type Defaults struct {
	// Extension is the suffix given to encrypted files.
	Extension string `toml:"extension"`

	// Workers bounds directory-mode parallelism.
	Workers int `toml:"workers"`

	// Gitignore adds generated key files to .gitignore.
	Gitignore bool `toml:"gitignore"`
}

// Audit configures the audit trail.
type Audit struct {
	// Path is the JSONL audit log. Empty disables auditing.
	Path string `toml:"path"`
}

const (
	DefaultExtension = ".enc"
	DefaultWorkers   = 4
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			Extension: DefaultExtension,
			Workers:   DefaultWorkers,
			Gitignore: true,
		},
	}
}

// LoadConfig loads the configuration at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes config to path.
func SaveConfig(path string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate reports values no command could work with.
func (c *Config) Validate() error {
	ext := c.Defaults.Extension
	if ext == "" || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
		return fmt.Errorf("%w: extension %q must start with a dot and contain no path separators", kerrors.ErrInvalidConfig, ext)
	}
	if c.Defaults.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", kerrors.ErrInvalidConfig, c.Defaults.Workers)
	}
	return nil
}
