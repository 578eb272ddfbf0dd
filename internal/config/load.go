package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfig names a config file when -config is not given.
	EnvConfig = "BALALA_CONFIG"

	localFile = "balala.yaml"
	userFile  = "config.yaml"
)

// Load builds the config from defaults, then the first config file found,
// then command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := lookupConfigFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.Source = path
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// lookupConfigFile returns the file Load reads: -config, then
// $BALALA_CONFIG, then the first standard location that exists. A path
// the user named is returned even if it does not exist.
func lookupConfigFile() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile returns ./balala.yaml or the user config file, whichever
// exists first.
func findConfigFile() string {
	for _, path := range []string{localFile, filepath.Join(ConfigDir(), userFile)} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the balala directory under the OS user config
// directory ($XDG_CONFIG_HOME on Linux, Application Support on macOS,
// %AppData% on Windows).
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), ".config")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(dir, "balala")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
