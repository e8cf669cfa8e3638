package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.songlog/config.yaml.
type FileConfig struct {
	Storage struct {
		DSN string `yaml:"dsn"`
	} `yaml:"storage"`
	Watcher struct {
		StartURL    string `yaml:"start_url"`
		SettleDelay string `yaml:"settle_delay"`
		Headless    *bool  `yaml:"headless"`
		Stealth     *bool  `yaml:"stealth"`
		UserDataDir string `yaml:"user_data_dir"`
	} `yaml:"watcher"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
}

// ConfigDir returns ~/.songlog.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".songlog"), nil
}

// ConfigFilePath returns the path of the config file.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.songlog/config.yaml. Returns nil
// if the file doesn't exist (not an error). Returns error if the file exists
// but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// WriteDefaultConfigFile writes a config file populated with the defaults,
// with the database placed next to it. It reports whether a file was
// written; an existing file is only replaced when force is set.
func WriteDefaultConfigFile(force bool) (bool, error) {
	dir, err := ConfigDir()
	if err != nil {
		return false, err
	}
	configPath := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !force {
		return false, nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := Defaults()
	headless := defaults.Headless
	stealth := defaults.Stealth

	var cfg FileConfig
	cfg.Storage.DSN = filepath.Join(dir, "songlog.db")
	cfg.Watcher.StartURL = defaults.StartURL
	cfg.Watcher.SettleDelay = defaults.SettleDelay.String()
	cfg.Watcher.Headless = &headless
	cfg.Watcher.Stealth = &stealth
	cfg.API.Addr = defaults.APIAddr

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}
