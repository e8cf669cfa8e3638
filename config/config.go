// Package config resolves runtime settings from defaults, the config file,
// and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	StorageDSN  string
	StartURL    string
	SettleDelay time.Duration
	Headless    bool
	Stealth     bool
	UserDataDir string
	APIAddr     string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		StorageDSN:  "songlog.db",
		StartURL:    "https://music.youtube.com/",
		SettleDelay: 2 * time.Second,
		Headless:    false,
		Stealth:     true,
		APIAddr:     "localhost:8787",
	}
}

// Load resolves settings with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (~/.songlog/config.yaml)
// 3. Default values (lowest priority)
//
// A config file that fails to load is returned as an error alongside the
// settings resolved without it, so callers may warn and carry on.
func Load() (Settings, error) {
	cfg, fileErr := LoadConfigFile()

	settings := Defaults()
	if cfg != nil {
		if err := settings.applyFile(cfg); err != nil {
			fileErr = err
		}
	}

	if err := settings.applyEnv(); err != nil {
		return settings, err
	}

	return settings, fileErr
}

func (s *Settings) applyFile(cfg *FileConfig) error {
	if cfg.Storage.DSN != "" {
		s.StorageDSN = cfg.Storage.DSN
	}
	if cfg.Watcher.StartURL != "" {
		s.StartURL = cfg.Watcher.StartURL
	}
	if cfg.Watcher.Headless != nil {
		s.Headless = *cfg.Watcher.Headless
	}
	if cfg.Watcher.Stealth != nil {
		s.Stealth = *cfg.Watcher.Stealth
	}
	if cfg.Watcher.UserDataDir != "" {
		s.UserDataDir = cfg.Watcher.UserDataDir
	}
	if cfg.API.Addr != "" {
		s.APIAddr = cfg.API.Addr
	}
	if cfg.Watcher.SettleDelay != "" {
		d, err := time.ParseDuration(cfg.Watcher.SettleDelay)
		if err != nil {
			return fmt.Errorf("invalid watcher.settle_delay: %w", err)
		}
		s.SettleDelay = d
	}
	return nil
}

func (s *Settings) applyEnv() error {
	if val := os.Getenv("SONGLOG_DSN"); val != "" {
		s.StorageDSN = val
	}
	if val := os.Getenv("SONGLOG_START_URL"); val != "" {
		s.StartURL = val
	}
	if val := os.Getenv("SONGLOG_SETTLE_DELAY"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid SONGLOG_SETTLE_DELAY: %w", err)
		}
		s.SettleDelay = d
	}
	if val := os.Getenv("SONGLOG_HEADLESS"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid SONGLOG_HEADLESS: %w", err)
		}
		s.Headless = b
	}
	if val := os.Getenv("SONGLOG_USER_DATA_DIR"); val != "" {
		s.UserDataDir = val
	}
	if val := os.Getenv("SONGLOG_API_ADDR"); val != "" {
		s.APIAddr = val
	}
	return nil
}
