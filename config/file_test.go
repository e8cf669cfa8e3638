package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setHome points HOME at a fresh temporary directory.
func setHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	return tmpDir
}

// writeConfig writes content to ~/.songlog/config.yaml under home.
func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".songlog")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	setHome(t)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, `storage:
  dsn: "/path/to/songlog.db"
watcher:
  start_url: "https://music.youtube.com/library"
  settle_delay: "500ms"
  headless: true
api:
  addr: ":9000"
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/path/to/songlog.db", cfg.Storage.DSN)
	assert.Equal(t, "https://music.youtube.com/library", cfg.Watcher.StartURL)
	assert.Equal(t, "500ms", cfg.Watcher.SettleDelay)
	require.NotNil(t, cfg.Watcher.Headless)
	assert.True(t, *cfg.Watcher.Headless)
	assert.Nil(t, cfg.Watcher.Stealth)
	assert.Equal(t, ":9000", cfg.API.Addr)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, `storage:
  - this is invalid yaml because storage should be an object not a list
`)

	cfg, err := LoadConfigFile()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfigFilePath(t *testing.T) {
	home := setHome(t)

	path, err := ConfigFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".songlog", "config.yaml"), path)
}

// TestWriteDefaultConfigFile verifies the defaults round-trip through the
// written file
func TestWriteDefaultConfigFile(t *testing.T) {
	home := setHome(t)

	written, err := WriteDefaultConfigFile(false)
	require.NoError(t, err)
	assert.True(t, written)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, filepath.Join(home, ".songlog", "songlog.db"), cfg.Storage.DSN)
	assert.Equal(t, Defaults().StartURL, cfg.Watcher.StartURL)
	assert.Equal(t, "2s", cfg.Watcher.SettleDelay)
	assert.Equal(t, Defaults().APIAddr, cfg.API.Addr)
}

// TestWriteDefaultConfigFile_Existing verifies an existing file is kept
// unless forced
func TestWriteDefaultConfigFile_Existing(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, "api:\n  addr: \":1234\"\n")

	written, err := WriteDefaultConfigFile(false)
	require.NoError(t, err)
	assert.False(t, written)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.API.Addr)

	written, err = WriteDefaultConfigFile(true)
	require.NoError(t, err)
	assert.True(t, written)

	cfg, err = LoadConfigFile()
	require.NoError(t, err)
	assert.Equal(t, Defaults().APIAddr, cfg.API.Addr)
}
