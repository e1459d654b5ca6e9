package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every PASSVAULT_ env var that Load() reads.
var allConfigKeys = []string{
	"PASSVAULT_DB_PATH",
	"PASSVAULT_TEST_MODE",
	"PASSVAULT_KEYRING",
	"PASSVAULT_LOG_LEVEL",
}

// isolateConfigEnv saves and unsets all PASSVAULT_ env vars so tests don't
// inherit values from the host environment.
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_DB_PATH", "/tmp/vault/test.db")
	t.Setenv("PASSVAULT_TEST_MODE", "true")
	t.Setenv("PASSVAULT_KEYRING", "off")
	t.Setenv("PASSVAULT_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/vault/test.db", cfg.DBPath)
	assert.True(t, cfg.TestMode)
	assert.False(t, cfg.KeyringEnabled)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pass-cli", "passwords.db"), cfg.DBPath)
	assert.False(t, cfg.TestMode)
	assert.True(t, cfg.KeyringEnabled)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestLoad_InvalidTestMode(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_TEST_MODE", "maybe")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_TEST_MODE")
}

func TestLoad_InvalidKeyring(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_KEYRING", "sometimes")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_KEYRING")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PASSVAULT_LOG_LEVEL", "chatty")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSVAULT_LOG_LEVEL")
}
