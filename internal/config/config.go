// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath         string
	TestMode       bool
	KeyringEnabled bool
	LogLevel       slog.Level
}

// DefaultDBPath returns ~/.pass-cli/passwords.db for the current user.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".pass-cli", "passwords.db"), nil
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: PASSVAULT_DB_PATH (~/.pass-cli/passwords.db),
// PASSVAULT_TEST_MODE (false), PASSVAULT_KEYRING (on), PASSVAULT_LOG_LEVEL (warn).
func Load() (*Config, error) {
	dbPath := ""
	if v, ok := os.LookupEnv("PASSVAULT_DB_PATH"); ok && v != "" {
		dbPath = v
	} else {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	testMode := false
	if v, ok := os.LookupEnv("PASSVAULT_TEST_MODE"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PASSVAULT_TEST_MODE has invalid boolean %q: %w", v, err)
		}
		testMode = parsed
	}

	keyringEnabled := true
	if v, ok := os.LookupEnv("PASSVAULT_KEYRING"); ok && v != "" {
		switch strings.ToLower(v) {
		case "on", "true", "1":
			keyringEnabled = true
		case "off", "false", "0":
			keyringEnabled = false
		default:
			return nil, fmt.Errorf("PASSVAULT_KEYRING must be on or off, got %q", v)
		}
	}

	logLevel := slog.LevelWarn
	if v, ok := os.LookupEnv("PASSVAULT_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("PASSVAULT_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		DBPath:         dbPath,
		TestMode:       testMode,
		KeyringEnabled: keyringEnabled,
		LogLevel:       logLevel,
	}, nil
}
