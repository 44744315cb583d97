package config

import (
	"os"
	"path/filepath"
	"strings"
)

const envConfigDir = "CARDVAULT_CONFIG_DIR"

// Dir is where settings, bindings, the log file and the default database live.
// CARDVAULT_CONFIG_DIR overrides the platform config directory.
func Dir() string {
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, "cardvault")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".cardvault")
	}
	return ".cardvault"
}

// DefaultDatabasePath is used when neither the flag nor the settings name one.
func DefaultDatabasePath() string {
	return filepath.Join(Dir(), "cardvault.db")
}

// LogPath is where the program logs while the terminal is in alt-screen mode.
func LogPath() string {
	return filepath.Join(Dir(), "cardvault.log")
}
