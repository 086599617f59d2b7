package configs

import (
	"log"
	"os"
	"path/filepath"
)

// AppName names the per-user config and data directories.
const AppName = "idresign"

type UserSettings struct {
	// UserConfigsPath holds config.toml.
	UserConfigsPath string

	// UserDataPath holds the audit log.
	UserDataPath string
}

// Settings is initialized at startup and overridden by tests.
var Settings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(homeDir, ".config")
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	Settings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, AppName),
		UserDataPath:    filepath.Join(dataDir, AppName),
	}
}

// ConfigPath returns the location of the user config file.
func ConfigPath() string {
	return filepath.Join(Settings.UserConfigsPath, "config.toml")
}

// AuditLogPath returns the location of the audit log.
func AuditLogPath() string {
	return filepath.Join(Settings.UserDataPath, "audit.jsonl")
}
