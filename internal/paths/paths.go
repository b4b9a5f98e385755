// Package paths resolves where soundboard keeps its config and data.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "soundboard"

// Names of files under the config and data directories.
const (
	ConfigFileName = "config.yaml"
	DBFileName     = "soundboard.db"
	LogFileName    = "soundboard.log"
	RecordingsDir  = "recordings"
)

// ConfigDir returns $XDG_CONFIG_HOME/soundboard, falling back to
// ~/.config/soundboard.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".config", appName)
}

// DataDir returns $XDG_DATA_HOME/soundboard, falling back to
// ~/.local/share/soundboard.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// DBPath returns the database path: configured if set (with ~ expanded),
// otherwise the default under DataDir.
func DBPath(configured string) string {
	if configured == "" {
		return filepath.Join(DataDir(), DBFileName)
	}
	return ExpandHome(configured)
}

// RecordingsPath returns the directory CLI recordings are written to.
func RecordingsPath() string {
	return filepath.Join(DataDir(), RecordingsDir)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
