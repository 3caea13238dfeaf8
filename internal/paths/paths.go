// Package paths provides file locations for pickr.
//
// Lookup order for the config file (first found wins):
//  1. ./.config/pickr/config.yaml (local project config)
//  2. $XDG_CONFIG_HOME/pickr/config.yaml, or ~/.config/pickr/config.yaml
//
// Logs are written under the data directory:
// $XDG_DATA_HOME/pickr or ~/.local/share/pickr.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "pickr"

// localAppData returns %LOCALAPPDATA%\pickr on Windows.
func localAppData() string {
	dir := os.Getenv("LOCALAPPDATA")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(dir, appName)
}

// ConfigDir returns the user config directory.
//
// Unix (macOS, Linux): $XDG_CONFIG_HOME/pickr, falling back to ~/.config/pickr
// Windows: %LOCALAPPDATA%\pickr
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return localAppData()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the user data directory.
//
// Unix (macOS, Linux): $XDG_DATA_HOME/pickr, falling back to ~/.local/share/pickr
// Windows: %LOCALAPPDATA%\pickr
func DataDir() string {
	if runtime.GOOS == "windows" {
		return localAppData()
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigFile returns the path to the user config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogFile returns the default log file path.
func LogFile() string {
	return filepath.Join(DataDir(), "logs", appName+".log")
}

// LocalConfigFile returns the project-local config file (./.config/pickr/config.yaml).
// Returns empty string if the working directory is unknown or on Windows.
func LocalConfigFile() string {
	if runtime.GOOS == "windows" {
		return ""
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(wd, ".config", appName, "config.yaml")
}

// FindConfigFile returns the first existing config file in lookup order, or
// the user config path when none exists.
func FindConfigFile() string {
	for _, p := range []string{LocalConfigFile(), ConfigFile()} {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ConfigFile()
}
