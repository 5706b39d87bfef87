package config

import (
	"os"
	"path/filepath"
)

// Project config file names, in lookup order.
const (
	ProjectConfigFile     = ".gh-release-changelog.yml"
	ProjectJSONConfigFile = ".gh-release-changelog.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/gh-release-changelog/config.yml
// - macOS: ~/Library/Application Support/gh-release-changelog/config.yml
// - Windows: %APPDATA%\gh-release-changelog\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gh-release-changelog", "config.yml"), nil
}

// ProjectConfigPath returns the YAML project config in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// ProjectJSONConfigPath returns the JSON project config in dir.
func ProjectJSONConfigPath(dir string) string {
	return filepath.Join(dir, ProjectJSONConfigFile)
}
