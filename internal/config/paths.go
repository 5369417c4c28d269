package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading ~ with the current user's home directory.
// ~user forms are returned unchanged.
func ExpandTilde(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/') {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// GlobalConfigPath returns ~/.config/sysdash/config.yaml, or "" without a home directory.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// resolveLogFile expands ~ in log.file and anchors relative paths to the
// directory of the config file that named them. Without a config file,
// relative paths stay relative to the working directory.
func resolveLogFile(file, configPath string) string {
	if file == "" {
		return ""
	}
	file = ExpandTilde(file)
	if filepath.IsAbs(file) || configPath == "" {
		return file
	}
	return filepath.Join(filepath.Dir(configPath), file)
}
