package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config path constants used by the CLI and loaders.
const (
	ConfigDirName  = ".ragclass"
	ConfigFileName = "config.yml"
)

// ErrConfigNotFound is returned when no config file exists in the search path.
var ErrConfigNotFound = errors.New("config not found")

// ConfigDir returns the .ragclass directory under the project root.
func ConfigDir(root string) string {
	return filepath.Join(root, ConfigDirName)
}

// ConfigPath returns the full config file path under the project root.
func ConfigPath(root string) string {
	return filepath.Join(ConfigDir(root), ConfigFileName)
}

// RootFromConfigPath derives the project root from a config file path.
func RootFromConfigPath(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ConfigDirName {
		return filepath.Dir(dir)
	}
	return dir
}

// FindConfigPath walks from startDir (or the working directory) toward the
// filesystem root and returns the first .ragclass/config.yml it finds. A
// .ragclass directory holding only local state does not stop the walk.
func FindConfigPath(startDir string) (string, error) {
	start, err := searchStart(startDir)
	if err != nil {
		return "", err
	}
	for dir := start; ; {
		candidate := ConfigPath(dir)
		switch info, statErr := os.Stat(candidate); {
		case statErr == nil && info.IsDir():
			return "", fmt.Errorf("config path %q is a directory", candidate)
		case statErr == nil:
			return candidate, nil
		case !errors.Is(statErr, fs.ErrNotExist):
			return "", fmt.Errorf("stat config path %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or its parents", ErrConfigNotFound, filepath.Join(ConfigDirName, ConfigFileName), start)
		}
		dir = parent
	}
}

func searchStart(startDir string) (string, error) {
	if dir := strings.TrimSpace(startDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve start directory: %w", err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}
