// Package config loads and saves the installer's YAML settings.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ParseConfigPath validates a --config argument and returns it cleaned. The
// path must be absolute, free of "..", and name an existing .yaml or .yml
// file.
func ParseConfigPath(path string) (string, error) {
	switch {
	case path == "":
		return "", errors.New("config path cannot be empty")
	case !filepath.IsAbs(path):
		return "", errors.New("config path must be absolute")
	case strings.Contains(path, ".."):
		return "", errors.New("config path contains invalid traversal")
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errors.New("config file does not exist")
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("config path is a directory, not a file")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return filepath.Clean(path), nil
	default:
		return "", errors.New("config file must have .yaml or .yml extension")
	}
}
