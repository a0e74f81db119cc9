//go:build !windows

package sysinfo

import (
	"os"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
)

// SystemDir has no equivalent outside Windows.
func SystemDir() (string, error) {
	return "", domain.ErrUnsupported
}

// AppDataDir returns APPDATA when set (e.g. under Wine), otherwise the user
// config dir.
func AppDataDir() (string, error) {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return dir, nil
	}
	return os.UserConfigDir()
}
