//go:build windows

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// SystemDir returns the Windows system directory, e.g. C:\Windows\System32.
func SystemDir() (string, error) {
	dir, err := windows.GetSystemDirectory()
	if err != nil {
		return "", fmt.Errorf("getting system directory: %w", err)
	}
	return dir, nil
}

// AppDataDir returns the roaming application data folder.
func AppDataDir() (string, error) {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_RoamingAppData, windows.KF_FLAG_DEFAULT)
	if err != nil {
		return "", fmt.Errorf("getting roaming app data folder: %w", err)
	}
	return dir, nil
}
