//go:build windows

package sysinfo

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const (
	ifeoKeyPath       = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Image File Execution Options`
	devOverrideEnable = "DevOverrideEnable"
)

// DevOverride reads and writes the DevOverrideEnable flag that turns on
// .local DLL redirection machine-wide.
type DevOverride struct{}

// Get returns the flag value. A missing or non-integer value reads as 0.
func (DevOverride) Get() (uint32, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, ifeoKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return 0, fmt.Errorf("opening IFEO registry key: %w", err)
	}
	defer key.Close()

	val, _, err := key.GetIntegerValue(devOverrideEnable)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) || errors.Is(err, registry.ErrUnexpectedType) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", devOverrideEnable, err)
	}
	return uint32(val), nil
}

// Set writes the flag as a DWORD. Requires administrator rights.
func (DevOverride) Set(v uint32) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, ifeoKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening IFEO registry key: %w", err)
	}
	defer key.Close()

	if err := key.SetDWordValue(devOverrideEnable, v); err != nil {
		return fmt.Errorf("writing %s: %w", devOverrideEnable, err)
	}
	return nil
}
