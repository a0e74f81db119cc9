//go:build !windows

package sysinfo

import "github.com/hachimi-installer/hachimi-installer/internal/domain"

// DevOverride is unavailable outside Windows; every call fails with
// domain.ErrUnsupported.
type DevOverride struct{}

func (DevOverride) Get() (uint32, error) {
	return 0, domain.ErrUnsupported
}

func (DevOverride) Set(uint32) error {
	return domain.ErrUnsupported
}
