// Package sysinfo wraps the operating system facilities the installer
// depends on: well-known directories, the DLL redirection registry flag and
// the running-process check.
package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// IsProcessRunning reports whether a process with the given executable name
// is running. Names are compared case-insensitively.
func IsProcessRunning(ctx context.Context, name string) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("listing processes: %w", err)
	}
	for _, p := range procs {
		procName, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited or inaccessible
			continue
		}
		if sameProcessName(procName, name) {
			return true, nil
		}
	}
	return false, nil
}

func sameProcessName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
