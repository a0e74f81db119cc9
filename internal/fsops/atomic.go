// Package fsops provides the file operations used when placing modules and
// patching executables.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempSuffix is appended to the target name for the staging file.
const TempSuffix = ".tmp"

// renameFile is swapped in tests to simulate a crash around the rename.
var renameFile = os.Rename

// TempPath returns the staging path used by ReplaceFile for target.
func TempPath(target string) string {
	return target + TempSuffix
}

// ReplaceFile writes data to a temporary file beside target and renames it
// over target. The final path only ever holds the old content or the complete
// new content. A stale temporary file from an earlier attempt is overwritten.
func ReplaceFile(target string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := TempPath(target)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := renameFile(tmp, target); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(target), err)
	}
	return nil
}
