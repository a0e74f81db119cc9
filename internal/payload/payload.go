// Package payload provides the files shipped with the installer: the mod
// module, the support module and the executable patches.
package payload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ModModule is the payload name of the mod library.
const ModModule = "hachimi.dll"

// DefaultDirName is the payload folder looked up next to the installer binary.
const DefaultDirName = "payload"

// ErrNotFound is returned when a payload is not shipped.
var ErrNotFound = errors.New("payload not found")

// Provider reads payload files by name.
type Provider interface {
	Read(name string) ([]byte, error)
}

// Dir serves payloads from a directory on disk.
type Dir string

func (d Dir) Read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(string(d), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading payload %s: %w", name, err)
	}
	return data, nil
}

// FS serves payloads from any fs.FS, e.g. an embed.FS.
type FS struct {
	FS fs.FS
}

func (p FS) Read(name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(p.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading payload %s: %w", name, err)
	}
	return data, nil
}

// DefaultDir returns the payload folder next to the running executable.
func DefaultDir() (Dir, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return Dir(filepath.Join(filepath.Dir(exe), DefaultDirName)), nil
}

// checkName rejects names that would escape the payload root.
func checkName(name string) error {
	if name == "" || !fs.ValidPath(filepath.ToSlash(name)) || filepath.Base(name) != name {
		return fmt.Errorf("invalid payload name %q", name)
	}
	return nil
}
