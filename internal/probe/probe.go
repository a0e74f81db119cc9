// Package probe reads product metadata from the version resource of a PE
// module.
package probe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/saferwall/pe"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
)

const (
	keyProductName    = "ProductName"
	keyProductVersion = "ProductVersion"
)

// VersionReader extracts version resource strings from an image.
type VersionReader func(data []byte) (map[string]string, error)

// Prober reads module version info from files on disk.
type Prober struct {
	read VersionReader
}

// New creates a prober backed by the PE parser.
func New() *Prober {
	return &Prober{read: readPEVersion}
}

// NewWithReader creates a prober with a custom version reader.
func NewWithReader(read VersionReader) *Prober {
	return &Prober{read: read}
}

// Probe returns nil when path does not exist, an empty info when the file has
// no readable version resource, and the product name and version otherwise.
func (p *Prober) Probe(path string) *domain.ModuleVersionInfo {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &domain.ModuleVersionInfo{}
	}
	if info.IsDir() {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.ModuleVersionInfo{}
	}
	return p.ProbeBytes(data)
}

// ProbeBytes reads version info from an in-memory image. It never returns nil.
func (p *Prober) ProbeBytes(data []byte) *domain.ModuleVersionInfo {
	strs, err := p.read(data)
	if err != nil || len(strs) == 0 {
		return &domain.ModuleVersionInfo{}
	}

	var v domain.ModuleVersionInfo
	if name, ok := strs[keyProductName]; ok {
		v.Name = &name
	}
	if ver, ok := strs[keyProductVersion]; ok {
		v.Version = &ver
	}
	return &v
}

func readPEVersion(data []byte) (strs map[string]string, err error) {
	// The version walker indexes resource subdirectories without checking
	// that they have entries.
	defer func() {
		if r := recover(); r != nil {
			strs = nil
			err = fmt.Errorf("reading version resource: %v", r)
		}
	}()

	f, err := pe.NewBytes(data, &pe.Options{})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		return nil, err
	}
	return f.ParseVersionResources()
}
