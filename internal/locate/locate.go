// Package locate finds game installations for every known distribution.
package locate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/source/dmm"
	"github.com/hachimi-installer/hachimi-installer/internal/source/steam"
)

// Locator runs the per-distribution detection probes.
type Locator struct {
	AppDataDir     string   // roaming app-data dir holding the launcher config
	SteamLibraries []string // candidate Steam library paths
}

// New creates a Locator using the default Steam discovery plus any extra
// library paths.
func New(appDataDir string, extraLibraries ...string) *Locator {
	return &Locator{
		AppDataDir:     appDataDir,
		SteamLibraries: steam.DefaultDiscovery(extraLibraries...).Libraries(),
	}
}

// Detection holds the result of every probe. An empty string means the
// distribution was not found.
type Detection struct {
	DMM         string
	Steam       string
	SteamGlobal string
}

// Dir returns the detected directory of d.
func (d Detection) Dir(dist domain.Distribution) (string, bool) {
	var dir string
	switch dist {
	case domain.DistDMM:
		dir = d.DMM
	case domain.DistSteam:
		dir = d.Steam
	case domain.DistSteamGlobal:
		dir = d.SteamGlobal
	}
	return dir, dir != ""
}

// Found lists the detected installations in detection order.
func (d Detection) Found() []domain.Installation {
	var found []domain.Installation
	for _, dist := range domain.AllDistributions() {
		if dir, ok := d.Dir(dist); ok {
			found = append(found, domain.Installation{Distribution: dist, Dir: dir})
		}
	}
	return found
}

// Ambiguous reports whether more than one installation was detected.
func (d Detection) Ambiguous() bool {
	return len(d.Found()) > 1
}

// DetectChannelA finds the launcher build through the launcher config.
func (l *Locator) DetectChannelA() (string, bool) {
	if l.AppDataDir == "" {
		return "", false
	}
	return dmm.DetectInstallDir(l.AppDataDir, dmm.ProductID)
}

// DetectChannelB finds the Japanese storefront build.
func (l *Locator) DetectChannelB() (string, bool) {
	return l.detectSteam(domain.DistSteam)
}

// DetectSteamGlobal finds the global storefront build.
func (l *Locator) DetectSteamGlobal() (string, bool) {
	return l.detectSteam(domain.DistSteamGlobal)
}

// Detect runs the probe for a single distribution.
func (l *Locator) Detect(dist domain.Distribution) (string, bool) {
	switch dist {
	case domain.DistDMM:
		return l.DetectChannelA()
	case domain.DistSteam:
		return l.DetectChannelB()
	case domain.DistSteamGlobal:
		return l.DetectSteamGlobal()
	default:
		return "", false
	}
}

// DetectAll runs every probe independently.
func (l *Locator) DetectAll() Detection {
	var d Detection
	d.DMM, _ = l.DetectChannelA()
	d.Steam, _ = l.DetectChannelB()
	d.SteamGlobal, _ = l.DetectSteamGlobal()
	return d
}

func (l *Locator) detectSteam(dist domain.Distribution) (string, bool) {
	return steam.FindAppInstall(l.SteamLibraries, dist.SteamAppID(), dist.SteamFolder(), dist.ExeName())
}

// Validate identifies the distribution installed in dir by its executable.
// A directory without a recognized executable is rejected.
func Validate(dir string) (domain.Distribution, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return domain.DistUnknown, fmt.Errorf("%w: %s", domain.ErrInvalidInstallDir, dir)
	}
	if !info.IsDir() {
		return domain.DistUnknown, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInstallDir, dir)
	}

	for _, dist := range domain.AllDistributions() {
		exe, err := os.Stat(filepath.Join(dir, dist.ExeName()))
		if err == nil && exe.Mode().IsRegular() {
			return dist, nil
		}
	}
	return domain.DistUnknown, fmt.Errorf("%w: %s", domain.ErrInvalidInstallDir, dir)
}
