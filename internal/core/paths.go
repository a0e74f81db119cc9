package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
)

// DataDirName is the mod's data folder inside the install directory. The
// plugin-shim holding copy lives there too.
const DataDirName = "hachimi"

// BackupSuffix is appended to the executable name for its pre-patch backup.
const BackupSuffix = ".bak"

// TargetPath returns where t's module lives for the active distribution,
// using the default file name.
func (i *Installer) TargetPath(t domain.Target) (string, error) {
	if err := i.requireDir(); err != nil {
		return "", err
	}
	if domain.MethodFor(t, i.dist) == domain.MethodPluginShim && i.systemDir == "" {
		return "", fmt.Errorf("%w: system directory unknown for %s", domain.ErrUnsupported, t.FileName())
	}
	return i.targetPathFor(t, t.FileName()), nil
}

// CurrentTargetPath returns the path of the selected target, honoring a
// custom target name or absolute path.
func (i *Installer) CurrentTargetPath() (string, error) {
	if err := i.requireDir(); err != nil {
		return "", err
	}
	if i.customTarget == "" {
		return i.TargetPath(i.target)
	}
	if filepath.IsAbs(i.customTarget) {
		return i.customTarget, nil
	}
	if err := i.requireSystemDir(); err != nil {
		return "", err
	}
	return i.targetPathFor(i.target, i.customTarget), nil
}

func (i *Installer) targetPathFor(t domain.Target, name string) string {
	switch domain.MethodFor(t, i.dist) {
	case domain.MethodPluginShim:
		return filepath.Join(i.systemDir, name)
	case domain.MethodDirectReplace:
		return filepath.Join(i.dir, name)
	default:
		return filepath.Join(i.redirectDir(), name)
	}
}

// requireSystemDir fails for plugin-shim targets when the system directory
// is unknown and no absolute custom path was given.
func (i *Installer) requireSystemDir() error {
	if i.Method() != domain.MethodPluginShim || i.systemDir != "" || filepath.IsAbs(i.customTarget) {
		return nil
	}
	return fmt.Errorf("%w: system directory unknown for %s", domain.ErrUnsupported, i.target.FileName())
}

// redirectDir is the <exe>.local folder the loader searches first.
func (i *Installer) redirectDir() string {
	return filepath.Join(i.dir, i.dist.ExeName()+".local")
}

// HoldingPath is where the displaced vendor plugin is kept.
func (i *Installer) HoldingPath() (string, error) {
	if err := i.requireDir(); err != nil {
		return "", err
	}
	return filepath.Join(i.dir, DataDirName, i.target.FileName()), nil
}

// ScanPath is where the engine loads the vendor plugin from.
func (i *Installer) ScanPath() (string, error) {
	if err := i.requireDir(); err != nil {
		return "", err
	}
	return filepath.Join(i.dir, i.dist.DataDirName(), "Plugins", "x86_64", i.target.FileName()), nil
}

// DataDir is the mod's data folder.
func (i *Installer) DataDir() (string, error) {
	if err := i.requireDir(); err != nil {
		return "", err
	}
	return filepath.Join(i.dir, DataDirName), nil
}

// ExePath is the main executable of the active distribution.
func (i *Installer) ExePath() (string, error) {
	if err := i.requireDir(); err != nil {
		return "", err
	}
	return filepath.Join(i.dir, i.dist.ExeName()), nil
}

// VersionInfo probes the module at t's default path. Nil means the file is
// absent or there is no install directory.
func (i *Installer) VersionInfo(t domain.Target) *domain.ModuleVersionInfo {
	path, err := i.TargetPath(t)
	if err != nil {
		return nil
	}
	return i.prober.Probe(path)
}

// InstalledModTarget returns the first target whose module is the mod.
func (i *Installer) InstalledModTarget() (domain.Target, bool) {
	for _, t := range domain.AllTargets() {
		if i.VersionInfo(t).IsMod() {
			return t, true
		}
	}
	return domain.TargetUnityPlayer, false
}

// IsTargetInstalled reports whether a regular file exists at the current
// target path.
func (i *Installer) IsTargetInstalled() bool {
	path, err := i.CurrentTargetPath()
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DisplayLabel renders the list entry for t.
func (i *Installer) DisplayLabel(t domain.Target) string {
	return i.VersionInfo(t).DisplayLabel(t)
}
