package steam

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hachimi-installer/hachimi-installer/internal/fsops"
)

const keyAutoUpdateBehavior = "AutoUpdateBehavior"

// AutoUpdateOnLaunch is the AutoUpdateBehavior value for "only update this
// game when I launch it".
const AutoUpdateOnLaunch = "1"

// ManifestPath returns the app manifest path inside a steamapps folder.
func ManifestPath(steamapps, appID string) string {
	return filepath.Join(steamapps, fmt.Sprintf("appmanifest_%s.acf", appID))
}

// BackupPath returns where the original manifest is kept while the
// auto-update setting is overridden.
func BackupPath(manifest string) string {
	return manifest + ".bak"
}

// FindSteamappsDir walks up from a game install directory and returns the
// first ancestor's steamapps folder.
func FindSteamappsDir(installDir string) (string, bool) {
	current := filepath.Clean(installDir)
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		candidate := filepath.Join(parent, "steamapps")
		if isDir(candidate) {
			return candidate, true
		}
		current = parent
	}
}

// ReadAutoUpdateBehavior returns the manifest's AutoUpdateBehavior value, or
// "" when the key is absent.
func ReadAutoUpdateBehavior(manifest string) (string, error) {
	data, err := os.ReadFile(manifest)
	if err != nil {
		return "", err
	}
	m, err := ParseAppManifest(string(data))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", filepath.Base(manifest), err)
	}
	return m.AutoUpdateBehavior, nil
}

// SetAutoUpdateOnLaunch rewrites the manifest's AutoUpdateBehavior line to
// AutoUpdateOnLaunch. The original manifest is copied to BackupPath first,
// unless a backup already exists. It reports whether the file changed.
func SetAutoUpdateOnLaunch(manifest string) (bool, error) {
	data, err := os.ReadFile(manifest)
	if err != nil {
		return false, err
	}
	content := string(data)

	if m, err := ParseAppManifest(content); err == nil && m.AutoUpdateBehavior == AutoUpdateOnLaunch {
		return false, nil
	}
	line, ok := findSettingLine(content)
	if !ok {
		return false, nil
	}
	replacement := settingLine(line, AutoUpdateOnLaunch)

	backup := BackupPath(manifest)
	exists, err := fsops.Exists(backup)
	if err != nil {
		return false, fmt.Errorf("checking manifest backup: %w", err)
	}
	if !exists {
		if err := fsops.Copy(manifest, backup); err != nil {
			return false, fmt.Errorf("backing up manifest: %w", err)
		}
	}

	updated := strings.Replace(content, line, replacement, 1)
	if err := fsops.ReplaceFile(manifest, []byte(updated), 0644); err != nil {
		return false, err
	}
	return true, nil
}

// HasBackup reports whether a manifest backup is present.
func HasBackup(manifest string) bool {
	return isFile(BackupPath(manifest))
}

// RestoreAutoUpdate puts the AutoUpdateBehavior line from the backup back into
// the live manifest and removes the backup. Other edits Steam made to the
// live manifest since the backup are kept. It reports whether anything was
// restored.
func RestoreAutoUpdate(manifest string) (bool, error) {
	backup := BackupPath(manifest)
	backupData, err := os.ReadFile(backup)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	liveData, err := os.ReadFile(manifest)
	if err != nil {
		return false, err
	}

	original, ok := findSettingLine(string(backupData))
	if !ok {
		return false, nil
	}
	current, ok := findSettingLine(string(liveData))
	if !ok {
		return false, nil
	}

	updated := strings.Replace(string(liveData), current, original, 1)
	if err := fsops.ReplaceFile(manifest, []byte(updated), 0644); err != nil {
		return false, err
	}
	if err := os.Remove(backup); err != nil {
		return true, fmt.Errorf("removing manifest backup: %w", err)
	}
	return true, nil
}

// findSettingLine returns the full line holding the AutoUpdateBehavior key,
// without its line terminator.
func findSettingLine(content string) (string, bool) {
	quoted := `"` + keyAutoUpdateBehavior + `"`
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, quoted) {
			return strings.TrimSuffix(line, "\r"), true
		}
	}
	return "", false
}

// settingLine rebuilds line with value, keeping its indentation.
func settingLine(line, value string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return fmt.Sprintf("%s\"%s\"\t\t\"%s\"", indent, keyAutoUpdateBehavior, value)
}
