// Package steam finds Steam libraries and app installs on disk and edits the
// per-app manifest that controls automatic updates.
package steam

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultWindowsRoot = `C:\Program Files (x86)\Steam`
	clientExe          = "steam.exe"
	libraryMarker      = "steam.dll"
	libraryDirName     = "SteamLibrary"
)

// Discovery describes where to look for Steam libraries.
type Discovery struct {
	// DefaultRoot is the client install dir; it counts when it holds steam.exe.
	DefaultRoot string
	// Drives are volume roots. Each contributes <drive>/SteamLibrary or the
	// drive root itself when it holds steam.dll.
	Drives []string
	// Extra are additional library paths, used when they exist.
	Extra []string
}

// DefaultDiscovery returns the search locations for the current platform,
// plus STEAM_ROOT and any extra configured libraries.
func DefaultDiscovery(extra ...string) Discovery {
	d := Discovery{}
	if p := os.Getenv("STEAM_ROOT"); p != "" {
		d.Extra = append(d.Extra, p)
	}

	if runtime.GOOS == "windows" {
		d.DefaultRoot = defaultWindowsRoot
		for letter := 'A'; letter <= 'Z'; letter++ {
			d.Drives = append(d.Drives, fmt.Sprintf(`%c:\`, letter))
		}
	} else {
		home, _ := os.UserHomeDir()
		if home != "" {
			d.Extra = append(d.Extra,
				filepath.Join(home, ".steam", "steam"),
				filepath.Join(home, ".local", "share", "Steam"),
			)
		}
	}

	d.Extra = append(d.Extra, extra...)
	return d
}

// Libraries returns candidate library paths in search order, without
// duplicates. Paths listed in a found library's libraryfolders.vdf follow the
// library that lists them.
func (d Discovery) Libraries() []string {
	var roots []string
	if d.DefaultRoot != "" && isFile(filepath.Join(d.DefaultRoot, clientExe)) {
		roots = append(roots, d.DefaultRoot)
	}
	for _, drive := range d.Drives {
		lib := filepath.Join(drive, libraryDirName)
		if isFile(filepath.Join(lib, libraryMarker)) {
			roots = append(roots, lib)
			continue
		}
		if isFile(filepath.Join(drive, libraryMarker)) {
			roots = append(roots, drive)
		}
	}
	for _, p := range d.Extra {
		if isDir(p) {
			roots = append(roots, p)
		}
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		key := strings.ToLower(filepath.Clean(p))
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}
	for _, root := range roots {
		add(root)
		listed, err := GetLibraryPaths(root)
		if err != nil {
			continue
		}
		for _, p := range listed {
			add(p)
		}
	}
	return out
}

// GetLibraryPaths returns the library paths listed in a Steam root's
// libraryfolders.vdf. A root without that file is its own single library.
func GetLibraryPaths(steamRoot string) ([]string, error) {
	vdfPath := filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf")
	data, err := os.ReadFile(vdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{steamRoot}, nil
		}
		return nil, fmt.Errorf("reading libraryfolders: %w", err)
	}
	root, err := ParseVDF(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing libraryfolders: %w", err)
	}
	paths := libraryPathsFromVDF(root)
	if len(paths) == 0 {
		return []string{steamRoot}, nil
	}
	return paths, nil
}

// FindAppInstall returns the first <lib>/steamapps/common/<dir> that holds
// exe, for libraries that carry appmanifest_<appID>.acf. The folder comes from
// the manifest's installdir and falls back to folder.
func FindAppInstall(libraries []string, appID, folder, exe string) (string, bool) {
	for _, lib := range libraries {
		steamapps := filepath.Join(lib, "steamapps")
		data, err := os.ReadFile(ManifestPath(steamapps, appID))
		if err != nil {
			continue
		}

		candidates := []string{folder}
		if m, err := ParseAppManifest(string(data)); err == nil && m.InstallDir != "" && m.InstallDir != folder {
			candidates = append([]string{m.InstallDir}, candidates...)
		}
		for _, dir := range candidates {
			gamePath := filepath.Join(steamapps, "common", dir)
			if isFile(filepath.Join(gamePath, exe)) {
				return gamePath, true
			}
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
