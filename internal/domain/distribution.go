package domain

import (
	"strings"
)

// Distribution identifies which storefront or launcher build of the game is
// installed. It is determined by the main executable name.
type Distribution int

const (
	DistUnknown     Distribution = iota
	DistDMM                      // DMM Game Player launcher build
	DistSteam                    // Steam build (Japanese)
	DistSteamGlobal              // Steam build (global)
)

// AllDistributions returns the known distributions in detection order.
func AllDistributions() []Distribution {
	return []Distribution{DistDMM, DistSteam, DistSteamGlobal}
}

func (d Distribution) String() string {
	switch d {
	case DistDMM:
		return "dmm"
	case DistSteam:
		return "steam"
	case DistSteamGlobal:
		return "steam-global"
	default:
		return "unknown"
	}
}

// DisplayName returns a human readable channel name
func (d Distribution) DisplayName() string {
	switch d {
	case DistDMM:
		return "DMM Game Player"
	case DistSteam:
		return "Steam (JP)"
	case DistSteamGlobal:
		return "Steam (Global)"
	default:
		return "Unknown"
	}
}

// ParseDistribution converts a string to a Distribution. Unrecognized input
// yields DistUnknown.
func ParseDistribution(s string) Distribution {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dmm":
		return DistDMM
	case "steam", "steam-jp":
		return DistSteam
	case "steam-global", "global":
		return DistSteamGlobal
	default:
		return DistUnknown
	}
}

// ExeName returns the main executable file name, or "" for DistUnknown.
func (d Distribution) ExeName() string {
	switch d {
	case DistDMM:
		return "umamusume.exe"
	case DistSteam:
		return "UmamusumePrettyDerby_Jpn.exe"
	case DistSteamGlobal:
		return "UmamusumePrettyDerby.exe"
	default:
		return ""
	}
}

// ExeStem is the executable name without the .exe extension.
func (d Distribution) ExeStem() string {
	return strings.TrimSuffix(d.ExeName(), ".exe")
}

// DataDirName is the Unity data folder next to the executable.
func (d Distribution) DataDirName() string {
	if d == DistUnknown {
		return ""
	}
	return d.ExeStem() + "_Data"
}

// IsStorefront reports whether the build is distributed through Steam.
func (d Distribution) IsStorefront() bool {
	return d == DistSteam || d == DistSteamGlobal
}

// SteamAppID returns the Steam application id, or "" for non-Steam builds.
func (d Distribution) SteamAppID() string {
	switch d {
	case DistSteam:
		return "3564400"
	case DistSteamGlobal:
		return "3224770"
	default:
		return ""
	}
}

// SteamFolder is the default folder name under steamapps/common.
func (d Distribution) SteamFolder() string {
	if !d.IsStorefront() {
		return ""
	}
	return d.ExeStem()
}

// Installation is a detected game installation.
type Installation struct {
	Distribution Distribution
	Dir          string
}

// ExePatch describes a reversible binary patch of the main executable.
type ExePatch struct {
	Forward        string // payload name of the forward patch
	Reverse        string // payload name of the reverse patch
	OriginalSHA256 string
	PatchedSHA256  string
}

// ExeProfile describes how the main executable of a distribution is checked
// and patched during install. A zero profile means no executable handling.
type ExeProfile struct {
	VerifySHA256 string    // verify-only gate, no patch applied
	Patch        *ExePatch // nil when the executable is not patched
}

// IsZero reports whether the profile requires no executable handling.
func (p ExeProfile) IsZero() bool {
	return p.VerifySHA256 == "" && p.Patch == nil
}

// DefaultExeProfiles returns the executable profiles for the game builds the
// bundled patches were generated against.
func DefaultExeProfiles() map[Distribution]ExeProfile {
	return map[Distribution]ExeProfile{
		DistDMM: {
			VerifySHA256: "d578a228248ed61792a966c89089b7690a5ec403a89f4630a2aa0fa75ac9efec",
		},
		DistSteam: {
			Patch: &ExePatch{
				Forward:        "umamusume.patch",
				Reverse:        "umamusume.rev.patch",
				OriginalSHA256: "2173ea1e399a00b680ecfffc5b297ed1c29065f256a2f8b91ebcb66bc6315eb0",
				PatchedSHA256:  "9d6955463a0a509a2355d2227a4ee9ef0ca5da3f0f908b0c846a1e3c218cb703",
			},
		},
	}
}
