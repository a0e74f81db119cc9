package domain

import (
	"fmt"
	"strings"
)

// Target is a module variant the installer can place.
type Target int

const (
	TargetUnityPlayer Target = iota // Engine loader hook (default)
	TargetCriManaVpx                // Video codec plugin hook
)

// AllTargets returns every target in selection order. The first entry is the
// default target.
func AllTargets() []Target {
	return []Target{TargetUnityPlayer, TargetCriManaVpx}
}

// FileName returns the on-disk file name of the target module.
func (t Target) FileName() string {
	switch t {
	case TargetCriManaVpx:
		return "cri_mana_vpx.dll"
	default:
		return "UnityPlayer.dll"
	}
}

func (t Target) String() string {
	switch t {
	case TargetUnityPlayer:
		return "unityplayer"
	case TargetCriManaVpx:
		return "crimanavpx"
	default:
		return "unknown"
	}
}

// ParseTarget accepts either the short id or the module file name.
func ParseTarget(s string) (Target, error) {
	for _, t := range AllTargets() {
		if strings.EqualFold(s, t.String()) || strings.EqualFold(s, t.FileName()) {
			return t, nil
		}
	}
	return TargetUnityPlayer, fmt.Errorf("unknown target %q", s)
}

// InstallMethod determines where a target module is placed
type InstallMethod int

const (
	MethodSearchPathRedirect InstallMethod = iota // <exe>.local folder next to the executable
	MethodPluginShim                              // system directory, vendor plugin moved aside
	MethodDirectReplace                           // overwrite the library in the install directory
)

func (m InstallMethod) String() string {
	switch m {
	case MethodSearchPathRedirect:
		return "dotlocal"
	case MethodPluginShim:
		return "plugin-shim"
	case MethodDirectReplace:
		return "direct"
	default:
		return "unknown"
	}
}

// MethodFor maps a target and the active distribution to an install method.
// It is total: every combination resolves to exactly one method.
func MethodFor(t Target, d Distribution) InstallMethod {
	switch t {
	case TargetCriManaVpx:
		if d.IsStorefront() {
			return MethodDirectReplace
		}
		return MethodPluginShim
	default:
		return MethodSearchPathRedirect
	}
}

// SupportModule is the second module written next to the target when the
// search path redirect is used, keyed by its payload name.
type SupportModule struct {
	Payload  string
	FileName string
}

// RedirectSupportModule is installed alongside every search-path-redirect target.
var RedirectSupportModule = SupportModule{Payload: "cellar.dll", FileName: "apphelp.dll"}
