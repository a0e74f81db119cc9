package domain

import "fmt"

// ModName is the product name embedded in the mod's version resource.
const ModName = "Hachimi"

// ModuleVersionInfo holds metadata read from a module's version resource.
// A nil *ModuleVersionInfo means the file does not exist; a zero value means
// the file exists but carries no readable metadata.
type ModuleVersionInfo struct {
	Name    *string
	Version *string
}

// IsMod reports whether the module is Hachimi. The comparison is exact and
// case-sensitive.
func (v *ModuleVersionInfo) IsMod() bool {
	if v == nil || v.Name == nil {
		return false
	}
	return *v.Name == ModName
}

// NameOr returns the product name or fallback when unknown.
func (v *ModuleVersionInfo) NameOr(fallback string) string {
	if v == nil || v.Name == nil {
		return fallback
	}
	return *v.Name
}

// VersionOr returns the product version or fallback when unknown.
func (v *ModuleVersionInfo) VersionOr(fallback string) string {
	if v == nil || v.Version == nil {
		return fallback
	}
	return *v.Version
}

// DisplayLabel renders the target list entry, e.g. "* UnityPlayer.dll (Hachimi)".
// Missing files are shown by file name only.
func (v *ModuleVersionInfo) DisplayLabel(t Target) string {
	if v == nil {
		return t.FileName()
	}
	return fmt.Sprintf("* %s (%s)", t.FileName(), v.NameOr("Unknown"))
}
