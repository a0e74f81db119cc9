package domain

import "testing"

func strPtr(s string) *string { return &s }

func TestModuleVersionInfo_IsMod(t *testing.T) {
	tests := []struct {
		name string
		info *ModuleVersionInfo
		want bool
	}{
		{"exact", &ModuleVersionInfo{Name: strPtr("Hachimi")}, true},
		{"exact with version", &ModuleVersionInfo{Name: strPtr("Hachimi"), Version: strPtr("0.14.0")}, true},
		{"nil info", nil, false},
		{"no name", &ModuleVersionInfo{}, false},
		{"empty name", &ModuleVersionInfo{Name: strPtr("")}, false},
		{"lower case", &ModuleVersionInfo{Name: strPtr("hachimi")}, false},
		{"upper case", &ModuleVersionInfo{Name: strPtr("HACHIMI")}, false},
		{"trailing space", &ModuleVersionInfo{Name: strPtr("Hachimi ")}, false},
		{"other product", &ModuleVersionInfo{Name: strPtr("Unity Player")}, false},
	}

	for _, tt := range tests {
		if got := tt.info.IsMod(); got != tt.want {
			t.Errorf("%s: IsMod() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestModuleVersionInfo_DisplayLabel(t *testing.T) {
	var missing *ModuleVersionInfo
	if got := missing.DisplayLabel(TargetUnityPlayer); got != "UnityPlayer.dll" {
		t.Errorf("missing label = %q", got)
	}

	unknown := &ModuleVersionInfo{}
	if got := unknown.DisplayLabel(TargetCriManaVpx); got != "* cri_mana_vpx.dll (Unknown)" {
		t.Errorf("unknown label = %q", got)
	}

	mod := &ModuleVersionInfo{Name: strPtr("Hachimi"), Version: strPtr("1.2.3")}
	if got := mod.DisplayLabel(TargetUnityPlayer); got != "* UnityPlayer.dll (Hachimi)" {
		t.Errorf("mod label = %q", got)
	}
	if got := mod.VersionOr("None"); got != "1.2.3" {
		t.Errorf("VersionOr = %q", got)
	}
}
