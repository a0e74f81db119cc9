package domain

import (
	"errors"
	"testing"
)

func TestAllTargets_Order(t *testing.T) {
	got := AllTargets()
	if len(got) != 2 {
		t.Fatalf("AllTargets() returned %d targets, want 2", len(got))
	}
	if got[0] != TargetUnityPlayer || got[1] != TargetCriManaVpx {
		t.Errorf("AllTargets() = %v, want [unityplayer crimanavpx]", got)
	}
}

func TestTarget_FileName(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{TargetUnityPlayer, "UnityPlayer.dll"},
		{TargetCriManaVpx, "cri_mana_vpx.dll"},
	}

	for _, tt := range tests {
		if got := tt.target.FileName(); got != tt.want {
			t.Errorf("%v.FileName() = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"unityplayer", TargetUnityPlayer, false},
		{"UnityPlayer.dll", TargetUnityPlayer, false},
		{"crimanavpx", TargetCriManaVpx, false},
		{"CRI_MANA_VPX.DLL", TargetCriManaVpx, false},
		{"version.dll", TargetUnityPlayer, true},
	}

	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTarget(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTarget(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMethodFor_Total(t *testing.T) {
	dists := append([]Distribution{DistUnknown}, AllDistributions()...)
	valid := map[InstallMethod]bool{
		MethodSearchPathRedirect: true,
		MethodPluginShim:         true,
		MethodDirectReplace:      true,
	}

	for _, target := range append(AllTargets(), Target(99)) {
		for _, d := range dists {
			m := MethodFor(target, d)
			if !valid[m] {
				t.Errorf("MethodFor(%v, %v) = %v, not a defined method", target, d, m)
			}
		}
	}
}

func TestMethodFor_Policy(t *testing.T) {
	tests := []struct {
		target Target
		dist   Distribution
		want   InstallMethod
	}{
		{TargetUnityPlayer, DistDMM, MethodSearchPathRedirect},
		{TargetUnityPlayer, DistSteam, MethodSearchPathRedirect},
		{TargetUnityPlayer, DistSteamGlobal, MethodSearchPathRedirect},
		{TargetUnityPlayer, DistUnknown, MethodSearchPathRedirect},
		{TargetCriManaVpx, DistDMM, MethodPluginShim},
		{TargetCriManaVpx, DistUnknown, MethodPluginShim},
		{TargetCriManaVpx, DistSteam, MethodDirectReplace},
		{TargetCriManaVpx, DistSteamGlobal, MethodDirectReplace},
	}

	for _, tt := range tests {
		if got := MethodFor(tt.target, tt.dist); got != tt.want {
			t.Errorf("MethodFor(%v, %v) = %v, want %v", tt.target, tt.dist, got, tt.want)
		}
	}
}

func TestParseDistribution(t *testing.T) {
	tests := []struct {
		in   string
		want Distribution
	}{
		{"dmm", DistDMM},
		{"Steam", DistSteam},
		{"steam-jp", DistSteam},
		{"steam-global", DistSteamGlobal},
		{"epic", DistUnknown},
		{"", DistUnknown},
	}

	for _, tt := range tests {
		if got := ParseDistribution(tt.in); got != tt.want {
			t.Errorf("ParseDistribution(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDistribution_Paths(t *testing.T) {
	if got := DistDMM.DataDirName(); got != "umamusume_Data" {
		t.Errorf("DistDMM.DataDirName() = %q", got)
	}
	if got := DistSteam.SteamFolder(); got != "UmamusumePrettyDerby_Jpn" {
		t.Errorf("DistSteam.SteamFolder() = %q", got)
	}
	if DistDMM.SteamAppID() != "" {
		t.Error("DMM build should have no Steam app id")
	}
	if DistUnknown.ExeName() != "" || DistUnknown.DataDirName() != "" {
		t.Error("unknown distribution should have no executable")
	}
}

func TestDefaultExeProfiles(t *testing.T) {
	profiles := DefaultExeProfiles()
	if profiles[DistSteam].Patch == nil {
		t.Fatal("Steam profile should carry a patch")
	}
	if profiles[DistDMM].Patch != nil || profiles[DistDMM].VerifySHA256 == "" {
		t.Error("DMM profile should be verify-only")
	}
	if !profiles[DistSteamGlobal].IsZero() {
		t.Error("Steam global profile should be empty")
	}
}

func TestVerificationError_Is(t *testing.T) {
	err := error(&VerificationError{What: "game.exe", Expected: "aa", Found: "bb"})
	if !errors.Is(err, ErrVerification) {
		t.Error("VerificationError should match ErrVerification")
	}
	if errors.Is(err, ErrPatch) {
		t.Error("VerificationError should not match ErrPatch")
	}
}

func TestMultipleInstallationsError(t *testing.T) {
	err := &MultipleInstallationsError{Found: []Installation{
		{Distribution: DistDMM, Dir: `C:\G`},
		{Distribution: DistSteam, Dir: `D:\S`},
	}}
	if !errors.Is(err, ErrMultipleInstallations) {
		t.Error("should match ErrMultipleInstallations")
	}
	if msg := err.Error(); msg == "" {
		t.Error("empty message")
	}
}
