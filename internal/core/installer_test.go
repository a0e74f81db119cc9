package core_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/hachimi-installer/hachimi-installer/internal/core"
	"github.com/hachimi-installer/hachimi-installer/internal/delta"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/locate"
	"github.com/hachimi-installer/hachimi-installer/internal/payload"
	"github.com/hachimi-installer/hachimi-installer/internal/source/dmm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	modBytes     = "hachimi module v1"
	supportBytes = "cellar support module"
	vendorBytes  = "vendor codec plugin"
)

// contentProber treats files holding modBytes as the mod.
type contentProber struct{}

func (contentProber) Probe(path string) *domain.ModuleVersionInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	if string(data) != modBytes {
		return &domain.ModuleVersionInfo{}
	}
	name, version := domain.ModName, "0.14.2"
	return &domain.ModuleVersionInfo{Name: &name, Version: &version}
}

type recordingConfirmer struct {
	answer   bool
	asked    []string
	notified []string
}

func (c *recordingConfirmer) Confirm(title, _ string) bool {
	c.asked = append(c.asked, title)
	return c.answer
}

func (c *recordingConfirmer) Notify(title, _ string) {
	c.notified = append(c.notified, title)
}

type fakeRegistry struct {
	value  uint32
	getErr error
	sets   []uint32
}

func (r *fakeRegistry) Get() (uint32, error) { return r.value, r.getErr }

func (r *fakeRegistry) Set(v uint32) error {
	r.sets = append(r.sets, v)
	r.value = v
	return nil
}

type testEnv struct {
	dir       string
	exe       string
	systemDir string
	original  []byte
	patched   []byte
	payloads  fstest.MapFS
	confirm   *recordingConfirmer
	registry  *fakeRegistry
	opts      core.Options
}

func gameExe(label string) []byte {
	var b bytes.Buffer
	for i := 0; i < 256; i++ {
		fmt.Fprintf(&b, "MZ %s section %03d ", label, i)
	}
	return b.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "%s should not exist", path)
}

func newEnv(t *testing.T, dist domain.Distribution, dir string) *testEnv {
	t.Helper()
	e := &testEnv{
		dir:       dir,
		exe:       filepath.Join(dir, dist.ExeName()),
		systemDir: t.TempDir(),
		original:  gameExe("original"),
		patched:   gameExe("patched!"),
		confirm:   &recordingConfirmer{answer: true},
		registry:  &fakeRegistry{},
	}
	writeFile(t, e.exe, e.original)

	forward, err := delta.Diff(e.original, e.patched)
	require.NoError(t, err)
	reverse, err := delta.Diff(e.patched, e.original)
	require.NoError(t, err)

	e.payloads = fstest.MapFS{
		payload.ModModule:     {Data: []byte(modBytes)},
		"cellar.dll":          {Data: []byte(supportBytes)},
		"umamusume.patch":     {Data: forward},
		"umamusume.rev.patch": {Data: reverse},
	}

	profiles := map[domain.Distribution]domain.ExeProfile{
		domain.DistDMM: {VerifySHA256: delta.SHA256Hex(e.original)},
		domain.DistSteam: {Patch: &domain.ExePatch{
			Forward:        "umamusume.patch",
			Reverse:        "umamusume.rev.patch",
			OriginalSHA256: delta.SHA256Hex(e.original),
			PatchedSHA256:  delta.SHA256Hex(e.patched),
		}},
	}

	e.opts = core.Options{
		InstallDir: dir,
		SystemDir:  e.systemDir,
		Payload:    payload.FS{FS: e.payloads},
		Profiles:   profiles,
		Confirmer:  e.confirm,
		Registry:   e.registry,
		Prober:     contentProber{},
	}
	return e
}

// newSteamEnv lays out <lib>/steamapps/common/<folder> like a Steam library.
func newSteamEnv(t *testing.T) (*testEnv, string) {
	t.Helper()
	lib := t.TempDir()
	dir := filepath.Join(lib, "steamapps", "common", domain.DistSteam.SteamFolder())
	return newEnv(t, domain.DistSteam, dir), lib
}

func newDMMEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnv(t, domain.DistDMM, filepath.Join(t.TempDir(), "Umamusume"))
}

func (e *testEnv) installer(t *testing.T, target domain.Target) *core.Installer {
	t.Helper()
	opts := e.opts
	opts.Target = target
	inst, err := core.New(opts)
	require.NoError(t, err)
	return inst
}

func runInstall(t *testing.T, inst *core.Installer) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, inst.PreInstall(ctx))
	require.NoError(t, inst.Install(ctx))
	require.NoError(t, inst.PostInstall(ctx))
}

func TestNew_ExplicitDir(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)

	assert.Equal(t, domain.DistDMM, inst.Distribution())
	assert.Equal(t, e.dir, inst.InstallDir())
	assert.Equal(t, core.StateResolved, inst.State())
}

func TestNew_InvalidDir(t *testing.T) {
	_, err := core.New(core.Options{InstallDir: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrInvalidInstallDir)
}

func TestNew_NothingDetected(t *testing.T) {
	inst, err := core.New(core.Options{Locator: &locate.Locator{AppDataDir: t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, core.StateUninitialized, inst.State())

	assert.ErrorIs(t, inst.PreInstall(context.Background()), domain.ErrNoInstallDir)
	assert.ErrorIs(t, inst.Uninstall(context.Background()), domain.ErrNoInstallDir)
	_, err = inst.TargetPath(domain.TargetUnityPlayer)
	assert.ErrorIs(t, err, domain.ErrNoInstallDir)
}

func TestNew_Detection(t *testing.T) {
	appData := t.TempDir()
	dmmDir := filepath.Join(t.TempDir(), "Umamusume")
	writeFile(t, filepath.Join(dmmDir, "umamusume.exe"), []byte("exe"))
	cnf := fmt.Sprintf(`{"contents":[{"productId":"umamusume","detail":{"path":%s}}]}`, strconv.Quote(dmmDir))
	writeFile(t, dmm.ConfigPath(appData), []byte(cnf))

	// Only the launcher build
	inst, err := core.New(core.Options{Locator: &locate.Locator{AppDataDir: appData}})
	require.NoError(t, err)
	assert.Equal(t, domain.DistDMM, inst.Distribution())
	assert.Equal(t, dmmDir, inst.InstallDir())

	// Add a Steam build: ambiguity is never resolved automatically
	lib := t.TempDir()
	steamapps := filepath.Join(lib, "steamapps")
	writeFile(t, filepath.Join(steamapps, "appmanifest_3564400.acf"), []byte("\"AppState\"\n{\n\t\"appid\"\t\t\"3564400\"\n}\n"))
	steamDir := filepath.Join(steamapps, "common", "UmamusumePrettyDerby_Jpn")
	writeFile(t, filepath.Join(steamDir, "UmamusumePrettyDerby_Jpn.exe"), []byte("exe"))

	locator := &locate.Locator{AppDataDir: appData, SteamLibraries: []string{lib}}
	_, err = core.New(core.Options{Locator: locator})
	var multi *domain.MultipleInstallationsError
	require.ErrorAs(t, err, &multi)
	assert.ErrorIs(t, err, domain.ErrMultipleInstallations)
	assert.Len(t, multi.Found, 2)
	assert.Equal(t, domain.DistDMM, multi.Found[0].Distribution)
	assert.Equal(t, domain.DistSteam, multi.Found[1].Distribution)

	inst, err = core.New(core.Options{Locator: locator, Distribution: domain.DistSteam})
	require.NoError(t, err)
	assert.Equal(t, steamDir, inst.InstallDir())

	require.NoError(t, inst.SetDistribution(domain.DistDMM))
	assert.Equal(t, dmmDir, inst.InstallDir())

	assert.ErrorIs(t, inst.SetDistribution(domain.DistSteamGlobal), domain.ErrNoInstallDir)
	assert.Equal(t, core.StateUninitialized, inst.State())
}

func TestTargetPaths(t *testing.T) {
	dmmEnv := newDMMEnv(t)
	steamEnv, _ := newSteamEnv(t)

	tests := []struct {
		name   string
		env    *testEnv
		target domain.Target
		want   func(e *testEnv) string
	}{
		{"dmm unityplayer", dmmEnv, domain.TargetUnityPlayer, func(e *testEnv) string {
			return filepath.Join(e.dir, "umamusume.exe.local", "UnityPlayer.dll")
		}},
		{"dmm crimanavpx", dmmEnv, domain.TargetCriManaVpx, func(e *testEnv) string {
			return filepath.Join(e.systemDir, "cri_mana_vpx.dll")
		}},
		{"steam unityplayer", steamEnv, domain.TargetUnityPlayer, func(e *testEnv) string {
			return filepath.Join(e.dir, "UmamusumePrettyDerby_Jpn.exe.local", "UnityPlayer.dll")
		}},
		{"steam crimanavpx", steamEnv, domain.TargetCriManaVpx, func(e *testEnv) string {
			return filepath.Join(e.dir, "cri_mana_vpx.dll")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := tt.env.installer(t, tt.target)
			got, err := inst.TargetPath(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want(tt.env), got)

			current, err := inst.CurrentTargetPath()
			require.NoError(t, err)
			assert.Equal(t, got, current)
		})
	}
}

func TestCustomTarget(t *testing.T) {
	e := newDMMEnv(t)

	e.opts.CustomTarget = "version.dll"
	inst := e.installer(t, domain.TargetUnityPlayer)
	path, err := inst.CurrentTargetPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.dir, "umamusume.exe.local", "version.dll"), path)

	abs := filepath.Join(t.TempDir(), "winhttp.dll")
	inst.SetTarget(domain.TargetUnityPlayer, abs)
	path, err = inst.CurrentTargetPath()
	require.NoError(t, err)
	assert.Equal(t, abs, path)
}

func TestHoldingAndScanPaths(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetCriManaVpx)

	holding, err := inst.HoldingPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.dir, "hachimi", "cri_mana_vpx.dll"), holding)

	scan, err := inst.ScanPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.dir, "umamusume_Data", "Plugins", "x86_64", "cri_mana_vpx.dll"), scan)
}

func TestPhaseOrder(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)
	ctx := context.Background()

	assert.ErrorIs(t, inst.Install(ctx), domain.ErrInvalidState)
	assert.ErrorIs(t, inst.PostInstall(ctx), domain.ErrInvalidState)

	require.NoError(t, inst.PreInstall(ctx))
	assert.Equal(t, core.StatePreInstalled, inst.State())
	assert.ErrorIs(t, inst.PostInstall(ctx), domain.ErrInvalidState)

	require.NoError(t, inst.Install(ctx))
	assert.Equal(t, core.StateInstalled, inst.State())
	require.NoError(t, inst.PostInstall(ctx))
	assert.Equal(t, core.StatePostInstalled, inst.State())

	require.NoError(t, inst.Uninstall(ctx))
	assert.Equal(t, core.StateUninstalled, inst.State())
}

func TestCancelledContext(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, inst.PreInstall(ctx), context.Canceled)
	assert.Equal(t, core.StateResolved, inst.State())
}

func TestSearchPathRedirect_InstallAndUninstall(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)

	runInstall(t, inst)

	redirect := filepath.Join(e.dir, "umamusume.exe.local")
	assert.Equal(t, modBytes, readFile(t, filepath.Join(redirect, "UnityPlayer.dll")))
	assert.Equal(t, supportBytes, readFile(t, filepath.Join(redirect, "apphelp.dll")))
	assert.Equal(t, string(e.original), readFile(t, e.exe), "launcher build is never patched")

	// Redirection was off: asked, enabled, told to restart
	assert.Equal(t, []uint32{1}, e.registry.sets)
	assert.Contains(t, e.confirm.notified, "DLL redirection enabled")

	target, ok := inst.InstalledModTarget()
	require.True(t, ok)
	assert.Equal(t, domain.TargetUnityPlayer, target)
	assert.True(t, inst.IsTargetInstalled())
	assert.Equal(t, "* UnityPlayer.dll (Hachimi)", inst.DisplayLabel(domain.TargetUnityPlayer))
	assert.Equal(t, "cri_mana_vpx.dll", inst.DisplayLabel(domain.TargetCriManaVpx))

	require.NoError(t, inst.Uninstall(context.Background()))
	assertMissing(t, redirect)
	assert.True(t, inst.RemovedMod())
	assert.False(t, inst.IsTargetInstalled())
}

func TestSearchPathRedirect_KeepsForeignFiles(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)
	runInstall(t, inst)

	other := filepath.Join(e.dir, "umamusume.exe.local", "other.dll")
	writeFile(t, other, []byte("someone else's"))

	require.NoError(t, inst.Uninstall(context.Background()))
	assert.Equal(t, "someone else's", readFile(t, other))
	assertMissing(t, filepath.Join(e.dir, "umamusume.exe.local", "apphelp.dll"))
}

func TestRedirectFlag(t *testing.T) {
	t.Run("already enabled", func(t *testing.T) {
		e := newDMMEnv(t)
		e.registry.value = 1
		runInstall(t, e.installer(t, domain.TargetUnityPlayer))
		assert.Empty(t, e.registry.sets)
		assert.Empty(t, e.confirm.asked)
	})

	t.Run("declined", func(t *testing.T) {
		e := newDMMEnv(t)
		e.confirm.answer = false
		runInstall(t, e.installer(t, domain.TargetUnityPlayer))
		assert.Empty(t, e.registry.sets)
		assert.Equal(t, []string{"Enable DLL redirection?"}, e.confirm.asked)
	})

	t.Run("key cannot be opened", func(t *testing.T) {
		e := newDMMEnv(t)
		e.registry.getErr = domain.ErrUnsupported
		runInstall(t, e.installer(t, domain.TargetUnityPlayer))
		assert.Empty(t, e.confirm.asked)
	})
}

func TestPluginShim_Symmetry(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetCriManaVpx)
	assert.Equal(t, domain.MethodPluginShim, inst.Method())

	scan, _ := inst.ScanPath()
	holding, _ := inst.HoldingPath()
	module, _ := inst.CurrentTargetPath()
	writeFile(t, scan, []byte(vendorBytes))

	runInstall(t, inst)
	assert.Equal(t, modBytes, readFile(t, module))
	assert.Equal(t, vendorBytes, readFile(t, holding))
	assertMissing(t, scan)

	require.NoError(t, inst.Uninstall(context.Background()))
	assert.Equal(t, vendorBytes, readFile(t, scan))
	assertMissing(t, holding)
	assertMissing(t, module)
	assertMissing(t, filepath.Dir(holding))
}

func TestPluginShim_UninstallKeepsDataFolder(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetCriManaVpx)
	scan, _ := inst.ScanPath()
	dataDir, _ := inst.DataDir()
	writeFile(t, scan, []byte(vendorBytes))

	runInstall(t, inst)
	writeFile(t, filepath.Join(dataDir, "config.json"), []byte("{}"))

	require.NoError(t, inst.Uninstall(context.Background()))
	assert.Equal(t, vendorBytes, readFile(t, scan))
	assert.Equal(t, "{}", readFile(t, filepath.Join(dataDir, "config.json")))
}

func TestPluginShim_CannotFindTarget(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetCriManaVpx)

	err := inst.PreInstall(context.Background())
	assert.ErrorIs(t, err, domain.ErrCannotFindTarget)
	assert.Equal(t, core.StateResolved, inst.State())
}

func TestPluginShim_ReinstallFromHolding(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetCriManaVpx)
	holding, _ := inst.HoldingPath()
	scan, _ := inst.ScanPath()

	// Vendor plugin already displaced by an earlier install
	writeFile(t, holding, []byte(vendorBytes))
	runInstall(t, inst)
	assert.Equal(t, vendorBytes, readFile(t, holding))
	assertMissing(t, scan)
}

func TestDirectReplace(t *testing.T) {
	e, _ := newSteamEnv(t)
	inst := e.installer(t, domain.TargetCriManaVpx)
	assert.Equal(t, domain.MethodDirectReplace, inst.Method())

	writeFile(t, filepath.Join(e.dir, "cri_mana_vpx.dll"), []byte(vendorBytes))
	runInstall(t, inst)
	assert.Equal(t, modBytes, readFile(t, filepath.Join(e.dir, "cri_mana_vpx.dll")))
	assert.Equal(t, string(e.patched), readFile(t, e.exe))

	require.NoError(t, inst.Uninstall(context.Background()))
	assertMissing(t, filepath.Join(e.dir, "cri_mana_vpx.dll"))
	assert.Equal(t, string(e.original), readFile(t, e.exe))
}

func TestExecutablePatch_RoundTrip(t *testing.T) {
	e, _ := newSteamEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)
	ctx := context.Background()
	backup := e.exe + core.BackupSuffix

	require.NoError(t, inst.PreInstall(ctx))
	assert.Equal(t, string(e.original), readFile(t, backup))
	assert.Equal(t, string(e.original), readFile(t, e.exe), "pre-install never patches")

	require.NoError(t, inst.Install(ctx))
	assert.Equal(t, string(e.patched), readFile(t, e.exe))
	assertMissing(t, e.exe+".tmp")

	state, _, err := inst.ExecutableState()
	require.NoError(t, err)
	assert.Equal(t, core.ExePatched, state)

	require.NoError(t, inst.PostInstall(ctx))
	require.NoError(t, inst.Uninstall(ctx))
	assert.Equal(t, string(e.original), readFile(t, e.exe))
	assertMissing(t, backup)
}

func TestExecutablePatch_StaleBackupReplaced(t *testing.T) {
	e, _ := newSteamEnv(t)
	backup := e.exe + core.BackupSuffix
	writeFile(t, backup, []byte("backup from an older game build"))

	inst := e.installer(t, domain.TargetUnityPlayer)
	require.NoError(t, inst.PreInstall(context.Background()))
	assert.Equal(t, string(e.original), readFile(t, backup))
}

func TestExecutablePatch_AlreadyPatched(t *testing.T) {
	e, _ := newSteamEnv(t)
	writeFile(t, e.exe, e.patched)
	inst := e.installer(t, domain.TargetUnityPlayer)

	runInstall(t, inst)
	assert.Equal(t, string(e.patched), readFile(t, e.exe))
	assertMissing(t, e.exe+core.BackupSuffix)
}

func TestHashGate_PatchedDistribution(t *testing.T) {
	e, _ := newSteamEnv(t)
	tampered := []byte("some other game build")
	writeFile(t, e.exe, tampered)
	inst := e.installer(t, domain.TargetUnityPlayer)

	err := inst.PreInstall(context.Background())
	var verr *domain.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, delta.SHA256Hex(e.original), verr.Expected)
	assert.Equal(t, delta.SHA256Hex(tampered), verr.Found)

	assert.Equal(t, string(tampered), readFile(t, e.exe))
	assertMissing(t, e.exe+core.BackupSuffix)
	assertMissing(t, filepath.Join(e.dir, "UmamusumePrettyDerby_Jpn.exe.local"))
}

func TestHashGate_VerifyOnly(t *testing.T) {
	e := newDMMEnv(t)
	tampered := []byte("updated launcher build")
	writeFile(t, e.exe, tampered)
	inst := e.installer(t, domain.TargetUnityPlayer)
	ctx := context.Background()

	require.NoError(t, inst.PreInstall(ctx))
	err := inst.Install(ctx)
	assert.ErrorIs(t, err, domain.ErrVerification)

	assert.Equal(t, string(tampered), readFile(t, e.exe))
	assertMissing(t, filepath.Join(e.dir, "umamusume.exe.local", "UnityPlayer.dll"))
	assert.Equal(t, core.StatePreInstalled, inst.State())
}

func TestInstall_CorruptForwardPatch(t *testing.T) {
	e, _ := newSteamEnv(t)
	e.payloads["umamusume.patch"] = &fstest.MapFile{Data: []byte("BSDIFF40 but not really")}
	inst := e.installer(t, domain.TargetUnityPlayer)
	ctx := context.Background()

	require.NoError(t, inst.PreInstall(ctx))
	err := inst.Install(ctx)
	assert.ErrorIs(t, err, domain.ErrPatch)

	assert.Equal(t, string(e.original), readFile(t, e.exe))
	assertMissing(t, filepath.Join(e.dir, "UmamusumePrettyDerby_Jpn.exe.local", "UnityPlayer.dll"))
}

func TestUninstall_ModuleAbsent(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)

	err := inst.Uninstall(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, core.StateResolved, inst.State())
}

func TestUninstall_FailedToRestore(t *testing.T) {
	e, _ := newSteamEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)
	runInstall(t, inst)

	// The game updated itself after install
	writeFile(t, e.exe, []byte("new game build"))

	err := inst.Uninstall(context.Background())
	assert.ErrorIs(t, err, domain.ErrFailedToRestore)

	// Everything else was still undone
	assertMissing(t, filepath.Join(e.dir, "UmamusumePrettyDerby_Jpn.exe.local"))
	assert.Equal(t, "new game build", readFile(t, e.exe))
	assert.Equal(t, core.StateUninstalled, inst.State())
}

func TestUninstall_ReversePatchFallsBackToBackup(t *testing.T) {
	e, _ := newSteamEnv(t)
	e.payloads["umamusume.rev.patch"] = &fstest.MapFile{Data: []byte("garbage")}
	inst := e.installer(t, domain.TargetUnityPlayer)
	runInstall(t, inst)

	require.NoError(t, inst.Uninstall(context.Background()))
	assert.Equal(t, string(e.original), readFile(t, e.exe))
	assertMissing(t, e.exe+core.BackupSuffix)
}

func TestPreInstall_ModInstalledElsewhere(t *testing.T) {
	e := newDMMEnv(t)
	writeFile(t, filepath.Join(e.dir, "umamusume.exe.local", "UnityPlayer.dll"), []byte(modBytes))

	inst := e.installer(t, domain.TargetCriManaVpx)
	scan, _ := inst.ScanPath()
	writeFile(t, scan, []byte(vendorBytes))

	err := inst.PreInstall(context.Background())
	var elsewhere *domain.ModInstalledElsewhereError
	require.ErrorAs(t, err, &elsewhere)
	assert.Equal(t, domain.TargetUnityPlayer, elsewhere.Target)

	// Reinstalling over the same target is fine
	inst.SetTarget(domain.TargetUnityPlayer, "")
	assert.NoError(t, inst.PreInstall(context.Background()))
}

func TestSteamAutoUpdateAdvisory(t *testing.T) {
	e, lib := newSteamEnv(t)
	manifest := filepath.Join(lib, "steamapps", "appmanifest_3564400.acf")
	original := "\"AppState\"\n{\n\t\"appid\"\t\t\"3564400\"\n\t\"AutoUpdateBehavior\"\t\t\"0\"\n}\n"
	writeFile(t, manifest, []byte(original))

	inst := e.installer(t, domain.TargetUnityPlayer)
	runInstall(t, inst)
	assert.Contains(t, readFile(t, manifest), "\"AutoUpdateBehavior\"\t\t\"1\"")
	assert.Equal(t, original, readFile(t, manifest+".bak"))
	assert.Contains(t, e.confirm.notified, "Auto-update setting changed")

	require.NoError(t, inst.Uninstall(context.Background()))
	assert.Equal(t, original, readFile(t, manifest))
	assertMissing(t, manifest+".bak")
}

func TestSteamAutoUpdateAdvisory_Declined(t *testing.T) {
	e, lib := newSteamEnv(t)
	e.confirm.answer = false
	manifest := filepath.Join(lib, "steamapps", "appmanifest_3564400.acf")
	original := "\"AppState\"\n{\n\t\"AutoUpdateBehavior\"\t\t\"0\"\n}\n"
	writeFile(t, manifest, []byte(original))

	inst := e.installer(t, domain.TargetUnityPlayer)
	ctx := context.Background()
	require.NoError(t, inst.PreInstall(ctx))
	require.NoError(t, inst.Install(ctx))

	assert.Equal(t, original, readFile(t, manifest))
	assertMissing(t, manifest+".bak")
}

func TestDataDirRemoval(t *testing.T) {
	e := newDMMEnv(t)
	inst := e.installer(t, domain.TargetUnityPlayer)
	ctx := context.Background()
	dataDir := filepath.Join(e.dir, "hachimi")
	writeFile(t, filepath.Join(dataDir, "config.json"), []byte("{}"))

	assert.ErrorIs(t, inst.RemoveDataDir(ctx), domain.ErrInvalidState)

	runInstall(t, inst)
	require.NoError(t, inst.Uninstall(ctx))

	removed, err := inst.OfferDataDirRemoval(ctx)
	require.NoError(t, err)
	assert.True(t, removed)
	assertMissing(t, dataDir)
}

func TestDataDirRemoval_ForeignModule(t *testing.T) {
	e := newDMMEnv(t)
	writeFile(t, filepath.Join(e.dir, "umamusume.exe.local", "UnityPlayer.dll"), []byte("another loader"))
	dataDir := filepath.Join(e.dir, "hachimi")
	writeFile(t, filepath.Join(dataDir, "config.json"), []byte("{}"))

	inst := e.installer(t, domain.TargetUnityPlayer)
	require.NoError(t, inst.Uninstall(context.Background()))
	assert.False(t, inst.RemovedMod())

	removed, err := inst.OfferDataDirRemoval(context.Background())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.DirExists(t, dataDir)
}

func TestPluginShim_NeedsSystemDir(t *testing.T) {
	e := newDMMEnv(t)
	e.opts.SystemDir = ""
	inst := e.installer(t, domain.TargetCriManaVpx)
	scan, _ := inst.ScanPath()
	writeFile(t, scan, []byte(vendorBytes))

	assert.ErrorIs(t, inst.PreInstall(context.Background()), domain.ErrUnsupported)
	assert.ErrorIs(t, inst.Uninstall(context.Background()), domain.ErrUnsupported)
	_, err := inst.TargetPath(domain.TargetCriManaVpx)
	assert.ErrorIs(t, err, domain.ErrUnsupported)
	assert.Nil(t, inst.VersionInfo(domain.TargetCriManaVpx))

	inst.SetTarget(domain.TargetCriManaVpx, filepath.Join(t.TempDir(), "cri_mana_vpx.dll"))
	assert.NoError(t, inst.PreInstall(context.Background()))
}
