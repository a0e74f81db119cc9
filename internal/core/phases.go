package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hachimi-installer/hachimi-installer/internal/delta"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/fsops"
	"github.com/hachimi-installer/hachimi-installer/internal/logging"
	"github.com/hachimi-installer/hachimi-installer/internal/payload"
)

// PreInstall checks preconditions and backs up the executable. Nothing in
// the game directory is modified when it fails.
func (i *Installer) PreInstall(ctx context.Context) (err error) {
	if err := begin(ctx); err != nil {
		return err
	}
	if err := i.requireDir(); err != nil {
		return err
	}
	if err := i.requireSystemDir(); err != nil {
		return err
	}
	defer func() { i.record(ctx, PhasePreInstall, err) }()

	if t, ok := i.InstalledModTarget(); ok && t != i.target {
		return &domain.ModInstalledElsewhereError{Target: t}
	}

	if i.Method() == domain.MethodPluginShim {
		holding, _ := i.HoldingPath()
		scan, _ := i.ScanPath()
		if !fsops.IsFile(holding) && !fsops.IsFile(scan) {
			return domain.ErrCannotFindTarget
		}
	}

	if err := i.backupExe(ctx); err != nil {
		return err
	}

	i.state = StatePreInstalled
	return nil
}

// Install verifies the executable, writes the mod module and applies the
// executable patch. A verification failure leaves every file untouched.
func (i *Installer) Install(ctx context.Context) (err error) {
	if err := begin(ctx); err != nil {
		return err
	}
	if err := i.requireState(PhaseInstall, StatePreInstalled); err != nil {
		return err
	}
	defer func() { i.record(ctx, PhaseInstall, err) }()
	log := logging.FromContext(ctx)

	needPatch, err := i.checkExe()
	if err != nil {
		return err
	}

	module, err := i.payload.Read(payload.ModModule)
	if err != nil {
		return err
	}
	target, _ := i.CurrentTargetPath()
	if err := fsops.ReplaceFile(target, module, 0644); err != nil {
		return fmt.Errorf("writing module: %w", err)
	}
	i.recordFile(ctx, target, "module", delta.SHA256Hex(module))
	log.Info().Str("path", target).Str("method", i.Method().String()).Msg("module written")

	if needPatch {
		if err := i.patchExe(ctx); err != nil {
			// Without the patch the module cannot load; do not leave it half installed
			if rmErr := os.Remove(target); rmErr == nil {
				i.forgetFile(ctx, target)
			}
			return err
		}
	}

	i.offerAutoUpdateChange(ctx)

	i.state = StateInstalled
	return nil
}

// PostInstall finishes method-specific setup. On failure the installed
// module stays in place.
func (i *Installer) PostInstall(ctx context.Context) (err error) {
	if err := begin(ctx); err != nil {
		return err
	}
	if err := i.requireState(PhasePostInstall, StateInstalled); err != nil {
		return err
	}
	defer func() { i.record(ctx, PhasePostInstall, err) }()

	switch i.Method() {
	case domain.MethodSearchPathRedirect:
		if err := i.installSupportModule(ctx); err != nil {
			return err
		}
		if err := i.ensureRedirectEnabled(ctx); err != nil {
			return err
		}
	case domain.MethodPluginShim:
		holding, _ := i.HoldingPath()
		scan, _ := i.ScanPath()
		if fsops.IsFile(scan) {
			if err := fsops.Move(scan, holding); err != nil {
				return fmt.Errorf("moving vendor plugin aside: %w", err)
			}
			logging.FromContext(ctx).Debug().Str("from", scan).Str("to", holding).Msg("vendor plugin moved")
		}
	case domain.MethodDirectReplace:
	}

	i.state = StatePostInstalled
	return nil
}

func (i *Installer) installSupportModule(ctx context.Context) error {
	support := domain.RedirectSupportModule
	data, err := i.payload.Read(support.Payload)
	if err != nil {
		return err
	}
	path := filepath.Join(i.redirectDir(), support.FileName)
	if err := fsops.ReplaceFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing support module: %w", err)
	}
	i.recordFile(ctx, path, "support", delta.SHA256Hex(data))
	return nil
}

// ensureRedirectEnabled offers to turn on DevOverrideEnable. Failing to read
// the flag is only a warning; failing to write a confirmed change is an error.
func (i *Installer) ensureRedirectEnabled(ctx context.Context) error {
	log := logging.FromContext(ctx)
	if i.registry == nil {
		log.Debug().Msg("no registry access, skipping DLL redirection check")
		return nil
	}

	v, err := i.registry.Get()
	if err != nil {
		log.Warn().Err(err).Msg("failed to open IFEO registry key")
		return nil
	}
	if v != 0 {
		return nil
	}
	if !i.confirm.Confirm(titleEnableRedirect, msgEnableRedirect) {
		log.Warn().Msg("DLL redirection left disabled; the mod will not load")
		return nil
	}
	if err := i.registry.Set(1); err != nil {
		return fmt.Errorf("enabling DLL redirection: %w", err)
	}
	i.confirm.Notify(titleRestartRequired, msgRestartRequired)
	return nil
}

// Uninstall removes the module, undoes method-specific changes and restores
// the executable. A missing module fails before anything else is touched.
// An executable that cannot be restored is reported as
// domain.ErrFailedToRestore after every other step has run.
func (i *Installer) Uninstall(ctx context.Context) (err error) {
	if err := begin(ctx); err != nil {
		return err
	}
	if err := i.requireDir(); err != nil {
		return err
	}
	if err := i.requireSystemDir(); err != nil {
		return err
	}
	defer func() { i.record(ctx, PhaseUninstall, err) }()
	log := logging.FromContext(ctx)

	target, _ := i.CurrentTargetPath()
	wasMod := i.prober.Probe(target).IsMod()
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("removing module: %w", err)
	}
	i.forgetFile(ctx, target)
	i.removedMod = wasMod
	log.Info().Str("path", target).Msg("module removed")

	switch i.Method() {
	case domain.MethodSearchPathRedirect:
		dir := filepath.Dir(target)
		support := filepath.Join(dir, domain.RedirectSupportModule.FileName)
		if err := os.Remove(support); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", support).Msg("could not remove support module")
		} else {
			i.forgetFile(ctx, support)
		}
		if _, err := fsops.RemoveDirIfEmpty(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("could not remove redirect folder")
		}
	case domain.MethodPluginShim:
		holding, _ := i.HoldingPath()
		scan, _ := i.ScanPath()
		switch {
		case fsops.IsFile(scan):
			log.Debug().Str("path", scan).Msg("vendor plugin already in place")
		case fsops.IsFile(holding):
			if err := fsops.Move(holding, scan); err != nil {
				return fmt.Errorf("restoring vendor plugin: %w", err)
			}
		default:
			log.Warn().Str("path", holding).Msg("no vendor plugin to restore")
		}
		// The holding folder is also the data folder; keep it when the mod
		// left anything else there.
		if holding != "" {
			dir := filepath.Dir(holding)
			if _, err := fsops.RemoveDirIfEmpty(dir); err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("could not remove holding folder")
			}
		}
	case domain.MethodDirectReplace:
	}

	var restoreErr error
	if err := i.restoreExe(ctx); err != nil {
		restoreErr = fmt.Errorf("%w: %v", domain.ErrFailedToRestore, err)
	}

	i.offerAutoUpdateRestore(ctx)

	i.state = StateUninstalled
	return restoreErr
}

// RemovedMod reports whether the last Uninstall removed the mod itself
// rather than some other module at the target path.
func (i *Installer) RemovedMod() bool {
	return i.removedMod
}

// OfferDataDirRemoval asks whether to delete the mod's data folder after the
// mod was uninstalled, and deletes it on consent.
func (i *Installer) OfferDataDirRemoval(ctx context.Context) (bool, error) {
	if !i.removedMod {
		return false, nil
	}
	dir, err := i.DataDir()
	if err != nil || !fsops.IsDir(dir) {
		return false, err
	}
	if !i.confirm.Confirm(titleRemoveData, msgRemoveData) {
		return false, nil
	}
	return true, i.RemoveDataDir(ctx)
}

// RemoveDataDir deletes the mod's data folder. It only runs after Uninstall
// removed the mod.
func (i *Installer) RemoveDataDir(ctx context.Context) (err error) {
	if err := begin(ctx); err != nil {
		return err
	}
	if err := i.requireState(PhaseRemoveData, StateUninstalled); err != nil {
		return err
	}
	if !i.removedMod {
		return fmt.Errorf("%w: the removed module was not %s", domain.ErrInvalidState, domain.ModName)
	}
	defer func() { i.record(ctx, PhaseRemoveData, err) }()

	dir, _ := i.DataDir()
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing data dir: %w", err)
	}
	logging.FromContext(ctx).Info().Str("dir", dir).Msg("data dir removed")
	return nil
}
