package core

import (
	"context"

	"github.com/hachimi-installer/hachimi-installer/internal/fsops"
	"github.com/hachimi-installer/hachimi-installer/internal/logging"
	"github.com/hachimi-installer/hachimi-installer/internal/source/steam"
)

// steamManifest returns the app manifest of the active storefront build.
func (i *Installer) steamManifest() (string, bool) {
	appID := i.dist.SteamAppID()
	if appID == "" || i.dir == "" {
		return "", false
	}
	steamapps, ok := steam.FindSteamappsDir(i.dir)
	if !ok {
		return "", false
	}
	manifest := steam.ManifestPath(steamapps, appID)
	if !fsops.IsFile(manifest) {
		return "", false
	}
	return manifest, true
}

// offerAutoUpdateChange asks to switch Steam to update-on-launch. Failures
// are logged and never block the install.
func (i *Installer) offerAutoUpdateChange(ctx context.Context) {
	manifest, ok := i.steamManifest()
	if !ok {
		return
	}
	log := logging.FromContext(ctx).With().Str("manifest", manifest).Logger()

	value, err := steam.ReadAutoUpdateBehavior(manifest)
	if err != nil {
		log.Warn().Err(err).Msg("could not read auto-update setting")
		return
	}
	if value == steam.AutoUpdateOnLaunch {
		return
	}
	if !i.confirm.Confirm(titleAutoUpdate, msgAutoUpdate) {
		return
	}

	changed, err := steam.SetAutoUpdateOnLaunch(manifest)
	if err != nil {
		log.Warn().Err(err).Msg("could not change auto-update setting")
		return
	}
	if changed {
		log.Info().Msg("auto-update set to update on launch")
		i.confirm.Notify(titleAutoUpdateChanged, msgAutoUpdateChanged)
	}
}

// offerAutoUpdateRestore asks to put back the setting saved by
// offerAutoUpdateChange.
func (i *Installer) offerAutoUpdateRestore(ctx context.Context) {
	manifest, ok := i.steamManifest()
	if !ok || !steam.HasBackup(manifest) {
		return
	}
	if !i.confirm.Confirm(titleRestoreAutoUpdate, msgRestoreAutoUpdate) {
		return
	}

	restored, err := steam.RestoreAutoUpdate(manifest)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("manifest", manifest).Msg("could not restore auto-update setting")
	}
	if restored {
		i.confirm.Notify(titleAutoUpdateRestore, msgAutoUpdateRestore)
	}
}
