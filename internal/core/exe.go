package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hachimi-installer/hachimi-installer/internal/delta"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/fsops"
	"github.com/hachimi-installer/hachimi-installer/internal/logging"
)

// ExeState classifies the live executable against its profile.
type ExeState int

const (
	ExeUnchecked ExeState = iota // the distribution has no executable profile
	ExeOriginal
	ExePatched
	ExeUnknown // matches no known hash
)

func (s ExeState) String() string {
	switch s {
	case ExeOriginal:
		return "original"
	case ExePatched:
		return "patched"
	case ExeUnknown:
		return "unknown"
	default:
		return "unchecked"
	}
}

// ExecutableState hashes the executable and classifies it. The hash is
// returned for reporting; it is empty for ExeUnchecked.
func (i *Installer) ExecutableState() (ExeState, string, error) {
	p := i.profile()
	if p.IsZero() {
		return ExeUnchecked, "", nil
	}
	exe, err := i.ExePath()
	if err != nil {
		return ExeUnknown, "", err
	}
	hash, err := delta.HashFile(exe)
	if err != nil {
		return ExeUnknown, "", err
	}
	return classify(p, hash), hash, nil
}

func classify(p domain.ExeProfile, hash string) ExeState {
	switch {
	case p.Patch != nil && delta.HashEqual(hash, p.Patch.OriginalSHA256):
		return ExeOriginal
	case p.Patch != nil && delta.HashEqual(hash, p.Patch.PatchedSHA256):
		return ExePatched
	case p.Patch == nil && p.VerifySHA256 != "" && delta.HashEqual(hash, p.VerifySHA256):
		return ExeOriginal
	case p.IsZero():
		return ExeUnchecked
	default:
		return ExeUnknown
	}
}

func (i *Installer) exeMismatch(hash string) error {
	p := i.profile()
	expected := p.VerifySHA256
	if p.Patch != nil {
		expected = p.Patch.OriginalSHA256
	}
	return &domain.VerificationError{What: i.dist.ExeName(), Expected: expected, Found: hash}
}

// backupExe keeps a verified copy of the unpatched executable. An existing
// backup is replaced so repeated attempts never chain backups.
func (i *Installer) backupExe(ctx context.Context) error {
	p := i.profile()
	if p.Patch == nil {
		return nil
	}
	state, hash, err := i.ExecutableState()
	if err != nil {
		return fmt.Errorf("hashing executable: %w", err)
	}

	exe, _ := i.ExePath()
	backup := exe + BackupSuffix
	log := logging.FromContext(ctx)

	switch state {
	case ExePatched:
		log.Debug().Str("backup", backup).Msg("executable already patched, keeping existing backup")
		return nil
	case ExeOriginal:
	default:
		return i.exeMismatch(hash)
	}

	if err := os.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing old backup: %w", err)
	}
	if err := fsops.Copy(exe, backup); err != nil {
		return fmt.Errorf("backing up executable: %w", err)
	}
	backupHash, err := delta.HashFile(backup)
	if err != nil {
		return fmt.Errorf("hashing backup: %w", err)
	}
	if !delta.HashEqual(backupHash, p.Patch.OriginalSHA256) {
		os.Remove(backup)
		return &domain.VerificationError{What: backup, Expected: p.Patch.OriginalSHA256, Found: backupHash}
	}

	i.recordFile(ctx, backup, "backup", backupHash)
	log.Debug().Str("backup", backup).Msg("executable backed up")
	return nil
}

// checkExe is the install gate. It reports whether the forward patch must be
// applied and never writes anything.
func (i *Installer) checkExe() (bool, error) {
	state, hash, err := i.ExecutableState()
	if err != nil {
		return false, fmt.Errorf("hashing executable: %w", err)
	}
	switch state {
	case ExeUnchecked, ExePatched:
		return false, nil
	case ExeOriginal:
		return i.profile().Patch != nil, nil
	default:
		return false, i.exeMismatch(hash)
	}
}

func (i *Installer) patchExe(ctx context.Context) error {
	p := i.profile().Patch
	exe, _ := i.ExePath()

	original, err := os.ReadFile(exe)
	if err != nil {
		return fmt.Errorf("reading executable: %w", err)
	}
	patch, err := i.payload.Read(p.Forward)
	if err != nil {
		return err
	}
	patched, err := delta.ApplyVerified(i.dist.ExeName(), original, patch, p.OriginalSHA256, p.PatchedSHA256)
	if err != nil {
		return err
	}
	if err := fsops.ReplaceFile(exe, patched, 0755); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Str("exe", exe).Msg("executable patched")
	return nil
}

// restoreExe reverts a patched executable with the reverse patch, falling
// back to the backup when the patch cannot be applied.
func (i *Installer) restoreExe(ctx context.Context) error {
	p := i.profile().Patch
	if p == nil {
		return nil
	}
	log := logging.FromContext(ctx)

	state, hash, err := i.ExecutableState()
	if err != nil {
		return err
	}
	exe, _ := i.ExePath()
	backup := exe + BackupSuffix

	switch state {
	case ExeOriginal:
		i.dropBackup(ctx, backup)
		return nil
	case ExePatched:
	default:
		return fmt.Errorf("executable hash %s matches neither the original nor the patched build", hash)
	}

	restored, err := i.reversePatch(exe, p)
	if err != nil {
		log.Warn().Err(err).Msg("reverse patch failed, trying backup")
		restored, err = i.readBackup(backup, p.OriginalSHA256)
		if err != nil {
			return err
		}
	}
	if err := fsops.ReplaceFile(exe, restored, 0755); err != nil {
		return err
	}

	i.dropBackup(ctx, backup)
	log.Info().Str("exe", exe).Msg("executable restored")
	return nil
}

func (i *Installer) reversePatch(exe string, p *domain.ExePatch) ([]byte, error) {
	live, err := os.ReadFile(exe)
	if err != nil {
		return nil, fmt.Errorf("reading executable: %w", err)
	}
	rev, err := i.payload.Read(p.Reverse)
	if err != nil {
		return nil, err
	}
	return delta.ApplyVerified(i.dist.ExeName(), live, rev, p.PatchedSHA256, p.OriginalSHA256)
}

func (i *Installer) readBackup(backup, want string) ([]byte, error) {
	data, err := os.ReadFile(backup)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	if err := delta.Verify(backup, data, want); err != nil {
		return nil, err
	}
	return data, nil
}

func (i *Installer) dropBackup(ctx context.Context, backup string) {
	if err := os.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.FromContext(ctx).Warn().Err(err).Str("backup", backup).Msg("could not remove executable backup")
		return
	}
	i.forgetFile(ctx, backup)
}
