package core

import (
	"context"

	"github.com/hachimi-installer/hachimi-installer/internal/logging"
	"github.com/hachimi-installer/hachimi-installer/internal/storage/db"
)

// Journal phase names
const (
	PhasePreInstall  = "pre_install"
	PhasePostInstall = "post_install"
	PhaseInstall     = "install"
	PhaseUninstall   = "uninstall"
	PhaseRemoveData  = "remove_data"
)

// record journals the outcome of a phase. Journal failures are logged only.
func (i *Installer) record(ctx context.Context, phase string, err error) {
	if i.journal == nil {
		return
	}
	op := &db.Operation{
		Phase:      phase,
		Channel:    i.dist.String(),
		InstallDir: i.dir,
		Target:     i.target.FileName(),
		Outcome:    db.OutcomeOK,
	}
	if err != nil {
		op.Outcome = db.OutcomeError
		op.Message = err.Error()
	}
	if jerr := i.journal.RecordOperation(op); jerr != nil {
		logging.FromContext(ctx).Warn().Err(jerr).Str("phase", phase).Msg("could not journal operation")
	}
}

func (i *Installer) recordFile(ctx context.Context, path, role, hash string) {
	if i.journal == nil {
		return
	}
	err := i.journal.SavePlacedFile(db.PlacedFile{InstallDir: i.dir, Path: path, Role: role, SHA256: hash})
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", path).Msg("could not journal placed file")
	}
}

func (i *Installer) forgetFile(ctx context.Context, path string) {
	if i.journal == nil {
		return
	}
	if err := i.journal.DeletePlacedFile(i.dir, path); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", path).Msg("could not journal removed file")
	}
}
