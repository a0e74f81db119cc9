package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hachimi-installer/hachimi-installer/internal/core"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/locate"
	"github.com/hachimi-installer/hachimi-installer/internal/logging"
	"github.com/hachimi-installer/hachimi-installer/internal/payload"
	"github.com/hachimi-installer/hachimi-installer/internal/storage/config"
	"github.com/hachimi-installer/hachimi-installer/internal/storage/db"
	"github.com/hachimi-installer/hachimi-installer/internal/sysinfo"
	"github.com/hachimi-installer/hachimi-installer/internal/tui"
	"github.com/hachimi-installer/hachimi-installer/internal/updater"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// journalFile is the SQLite journal inside the data dir.
const journalFile = "installer.db"

// updateWait bounds how long a finished command waits for the update check.
const updateWait = 5 * time.Second

// appEnv is the per-invocation state shared by the commands
type appEnv struct {
	ctx     context.Context
	cfg     *config.Config
	db      *db.DB
	out     io.Writer
	display displayContext
}

// initEnv loads the config, sets up logging and opens the journal.
func initEnv(cmd *cobra.Command) (*appEnv, error) {
	if assumeYes && assumeNo {
		return nil, errors.New("--yes and --no cannot be used together")
	}
	cfg, cfgDir, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.Config{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		NoColor: !colorEnabled(),
	})
	ctx := logging.WithLogger(cmd.Context(), logger)

	dir := dataDir
	if dir == "" {
		dir = cfgDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	journal, err := db.New(filepath.Join(dir, journalFile))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	return &appEnv{
		ctx:     ctx,
		cfg:     cfg,
		db:      journal,
		out:     cmd.OutOrStdout(),
		display: displayContext{version: version, color: colorEnabled()},
	}, nil
}

// loadConfig reads --config or the default config file and returns the
// directory it belongs to.
func loadConfig() (*config.Config, string, error) {
	if configFile != "" {
		path, err := config.ParseConfigPath(configFile)
		if err != nil {
			return nil, "", err
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, filepath.Dir(path), nil
	}

	dir, err := config.DefaultDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

func (e *appEnv) Close() {
	if err := e.db.Close(); err != nil {
		e.log().Warn().Err(err).Msg("closing journal")
	}
}

func (e *appEnv) log() *zerolog.Logger {
	return logging.FromContext(e.ctx)
}

// confirmer picks how questions are answered: --yes or --no, the terminal,
// or a silent no when nobody can be asked.
func (e *appEnv) confirmer() core.Confirmer {
	switch {
	case assumeYes:
		return core.AutoConfirm{Answer: true}
	case assumeNo:
		return core.AutoConfirm{}
	case stdinIsTerminal():
		return tui.NewPrompter()
	default:
		return core.AutoConfirm{}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// installerOptions merges flags over the config file.
func (e *appEnv) installerOptions(confirm core.Confirmer) (core.Options, error) {
	opts := core.Options{
		InstallDir:   firstNonEmpty(installDir, e.cfg.InstallDir),
		CustomTarget: customTarget,
		Profiles:     e.cfg.Profiles(domain.DefaultExeProfiles()),
		Confirmer:    confirm,
		Registry:     sysinfo.DevOverride{},
		Journal:      e.db,
	}

	if ch := firstNonEmpty(channel, e.cfg.Channel); ch != "" {
		opts.Distribution = domain.ParseDistribution(ch)
		if opts.Distribution == domain.DistUnknown {
			return opts, fmt.Errorf("unknown channel %q (want dmm, steam or steam-global)", ch)
		}
	}
	if name := firstNonEmpty(targetName, e.cfg.Target); name != "" {
		t, err := domain.ParseTarget(name)
		if err != nil {
			return opts, err
		}
		opts.Target = t
	}

	if dir := firstNonEmpty(payloadDir, e.cfg.PayloadDir); dir != "" {
		opts.Payload = payload.Dir(dir)
	} else {
		dir, err := payload.DefaultDir()
		if err != nil {
			return opts, err
		}
		opts.Payload = dir
	}

	sysDir, err := sysinfo.SystemDir()
	if err != nil {
		e.log().Debug().Err(err).Msg("system directory unavailable")
	}
	opts.SystemDir = sysDir

	appData, err := sysinfo.AppDataDir()
	if err != nil {
		e.log().Debug().Err(err).Msg("app-data directory unavailable")
	}
	opts.Locator = locate.New(appData, e.cfg.SteamLibraries...)

	return opts, nil
}

// newInstaller resolves the installation for a non-interactive command.
func (e *appEnv) newInstaller(confirm core.Confirmer) (*core.Installer, error) {
	opts, err := e.installerOptions(confirm)
	if err != nil {
		return nil, err
	}
	return resolveInstaller(opts)
}

func resolveInstaller(opts core.Options) (*core.Installer, error) {
	inst, err := core.New(opts)
	var multi *domain.MultipleInstallationsError
	if errors.As(err, &multi) {
		return nil, fmt.Errorf("%w; choose one with --channel or --install-dir", err)
	}
	if err != nil {
		return nil, err
	}
	if inst.InstallDir() == "" {
		return nil, fmt.Errorf("%w: no installation detected; use --install-dir", domain.ErrNoInstallDir)
	}
	return inst, nil
}

// sleepFor waits d unless ctx ends first.
func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitForGameExit refuses to continue while the game runs. With prompt set
// the user is asked to close it until it exits or they give up.
func (e *appEnv) waitForGameExit(inst *core.Installer, confirm core.Confirmer, prompt bool) error {
	exe := inst.Distribution().ExeName()
	for {
		running, err := sysinfo.IsProcessRunning(e.ctx, exe)
		if err != nil {
			e.log().Warn().Err(err).Msg("could not check whether the game is running")
			return nil
		}
		if !running {
			return nil
		}
		if !prompt {
			return fmt.Errorf("%s is running; close the game first", exe)
		}
		if !confirm.Confirm("Game is running", "Please close the game, then continue.") {
			return ErrCancelled
		}
		if err := sleepFor(e.ctx, time.Second); err != nil {
			return err
		}
	}
}

// startUpdateCheck begins the background release check when enabled and a
// token is available.
func (e *appEnv) startUpdateCheck() *updater.Pending {
	if !e.cfg.CheckUpdates {
		return nil
	}
	token, err := updater.ResolveToken(os.Getenv, e.db)
	if err != nil || token == "" {
		e.log().Debug().Err(err).Msg("skipping update check: no token")
		return nil
	}
	client := updater.NewClient(nil, "", token)
	return updater.Start(e.ctx, client, e.cfg.UpdateRepo, version)
}

func (e *appEnv) reportUpdate(p *updater.Pending) {
	if p == nil {
		return
	}
	if !p.Ready() {
		e.log().Debug().Dur("timeout", updateWait).Msg("waiting for update check")
	}
	ctx, cancel := context.WithTimeout(e.ctx, updateWait)
	defer cancel()

	res, err := p.Wait(ctx)
	if err != nil {
		e.log().Debug().Err(err).Msg("update check failed")
		return
	}
	if res.Available {
		fmt.Fprintln(e.out, e.display.yellow(fmt.Sprintf("A new installer version is available: v%s (%s)", res.Latest, res.URL)))
	}
}
