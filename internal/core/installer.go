package core

import (
	"context"
	"fmt"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/locate"
	"github.com/hachimi-installer/hachimi-installer/internal/payload"
	"github.com/hachimi-installer/hachimi-installer/internal/probe"
	"github.com/hachimi-installer/hachimi-installer/internal/storage/db"
)

// State is the installer's position in the install/uninstall lifecycle.
type State int

const (
	StateUninitialized State = iota // no install directory
	StateResolved
	StatePreInstalled
	StateInstalled
	StatePostInstalled
	StateUninstalled
)

func (s State) String() string {
	switch s {
	case StateResolved:
		return "resolved"
	case StatePreInstalled:
		return "pre-installed"
	case StateInstalled:
		return "installed"
	case StatePostInstalled:
		return "post-installed"
	case StateUninstalled:
		return "uninstalled"
	default:
		return "uninitialized"
	}
}

// VersionProber reads version metadata of a module on disk.
type VersionProber interface {
	Probe(path string) *domain.ModuleVersionInfo
}

// Options configures a new Installer.
type Options struct {
	// InstallDir skips detection. It must contain a recognized executable.
	InstallDir string
	// Distribution selects which detected installation to use.
	Distribution domain.Distribution
	Target       domain.Target
	// CustomTarget replaces the target file name; an absolute path is used as is.
	CustomTarget string
	// SystemDir is where plugin-shim targets are written.
	SystemDir string

	Locator   *locate.Locator // nil disables detection
	Payload   payload.Provider
	Profiles  map[domain.Distribution]domain.ExeProfile // nil uses the built-in profiles
	Confirmer Confirmer                                 // nil declines every question
	Registry  RegistryFlag                              // nil skips the redirection flag check
	Prober    VersionProber                             // nil uses the PE prober
	Journal   *db.DB                                    // optional
}

// Installer places and removes the mod for one game installation. It is not
// safe for concurrent use.
type Installer struct {
	dir          string
	dist         domain.Distribution
	target       domain.Target
	customTarget string
	systemDir    string

	locator  *locate.Locator
	payload  payload.Provider
	profiles map[domain.Distribution]domain.ExeProfile
	confirm  Confirmer
	registry RegistryFlag
	prober   VersionProber
	journal  *db.DB

	state      State
	removedMod bool // last Uninstall removed the mod itself
}

// New creates an installer and resolves the install directory: an explicit
// directory is validated, a chosen distribution is detected, and otherwise
// every probe runs. Several detected installations without a chosen
// distribution yield *domain.MultipleInstallationsError.
func New(opts Options) (*Installer, error) {
	i := &Installer{
		target:       opts.Target,
		customTarget: opts.CustomTarget,
		systemDir:    opts.SystemDir,
		locator:      opts.Locator,
		payload:      opts.Payload,
		profiles:     opts.Profiles,
		confirm:      opts.Confirmer,
		registry:     opts.Registry,
		prober:       opts.Prober,
		journal:      opts.Journal,
	}
	if i.profiles == nil {
		i.profiles = domain.DefaultExeProfiles()
	}
	if i.confirm == nil {
		i.confirm = AutoConfirm{}
	}
	if i.prober == nil {
		i.prober = probe.New()
	}

	if err := i.resolve(opts.InstallDir, opts.Distribution); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *Installer) resolve(dir string, dist domain.Distribution) error {
	i.dir, i.dist = "", domain.DistUnknown
	i.state = StateUninitialized
	i.removedMod = false

	switch {
	case dir != "":
		found, err := locate.Validate(dir)
		if err != nil {
			return err
		}
		i.dir, i.dist = dir, found

	case dist != domain.DistUnknown:
		if i.locator == nil {
			return fmt.Errorf("%w: detection disabled", domain.ErrNoInstallDir)
		}
		found, ok := i.locator.Detect(dist)
		if !ok {
			return fmt.Errorf("%w: %s installation not found", domain.ErrNoInstallDir, dist.DisplayName())
		}
		i.dir, i.dist = found, dist

	default:
		if i.locator == nil {
			return nil
		}
		det := i.locator.DetectAll()
		if det.Ambiguous() {
			return &domain.MultipleInstallationsError{Found: det.Found()}
		}
		found := det.Found()
		if len(found) == 0 {
			return nil
		}
		i.dir, i.dist = found[0].Dir, found[0].Distribution
	}

	i.state = StateResolved
	return nil
}

// SetDistribution re-resolves the install directory for dist and resets the
// lifecycle.
func (i *Installer) SetDistribution(dist domain.Distribution) error {
	return i.resolve("", dist)
}

// SetInstallDir validates dir, switches to it and resets the lifecycle.
func (i *Installer) SetInstallDir(dir string) error {
	return i.resolve(dir, domain.DistUnknown)
}

// SetTarget changes the target for the next install or uninstall.
func (i *Installer) SetTarget(t domain.Target, custom string) {
	i.target, i.customTarget = t, custom
}

func (i *Installer) State() State                      { return i.state }
func (i *Installer) InstallDir() string                { return i.dir }
func (i *Installer) Distribution() domain.Distribution { return i.dist }
func (i *Installer) Target() domain.Target             { return i.target }

// Method returns the install method of the current target.
func (i *Installer) Method() domain.InstallMethod {
	return domain.MethodFor(i.target, i.dist)
}

func (i *Installer) requireDir() error {
	if i.dir == "" {
		return domain.ErrNoInstallDir
	}
	return nil
}

func (i *Installer) requireState(phase string, want State) error {
	if err := i.requireDir(); err != nil {
		return err
	}
	if i.state != want {
		return fmt.Errorf("%w: %s requires %s, installer is %s", domain.ErrInvalidState, phase, want, i.state)
	}
	return nil
}

func (i *Installer) profile() domain.ExeProfile {
	return i.profiles[i.dist]
}

// begin checks cancellation at phase entry.
func begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	return nil
}
