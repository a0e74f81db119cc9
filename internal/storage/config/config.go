package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the config dir.
const FileName = "config.yaml"

// DefaultUpdateRepo is the repository whose releases the update check reads.
const DefaultUpdateRepo = "Hachimi-Hachimi/Hachimi-Installer"

// Config holds global installer settings
type Config struct {
	InstallDir     string   `yaml:"install_dir,omitempty"`
	Channel        string   `yaml:"channel,omitempty"`
	Target         string   `yaml:"target,omitempty"`
	PayloadDir     string   `yaml:"payload_dir,omitempty"`
	LogLevel       string   `yaml:"log_level,omitempty"`
	CheckUpdates   bool     `yaml:"check_updates"`
	UpdateRepo     string   `yaml:"update_repo,omitempty"`
	SteamLibraries []string `yaml:"steam_libraries,omitempty"`

	// Executables overrides the executable hashes and patches per channel,
	// keyed by channel name (dmm, steam, steam-global).
	Executables map[string]ExecutableConfig `yaml:"executables,omitempty"`
}

// ExecutableConfig is the on-disk form of domain.ExeProfile. Setting
// forward_patch turns it into a patch profile; otherwise verify_sha256 is a
// verify-only gate.
type ExecutableConfig struct {
	VerifySHA256   string `yaml:"verify_sha256,omitempty"`
	ForwardPatch   string `yaml:"forward_patch,omitempty"`
	ReversePatch   string `yaml:"reverse_patch,omitempty"`
	OriginalSHA256 string `yaml:"original_sha256,omitempty"`
	PatchedSHA256  string `yaml:"patched_sha256,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		LogLevel:     "warn",
		CheckUpdates: true,
		UpdateRepo:   DefaultUpdateRepo,
	}
}

// DefaultDir returns the per-user config directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config dir: %w", err)
	}
	return filepath.Join(base, "hachimi-installer"), nil
}

// Load reads configuration from the given directory. A missing file yields
// the defaults.
func Load(configDir string) (*Config, error) {
	cfg, err := LoadFile(filepath.Join(configDir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads configuration from an explicit file. Unset fields keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown channel and target names.
func (c *Config) Validate() error {
	if c.Channel != "" && domain.ParseDistribution(c.Channel) == domain.DistUnknown {
		return fmt.Errorf("config: unknown channel %q", c.Channel)
	}
	if c.Target != "" {
		if _, err := domain.ParseTarget(c.Target); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	for name, exe := range c.Executables {
		if domain.ParseDistribution(name) == domain.DistUnknown {
			return fmt.Errorf("config: unknown channel %q in executables", name)
		}
		if exe.ForwardPatch != "" && (exe.ReversePatch == "" || exe.OriginalSHA256 == "" || exe.PatchedSHA256 == "") {
			return fmt.Errorf("config: executables.%s needs reverse_patch, original_sha256 and patched_sha256 with forward_patch", name)
		}
	}
	return nil
}

// Distribution returns the configured channel, DistUnknown when unset.
func (c *Config) Distribution() domain.Distribution {
	return domain.ParseDistribution(c.Channel)
}

// Profiles returns base with the configured executable overrides applied.
// base is not modified.
func (c *Config) Profiles(base map[domain.Distribution]domain.ExeProfile) map[domain.Distribution]domain.ExeProfile {
	out := make(map[domain.Distribution]domain.ExeProfile, len(base)+len(c.Executables))
	for d, p := range base {
		out[d] = p
	}
	for name, exe := range c.Executables {
		out[domain.ParseDistribution(name)] = exe.profile()
	}
	return out
}

func (e ExecutableConfig) profile() domain.ExeProfile {
	if e.ForwardPatch == "" {
		return domain.ExeProfile{VerifySHA256: e.VerifySHA256}
	}
	return domain.ExeProfile{Patch: &domain.ExePatch{
		Forward:        e.ForwardPatch,
		Reverse:        e.ReversePatch,
		OriginalSHA256: e.OriginalSHA256,
		PatchedSHA256:  e.PatchedSHA256,
	}}
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, FileName), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
