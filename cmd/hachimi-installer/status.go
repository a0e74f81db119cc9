package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hachimi-installer/hachimi-installer/internal/core"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/payload"
	"github.com/hachimi-installer/hachimi-installer/internal/probe"

	"github.com/spf13/cobra"
)

type statusJSON struct {
	InstallDir     string             `json:"install_dir"`
	Channel        string             `json:"channel"`
	Executable     string             `json:"executable"`
	ExecutableHash string             `json:"executable_sha256,omitempty"`
	Targets        []targetStatusJSON `json:"targets"`
	PackagedModVer string             `json:"packaged_version,omitempty"`
	LastOperation  *operationJSON     `json:"last_operation,omitempty"`
}

type targetStatusJSON struct {
	File      string `json:"file"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Present   bool   `json:"present"`
	Installed bool   `json:"installed"` // the module is the mod
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the game installation",
	Long: `Show the resolved installation, the executable state, what is installed at
each target, and the version of the mod packaged with this installer.

Examples:
  hachimi-installer status
  hachimi-installer status --channel steam --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	opts, err := env.installerOptions(core.AutoConfirm{})
	if err != nil {
		return err
	}
	inst, err := resolveInstaller(opts)
	if err != nil {
		return err
	}

	st := collectStatus(env, inst, opts.Payload)
	if jsonOutput {
		return writeJSON(env.out, st)
	}
	printStatus(env, st)
	return nil
}

func collectStatus(env *appEnv, inst *core.Installer, pl payload.Provider) statusJSON {
	st := statusJSON{
		InstallDir: inst.InstallDir(),
		Channel:    inst.Distribution().String(),
	}

	state, hash, err := inst.ExecutableState()
	if err != nil {
		env.log().Warn().Err(err).Msg("could not hash executable")
	}
	st.Executable, st.ExecutableHash = state.String(), hash

	for _, t := range domain.AllTargets() {
		path, _ := inst.TargetPath(t)
		info := inst.VersionInfo(t)
		ts := targetStatusJSON{
			File:      t.FileName(),
			Path:      path,
			Method:    domain.MethodFor(t, inst.Distribution()).String(),
			Present:   info != nil,
			Installed: info.IsMod(),
		}
		if info != nil {
			ts.Name, ts.Version = info.NameOr(""), info.VersionOr("")
		}
		st.Targets = append(st.Targets, ts)
	}

	if pl != nil {
		if data, err := pl.Read(payload.ModModule); err == nil {
			st.PackagedModVer = probe.New().ProbeBytes(data).VersionOr("")
		} else {
			env.log().Debug().Err(err).Msg("no packaged module")
		}
	}

	if op, err := env.db.LastOperation(inst.InstallDir()); err == nil && op != nil {
		o := toOperationJSON(*op)
		st.LastOperation = &o
	}
	return st
}

func printStatus(env *appEnv, st statusJSON) {
	fmt.Fprintf(env.out, "Install Dir: %s\n", st.InstallDir)
	fmt.Fprintf(env.out, "Channel:     %s\n", domain.ParseDistribution(st.Channel).DisplayName())
	exe := st.Executable
	switch exe {
	case core.ExeUnknown.String():
		exe = env.display.red(exe)
	case core.ExePatched.String():
		exe = env.display.green(exe)
	}
	fmt.Fprintf(env.out, "Executable:  %s\n", exe)
	if verbose && st.ExecutableHash != "" {
		fmt.Fprintf(env.out, "  SHA-256:   %s\n", st.ExecutableHash)
	}
	fmt.Fprintln(env.out)

	w := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tMETHOD\tMODULE\tVERSION")
	fmt.Fprintln(w, "------\t------\t------\t-------")
	for _, t := range st.Targets {
		module := "-"
		if t.Present {
			module = firstNonEmpty(t.Name, "(unknown)")
		}
		if t.Installed {
			module = env.display.green(module)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.File, t.Method, module, firstNonEmpty(t.Version, "-"))
		if verbose {
			fmt.Fprintf(w, "  %s\t\t\t\n", truncate(t.Path, 70))
		}
	}
	w.Flush()

	if st.PackagedModVer != "" {
		fmt.Fprintf(env.out, "\nPackaged %s: v%s\n", domain.ModName, st.PackagedModVer)
	}
	if op := st.LastOperation; op != nil {
		fmt.Fprintf(env.out, "Last operation: %s %s (%s)\n", op.Phase, op.Outcome, op.CreatedAt.Local().Format(time.DateTime))
	}
}
