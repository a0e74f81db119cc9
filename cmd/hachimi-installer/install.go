package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/hachimi-installer/hachimi-installer/internal/core"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"

	"github.com/spf13/cobra"
)

var (
	installSleep      time.Duration
	installPromptExit bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the mod",
	Long: `Install Hachimi into the detected or given game installation.

The executable is verified before anything is written. Builds that need it
are patched, with a backup kept next to the executable.

Examples:
  hachimi-installer install
  hachimi-installer install --channel steam --target cri_mana_vpx.dll
  hachimi-installer install --install-dir "D:\Games\Umamusume" --yes`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().DurationVar(&installSleep, "sleep", 0, "wait this long before starting (e.g. 5s)")
	installCmd.Flags().BoolVar(&installPromptExit, "prompt-for-game-exit", false, "ask to close the game instead of failing while it runs")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	confirm := env.confirmer()
	inst, err := env.newInstaller(confirm)
	if err != nil {
		return err
	}

	pending := env.startUpdateCheck()
	if err := sleepFor(env.ctx, installSleep); err != nil {
		return err
	}
	if err := env.waitForGameExit(inst, confirm, installPromptExit); err != nil {
		return err
	}

	env.reportUpdate(pending)
	return doInstall(env, inst)
}

// doInstall runs the three install phases and reports the result.
func doInstall(env *appEnv, inst *core.Installer) error {
	if info := inst.VersionInfo(inst.Target()); info.IsMod() {
		fmt.Fprintf(env.out, "Currently installed: v%s\n", info.VersionOr("?"))
	}

	for _, phase := range []func() error{
		func() error { return inst.PreInstall(env.ctx) },
		func() error { return inst.Install(env.ctx) },
		func() error { return inst.PostInstall(env.ctx) },
	} {
		if err := phase(); err != nil {
			return installError(err)
		}
	}

	path, _ := inst.CurrentTargetPath()
	fmt.Fprintf(env.out, "%s Installed %s to %s\n", env.display.green("✓"), domain.ModName, path)
	return nil
}

// installError adds a hint for failures the user can act on.
func installError(err error) error {
	var elsewhere *domain.ModInstalledElsewhereError
	switch {
	case errors.As(err, &elsewhere):
		return fmt.Errorf("%w; uninstall it first or use --target %s", err, elsewhere.Target.FileName())
	case errors.Is(err, domain.ErrVerification):
		return fmt.Errorf("%w; the game was probably updated, wait for a new installer release", err)
	case errors.Is(err, domain.ErrCannotFindTarget):
		return fmt.Errorf("%w; verify the game files and try again", err)
	default:
		return err
	}
}
