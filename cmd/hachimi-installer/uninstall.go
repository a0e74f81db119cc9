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
	uninstallSleep      time.Duration
	uninstallPromptExit bool
	uninstallPurgeData  bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the mod",
	Long: `Remove Hachimi from the game installation and restore the original files.

Examples:
  hachimi-installer uninstall
  hachimi-installer uninstall --purge-data --yes`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().DurationVar(&uninstallSleep, "sleep", 0, "wait this long before starting (e.g. 5s)")
	uninstallCmd.Flags().BoolVar(&uninstallPromptExit, "prompt-for-game-exit", false, "ask to close the game instead of failing while it runs")
	uninstallCmd.Flags().BoolVar(&uninstallPurgeData, "purge-data", false, "also delete the mod's data folder without asking")

	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
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

	if err := sleepFor(env.ctx, uninstallSleep); err != nil {
		return err
	}
	if err := env.waitForGameExit(inst, confirm, uninstallPromptExit); err != nil {
		return err
	}

	return doUninstall(env, inst, uninstallPurgeData)
}

// doUninstall removes the mod and then deals with its data folder.
func doUninstall(env *appEnv, inst *core.Installer, purge bool) error {
	path, _ := inst.CurrentTargetPath()
	err := inst.Uninstall(env.ctx)
	switch {
	case errors.Is(err, domain.ErrFailedToRestore):
		// Everything else was undone
		fmt.Fprintf(env.out, "%s Removed %s\n", env.display.yellow("!"), path)
		return fmt.Errorf("%w; verify the game files in your launcher", err)
	case err != nil:
		return err
	}
	fmt.Fprintf(env.out, "%s Removed %s\n", env.display.green("✓"), path)

	if !inst.RemovedMod() {
		return nil
	}
	if purge {
		if err := inst.RemoveDataDir(env.ctx); err != nil {
			return err
		}
		fmt.Fprintln(env.out, "Removed mod data")
		return nil
	}
	removed, err := inst.OfferDataDirRemoval(env.ctx)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(env.out, "Removed mod data")
	}
	return nil
}
