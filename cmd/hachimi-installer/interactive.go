package main

import (
	"errors"
	"fmt"

	"github.com/hachimi-installer/hachimi-installer/internal/core"
	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/tui"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Pick an installation, target and action in the terminal",
	Long: `Start the interactive installer. This is also what runs when
hachimi-installer is started in a terminal without a subcommand.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

// runInteractive walks the user through picking an installation, a target
// and an action, then runs it with terminal prompts.
func runInteractive(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var confirm core.Confirmer = tui.NewPrompter()
	switch {
	case assumeYes:
		confirm = core.AutoConfirm{Answer: true}
	case assumeNo:
		confirm = core.AutoConfirm{}
	}

	opts, err := env.installerOptions(confirm)
	if err != nil {
		return err
	}
	inst, found, err := interactiveInstaller(opts)
	if err != nil {
		return err
	}

	pending := env.startUpdateCheck()

	choice, err := tui.Run(inst, found, version)
	if err != nil {
		return err
	}
	inst.SetTarget(choice.Target, customTarget)
	env.log().Debug().Str("action", choice.Action.String()).Str("target", choice.Target.String()).Str("dir", inst.InstallDir()).Msg("interactive choice")

	if err := env.waitForGameExit(inst, confirm, true); err != nil {
		return err
	}

	switch choice.Action {
	case tui.ActionInstall:
		env.reportUpdate(pending)
		return doInstall(env, inst)
	case tui.ActionUninstall:
		return doUninstall(env, inst, false)
	default:
		return ErrCancelled
	}
}

// interactiveInstaller creates the installer without failing on ambiguous
// detection; the detected installations are returned for the user to pick
// from instead.
func interactiveInstaller(opts core.Options) (*core.Installer, []domain.Installation, error) {
	inst, err := core.New(opts)
	var multi *domain.MultipleInstallationsError
	if !errors.As(err, &multi) {
		return inst, nil, err
	}

	opts.Distribution = multi.Found[0].Distribution
	inst, err = core.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s: %w", opts.Distribution.DisplayName(), err)
	}
	return inst, multi.Found, nil
}
