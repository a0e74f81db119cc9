package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hachimi-installer/hachimi-installer/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user cancels an operation (e.g. prompt declined).
// When returned from a command, Execute exits with code 2.
var ErrCancelled = tui.ErrCancelled

var (
	version = "0.15.0"

	// Global flags
	configFile   string
	dataDir      string
	installDir   string
	channel      string
	targetName   string
	customTarget string
	payloadDir   string
	verbose      bool
	jsonOutput   bool
	noColor      bool
	assumeYes    bool
	assumeNo     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hachimi-installer",
	Short: "Install and uninstall the Hachimi mod",
	Long: `hachimi-installer places the Hachimi mod into a Umamusume installation and
removes it again, patching and restoring the game executable where needed.

Without a subcommand in a terminal it starts the interactive installer.
Run 'hachimi-installer --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdinIsTerminal() {
			return cmd.Help()
		}
		return runInteractive(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: <user config dir>/hachimi-installer/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory for the operation journal (default: config dir)")
	rootCmd.PersistentFlags().StringVarP(&installDir, "install-dir", "d", "", "game install directory (skips detection)")
	rootCmd.PersistentFlags().StringVarP(&channel, "channel", "c", "", "game distribution: dmm, steam, steam-global")
	rootCmd.PersistentFlags().StringVarP(&targetName, "target", "t", "", "install target: UnityPlayer.dll or cri_mana_vpx.dll")
	rootCmd.PersistentFlags().StringVar(&customTarget, "custom-target", "", "custom target file name, or an absolute path")
	rootCmd.PersistentFlags().StringVar(&payloadDir, "payload", "", "directory holding the mod payload (default: next to the executable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (status, detect, history)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every question")
	rootCmd.PersistentFlags().BoolVar(&assumeNo, "no", false, "answer no to every question")

	rootCmd.AddCommand(interactiveCmd)
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
func colorEnabled() bool {
	return !noColor && os.Getenv("NO_COLOR") == ""
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, ErrCancelled) {
		return 2
	}
	if jsonOutput {
		fmt.Printf(`{"error":%q}`+"\n", err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}
