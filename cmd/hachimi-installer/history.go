package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hachimi-installer/hachimi-installer/internal/core"
	"github.com/hachimi-installer/hachimi-installer/internal/storage/db"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyFiles bool
)

type operationJSON struct {
	ID        string    `json:"id"`
	Phase     string    `json:"phase"`
	Channel   string    `json:"channel"`
	Target    string    `json:"target"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type historyJSON struct {
	InstallDir string           `json:"install_dir"`
	Operations []operationJSON  `json:"operations"`
	Files      []placedFileJSON `json:"files,omitempty"`
}

type placedFileJSON struct {
	Path   string `json:"path"`
	Role   string `json:"role"`
	SHA256 string `json:"sha256"`
}

func toOperationJSON(op db.Operation) operationJSON {
	return operationJSON{
		ID:        op.ID,
		Phase:     op.Phase,
		Channel:   op.Channel,
		Target:    op.Target,
		Outcome:   op.Outcome,
		Message:   op.Message,
		CreatedAt: op.CreatedAt,
	}
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past install and uninstall operations",
	Long: `Show the journal of install phases run against the installation, newest first.

Examples:
  hachimi-installer history
  hachimi-installer history --limit 5 --files`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of operations to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyFiles, "files", false, "also list the files the installer placed")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	inst, err := env.newInstaller(core.AutoConfirm{})
	if err != nil {
		return err
	}
	dir := inst.InstallDir()

	ops, err := env.db.ListOperations(dir, historyLimit)
	if err != nil {
		return err
	}
	out := historyJSON{InstallDir: dir, Operations: []operationJSON{}}
	for _, op := range ops {
		out.Operations = append(out.Operations, toOperationJSON(op))
	}
	if historyFiles {
		files, err := env.db.GetPlacedFiles(dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			out.Files = append(out.Files, placedFileJSON{Path: f.Path, Role: f.Role, SHA256: f.SHA256})
		}
	}

	if jsonOutput {
		return writeJSON(env.out, out)
	}

	if len(out.Operations) == 0 {
		fmt.Fprintln(env.out, "No operations recorded.")
		return nil
	}

	w := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPHASE\tCHANNEL\tTARGET\tOUTCOME")
	fmt.Fprintln(w, "----\t-----\t-------\t------\t-------")
	for _, op := range out.Operations {
		outcome := env.display.green(op.Outcome)
		if op.Outcome != db.OutcomeOK {
			outcome = env.display.red(op.Outcome) + ": " + truncate(op.Message, 60)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			op.CreatedAt.Local().Format(time.DateTime), op.Phase, op.Channel, op.Target, outcome)
	}
	w.Flush()

	if historyFiles && len(out.Files) > 0 {
		fmt.Fprintln(env.out, "\nPlaced files:")
		for _, f := range out.Files {
			fmt.Fprintf(env.out, "  %-8s %s\n", f.Role, f.Path)
		}
	}
	return nil
}
