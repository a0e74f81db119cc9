package main

import (
	"fmt"

	"github.com/hachimi-installer/hachimi-installer/internal/locate"
	"github.com/hachimi-installer/hachimi-installer/internal/sysinfo"

	"github.com/spf13/cobra"
)

type detectJSON struct {
	Channel string `json:"channel"`
	Name    string `json:"name"`
	Dir     string `json:"dir"`
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List detected game installations",
	Long: `Run every detection probe (launcher config and Steam libraries) and list
what was found. Extra Steam libraries can be added in the config file.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	appData, err := sysinfo.AppDataDir()
	if err != nil {
		env.log().Debug().Err(err).Msg("app-data directory unavailable")
	}
	locator := locate.New(appData, env.cfg.SteamLibraries...)
	env.log().Debug().Strs("libraries", locator.SteamLibraries).Msg("steam libraries")

	found := locator.DetectAll().Found()

	if jsonOutput {
		out := make([]detectJSON, 0, len(found))
		for _, inst := range found {
			out = append(out, detectJSON{Channel: inst.Distribution.String(), Name: inst.Distribution.DisplayName(), Dir: inst.Dir})
		}
		return writeJSON(env.out, out)
	}

	if len(found) == 0 {
		fmt.Fprintln(env.out, "No installations detected.")
		fmt.Fprintln(env.out, "\nUse --install-dir to point at the game folder.")
		return nil
	}
	for _, inst := range found {
		fmt.Fprintf(env.out, "%-14s  %s\n", inst.Distribution.String(), inst.Dir)
	}
	if len(found) > 1 {
		fmt.Fprintln(env.out, "\nSeveral installations found; pick one with --channel.")
	}
	return nil
}
