package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hachimi-installer/hachimi-installer/internal/storage/db"
	"github.com/hachimi-installer/hachimi-installer/internal/updater"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authSkipValidate bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the GitHub token used for update checks",
	Long: `Manage the GitHub token used to look up new installer releases.

The GitHub GraphQL API does not answer anonymous requests, so update checks
are skipped until a token is stored or GITHUB_TOKEN is set.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token",
	Long: `Store a GitHub token for update checks.

  1. Visit https://github.com/settings/tokens
  2. Generate a fine-grained token with public repository read access
  3. Paste it at the prompt`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored GitHub token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which GitHub token is in use",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().BoolVar(&authSkipValidate, "no-validate", false, "store the token without querying GitHub")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Fprint(env.out, "Enter GitHub token: ")
	token, err := readToken(cmd.InOrStdin())
	fmt.Fprintln(env.out)
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if !authSkipValidate {
		fmt.Fprint(env.out, "Validating... ")
		client := updater.NewClient(nil, "", token)
		if _, err := updater.Check(env.ctx, client, env.cfg.UpdateRepo, version); err != nil {
			fmt.Fprintln(env.out, "failed")
			return fmt.Errorf("invalid token: %w", err)
		}
		fmt.Fprintln(env.out, "done")
	}

	if err := env.db.SaveToken(db.TokenGitHub, token); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "Token saved.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.db.DeleteToken(db.TokenGitHub); err != nil {
		return err
	}
	fmt.Fprintln(env.out, "Removed GitHub token.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	env, err := initEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if tok := strings.TrimSpace(os.Getenv(updater.EnvToken)); tok != "" {
		fmt.Fprintf(env.out, "GitHub: %s (from %s)\n", maskToken(tok), updater.EnvToken)
		return nil
	}
	stored, err := env.db.GetToken(db.TokenGitHub)
	if err != nil {
		return err
	}
	if stored == nil {
		fmt.Fprintln(env.out, "GitHub: not configured (update checks are skipped)")
		return nil
	}
	fmt.Fprintf(env.out, "GitHub: %s (saved %s)\n", maskToken(stored.Token), stored.UpdatedAt.Local().Format("2006-01-02"))
	return nil
}

// readToken reads hidden input from a terminal, or one line otherwise.
func readToken(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// maskToken shows the first and last four characters of a token.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
