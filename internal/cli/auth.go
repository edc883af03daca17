package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func authDir(opts *Options) (auth.Dir, error) {
	if opts.AuthDir != "" {
		return auth.Dir(opts.AuthDir), nil
	}
	return auth.DefaultDir()
}

func newAuthCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token guarding `tada serve`",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Store a token (read from stdin)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := authDir(opts)
				if err != nil {
					return failure("auth", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					return failure("read token", err)
				}
				if err := dir.SetToken(line, nil); err != nil {
					return failure("save token", err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				ok(cmd.OutOrStdout(), "logged in")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := authDir(opts)
				if err != nil {
					return failure("auth", err)
				}
				ti, _ := dir.GetToken()
				if ti != nil && ti.Source == "env" {
					ok(cmd.OutOrStdout(), "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
					return nil
				}
				if err := dir.DeleteToken(); err != nil {
					return failure("logout", err)
				}
				ok(cmd.OutOrStdout(), "logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := authDir(opts)
				if err != nil {
					return failure("auth", err)
				}
				ti, err := dir.GetToken()
				if err != nil {
					return failure("auth", err)
				}
				w := cmd.OutOrStdout()
				if ti == nil {
					ui.Fprintln(w, ui.C(ui.Current().Muted, "not logged in"))
					fmt.Fprintln(w, "Run: tada auth login")
					return nil
				}
				fmt.Fprintf(w, "source: %s\n", ti.Source)
				if ti.ExpiresAt != nil {
					fmt.Fprintf(w, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
				} else {
					fmt.Fprintln(w, "expires: (unknown)")
				}
				fmt.Fprintln(w, "env override: "+auth.EnvToken)
				return nil
			},
		},
	)
	return cmd
}
