// Package cli implements the tada command line.
package cli

import (
	"os"
	"slices"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/ui"
)

// Options are the global flags.
type Options struct {
	StatePath   string // snapshot file, default ./todos.json
	JournalPath string // optional sqlite action log
	AuthDir     string // holds credentials.json, default ~/.tada
	Theme       string
	Debug       bool

	logger *log.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "tada",
		Short:         "tada - a tiny todo list",
		Long:          "tada keeps a todo list in a reducer-driven store, with a CLI, a terminal UI and an HTTP API.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ui.Themes, strings.ToLower(opts.Theme)) {
				return usageError("unknown theme %q (want %s)", opts.Theme, strings.Join(ui.Themes, "|"))
			}
			ui.SetTheme(opts.Theme)
			opts.logger = log.New()
			opts.logger.SetOutput(cmd.ErrOrStderr())
			opts.logger.SetLevel(log.WarnLevel)
			if opts.Debug {
				opts.logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	debug, _ := strconv.ParseBool(os.Getenv("TADA_DEBUG"))
	theme := os.Getenv("TADA_THEME")
	if theme == "" {
		theme = "classic"
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.StatePath, "state", os.Getenv("TADA_STATE"), "snapshot file (default ./todos.json)")
	pf.StringVar(&opts.JournalPath, "journal", os.Getenv("TADA_JOURNAL"), "sqlite action journal (optional)")
	pf.StringVar(&opts.AuthDir, "auth-dir", "", "credentials directory (default ~/.tada)")
	pf.StringVar(&opts.Theme, "theme", theme, "output theme (classic|neon|mono)")
	pf.BoolVarP(&opts.Debug, "debug", "d", debug, "debug logging")

	cmd.AddCommand(
		newAddCommand(opts),
		newListCommand(opts),
		newDoneCommand(opts),
		newFilterCommand(opts),
		newSeedCommand(opts),
		newExportCommand(opts),
		newHistoryCommand(opts),
		newRebuildCommand(opts),
		newTUICommand(opts),
		newServeCommand(opts),
		newAuthCommand(opts),
	)
	return cmd
}

// Execute runs the CLI with os.Args and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		PrintError(os.Stderr, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}
