package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

var errNoJournal = errors.New("no journal configured (use --journal or TADA_JOURNAL)")

func newHistoryCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the actions recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.JournalPath == "" {
				return &ExitError{Code: ExitUsage, Message: "history", Err: errNoJournal}
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.journal.Entries(cmd.Context())
			if err != nil {
				return failure("history", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no actions recorded")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					e.Seq, e.RecordedAt.Local().Format(time.DateTime), e.Action.Type(), describe(e.Action))
			}
			return tw.Flush()
		},
	}
}

func describe(a model.Action) string {
	switch a := a.(type) {
	case model.AddTodo:
		return fmt.Sprintf("#%d %q", a.ID, a.Text)
	case model.ToggleTodo:
		return fmt.Sprintf("#%d", a.ID)
	case model.SetVisibilityFilter:
		return string(a.Filter)
	}
	return ""
}

func newRebuildCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute the snapshot by replaying the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.JournalPath == "" {
				return &ExitError{Code: ExitUsage, Message: "rebuild", Err: errNoJournal}
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			state, err := s.journal.Rebuild(cmd.Context())
			if err != nil {
				return failure("rebuild", err)
			}
			if err := jsonstore.Save(s.statePath, state); err != nil {
				return failure("rebuild", err)
			}
			ok(cmd.OutOrStdout(), fmt.Sprintf("rebuilt %d todos", len(state.Todos)))
			return nil
		},
	}
}
