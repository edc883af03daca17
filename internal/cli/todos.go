package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/script"
	"github.com/Makepad-fr/tada/internal/selector"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAddCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "add <text...>",
		Short:   "Add a todo (text can be multiple words)",
		Example: `  tada add "Buy milk"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError("usage: tada add <text...>")
			}
			text, err := actions.CleanText(strings.Join(args, " "))
			if err != nil {
				return usageError("add: empty text")
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			a := s.creator.AddTodo(text)
			if _, err := s.apply(cmd.Context(), a); err != nil {
				return err
			}
			ok(cmd.OutOrStdout(), fmt.Sprintf("added #%d", a.ID))
			return nil
		},
	}
}

func newListCommand(opts *Options) *cobra.Command {
	var (
		group  bool
		filter string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos under the current filter",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			state := s.store.GetState()
			if filter != "" {
				f, err := model.ParseFilter(filter)
				if err != nil {
					return usageError("ls: %v", err)
				}
				state.VisibilityFilter = f
			}
			if err := ui.RenderTodos(cmd.OutOrStdout(), state, group); err != nil {
				return &ExitError{
					Code:    ExitFailure,
					Message: "ls",
					Err:     err,
					Hint:    "Hint: reset it with `tada filter all`",
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by active/completed")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "show this filter without storing it")
	return cmd
}

func newDoneCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle completion of the todo with the given id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError("usage: tada done <id>")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return usageError("done: not a number: %s", args[0])
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, found := s.store.GetState().Todos.Find(id); !found {
				return &ExitError{
					Code:    ExitUsage,
					Message: fmt.Sprintf("no todo with id %d", id),
					Hint:    "Hint: run `tada ls` to see valid ids",
				}
			}
			state, err := s.apply(cmd.Context(), s.creator.ToggleTodo(id))
			if err != nil {
				return err
			}
			td, _ := state.Todos.Find(id)
			msg := fmt.Sprintf("#%d active", id)
			if td.Completed {
				msg = fmt.Sprintf("#%d completed", id)
			}
			ok(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newFilterCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <all|active|completed>",
		Short: "Set which todos ls shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError("usage: tada filter <all|active|completed>")
			}
			f, err := model.ParseFilter(args[0])
			if err != nil {
				return usageError("filter: %v", err)
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.apply(cmd.Context(), s.creator.SetVisibilityFilter(f)); err != nil {
				return err
			}
			ok(cmd.OutOrStdout(), "showing "+strings.ToLower(f.Label()))
			return nil
		},
	}
}

func newSeedCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [script.yaml]",
		Short: "Dispatch the actions of a YAML script (default: the starter todos)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := script.Default()
			if len(args) == 1 {
				var err error
				if sc, err = script.Load(args[0]); err != nil {
					return failure("seed", err)
				}
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			acts, err := sc.Actions(s.creator)
			if err != nil {
				return failure("seed", err)
			}
			for _, a := range acts {
				if _, err := s.apply(cmd.Context(), a); err != nil {
					return err
				}
			}
			ok(cmd.OutOrStdout(), fmt.Sprintf("seeded %d actions from %s", len(acts), sc.Name))
			return nil
		},
	}
}

func newExportCommand(opts *Options) *cobra.Command {
	var visibleOnly bool
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the current state as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			state := s.store.GetState()
			if visibleOnly {
				todos, err := selector.Visible(state)
				if err != nil {
					return failure("export", err)
				}
				state.Todos = todos
			}
			if err := jsonstore.Save(args[0], state); err != nil {
				return failure("export", err)
			}
			ok(cmd.OutOrStdout(), fmt.Sprintf("exported %d todos to %s", len(state.Todos), args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&visibleOnly, "visible", false, "only export todos the current filter shows")
	return cmd
}
