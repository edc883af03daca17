package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/selector"
)

const maxTextRunes = 80

// TodoLines lays out the header, the todos visible under the state's
// filter and the filter row. With group set, visible todos are split into
// active and completed sections.
func TodoLines(state model.AppState, group bool) ([]string, error) {
	visible, err := selector.Visible(state)
	if err != nil {
		return nil, err
	}
	t := Current()
	done, active := selector.Counts(state.Todos)
	total := len(state.Todos)

	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			C(t.Title, "Todos"),
			C(t.Success, t.SymDone), done,
			C(t.Pending, t.SymUnchecked), active,
			C(t.Accent, "Total"), total,
		),
		C(t.Muted, ProgressBar(done, total, 20)),
		"",
	}
	if group {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, flatLines(visible)...)
	}
	lines = append(lines, "", FilterLine(state.VisibilityFilter))
	return lines, nil
}

// RenderTodos writes TodoLines inside a panel.
func RenderTodos(w io.Writer, state model.AppState, group bool) error {
	lines, err := TodoLines(state, group)
	if err != nil {
		return err
	}
	Panel(w, lines)
	return nil
}

// FilterLine shows every filter with the selected one bracketed.
func FilterLine(selected model.VisibilityFilter) string {
	t := Current()
	parts := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == selected {
			parts = append(parts, C(t.Accent, "["+f.Label()+"]"))
		} else {
			parts = append(parts, C(t.Muted, f.Label()))
		}
	}
	return "Show: " + strings.Join(parts, "  ")
}

// TodoLine renders one todo as "<id>. <box> <text>".
func TodoLine(td model.Todo) string {
	t := Current()
	box, color := t.BoxUnchecked, t.Muted
	if td.Completed {
		box, color = t.BoxChecked, t.Success
	}
	return fmt.Sprintf("%s %s %s", C(dim, fmt.Sprintf("%2d.", td.ID)), C(color, box), truncate(td.Text))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTextRunes {
		return string(r[:maxTextRunes-3]) + "..."
	}
	return s
}

func flatLines(todos model.TodoList) []string {
	if len(todos) == 0 {
		return []string{C(Current().Muted, "no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		out = append(out, TodoLine(td))
	}
	return out
}

func groupLines(todos model.TodoList) []string {
	var active, done model.TodoList
	for _, td := range todos {
		if td.Completed {
			done = append(done, td)
		} else {
			active = append(active, td)
		}
	}
	t := Current()
	section := func(title string, items model.TodoList) []string {
		lines := []string{C(t.Accent, title)}
		if len(items) == 0 {
			return append(lines, C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(items)...)
	}
	lines := section("Active", active)
	lines = append(lines, "")
	return append(lines, section("Completed", done)...)
}
