// Package selector derives read-only views over store state.
package selector

import (
	"errors"
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrUnsupportedFilter is returned for filters outside model.Filters.
var ErrUnsupportedFilter = errors.New("unsupported visibility filter")

// VisibleTodos projects todos through filter, keeping relative order.
// ShowAll returns todos itself.
func VisibleTodos(todos model.TodoList, filter model.VisibilityFilter) (model.TodoList, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFilter, filter)
	}
	switch filter {
	case model.ShowCompleted:
		return keep(todos, true), nil
	case model.ShowActive:
		return keep(todos, false), nil
	}
	return todos, nil
}

// Visible applies the state's own filter.
func Visible(state model.AppState) (model.TodoList, error) {
	return VisibleTodos(state.Todos, state.VisibilityFilter)
}

func keep(todos model.TodoList, completed bool) model.TodoList {
	out := make(model.TodoList, 0, len(todos))
	for _, t := range todos {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns the number of completed and active todos.
func Counts(todos model.TodoList) (done, active int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			active++
		}
	}
	return
}
