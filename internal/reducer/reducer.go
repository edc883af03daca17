// Package reducer holds the pure state transitions of the todo app.
//
// Each reducer is total over model.Action: actions it does not handle
// return the prior value untouched. No reducer mutates its input.
package reducer

import "github.com/Makepad-fr/tada/internal/model"

// Todo reduces a single todo. AddTodo ignores prior.
func Todo(prior model.Todo, action model.Action) model.Todo {
	switch a := action.(type) {
	case model.AddTodo:
		return model.Todo{ID: a.ID, Text: a.Text, Completed: false}
	case model.ToggleTodo:
		if prior.ID != a.ID {
			return prior
		}
		next := prior
		next.Completed = !prior.Completed
		return next
	default:
		return prior
	}
}

// Todos reduces the todo list. A nil list is the empty initial list.
func Todos(prior model.TodoList, action model.Action) model.TodoList {
	switch action.(type) {
	case model.AddTodo:
		next := make(model.TodoList, len(prior), len(prior)+1)
		copy(next, prior)
		return append(next, Todo(model.Todo{}, action))
	case model.ToggleTodo:
		next := make(model.TodoList, len(prior))
		for i, t := range prior {
			next[i] = Todo(t, action)
		}
		return next
	default:
		return prior
	}
}

// VisibilityFilter stores the requested filter verbatim.
// Validation happens where filters are read, see selector.VisibleTodos.
func VisibilityFilter(prior model.VisibilityFilter, action model.Action) model.VisibilityFilter {
	if a, ok := action.(model.SetVisibilityFilter); ok {
		return a.Filter
	}
	return prior
}

// App is the root reducer. A nil prior bootstraps every field with its
// own default.
func App(prior *model.AppState, action model.Action) model.AppState {
	todos, filter := model.TodoList{}, model.DefaultFilter
	if prior != nil {
		todos, filter = prior.Todos, prior.VisibilityFilter
	}
	return model.AppState{
		Todos:            Todos(todos, action),
		VisibilityFilter: VisibilityFilter(filter, action),
	}
}
