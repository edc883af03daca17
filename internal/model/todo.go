package model

import (
	"fmt"
	"strings"
)

// Todo is the domain model for a todo entry.
// Only Completed changes after creation.
type Todo struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TodoList is kept in append order and is never reordered.
type TodoList []Todo

// VisibilityFilter selects which todos a view shows.
type VisibilityFilter string

const (
	ShowAll       VisibilityFilter = "SHOW_ALL"
	ShowActive    VisibilityFilter = "SHOW_ACTIVE"
	ShowCompleted VisibilityFilter = "SHOW_COMPLETED"
)

// DefaultFilter is the filter of a freshly bootstrapped state.
const DefaultFilter = ShowAll

// Filters lists the supported filters in display order.
var Filters = []VisibilityFilter{ShowAll, ShowActive, ShowCompleted}

// Valid reports whether f is one of the supported filters.
func (f VisibilityFilter) Valid() bool {
	switch f {
	case ShowAll, ShowActive, ShowCompleted:
		return true
	}
	return false
}

// Label is the short human name ("All", "Active", "Completed").
func (f VisibilityFilter) Label() string {
	switch f {
	case ShowAll:
		return "All"
	case ShowActive:
		return "Active"
	case ShowCompleted:
		return "Completed"
	}
	return string(f)
}

// ParseFilter accepts canonical names and the short forms all, active and
// completed, case-insensitively.
func ParseFilter(s string) (VisibilityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "show_all":
		return ShowAll, nil
	case "active", "show_active":
		return ShowActive, nil
	case "completed", "done", "show_completed":
		return ShowCompleted, nil
	}
	return "", fmt.Errorf("unknown filter %q: must be one of all, active, completed", s)
}

// AppState is the whole state held by the store. Reducers replace it,
// they never mutate it.
type AppState struct {
	Todos            TodoList         `json:"todos"`
	VisibilityFilter VisibilityFilter `json:"visibilityFilter"`
}

// Find returns the todo with the given id.
func (l TodoList) Find(id int) (Todo, bool) {
	for _, t := range l {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}
