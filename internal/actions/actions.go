// Package actions builds model.Action values. Todo ids come from an
// injected IDGenerator so action creation stays deterministic.
package actions

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/Makepad-fr/tada/internal/model"
)

// IDGenerator hands out todo ids. Successive calls must return strictly
// increasing values.
type IDGenerator interface {
	Next() int
}

// Counter is an IDGenerator counting up from a start value.
type Counter struct {
	mu   sync.Mutex
	next int
}

// NewCounter returns a Counter whose first id is start.
func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

func (c *Counter) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}

// NextIDAfter returns the first id not used by todos.
func NextIDAfter(todos model.TodoList) int {
	next := 0
	for _, t := range todos {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}

// Creator builds actions.
type Creator struct {
	ids IDGenerator
}

func NewCreator(ids IDGenerator) *Creator {
	return &Creator{ids: ids}
}

// AddTodo takes a fresh id for the new todo.
func (c *Creator) AddTodo(text string) model.AddTodo {
	return model.AddTodo{ID: c.ids.Next(), Text: text}
}

func (c *Creator) ToggleTodo(id int) model.ToggleTodo {
	return model.ToggleTodo{ID: id}
}

func (c *Creator) SetVisibilityFilter(f model.VisibilityFilter) model.SetVisibilityFilter {
	return model.SetVisibilityFilter{Filter: f}
}

// ErrEmptyText is returned by CleanText for blank input.
var ErrEmptyText = errors.New("empty text")

// CleanText trims and NFC-normalizes user input for a todo text.
func CleanText(s string) (string, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}
