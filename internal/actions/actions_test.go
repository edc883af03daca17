package actions

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestCounterStrictlyIncreasing(t *testing.T) {
	c := NewCounter(0)
	prev := -1
	for i := 0; i < 100; i++ {
		id := c.Next()
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, 100, c.Next())
}

func TestCounterConcurrent(t *testing.T) {
	c := NewCounter(10)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := c.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 400)
	assert.Equal(t, 410, c.Next())
}

func TestNextIDAfter(t *testing.T) {
	assert.Equal(t, 0, NextIDAfter(nil))
	assert.Equal(t, 3, NextIDAfter(model.TodoList{{ID: 0}, {ID: 2}, {ID: 1}}))
}

func TestCreator(t *testing.T) {
	c := NewCreator(NewCounter(0))

	assert.Equal(t, model.AddTodo{ID: 0, Text: "New TODO"}, c.AddTodo("New TODO"))
	assert.Equal(t, model.AddTodo{ID: 1, Text: "Even newer TODO"}, c.AddTodo("Even newer TODO"))
	assert.Equal(t, model.ToggleTodo{ID: 1}, c.ToggleTodo(1))
	assert.Equal(t, model.SetVisibilityFilter{Filter: model.ShowActive}, c.SetVisibilityFilter(model.ShowActive))
	assert.Equal(t, model.AddTodo{ID: 2, Text: "x"}, c.AddTodo("x"))
}

func TestCreatorsAreIndependent(t *testing.T) {
	a := NewCreator(NewCounter(0))
	b := NewCreator(NewCounter(0))
	assert.Equal(t, 0, a.AddTodo("a").ID)
	assert.Equal(t, 0, b.AddTodo("b").ID)
}

func TestCleanText(t *testing.T) {
	got, err := CleanText("  Buy milk \n")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got)

	// "e" + combining acute accent composes to a single rune
	got, err = CleanText("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", got)

	_, err = CleanText("   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}
