package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

type renameTodo struct {
	ID   int
	Text string
}

func (renameTodo) Type() model.ActionType { return "RENAME_TODO" }

func sample() model.TodoList {
	return model.TodoList{
		{ID: 0, Text: "New TODO"},
		{ID: 1, Text: "Even newer TODO", Completed: true},
		{ID: 2, Text: "One more TODO"},
	}
}

func TestTodoAddIgnoresPrior(t *testing.T) {
	got := Todo(model.Todo{ID: 9, Text: "old", Completed: true}, model.AddTodo{ID: 3, Text: "x"})
	assert.Equal(t, model.Todo{ID: 3, Text: "x"}, got)
}

func TestTodoToggle(t *testing.T) {
	prior := model.Todo{ID: 1, Text: "a"}

	assert.Equal(t, prior, Todo(prior, model.ToggleTodo{ID: 2}))

	got := Todo(prior, model.ToggleTodo{ID: 1})
	assert.True(t, got.Completed)
	assert.False(t, prior.Completed, "prior must not change")
	assert.Equal(t, prior, Todo(got, model.ToggleTodo{ID: 1}))
}

func TestTodoDefault(t *testing.T) {
	prior := model.Todo{ID: 1, Text: "a"}
	assert.Equal(t, prior, Todo(prior, model.SetVisibilityFilter{Filter: model.ShowActive}))
	assert.Equal(t, prior, Todo(prior, renameTodo{ID: 1, Text: "b"}))
}

func TestTodosAddAppends(t *testing.T) {
	prior := sample()
	got := Todos(prior, model.AddTodo{ID: 3, Text: "Fourth"})

	require.Len(t, got, len(prior)+1)
	assert.Equal(t, model.Todo{ID: 3, Text: "Fourth"}, got[len(got)-1])
	assert.Equal(t, prior, got[:len(prior)])
	assert.Len(t, prior, 3)
}

func TestTodosAddDoesNotAliasPrior(t *testing.T) {
	prior := make(model.TodoList, 1, 8)
	prior[0] = model.Todo{ID: 0, Text: "a"}

	first := Todos(prior, model.AddTodo{ID: 1, Text: "b"})
	second := Todos(prior, model.AddTodo{ID: 2, Text: "c"})

	assert.Equal(t, "b", first[1].Text)
	assert.Equal(t, "c", second[1].Text)
}

func TestTodosAddToNil(t *testing.T) {
	got := Todos(nil, model.AddTodo{ID: 0, Text: "a"})
	assert.Equal(t, model.TodoList{{ID: 0, Text: "a"}}, got)
}

func TestTodosToggleFlipsExactlyOne(t *testing.T) {
	prior := sample()
	for _, target := range prior {
		t.Run(target.Text, func(t *testing.T) {
			got := Todos(prior, model.ToggleTodo{ID: target.ID})
			require.Len(t, got, len(prior))

			flipped := 0
			for i := range got {
				assert.Equal(t, prior[i].ID, got[i].ID)
				assert.Equal(t, prior[i].Text, got[i].Text)
				if got[i].Completed != prior[i].Completed {
					flipped++
					assert.Equal(t, target.ID, got[i].ID)
				}
			}
			assert.Equal(t, 1, flipped)
		})
	}
}

func TestTodosToggleTwiceRestores(t *testing.T) {
	prior := sample()
	once := Todos(prior, model.ToggleTodo{ID: 2})
	assert.NotEqual(t, prior, once)
	assert.Equal(t, prior, Todos(once, model.ToggleTodo{ID: 2}))
}

func TestTodosToggleUnknownID(t *testing.T) {
	prior := sample()
	assert.Equal(t, prior, Todos(prior, model.ToggleTodo{ID: 42}))
}

func TestTodosDefaultIsIdentity(t *testing.T) {
	prior := sample()
	got := Todos(prior, renameTodo{ID: 0, Text: "z"})
	assert.Equal(t, prior, got)
	assert.Same(t, &prior[0], &got[0])
}

func TestVisibilityFilter(t *testing.T) {
	assert.Equal(t, model.ShowCompleted,
		VisibilityFilter(model.ShowAll, model.SetVisibilityFilter{Filter: model.ShowCompleted}))
	assert.Equal(t, model.ShowActive,
		VisibilityFilter(model.ShowActive, model.AddTodo{ID: 1, Text: "a"}))

	// stored as given, even when unsupported
	assert.Equal(t, model.VisibilityFilter("SHOW_SOME"),
		VisibilityFilter(model.ShowAll, model.SetVisibilityFilter{Filter: "SHOW_SOME"}))
}

func TestAppBootstrap(t *testing.T) {
	got := App(nil, model.Init{})
	assert.Equal(t, model.AppState{Todos: model.TodoList{}, VisibilityFilter: model.ShowAll}, got)
}

func TestAppIdentityForUnrecognizedActions(t *testing.T) {
	states := []model.AppState{
		{},
		{Todos: model.TodoList{}, VisibilityFilter: model.ShowAll},
		{Todos: sample(), VisibilityFilter: model.ShowCompleted},
	}
	for _, s := range states {
		s := s
		assert.Equal(t, s, App(&s, renameTodo{ID: 1}))
		assert.Equal(t, s, App(&s, model.Init{}))
	}
}

func TestAppSeedScenario(t *testing.T) {
	seq := []model.Action{
		model.AddTodo{ID: 0, Text: "New TODO"},
		model.AddTodo{ID: 1, Text: "Even newer TODO"},
		model.AddTodo{ID: 2, Text: "One more TODO"},
		model.ToggleTodo{ID: 1},
	}
	state := App(nil, model.Init{})
	for _, a := range seq {
		state = App(&state, a)
	}
	assert.Equal(t, model.AppState{Todos: sample(), VisibilityFilter: model.ShowAll}, state)
}

func TestAppLeavesPriorUntouched(t *testing.T) {
	prior := model.AppState{Todos: sample(), VisibilityFilter: model.ShowAll}
	snapshot := model.AppState{Todos: sample(), VisibilityFilter: model.ShowAll}

	next := App(&prior, model.ToggleTodo{ID: 0})
	next = App(&next, model.SetVisibilityFilter{Filter: model.ShowActive})

	assert.Equal(t, snapshot, prior)
	assert.True(t, next.Todos[0].Completed)
	assert.Equal(t, model.ShowActive, next.VisibilityFilter)
}
