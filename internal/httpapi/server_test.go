package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/reducer"
	"github.com/Makepad-fr/tada/internal/store"
)

type fixture struct {
	e     *echo.Echo
	store *store.Store
	hook  *test.Hook
	after []model.Action
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	f := &fixture{hook: hook}
	f.store = store.New(reducer.App, store.WithLogger(logger))
	cfg := Config{
		Store:   f.store,
		Creator: actions.NewCreator(actions.NewCounter(0)),
		Logger:  logger,
		AfterDispatch: func(_ context.Context, a model.Action, _ model.AppState) error {
			f.after = append(f.after, a)
			return nil
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.e = New(cfg)
	return f
}

func (f *fixture) do(method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func seed(f *fixture) {
	f.store.Dispatch(model.AddTodo{ID: 100, Text: "seeded"})
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSeedScenarioOverHTTP(t *testing.T) {
	f := newFixture(t, nil)

	for _, text := range []string{"New TODO", "Even newer TODO", "One more TODO"} {
		rec := f.do(http.MethodPost, "/api/todos", `{"text":"`+text+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := f.do(http.MethodPost, "/api/todos/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Todo{ID: 1, Text: "Even newer TODO", Completed: true}, decode[model.Todo](t, rec))

	rec = f.do(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.AppState{
		Todos: model.TodoList{
			{ID: 0, Text: "New TODO"},
			{ID: 1, Text: "Even newer TODO", Completed: true},
			{ID: 2, Text: "One more TODO"},
		},
		VisibilityFilter: model.ShowAll,
	}, decode[model.AppState](t, rec))

	assert.Len(t, f.after, 4)
}

func TestPostTodoValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/todos", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/todos", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, f.store.GetState().Todos)
	assert.Empty(t, f.after)
}

func TestToggleErrors(t *testing.T) {
	f := newFixture(t, nil)
	seed(f)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/todos/abc/toggle", "").Code)

	rec := f.do(http.MethodPost, "/api/todos/7/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]string{"message": "todo not found"}, decode[map[string]string](t, rec))
	assert.Empty(t, f.after)
}

func TestFilterAndProjection(t *testing.T) {
	f := newFixture(t, nil)
	f.store.Dispatch(model.AddTodo{ID: 0, Text: "a"})
	f.store.Dispatch(model.AddTodo{ID: 1, Text: "b"})
	f.store.Dispatch(model.ToggleTodo{ID: 0})

	rec := f.do(http.MethodPut, "/api/filter", `{"filter":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ShowCompleted, decode[filterResponse](t, rec).Filter)

	rec = f.do(http.MethodGet, "/api/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[todosResponse](t, rec)
	assert.Equal(t, model.ShowCompleted, got.Filter)
	assert.Equal(t, model.TodoList{{ID: 0, Text: "a", Completed: true}}, got.Todos)

	rec = f.do(http.MethodGet, "/api/todos?filter=active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[todosResponse](t, rec)
	assert.Equal(t, model.TodoList{{ID: 1, Text: "b"}}, got.Todos)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/todos?filter=some", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/api/filter", `{"filter":"some"}`).Code)
}

func TestEmptyProjectionIsArray(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodGet, "/api/todos?filter=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"todos":[]`)
}

func TestUnsupportedStoredFilter(t *testing.T) {
	f := newFixture(t, nil)
	f.store.Dispatch(model.SetVisibilityFilter{Filter: "SHOW_SOME"})

	rec := f.do(http.MethodGet, "/api/todos", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SHOW_SOME")
}

func TestAfterDispatchFailure(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.AfterDispatch = func(context.Context, model.Action, model.AppState) error {
			return errors.New("disk full")
		}
	})

	rec := f.do(http.MethodPost, "/api/todos", `{"text":"a"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, f.store.GetState().Todos)

	rec = f.do(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[model.AppState](t, rec).Todos)

	var logged bool
	for _, e := range f.hook.AllEntries() {
		if e.Message == "after dispatch" {
			logged = true
			assert.Equal(t, "disk full", e.Data[log.ErrorKey].(error).Error())
		}
	}
	assert.True(t, logged)
}

func TestBearerAuth(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	f := newFixture(t, func(c *Config) {
		c.Token = &auth.TokenInfo{Token: "s3cret"}
	})

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/state", "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		f.do(http.MethodGet, "/api/state", "", echo.HeaderAuthorization, "Bearer wrong").Code)
	assert.Equal(t, http.StatusOK,
		f.do(http.MethodGet, "/api/state", "", echo.HeaderAuthorization, "Bearer s3cret").Code)

	expired := newFixture(t, func(c *Config) {
		c.Token = &auth.TokenInfo{Token: "s3cret", ExpiresAt: &past}
	})
	assert.Equal(t, http.StatusUnauthorized,
		expired.do(http.MethodGet, "/api/state", "", echo.HeaderAuthorization, "Bearer s3cret").Code)
}

func TestRequestsAreLogged(t *testing.T) {
	f := newFixture(t, nil)
	f.do(http.MethodGet, "/api/state", "")

	var found bool
	for _, e := range f.hook.AllEntries() {
		if e.Message == "request" && e.Data["path"] == "/api/state" {
			found = true
			assert.Equal(t, http.StatusOK, e.Data["status"])
			assert.NotEmpty(t, e.Data["request_id"])
		}
	}
	assert.True(t, found)
}

func TestConcurrentAddsKeepIDOrder(t *testing.T) {
	f := newFixture(t, nil)

	done := make(chan int, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- f.do(http.MethodPost, "/api/todos", `{"text":"x"}`).Code
		}()
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusCreated, <-done)
	}

	todos := f.store.GetState().Todos
	require.Len(t, todos, 20)
	for i, td := range todos {
		assert.Equal(t, i, td.ID)
	}
}
