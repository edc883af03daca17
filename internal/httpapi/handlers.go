package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/selector"
)

type todosResponse struct {
	Filter model.VisibilityFilter `json:"filter"`
	Todos  model.TodoList         `json:"todos"`
}

type postTodoRequest struct {
	Text string `json:"text"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

type filterResponse struct {
	Filter model.VisibilityFilter `json:"filter"`
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *server) getState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.GetState())
}

// getTodos projects the todos through ?filter=, or through the stored
// filter when the parameter is absent.
func (s *server) getTodos(c echo.Context) error {
	state := s.store.GetState()
	filter := state.VisibilityFilter
	if q := c.QueryParam("filter"); q != "" {
		f, err := model.ParseFilter(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter = f
	}
	todos, err := selector.VisibleTodos(state.Todos, filter)
	if err != nil {
		if errors.Is(err, selector.ErrUnsupportedFilter) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return err
	}
	if todos == nil {
		todos = model.TodoList{}
	}
	return c.JSON(http.StatusOK, todosResponse{Filter: filter, Todos: todos})
}

func (s *server) postTodo(c echo.Context) error {
	var req postTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	text, err := actions.CleanText(req.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "text: "+err.Error())
	}
	a, state, err := s.dispatch(c.Request().Context(), func() model.Action {
		return s.creator.AddTodo(text)
	})
	if err != nil {
		s.log.WithError(err).WithField("action", a.Type()).Error("after dispatch")
		return echo.NewHTTPError(http.StatusInternalServerError, "persist failed").SetInternal(err)
	}
	todo, _ := state.Todos.Find(a.(model.AddTodo).ID)
	return c.JSON(http.StatusCreated, todo)
}

func (s *server) toggleTodo(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, ok := s.store.GetState().Todos.Find(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "todo not found")
	}
	a, state, err := s.dispatch(c.Request().Context(), func() model.Action {
		return s.creator.ToggleTodo(id)
	})
	if err != nil {
		s.log.WithError(err).WithField("action", a.Type()).Error("after dispatch")
		return echo.NewHTTPError(http.StatusInternalServerError, "persist failed").SetInternal(err)
	}
	todo, _ := state.Todos.Find(id)
	return c.JSON(http.StatusOK, todo)
}

func (s *server) putFilter(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	f, err := model.ParseFilter(req.Filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, state, err := s.dispatch(c.Request().Context(), func() model.Action {
		return s.creator.SetVisibilityFilter(f)
	})
	if err != nil {
		s.log.WithError(err).WithField("action", a.Type()).Error("after dispatch")
		return echo.NewHTTPError(http.StatusInternalServerError, "persist failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, filterResponse{Filter: state.VisibilityFilter})
}
