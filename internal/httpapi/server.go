// Package httpapi exposes a store over HTTP. Reads go through GetState and
// the selectors; writes build actions with the creator and dispatch them.
package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Config wires a Server.
type Config struct {
	Store   *store.Store
	Creator *actions.Creator

	// Token, when set, is required as a bearer token on /api routes.
	Token *auth.TokenInfo

	// AfterDispatch persists each action with the state it produces. It
	// runs before the store takes the new state; an error fails the
	// request and leaves the store unchanged.
	AfterDispatch func(ctx context.Context, a model.Action, state model.AppState) error

	Logger *log.Logger
}

type server struct {
	mu      sync.Mutex // orders dispatch and AfterDispatch together
	store   *store.Store
	creator *actions.Creator
	after   func(context.Context, model.Action, model.AppState) error
	log     *log.Entry
	now     func() time.Time
}

// New returns an Echo instance with middleware and routes registered.
func New(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))

	Register(e, cfg)
	return e
}

// Register adds the API routes to e.
func Register(e *echo.Echo, cfg Config) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &server{
		store:   cfg.Store,
		creator: cfg.Creator,
		after:   cfg.AfterDispatch,
		log:     logger.WithField("component", "httpapi"),
		now:     time.Now,
	}

	e.GET("/healthz", healthz)

	g := e.Group("/api")
	if cfg.Token != nil {
		g.Use(bearerAuth(cfg.Token, s.now))
	}
	g.GET("/state", s.getState)
	g.GET("/todos", s.getTodos)
	g.POST("/todos", s.postTodo)
	g.POST("/todos/:id/toggle", s.toggleTodo)
	g.PUT("/filter", s.putFilter)
}

// dispatch builds an action and commits it through the after hook.
// Requests are serialized here so ids are handed out in the order todos
// are appended, and the hook sees actions in dispatch order.
func (s *server) dispatch(ctx context.Context, build func() model.Action) (model.Action, model.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := build()
	err := s.store.Commit(a, func(next model.AppState) error {
		if s.after == nil {
			return nil
		}
		return s.after(ctx, a, next)
	})
	return a, s.store.GetState(), err
}
