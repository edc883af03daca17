// Package store holds the current AppState and routes actions through the
// root reducer.
package store

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Makepad-fr/tada/internal/model"
)

// Reducer computes the next state. A nil prior asks for bootstrap defaults.
type Reducer func(prior *model.AppState, action model.Action) model.AppState

// Listener is called after every dispatch with the new state.
type Listener func(state model.AppState)

// Store serializes dispatches: one action runs to completion before the
// next one starts. Listeners run after the lock is released, so they may
// dispatch.
type Store struct {
	mu        sync.Mutex
	reducer   Reducer
	state     model.AppState
	preloaded bool
	listeners []subscription
	nextSub   int
	log       *log.Entry
}

type subscription struct {
	id int
	fn Listener
}

type Option func(*Store)

// WithPreloadedState skips bootstrap and starts from s.
func WithPreloadedState(s model.AppState) Option {
	return func(st *Store) {
		st.state = s
		st.preloaded = true
	}
}

// WithLogger sets the logger used for dispatch traces.
func WithLogger(l *log.Logger) Option {
	return func(st *Store) { st.log = log.NewEntry(l).WithField("component", "store") }
}

// New returns a store bootstrapped by applying reducer to a nil state.
func New(reducer Reducer, opts ...Option) *Store {
	s := &Store{
		reducer: reducer,
		log:     log.WithField("component", "store"),
	}
	for _, o := range opts {
		o(s)
	}
	if !s.preloaded {
		s.state = reducer(nil, model.Init{})
	}
	return s
}

// Dispatch applies action and notifies subscribers.
func (s *Store) Dispatch(action model.Action) {
	_ = s.Commit(action, nil)
}

// Commit is Dispatch with a persist step. persist receives the next state
// before the store takes it; if persist fails the store keeps its current
// state, listeners are not called and the error is returned. persist runs
// under the store lock and must not dispatch.
func (s *Store) Commit(action model.Action, persist func(next model.AppState) error) error {
	s.mu.Lock()
	prior := s.state
	next := s.reducer(&prior, action)
	if persist != nil {
		if err := persist(next); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.state = next
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"action": action.Type(),
		"todos":  len(next.Todos),
		"filter": next.VisibilityFilter,
	}).Debug("dispatch")

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// GetState returns the current state. The value must be treated as read
// only; later dispatches replace it instead of changing it.
func (s *Store) GetState() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a func removing it. Calling the
// returned func more than once is a no-op.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
