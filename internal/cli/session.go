package cli

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/journal"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/reducer"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

// session is one command's view of the persisted todo list: the snapshot
// loaded into a store, a creator resuming ids after the loaded todos, and
// the optional journal.
type session struct {
	statePath string
	store     *store.Store
	creator   *actions.Creator
	journal   *journal.Journal
}

func openSession(ctx context.Context, opts *Options) (*session, error) {
	path := opts.StatePath
	if path == "" {
		p, err := jsonstore.DefaultPath()
		if err != nil {
			return nil, failure("state path", err)
		}
		path = p
	}

	s := &session{statePath: path}
	if opts.JournalPath != "" {
		j, err := journal.Open(opts.JournalPath)
		if err != nil {
			return nil, failure("journal", err)
		}
		s.journal = j
	}

	state, found, err := jsonstore.Load(path)
	if err != nil {
		s.Close()
		return nil, failure("load", err)
	}
	// No snapshot yet: the journal, when there is one, is the source.
	if !found && s.journal != nil {
		state, err = s.journal.Rebuild(ctx)
		if err != nil {
			s.Close()
			return nil, failure("rebuild", err)
		}
	}

	if opts.logger == nil {
		opts.logger = log.StandardLogger()
	}
	s.store = store.New(reducer.App,
		store.WithPreloadedState(state),
		store.WithLogger(opts.logger),
	)
	s.creator = actions.NewCreator(actions.NewCounter(actions.NextIDAfter(state.Todos)))
	opts.logger.WithField("path", path).WithField("todos", len(state.Todos)).Debug("session opened")
	return s, nil
}

// persist records a in the journal and saves the latest state.
func (s *session) persist(ctx context.Context, a model.Action, state model.AppState) error {
	if s.journal != nil {
		if err := s.journal.Append(ctx, a); err != nil {
			return err
		}
	}
	if err := jsonstore.Save(s.statePath, state); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// apply persists a and the state it produces, then lets the store take it.
func (s *session) apply(ctx context.Context, a model.Action) (model.AppState, error) {
	err := s.store.Commit(a, func(next model.AppState) error {
		return s.persist(ctx, a, next)
	})
	if err != nil {
		return s.store.GetState(), failure("persist", err)
	}
	return s.store.GetState(), nil
}

func (s *session) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}
