// Package journal keeps an append-only sqlite log of dispatched actions.
//
// Folding the log through reducer.App rebuilds the state it produced.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/reducer"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded action.
type Entry struct {
	Seq        int64
	Action     model.Action
	RecordedAt time.Time
}

// Journal is a sqlite-backed action log.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the journal at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// single writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append records a. Init actions are not recorded.
func (j *Journal) Append(ctx context.Context, a model.Action) error {
	if _, ok := a.(model.Init); ok {
		return nil
	}
	typ, payload, err := model.EncodeAction(a)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO actions (type, payload, recorded_at) VALUES (?, ?, ?)`,
		string(typ), string(payload), j.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Replay calls fn for every entry in recording order. It stops at the
// first error fn returns.
func (j *Journal) Replay(ctx context.Context, fn func(Entry) error) error {
	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, type, payload, recorded_at FROM actions ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e                   Entry
			typ, payload, stamp string
		)
		if err := rows.Scan(&e.Seq, &typ, &payload, &stamp); err != nil {
			return fmt.Errorf("replay scan: %w", err)
		}
		e.Action, err = model.DecodeAction(model.ActionType(typ), []byte(payload))
		if err != nil {
			return fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		e.RecordedAt, err = time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Entries returns the whole log.
func (j *Journal) Entries(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := j.Replay(ctx, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}

// Rebuild folds the log through the root reducer starting from the
// bootstrap state.
func (j *Journal) Rebuild(ctx context.Context) (model.AppState, error) {
	state := reducer.App(nil, model.Init{})
	err := j.Replay(ctx, func(e Entry) error {
		state = reducer.App(&state, e.Action)
		return nil
	})
	if err != nil {
		return model.AppState{}, err
	}
	return state, nil
}
