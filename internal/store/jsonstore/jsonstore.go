package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/reducer"
)

// JSON-backed snapshot of the whole AppState. Single file, human-readable.
// No locking; one CLI invocation owns the file at a time.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

// DefaultPath returns DefaultFileName in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// Load reads the snapshot at path. A missing file yields the bootstrap
// state and found=false.
func Load(path string) (state model.AppState, found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return reducer.App(nil, model.Init{}), false, nil
		}
		return model.AppState{}, false, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, &state); err != nil {
		return model.AppState{}, false, fmt.Errorf("json unmarshal: %w", err)
	}
	if state.Todos == nil {
		state.Todos = model.TodoList{}
	}
	if state.VisibilityFilter == "" {
		state.VisibilityFilter = model.DefaultFilter
	}
	return state, true, nil
}

// Save writes state to path, creating parent directories.
func Save(path string, state model.AppState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
