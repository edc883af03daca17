// Package script reads YAML action scripts used to seed a store.
//
// A script is a list of steps, each with exactly one of add, toggle or
// filter:
//
//	name: default
//	steps:
//	  - add: New TODO
//	  - toggle: 0
//	  - filter: active
//
// Todo ids are not written in scripts. They come from the actions.Creator
// the script is expanded with. A toggle names a todo the script added
// earlier by its position among the script's adds, counting from 0, so
// a script means the same thing whatever the store already holds.
package script

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/model"
)

//go:embed seed.yaml
var defaultSeed []byte

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one action. Exactly one field is set.
type Step struct {
	Add    *string `yaml:"add,omitempty"`
	Toggle *int    `yaml:"toggle,omitempty"`
	Filter *string `yaml:"filter,omitempty"`
}

var (
	errStepShape   = errors.New("step must set exactly one of add, toggle, filter")
	errToggleRange = errors.New("toggle does not name an earlier add")
)

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	adds := 0
	for i, st := range s.Steps {
		if err := st.validate(adds); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.Add != nil {
			adds++
		}
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Default returns the embedded seed script.
func Default() *Script {
	s, err := Parse(defaultSeed)
	if err != nil {
		panic("script: embedded seed: " + err.Error())
	}
	return s
}

// validate checks st given the number of adds before it.
func (st Step) validate(adds int) error {
	n := 0
	if st.Add != nil {
		n++
	}
	if st.Toggle != nil {
		n++
	}
	if st.Filter != nil {
		n++
	}
	if n != 1 {
		return errStepShape
	}
	if st.Add != nil {
		if _, err := actions.CleanText(*st.Add); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}
	if st.Toggle != nil && (*st.Toggle < 0 || *st.Toggle >= adds) {
		return fmt.Errorf("%w: %d", errToggleRange, *st.Toggle)
	}
	if st.Filter != nil {
		if _, err := model.ParseFilter(*st.Filter); err != nil {
			return err
		}
	}
	return nil
}

// Actions expands the script into actions, taking todo ids from c.
// Toggles are resolved to the ids c gave the script's own adds.
func (s *Script) Actions(c *actions.Creator) ([]model.Action, error) {
	out := make([]model.Action, 0, len(s.Steps))
	var added []int
	for i, st := range s.Steps {
		switch {
		case st.Add != nil:
			text, err := actions.CleanText(*st.Add)
			if err != nil {
				return nil, fmt.Errorf("step %d: add: %w", i+1, err)
			}
			a := c.AddTodo(text)
			added = append(added, a.ID)
			out = append(out, a)
		case st.Toggle != nil:
			n := *st.Toggle
			if n < 0 || n >= len(added) {
				return nil, fmt.Errorf("step %d: %w: %d", i+1, errToggleRange, n)
			}
			out = append(out, c.ToggleTodo(added[n]))
		case st.Filter != nil:
			f, err := model.ParseFilter(*st.Filter)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			out = append(out, c.SetVisibilityFilter(f))
		default:
			return nil, fmt.Errorf("step %d: %w", i+1, errStepShape)
		}
	}
	return out, nil
}
