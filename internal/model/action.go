package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActionType tags an action.
type ActionType string

const (
	ActionInit                ActionType = "@@INIT"
	ActionAddTodo             ActionType = "ADD_TODO"
	ActionToggleTodo          ActionType = "TOGGLE_TODO"
	ActionSetVisibilityFilter ActionType = "SET_VISIBILITY_FILTER"
)

// Action describes a state change request. Actions are values and are not
// retained by the store after dispatch.
type Action interface {
	Type() ActionType
}

// Init is dispatched once when a store bootstraps. No reducer handles it.
type Init struct{}

type AddTodo struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type ToggleTodo struct {
	ID int `json:"id"`
}

type SetVisibilityFilter struct {
	Filter VisibilityFilter `json:"filter"`
}

func (Init) Type() ActionType                { return ActionInit }
func (AddTodo) Type() ActionType             { return ActionAddTodo }
func (ToggleTodo) Type() ActionType          { return ActionToggleTodo }
func (SetVisibilityFilter) Type() ActionType { return ActionSetVisibilityFilter }

// ErrUnknownAction is returned when decoding an action type this package
// does not define.
var ErrUnknownAction = errors.New("unknown action type")

// EncodeAction returns the action's type tag and its JSON payload.
func EncodeAction(a Action) (ActionType, []byte, error) {
	switch a.(type) {
	case Init, AddTodo, ToggleTodo, SetVisibilityFilter:
	default:
		return "", nil, fmt.Errorf("encode %T: %w", a, ErrUnknownAction)
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", nil, fmt.Errorf("json marshal: %w", err)
	}
	return a.Type(), b, nil
}

// DecodeAction rebuilds an action from EncodeAction's output.
func DecodeAction(typ ActionType, payload []byte) (Action, error) {
	var (
		a   Action
		err error
	)
	switch typ {
	case ActionInit:
		return Init{}, nil
	case ActionAddTodo:
		var v AddTodo
		err = json.Unmarshal(payload, &v)
		a = v
	case ActionToggleTodo:
		var v ToggleTodo
		err = json.Unmarshal(payload, &v)
		a = v
	case ActionSetVisibilityFilter:
		var v SetVisibilityFilter
		err = json.Unmarshal(payload, &v)
		a = v
	default:
		return nil, fmt.Errorf("decode %q: %w", typ, ErrUnknownAction)
	}
	if err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", typ, err)
	}
	return a, nil
}
