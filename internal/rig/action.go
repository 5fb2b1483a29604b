package rig

import (
	"fmt"
	"strings"
)

// Action is the behavior a character is currently performing.
type Action uint8

const (
	Walking Action = iota
	Lightbulb
	Milk
	Jumping
	Waving

	numActions
)

var actionNames = [numActions]string{
	Walking:   "walking",
	Lightbulb: "lightbulb",
	Milk:      "milk",
	Jumping:   "jumping",
	Waving:    "waving",
}

func (a Action) String() string {
	if a.Valid() {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Valid reports whether a is one of the enumerated actions.
func (a Action) Valid() bool { return a < numActions }

// Actions returns every enumerated action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, numActions)
	for a := Action(0); a < numActions; a++ {
		out = append(out, a)
	}
	return out
}

// ParseAction resolves an action by name, case-insensitively.
func ParseAction(name string) (Action, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for a, s := range actionNames {
		if s == n {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
