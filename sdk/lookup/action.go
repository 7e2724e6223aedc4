package lookup

import (
	"fmt"
	"strings"
)

// Action is a single round decision. Cooperate orders before Defect, which
// is the ordering every key window is enumerated in.
type Action uint8

const (
	Cooperate Action = iota
	Defect
)

// C and D are shorthand used in literal patterns and tests.
const (
	C = Cooperate
	D = Defect
)

func (a Action) String() string {
	switch a {
	case Cooperate:
		return "C"
	case Defect:
		return "D"
	default:
		return "?"
	}
}

// Flip returns the opposite action.
func (a Action) Flip() Action {
	if a == Cooperate {
		return Defect
	}
	return Cooperate
}

// ParseAction converts a single letter into an Action.
func ParseAction(r rune) (Action, error) {
	switch r {
	case 'C':
		return Cooperate, nil
	case 'D':
		return Defect, nil
	default:
		return 0, fmt.Errorf("invalid action letter %q", r)
	}
}

// ParseActions converts a string of C/D letters into actions in history order.
func ParseActions(s string) ([]Action, error) {
	out := make([]Action, 0, len(s))
	for _, r := range s {
		a, err := ParseAction(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// FormatActions renders actions as C/D letters in history order.
func FormatActions(actions []Action) string {
	var b strings.Builder
	b.Grow(len(actions))
	for _, a := range actions {
		b.WriteString(a.String())
	}
	return b.String()
}
