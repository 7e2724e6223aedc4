// Package match drives two strategies through a fixed number of rounds and
// records the resulting histories. It keeps no score; callers derive
// whatever measure they need from the histories.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lox/gambler/sdk/lookup"
)

// Strategy is anything that can choose an action from both histories.
type Strategy interface {
	Name() string
	Decide(own, opponent []lookup.Action) (lookup.Action, error)
}

// Result holds the action history of each side, round by round.
type Result struct {
	A, B []lookup.Action
}

// Rounds returns the number of rounds played.
func (r Result) Rounds() int { return len(r.A) }

// Play runs a and b against each other for the given number of rounds.
// Both decide simultaneously from the histories before the round.
func Play(ctx context.Context, a, b Strategy, rounds int) (Result, error) {
	if rounds <= 0 {
		return Result{}, errors.New("rounds must be > 0")
	}
	res := Result{
		A: make([]lookup.Action, 0, rounds),
		B: make([]lookup.Action, 0, rounds),
	}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		actA, err := a.Decide(res.A, res.B)
		if err != nil {
			return res, fmt.Errorf("%s round %d: %w", a.Name(), i+1, err)
		}
		actB, err := b.Decide(res.B, res.A)
		if err != nil {
			return res, fmt.Errorf("%s round %d: %w", b.Name(), i+1, err)
		}
		res.A = append(res.A, actA)
		res.B = append(res.B, actB)
	}
	return res, nil
}

// Objective measures a Result from side A's point of view.
type Objective uint8

const (
	// MutualCooperation is the fraction of rounds where both cooperated.
	MutualCooperation Objective = iota
	// Exploitation is the fraction of rounds where A defected against a
	// cooperating B.
	Exploitation
)

func (o Objective) String() string {
	switch o {
	case MutualCooperation:
		return "mutual_cooperation"
	case Exploitation:
		return "exploitation"
	default:
		return "unknown"
	}
}

// ParseObjective converts a configuration string into an Objective.
func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mutual_cooperation":
		return MutualCooperation, nil
	case "exploitation":
		return Exploitation, nil
	default:
		return MutualCooperation, fmt.Errorf("unknown objective %q", s)
	}
}

// Score applies the objective to a result. An empty result scores zero.
func (o Objective) Score(r Result) float64 {
	if r.Rounds() == 0 {
		return 0
	}
	hits := 0
	for i := range r.A {
		switch o {
		case MutualCooperation:
			if r.A[i] == lookup.Cooperate && r.B[i] == lookup.Cooperate {
				hits++
			}
		case Exploitation:
			if r.A[i] == lookup.Defect && r.B[i] == lookup.Cooperate {
				hits++
			}
		}
	}
	return float64(hits) / float64(r.Rounds())
}

// CooperationRate returns the fraction of cooperative moves in actions.
func CooperationRate(actions []lookup.Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	n := 0
	for _, a := range actions {
		if a == lookup.Cooperate {
			n++
		}
	}
	return float64(n) / float64(len(actions))
}
