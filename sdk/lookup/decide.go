package lookup

import (
	"fmt"
	rand "math/rand/v2"
)

// KeyFor assembles the table key for the current match position.
//
// Recent windows are the last n entries of seed ++ history, so seed actions
// pad on the left until real history is long enough. The opening window is
// the first n entries of the opponent's history; positions the opponent has
// not played yet are taken from the same positions of seed.
func KeyFor(own, opponent []Action, plays Plays, seed []Action) (Key, error) {
	self, err := recentWindow(own, plays.Self, seed)
	if err != nil {
		return Key{}, err
	}
	opp, err := recentWindow(opponent, plays.Opponent, seed)
	if err != nil {
		return Key{}, err
	}
	opening, err := openingWindow(opponent, plays.Opening, seed)
	if err != nil {
		return Key{}, err
	}
	return Key{Self: self, Opponent: opp, Opening: opening}, nil
}

func recentWindow(history []Action, depth int, seed []Action) (Window, error) {
	if len(history) >= depth {
		return WindowOf(history[len(history)-depth:]), nil
	}
	missing := depth - len(history)
	if len(seed) < missing {
		return "", fmt.Errorf("%w: need %d seed actions for depth %d with %d played, have %d", ErrInsufficientSeed, missing, depth, len(history), len(seed))
	}
	window := make([]Action, 0, depth)
	window = append(window, seed[len(seed)-missing:]...)
	window = append(window, history...)
	return WindowOf(window), nil
}

func openingWindow(history []Action, depth int, seed []Action) (Window, error) {
	if len(history) >= depth {
		return WindowOf(history[:depth]), nil
	}
	if len(seed) < depth {
		return "", fmt.Errorf("%w: need %d seed actions for opening depth %d, have %d", ErrInsufficientSeed, depth, depth, len(seed))
	}
	window := make([]Action, 0, depth)
	window = append(window, history...)
	window = append(window, seed[len(history):depth]...)
	return WindowOf(window), nil
}

// Lookup returns the weight the table holds for the current match position.
func Lookup(own, opponent []Action, table *Table, seed []Action) (float64, error) {
	key, err := KeyFor(own, opponent, table.Plays(), seed)
	if err != nil {
		return 0, err
	}
	return table.Get(key)
}

// Decide looks up the current weight and turns it into an action.
//
// Deterministic tables return the stored action. Probabilistic tables
// cooperate when a uniform draw falls below the weight; weights at or above
// 1 always cooperate and at or below 0 always defect without consuming a
// draw. A fractional probabilistic weight with a nil rng is an
// ErrConfiguration.
func Decide(own, opponent []Action, table *Table, seed []Action, rng *rand.Rand) (Action, error) {
	w, err := Lookup(own, opponent, table, seed)
	if err != nil {
		return Defect, err
	}
	return actionFor(w, table.Mode(), rng)
}

func actionFor(w float64, mode Mode, rng *rand.Rand) (Action, error) {
	switch {
	case w >= 1:
		return Cooperate, nil
	case w <= 0:
		return Defect, nil
	case mode == Deterministic:
		if w >= 0.5 {
			return Cooperate, nil
		}
		return Defect, nil
	case rng == nil:
		return Defect, fmt.Errorf("%w: weight %v needs a random source", ErrConfiguration, w)
	}
	if rng.Float64() < w {
		return Cooperate, nil
	}
	return Defect, nil
}
