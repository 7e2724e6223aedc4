package lookup

import (
	"fmt"
	"math"
)

// Mode records how a table's weights are interpreted. It is fixed when the
// table is built.
type Mode uint8

const (
	// Probabilistic weights are cooperation probabilities sampled per decision.
	Probabilistic Mode = iota
	// Deterministic weights are literal actions: 1 cooperates, 0 defects.
	Deterministic
)

func (m Mode) String() string {
	switch m {
	case Probabilistic:
		return "probabilistic"
	case Deterministic:
		return "deterministic"
	default:
		return "unknown"
	}
}

// Table is an immutable mapping from every key of a key space to a weight.
// Weights are held in canonical key order, so a table always covers its
// full key space.
type Table struct {
	plays   Plays
	mode    Mode
	weights []float64
}

// FromPattern zips pattern against GenerateKeys(plays). The pattern is
// copied; later changes by the caller do not affect the table.
func FromPattern(pattern []float64, plays Plays) (*Table, error) {
	if err := plays.Validate(); err != nil {
		return nil, err
	}
	if want := KeyCount(plays); len(pattern) != want {
		return nil, fmt.Errorf("%w: pattern has %d weights, key space %s has %d keys", ErrConfiguration, len(pattern), plays, want)
	}
	for i, w := range pattern {
		if math.IsNaN(w) {
			return nil, fmt.Errorf("%w: weight %d is NaN", ErrConfiguration, i)
		}
	}
	return &Table{plays: plays, mode: Probabilistic, weights: append([]float64(nil), pattern...)}, nil
}

// FromActions builds a deterministic table from a pattern of actions in
// canonical key order.
func FromActions(pattern []Action, plays Plays) (*Table, error) {
	weights := make([]float64, len(pattern))
	for i, a := range pattern {
		if a == Cooperate {
			weights[i] = 1
		}
	}
	t, err := FromPattern(weights, plays)
	if err != nil {
		return nil, err
	}
	t.mode = Deterministic
	return t, nil
}

// FromMapping builds a table from a caller-supplied key to weight mapping,
// such as an externally trained table. Every key must share the same depths
// and the mapping must cover the whole key space.
func FromMapping(mapping map[Key]float64) (*Table, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrConfiguration)
	}
	var plays Plays
	first := true
	for k := range mapping {
		if first {
			plays = k.Plays()
			first = false
			continue
		}
		if k.Plays() != plays {
			return nil, fmt.Errorf("%w: key %s does not match depths %s", ErrKeyMismatch, k, plays)
		}
	}
	if err := plays.Validate(); err != nil {
		return nil, err
	}
	if want := KeyCount(plays); len(mapping) != want {
		return nil, fmt.Errorf("%w: mapping has %d keys, key space %s has %d", ErrConfiguration, len(mapping), plays, want)
	}
	weights := make([]float64, len(mapping))
	for k, w := range mapping {
		if !validWindow(k.Self) || !validWindow(k.Opponent) || !validWindow(k.Opening) {
			return nil, fmt.Errorf("%w: key %s contains invalid actions", ErrKeyMismatch, k)
		}
		weights[indexOf(plays, k)] = w
	}
	return &Table{plays: plays, mode: Probabilistic, weights: weights}, nil
}

// Get returns the weight stored for key.
func (t *Table) Get(key Key) (float64, error) {
	if key.Plays() != t.plays {
		return 0, fmt.Errorf("%w: key %s has depths %s, table expects %s", ErrKeyMismatch, key, key.Plays(), t.plays)
	}
	if !validWindow(key.Self) || !validWindow(key.Opponent) || !validWindow(key.Opening) {
		return 0, fmt.Errorf("%w: key %s contains invalid actions", ErrKeyMismatch, key)
	}
	return t.weights[indexOf(t.plays, key)], nil
}

// Plays returns the depths the table was built for.
func (t *Table) Plays() Plays { return t.plays }

// Mode returns how weights are interpreted.
func (t *Table) Mode() Mode { return t.mode }

// Len returns the number of keys in the table.
func (t *Table) Len() int { return len(t.weights) }

// Keys returns the table's keys in canonical order.
func (t *Table) Keys() []Key {
	keys, _ := GenerateKeys(t.plays)
	return keys
}

// Pattern returns a copy of the weights in canonical key order.
func (t *Table) Pattern() []float64 {
	return append([]float64(nil), t.weights...)
}
