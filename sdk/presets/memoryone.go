package presets

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/gambler/sdk/lookup"
)

// MemoryOnePlays are the depths of every four-vector strategy.
var MemoryOnePlays = lookup.Plays{Self: 1, Opponent: 1}

// FourVector holds the cooperation probabilities after the previous round
// outcomes (C,C), (C,D), (D,C), (D,D), the deciding player's move first.
type FourVector [4]float64

// Validate ensures every entry is a probability.
func (v FourVector) Validate() error {
	for i, p := range v {
		if !(p >= 0 && p <= 1) {
			return fmt.Errorf("%w: four-vector entry %d is %v, must be in [0, 1]", lookup.ErrConfiguration, i, p)
		}
	}
	return nil
}

// NewMemoryOne builds a player that cooperates on the first move and then
// samples its four-vector.
func NewMemoryOne(name string, v FourVector, rng *rand.Rand) (*lookup.Player, error) {
	return newMemoryOne(name, v, rng, lookup.WithOpening(lookup.C))
}

func newMemoryOne(name string, v FourVector, rng *rand.Rand, opts ...lookup.PlayerOption) (*lookup.Player, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	table, err := lookup.FromPattern(v[:], MemoryOnePlays)
	if err != nil {
		return nil, err
	}
	return lookup.NewPlayer(name, table, []lookup.Action{lookup.C}, rng, opts...)
}
