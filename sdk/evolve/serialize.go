package evolve

import (
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/lox/gambler/sdk/lookup"
)

// Serialize renders the Gambler as
// "<self>:<opponent>:<opening>:<w1>|<w2>|...|<wn>:<seed letters>".
// Weights use the shortest representation that parses back to the same
// float64.
func (g *Gambler) Serialize() string {
	weights := make([]string, len(g.pattern))
	for i, w := range g.pattern {
		weights[i] = strconv.FormatFloat(w, 'g', -1, 64)
	}
	return fmt.Sprintf("%d:%d:%d:%s:%s",
		g.plays.Self, g.plays.Opponent, g.plays.Opening,
		strings.Join(weights, "|"),
		lookup.FormatActions(g.initial))
}

// Deserialize parses the output of Serialize. The returned Gambler uses rng
// as its random source.
func Deserialize(s string, rng *rand.Rand) (*Gambler, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: expected 5 fields, got %d", ErrDeserialization, len(fields))
	}

	var depths [3]int
	for i := range depths {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("%w: depth %q: %v", ErrDeserialization, fields[i], err)
		}
		depths[i] = v
	}
	plays := lookup.Plays{Self: depths[0], Opponent: depths[1], Opening: depths[2]}
	if err := plays.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	parts := strings.Split(fields[3], "|")
	pattern := make([]float64, len(parts))
	for i, part := range parts {
		w, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: weight %d %q: %v", ErrDeserialization, i, part, err)
		}
		if !(w >= 0 && w <= 1) {
			return nil, fmt.Errorf("%w: weight %d is %v, must be in [0, 1]", ErrDeserialization, i, w)
		}
		pattern[i] = w
	}
	if want := lookup.KeyCount(plays); len(pattern) != want {
		return nil, fmt.Errorf("%w: %d weights for key space %s of %d", ErrDeserialization, len(pattern), plays, want)
	}

	initial, err := lookup.ParseActions(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if len(initial) < plays.MaxDepth() {
		return nil, fmt.Errorf("%w: %d seed actions for max depth %d", ErrDeserialization, len(initial), plays.MaxDepth())
	}

	return NewGambler(plays, pattern, initial, rng)
}
