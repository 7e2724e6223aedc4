// Package evolve adapts lookup-table strategies for automated search: a
// mutable weight vector with genetic operators, a text serialisation for
// trained strategies, and a generational population driver.
package evolve

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/lookup"
)

// GamblerName is the display name given to evolvable players.
const GamblerName = "EvolvableGambler"

// mutationSpread is the half-width of the uniform offset applied to a
// mutated weight.
const mutationSpread = 0.25

// ErrDeserialization reports a malformed serialised strategy.
var ErrDeserialization = errors.New("deserialization error")

// Evolvable is implemented by strategies an optimiser can breed. Operators
// always return new values and never modify the receiver.
type Evolvable[T any] interface {
	Mutate(probability float64) T
	Crossover(other T) (T, error)
	Serialize() string
}

var _ Evolvable[*Gambler] = (*Gambler)(nil)

// Gambler owns a weight vector aligned with the canonical key order of its
// Plays and keeps a lookup player rebuilt from it. A Gambler owns its random
// source and must not be shared between goroutines.
type Gambler struct {
	plays   lookup.Plays
	pattern []float64
	initial []lookup.Action
	rng     *rand.Rand
	player  *lookup.Player
}

// NewGambler constructs an evolvable strategy. A nil pattern draws random
// weights, a nil initial sequence defaults to Cooperates. Weights are
// clamped into [0, 1].
func NewGambler(plays lookup.Plays, pattern []float64, initial []lookup.Action, rng *rand.Rand) (*Gambler, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", lookup.ErrConfiguration)
	}
	if err := plays.Validate(); err != nil {
		return nil, err
	}
	if pattern == nil {
		var err error
		pattern, _, err = RandomParams(plays, rng)
		if err != nil {
			return nil, err
		}
	}
	g := &Gambler{plays: plays, rng: rng}
	if initial != nil {
		g.initial = append([]lookup.Action(nil), initial...)
	}
	if err := g.ReceiveVector(pattern); err != nil {
		return nil, err
	}
	return g, nil
}

// RandomParams draws one uniform weight per key to seed a population member.
func RandomParams(plays lookup.Plays, rng *rand.Rand) ([]float64, *lookup.Table, error) {
	if err := plays.Validate(); err != nil {
		return nil, nil, err
	}
	pattern := make([]float64, lookup.KeyCount(plays))
	for i := range pattern {
		pattern[i] = rng.Float64()
	}
	table, err := lookup.FromPattern(pattern, plays)
	if err != nil {
		return nil, nil, err
	}
	return pattern, table, nil
}

// DefaultMutationProbability spreads roughly two and a half mutations over
// a pattern of the given depths.
func DefaultMutationProbability(plays lookup.Plays) float64 {
	return min(1, 2.5/float64(lookup.KeyCount(plays)))
}

// ReceiveVector replaces the weights and rebuilds the table. The vector must
// have exactly one weight per key.
func (g *Gambler) ReceiveVector(vector []float64) error {
	if want := lookup.KeyCount(g.plays); len(vector) != want {
		return fmt.Errorf("%w: vector has %d weights, key space %s has %d", lookup.ErrConfiguration, len(vector), g.plays, want)
	}
	pattern := make([]float64, len(vector))
	for i, w := range vector {
		pattern[i] = clamp(w)
	}
	table, err := lookup.FromPattern(pattern, g.plays)
	if err != nil {
		return err
	}
	player, err := lookup.NewPlayer(GamblerName, table, g.initial, g.rng)
	if err != nil {
		return err
	}
	g.pattern = pattern
	g.initial = player.InitialActions()
	g.player = player
	return nil
}

// VectorBounds returns the feasible region for a continuous optimiser.
func (g *Gambler) VectorBounds() (lower, upper []float64) {
	lower = make([]float64, len(g.pattern))
	upper = make([]float64, len(g.pattern))
	for i := range upper {
		upper[i] = 1
	}
	return lower, upper
}

// Mutate returns a new Gambler in which each weight, with the given
// probability, moved by a uniform offset in (-0.25, 0.25) and was clamped.
// The child gets freshly sampled seed actions and its own random source.
func (g *Gambler) Mutate(probability float64) *Gambler {
	pattern := append([]float64(nil), g.pattern...)
	for i := range pattern {
		if g.rng.Float64() < probability {
			pattern[i] = clamp(pattern[i] + (g.rng.Float64()*2-1)*mutationSpread)
		}
	}
	initial := make([]lookup.Action, g.plays.MaxDepth())
	for i := range initial {
		initial[i] = lookup.Action(g.rng.IntN(2))
	}
	return g.child(pattern, initial)
}

// Crossover splices this Gambler's weights before a uniformly chosen split
// point with other's weights from it onward. Both parents must share Plays.
// The offspring keeps this Gambler's seed actions.
func (g *Gambler) Crossover(other *Gambler) (*Gambler, error) {
	if other == nil || other.plays != g.plays {
		return nil, fmt.Errorf("%w: crossover requires matching plays", lookup.ErrConfiguration)
	}
	split := g.rng.IntN(len(g.pattern) + 1)
	pattern := make([]float64, 0, len(g.pattern))
	pattern = append(pattern, g.pattern[:split]...)
	pattern = append(pattern, other.pattern[split:]...)
	return g.child(pattern, g.initial), nil
}

// child builds an offspring from weights already known to fit the key space.
func (g *Gambler) child(pattern []float64, initial []lookup.Action) *Gambler {
	c := &Gambler{
		plays:   g.plays,
		initial: append([]lookup.Action(nil), initial...),
		rng:     randutil.Derive(g.rng),
	}
	if err := c.ReceiveVector(pattern); err != nil {
		// Pattern length and seed length are fixed by plays, so a failure
		// here means the parent was built without NewGambler.
		panic(fmt.Sprintf("evolve: invalid offspring: %v", err))
	}
	return c
}

// Name returns GamblerName.
func (g *Gambler) Name() string { return GamblerName }

// Plays returns the key space depths.
func (g *Gambler) Plays() lookup.Plays { return g.plays }

// Pattern returns a copy of the weights in canonical key order.
func (g *Gambler) Pattern() []float64 {
	return append([]float64(nil), g.pattern...)
}

// InitialActions returns a copy of the seed actions.
func (g *Gambler) InitialActions() []lookup.Action {
	return append([]lookup.Action(nil), g.initial...)
}

// Player returns the lookup player built from the current weights.
func (g *Gambler) Player() *lookup.Player { return g.player }

// Table returns the lookup table built from the current weights.
func (g *Gambler) Table() *lookup.Table { return g.player.Table() }

// Decide plays the next action using the Gambler's own random source.
func (g *Gambler) Decide(own, opponent []lookup.Action) (lookup.Action, error) {
	return g.player.Decide(own, opponent)
}

func clamp(w float64) float64 {
	switch {
	case w < 0:
		return 0
	case w > 1:
		return 1
	default:
		return w
	}
}
