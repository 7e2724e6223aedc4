package lookup

import (
	"fmt"
	rand "math/rand/v2"
)

// Player is a lookup-table strategy: a table, the seed actions used to pad
// history at match start, and a private random source for probabilistic
// tables. A Player must not be shared between goroutines.
type Player struct {
	name    string
	table   *Table
	seed    []Action
	opening []Action
	rng     *rand.Rand
}

// PlayerOption customises a Player.
type PlayerOption func(*Player)

// WithOpening makes the player play moves literally, one per round, before
// it starts consulting its table.
func WithOpening(moves ...Action) PlayerOption {
	return func(p *Player) { p.opening = append([]Action(nil), moves...) }
}

// NewPlayer constructs a player. A nil seed defaults to MaxDepth Cooperates.
// A nil rng is only valid for deterministic tables.
func NewPlayer(name string, table *Table, seed []Action, rng *rand.Rand, opts ...PlayerOption) (*Player, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrConfiguration)
	}
	depth := table.Plays().MaxDepth()
	if seed == nil {
		seed = make([]Action, depth)
	}
	if len(seed) < depth {
		return nil, fmt.Errorf("%w: %d seed actions for max depth %d", ErrInsufficientSeed, len(seed), depth)
	}
	if rng == nil && table.Mode() == Probabilistic {
		return nil, fmt.Errorf("%w: probabilistic table requires a random source", ErrConfiguration)
	}
	p := &Player{
		name:  name,
		table: table,
		seed:  append([]Action(nil), seed...),
		rng:   rng,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// Table returns the player's lookup table.
func (p *Player) Table() *Table { return p.table }

// InitialActions returns a copy of the seed actions.
func (p *Player) InitialActions() []Action {
	return append([]Action(nil), p.seed...)
}

// Weight returns the cooperation weight for the current position.
func (p *Player) Weight(own, opponent []Action) (float64, error) {
	return Lookup(own, opponent, p.table, p.seed)
}

// Opening returns a copy of the literal opening moves.
func (p *Player) Opening() []Action {
	return append([]Action(nil), p.opening...)
}

// Decide picks the next action given both players' histories. Opening moves
// are played before the table is consulted.
func (p *Player) Decide(own, opponent []Action) (Action, error) {
	if len(own) < len(p.opening) {
		return p.opening[len(own)], nil
	}
	return Decide(own, opponent, p.table, p.seed, p.rng)
}
