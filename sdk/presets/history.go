package presets

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/gambler/sdk/lookup"
	"github.com/lox/gambler/sdk/tables"
)

// Strategy chooses an action from both histories. Every preset, lookup
// table or not, satisfies it.
type Strategy interface {
	Name() string
	Decide(own, opponent []lookup.Action) (lookup.Action, error)
}

// Names of presets whose behaviour depends on the round number or a long
// window, and so is not expressed as a lookup table.
const (
	Tullock = "Tullock"
	Feld    = "Feld"
)

var historyRegistry = map[string]func(rng *rand.Rand) (Strategy, error){
	Tullock: func(rng *rand.Rand) (Strategy, error) { return NewTullock(rng) },
	Feld:    func(rng *rand.Rand) (Strategy, error) { return NewFeld(rng) },
}

// StrategyNames lists every preset, lookup table or not, in sorted order.
func StrategyNames() []string {
	names := Names()
	for name := range historyRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewStrategy constructs any named preset.
func NewStrategy(name string, store *tables.Store, rng *rand.Rand) (Strategy, error) {
	if ctor, ok := historyRegistry[name]; ok {
		return ctor(rng)
	}
	return New(name, store, rng)
}

const (
	tullockOpening  = 11
	tullockWindow   = 10
	tullockDiscount = 0.1
)

// TullockPlayer cooperates for the first 11 rounds, then cooperates 10%
// less often than the opponent did over the last 10 rounds.
type TullockPlayer struct {
	rng *rand.Rand
}

// NewTullock builds a Tullock player that owns rng.
func NewTullock(rng *rand.Rand) (*TullockPlayer, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: %s requires a random source", lookup.ErrConfiguration, Tullock)
	}
	return &TullockPlayer{rng: rng}, nil
}

// Name returns Tullock.
func (t *TullockPlayer) Name() string { return Tullock }

// Decide picks the next action.
func (t *TullockPlayer) Decide(own, opponent []lookup.Action) (lookup.Action, error) {
	if len(own) < tullockOpening {
		return lookup.Cooperate, nil
	}
	return sample(t.rng, t.Probability(opponent)), nil
}

// Probability returns the cooperation probability after the opening, given
// the opponent's history.
func (t *TullockPlayer) Probability(opponent []lookup.Action) float64 {
	window := opponent[max(0, len(opponent)-tullockWindow):]
	coop := 0
	for _, a := range window {
		if a == lookup.Cooperate {
			coop++
		}
	}
	return max(0, float64(coop)/tullockWindow-tullockDiscount)
}

const (
	feldStart = 1.0
	feldEnd   = 0.5
	feldDecay = 200
)

// FeldPlayer retaliates against every defection and otherwise cooperates
// with a probability falling linearly from 1 to 0.5 over 200 rounds.
type FeldPlayer struct {
	rng *rand.Rand
}

// NewFeld builds a Feld player that owns rng.
func NewFeld(rng *rand.Rand) (*FeldPlayer, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: %s requires a random source", lookup.ErrConfiguration, Feld)
	}
	return &FeldPlayer{rng: rng}, nil
}

// Name returns Feld.
func (f *FeldPlayer) Name() string { return Feld }

// Probability returns the cooperation probability after the given number
// of rounds.
func (f *FeldPlayer) Probability(rounds int) float64 {
	slope := (feldEnd - feldStart) / feldDecay
	return max(feldStart+slope*float64(rounds), feldEnd)
}

// Decide picks the next action.
func (f *FeldPlayer) Decide(own, opponent []lookup.Action) (lookup.Action, error) {
	if len(own) == 0 || len(opponent) == 0 {
		return lookup.Cooperate, nil
	}
	if opponent[len(opponent)-1] == lookup.Defect {
		return lookup.Defect, nil
	}
	return sample(f.rng, f.Probability(len(own))), nil
}

// sample cooperates with probability p. Certain outcomes take no draw.
func sample(rng *rand.Rand, p float64) lookup.Action {
	switch {
	case p >= 1:
		return lookup.Cooperate
	case p <= 0:
		return lookup.Defect
	case rng.Float64() < p:
		return lookup.Cooperate
	default:
		return lookup.Defect
	}
}
