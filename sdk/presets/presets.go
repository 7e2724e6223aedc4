// Package presets provides named strategies that configure the lookup
// engine with literal or externally trained weights.
package presets

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/lox/gambler/sdk/lookup"
	"github.com/lox/gambler/sdk/tables"
)

// Constructor builds a fresh player. store supplies trained weights and may
// be nil for presets that only use literal values.
type Constructor func(store *tables.Store, rng *rand.Rand) (*lookup.Player, error)

// Preset names.
const (
	Cooperator         = "Cooperator"
	Defector           = "Defector"
	TitForTat          = "Tit For Tat"
	Random             = "Random"
	Anand              = "Anand"
	ZDExtort2          = "ZD-Extort-2"
	ZDGTFT2            = "ZD-GTFT-2"
	ZDMem2             = "ZD-Mem2"
	PSOGamblerMem1     = "PSO Gambler Mem1"
	PSOGambler111      = "PSO Gambler 1_1_1"
	PSOGambler222      = "PSO Gambler 2_2_2"
	PSOGambler222Noise = "PSO Gambler 2_2_2 Noise 05"
)

var registry = map[string]Constructor{
	Cooperator: deterministic(Cooperator, lookup.Plays{}, lookup.C),
	Defector:   deterministic(Defector, lookup.Plays{}, lookup.D),
	TitForTat:  deterministic(TitForTat, lookup.Plays{Opponent: 1}, lookup.C, lookup.D),

	Random:    randomChoice,
	Anand:     memoryOne(Anand, FourVector{7.0 / 9, 0, 8.0 / 9, 0}),
	ZDExtort2: memoryOne(ZDExtort2, FourVector{8.0 / 9, 1.0 / 2, 1.0 / 3, 0}),
	ZDGTFT2:   memoryOne(ZDGTFT2, FourVector{1, 1.0 / 8, 1, 1.0 / 4}),

	ZDMem2: literal(ZDMem2, lookup.Plays{Self: 2, Opponent: 2}, []float64{
		11.0 / 12, 4.0 / 11, 7.0 / 9, 1.0 / 10,
		5.0 / 6, 3.0 / 11, 7.0 / 9, 1.0 / 10,
		2.0 / 3, 1.0 / 11, 7.0 / 9, 1.0 / 10,
		3.0 / 4, 2.0 / 11, 7.0 / 9, 1.0 / 10,
	}),

	PSOGamblerMem1:     trained(PSOGamblerMem1, lookup.Plays{Self: 1, Opponent: 1}),
	PSOGambler111:      trained(PSOGambler111, lookup.Plays{Self: 1, Opponent: 1, Opening: 1}),
	PSOGambler222:      trained(PSOGambler222, lookup.Plays{Self: 2, Opponent: 2, Opening: 2}),
	PSOGambler222Noise: trained(PSOGambler222Noise, lookup.Plays{Self: 2, Opponent: 2, Opening: 2}),
}

// Names lists the registered presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the named preset.
func New(name string, store *tables.Store, rng *rand.Rand) (*lookup.Player, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return ctor(store, rng)
}

// randomChoice samples 0.5 from the first move on, with no literal opening.
func randomChoice(_ *tables.Store, rng *rand.Rand) (*lookup.Player, error) {
	return newMemoryOne(Random, FourVector{0.5, 0.5, 0.5, 0.5}, rng)
}

func memoryOne(name string, v FourVector) Constructor {
	return func(_ *tables.Store, rng *rand.Rand) (*lookup.Player, error) {
		return NewMemoryOne(name, v, rng)
	}
}

func literal(name string, plays lookup.Plays, pattern []float64) Constructor {
	return func(_ *tables.Store, rng *rand.Rand) (*lookup.Player, error) {
		table, err := lookup.FromPattern(pattern, plays)
		if err != nil {
			return nil, err
		}
		return lookup.NewPlayer(name, table, nil, rng)
	}
}

func deterministic(name string, plays lookup.Plays, pattern ...lookup.Action) Constructor {
	return func(_ *tables.Store, rng *rand.Rand) (*lookup.Player, error) {
		table, err := lookup.FromActions(pattern, plays)
		if err != nil {
			return nil, err
		}
		return lookup.NewPlayer(name, table, nil, rng)
	}
}

// trained presets read their pattern from the store by name and depths.
func trained(name string, plays lookup.Plays) Constructor {
	return func(store *tables.Store, rng *rand.Rand) (*lookup.Player, error) {
		pattern, err := store.Pattern(name, plays)
		if err != nil {
			return nil, err
		}
		table, err := lookup.FromPattern(pattern, plays)
		if err != nil {
			return nil, err
		}
		return lookup.NewPlayer(name, table, nil, rng)
	}
}
