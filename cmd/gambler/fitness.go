package main

import (
	"context"

	"github.com/lox/gambler/internal/config"
	"github.com/lox/gambler/internal/match"
	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/evolve"
	"github.com/lox/gambler/sdk/tables"
)

// field is the fixed set of opponents a candidate is scored against.
type field struct {
	opponents []config.OpponentConfig
	seeds     []int64
	store     *tables.Store
	objective match.Objective
	rounds    int
}

// newField checks every opponent can be built and fixes one seed per
// opponent, so all candidates face identically seeded opponents.
func newField(opponents []config.OpponentConfig, store *tables.Store, objective match.Objective, rounds int, seed int64) (*field, error) {
	f := &field{
		opponents: opponents,
		seeds:     randutil.Seeds(randutil.New(seed), len(opponents)),
		store:     store,
		objective: objective,
		rounds:    rounds,
	}
	for i, o := range opponents {
		if _, err := o.New(store, randutil.New(f.seeds[i])); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// fitness returns the candidate's mean objective score over the field.
// Opponents are rebuilt for every evaluation, so concurrent calls share
// no state.
func (f *field) fitness(ctx context.Context, g *evolve.Gambler) (float64, error) {
	total := 0.0
	for i, o := range f.opponents {
		opp, err := o.New(f.store, randutil.New(f.seeds[i]))
		if err != nil {
			return 0, err
		}
		res, err := match.Play(ctx, g, opp, f.rounds)
		if err != nil {
			return 0, err
		}
		total += f.objective.Score(res)
	}
	return total / float64(len(f.opponents)), nil
}
