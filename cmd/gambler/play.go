package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/gambler/internal/config"
	"github.com/lox/gambler/internal/match"
	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/lookup"
	"github.com/lox/gambler/sdk/presets"
	"github.com/lox/gambler/sdk/tables"
)

type PlayCmd struct {
	A      string `arg:"" help:"Preset name or serialized strategy"`
	B      string `arg:"" help:"Preset name or serialized strategy"`
	Rounds int    `default:"20" help:"Rounds to play"`
	Seed   int64  `default:"1" help:"Random seed"`
	Tables string `type:"path" help:"CSV of trained tables for the PSO Gambler presets"`
}

func (c *PlayCmd) Run(logger *log.Logger) error {
	store, err := loadStore(c.Tables, logger)
	if err != nil {
		return err
	}

	seeds := randutil.Seeds(randutil.New(c.Seed), 2)
	a, err := strategyArg(c.A, store, seeds[0])
	if err != nil {
		return err
	}
	b, err := strategyArg(c.B, store, seeds[1])
	if err != nil {
		return err
	}

	res, err := match.Play(context.Background(), a, b, c.Rounds)
	if err != nil {
		return err
	}
	logger.Debug("match complete", "a", a.Name(), "b", b.Name(), "rounds", res.Rounds())

	t := newTable("strategy", "history", "cooperation")
	t.Row(a.Name(), lookup.FormatActions(res.A), fmt.Sprintf("%.3f", match.CooperationRate(res.A)))
	t.Row(b.Name(), lookup.FormatActions(res.B), fmt.Sprintf("%.3f", match.CooperationRate(res.B)))
	fmt.Fprintln(os.Stdout, t)
	printField(os.Stdout, match.MutualCooperation.String(), fmt.Sprintf("%.3f", match.MutualCooperation.Score(res)))
	printField(os.Stdout, match.Exploitation.String(), fmt.Sprintf("%.3f", match.Exploitation.Score(res)))
	return nil
}

// strategyArg treats arg as a preset name if one matches, otherwise as a
// serialized strategy.
func strategyArg(arg string, store *tables.Store, seed int64) (match.Strategy, error) {
	o := config.OpponentConfig{Name: arg}
	if slices.Contains(presets.StrategyNames(), arg) {
		o.Preset = arg
	} else {
		o.Serialized = arg
	}
	return o.New(store, randutil.New(seed))
}
