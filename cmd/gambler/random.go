package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/evolve"
	"github.com/lox/gambler/sdk/lookup"
)

type RandomCmd struct {
	Self     int   `default:"1" help:"Own recent moves in each key"`
	Opponent int   `default:"1" help:"Opponent recent moves in each key"`
	Opening  int   `default:"0" help:"Opponent opening moves in each key"`
	Seed     int64 `help:"Random seed (0 uses the current time)"`
}

func (c *RandomCmd) Run(logger *log.Logger) error {
	return c.run(quartz.NewReal(), logger)
}

func (c *RandomCmd) run(clock quartz.Clock, logger *log.Logger) error {
	seed := c.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	logger.Debug("drawing random strategy", "seed", seed)

	plays := lookup.Plays{Self: c.Self, Opponent: c.Opponent, Opening: c.Opening}
	g, err := evolve.NewGambler(plays, nil, nil, randutil.New(seed))
	if err != nil {
		return err
	}
	// a mutated copy gets randomly sampled seed actions as well
	fmt.Fprintln(os.Stdout, g.Mutate(0).Serialize())
	return nil
}
