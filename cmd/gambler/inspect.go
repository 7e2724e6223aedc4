package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/evolve"
	"github.com/lox/gambler/sdk/lookup"
)

type InspectCmd struct {
	Strategy string `arg:"" help:"Serialized strategy (self:opponent:opening:w1|...|wn:seed)"`
}

func (c *InspectCmd) Run(logger *log.Logger) error {
	g, err := evolve.Deserialize(c.Strategy, randutil.New(0))
	if err != nil {
		return err
	}
	tbl := g.Table()
	logger.Debug("inspecting strategy", "plays", g.Plays().String(), "mode", tbl.Mode())

	fmt.Fprintln(os.Stdout, keysTable(tbl.Keys(), tbl.Pattern()))
	printField(os.Stdout, "plays", g.Plays())
	printField(os.Stdout, "seed", lookup.FormatActions(g.InitialActions()))
	return nil
}
