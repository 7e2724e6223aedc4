package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/gambler/sdk/lookup"
)

type KeysCmd struct {
	Self     int `default:"1" help:"Own recent moves in each key"`
	Opponent int `default:"1" help:"Opponent recent moves in each key"`
	Opening  int `default:"0" help:"Opponent opening moves in each key"`
}

func (c *KeysCmd) Run(logger *log.Logger) error {
	plays := lookup.Plays{Self: c.Self, Opponent: c.Opponent, Opening: c.Opening}
	keys, err := lookup.GenerateKeys(plays)
	if err != nil {
		return err
	}
	logger.Debug("generated key space", "plays", plays.String(), "keys", len(keys))

	fmt.Fprintln(os.Stdout, keysTable(keys, nil))
	printField(os.Stdout, "keys", len(keys))
	return nil
}
