package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/lookup"
	"github.com/lox/gambler/sdk/presets"
	"github.com/lox/gambler/sdk/tables"
)

type PresetsCmd struct {
	Tables string `type:"path" help:"CSV of trained tables for the PSO Gambler presets"`
}

func (c *PresetsCmd) Run(logger *log.Logger) error {
	store, err := loadStore(c.Tables, logger)
	if err != nil {
		return err
	}

	t := newTable("name", "plays", "mode", "keys")
	for _, name := range presets.StrategyNames() {
		s, err := presets.NewStrategy(name, store, randutil.New(0))
		if err != nil {
			logger.Debug("preset unavailable", "name", name, "err", err)
			t.Row(name, "-", "needs --tables", "-")
			continue
		}
		p, ok := s.(*lookup.Player)
		if !ok {
			t.Row(name, "-", "history", "-")
			continue
		}
		tbl := p.Table()
		t.Row(name, tbl.Plays().String(), tbl.Mode().String(), fmt.Sprint(tbl.Len()))
	}
	fmt.Fprintln(os.Stdout, t)
	return nil
}

// loadStore reads trained tables when a path is given. An empty path
// yields a nil store, which only trained presets reject.
func loadStore(path string, logger *log.Logger) (*tables.Store, error) {
	if path == "" {
		return nil, nil
	}
	store, err := tables.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded trained tables", "path", path, "tables", store.Len())
	return store, nil
}
