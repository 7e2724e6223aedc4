package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `default:"info" help:"Log level (debug|info|warn|error)"`

	Keys    KeysCmd    `cmd:"" help:"List the key space for the given depths"`
	Presets PresetsCmd `cmd:"" help:"List named strategies"`
	Inspect InspectCmd `cmd:"" help:"Show the weights of a serialized strategy"`
	Random  RandomCmd  `cmd:"" help:"Print a serialized strategy with random weights"`
	Play    PlayCmd    `cmd:"" help:"Play two strategies against each other"`
	Evolve  EvolveCmd  `cmd:"" help:"Evolve a strategy from an HCL run file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gambler"),
		kong.Description("Lookup-table strategies for the iterated prisoner's dilemma"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(newLogger(cli.LogLevel))
	ctx.FatalIfErrorf(err)
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gambler",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
