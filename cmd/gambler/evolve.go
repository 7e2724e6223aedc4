package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/gambler/internal/config"
	"github.com/lox/gambler/internal/fileutil"
	"github.com/lox/gambler/sdk/evolve"
)

type EvolveCmd struct {
	Config string `short:"c" default:"gambler.hcl" type:"path" help:"HCL run file (defaults are used if missing)"`
	Resume bool   `help:"Continue from the run's checkpoint if it exists"`
}

func (c *EvolveCmd) Run(logger *log.Logger) error {
	logger = logger.WithPrefix("evolve")

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	objective, err := cfg.Objective()
	if err != nil {
		return err
	}
	store, err := loadStore(cfg.Run.Tables, logger)
	if err != nil {
		return err
	}
	f, err := newField(cfg.Opponents, store, objective, cfg.Run.Rounds, cfg.Run.Seed)
	if err != nil {
		return err
	}

	pop, err := c.population(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting evolution",
		"run", pop.RunID(),
		"plays", cfg.Run.Plays().String(),
		"population", cfg.Run.Population,
		"generations", cfg.Population().Generations,
		"opponents", len(cfg.Opponents),
		"objective", objective)

	runErr := pop.Run(ctx, f.fitness, func(s evolve.GenerationStats) {
		logger.Info("generation complete",
			"generation", s.Generation,
			"best", fmt.Sprintf("%.4f", s.Best),
			"worst", fmt.Sprintf("%.4f", s.Worst),
			"mean", fmt.Sprintf("%.4f", s.Mean),
			"ci95", fmt.Sprintf("[%.4f, %.4f]", s.CILow, s.CIHigh),
			"stddev", fmt.Sprintf("%.4f", s.StdDev),
			"elapsed", s.Elapsed)
		if cfg.Run.Checkpoint == "" {
			return
		}
		if err := pop.SaveCheckpoint(cfg.Run.Checkpoint); err != nil {
			logger.Error("checkpoint failed", "path", cfg.Run.Checkpoint, "err", err)
		}
	})
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		logger.Warn("interrupted, saving best so far", "generation", pop.Generation())
	}

	best, score := pop.Best()
	if best == nil {
		return runErr
	}
	serialized := best.Serialize()
	if err := fileutil.WriteFileAtomic(cfg.Run.Output, []byte(serialized+"\n"), 0o644); err != nil {
		return fmt.Errorf("write best strategy: %w", err)
	}
	logger.Info("best strategy saved", "path", cfg.Run.Output, "score", fmt.Sprintf("%.4f", score))
	fmt.Fprintln(os.Stdout, serialized)
	return runErr
}

// population starts a fresh search, or resumes from the checkpoint when
// asked to and one exists.
func (c *EvolveCmd) population(cfg *config.Config, logger *log.Logger) (*evolve.Population, error) {
	opts := []evolve.Option{evolve.WithLogger(logger)}
	if c.Resume && cfg.Run.Checkpoint != "" {
		if _, err := os.Stat(cfg.Run.Checkpoint); err == nil {
			pop, err := evolve.LoadPopulation(cfg.Run.Checkpoint, opts...)
			if err != nil {
				return nil, fmt.Errorf("resume: %w", err)
			}
			if err := pop.SetGenerations(cfg.Population().Generations); err != nil {
				return nil, fmt.Errorf("resume: %w", err)
			}
			logger.Info("resumed from checkpoint", "path", cfg.Run.Checkpoint, "generation", pop.Generation())
			return pop, nil
		}
		logger.Warn("no checkpoint to resume from", "path", cfg.Run.Checkpoint)
	}
	return evolve.NewPopulation(cfg.Population(), opts...)
}
