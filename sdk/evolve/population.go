package evolve

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/internal/statistics"
	"github.com/lox/gambler/sdk/lookup"
)

// Fitness scores a candidate; higher is better. It is called concurrently
// for different members and must only use the Gambler it is given.
type Fitness func(ctx context.Context, g *Gambler) (float64, error)

// PopulationConfig controls a generational search over Gambler weights.
type PopulationConfig struct {
	Plays lookup.Plays

	// Size is the number of members in every generation.
	Size int

	// Bottleneck is how many top-scoring members survive unchanged.
	Bottleneck int

	// MutationProbability is the per-weight mutation chance. Nil selects
	// DefaultMutationProbability for Plays.
	MutationProbability *float64

	Generations int

	// Workers caps concurrent fitness evaluations.
	Workers int

	Seed int64
}

// DefaultPopulationConfig returns a small memory-one search.
func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{
		Plays:       lookup.Plays{Self: 1, Opponent: 1},
		Size:        40,
		Bottleneck:  10,
		Generations: 50,
		Workers:     4,
		Seed:        1,
	}
}

// Validate ensures the configuration is usable.
func (c PopulationConfig) Validate() error {
	if err := c.Plays.Validate(); err != nil {
		return err
	}
	if c.Size < 2 {
		return errors.New("population size must be >= 2")
	}
	if c.Bottleneck < 1 || c.Bottleneck > c.Size {
		return fmt.Errorf("bottleneck must be in [1, %d]", c.Size)
	}
	if m := c.MutationProbability; m != nil && !(*m >= 0 && *m <= 1) {
		return errors.New("mutation probability must be in [0, 1]")
	}
	if c.Generations < 0 {
		return errors.New("generations cannot be negative")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	return nil
}

func (c PopulationConfig) mutationProbability() float64 {
	if c.MutationProbability != nil {
		return *c.MutationProbability
	}
	return DefaultMutationProbability(c.Plays)
}

// GenerationStats summarises one evaluated generation.
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	Median     float64
	Worst      float64
	StdDev     float64

	// CILow and CIHigh bound the 95% confidence interval of the mean.
	CILow   float64
	CIHigh  float64
	Elapsed time.Duration
}

// Population runs a genetic search. Survivors are the top Bottleneck
// members; the rest of each generation is bred by crossing two random
// survivors and mutating the offspring.
type Population struct {
	runID      string
	cfg        PopulationConfig
	members    []*Gambler
	rng        *rand.Rand
	clock      quartz.Clock
	logger     *log.Logger
	generation int
	best       *Gambler
	bestScore  float64
}

// Option customises a Population.
type Option func(*Population)

// WithClock sets the clock used to time generations.
func WithClock(clock quartz.Clock) Option {
	return func(p *Population) { p.clock = clock }
}

// WithLogger sets the logger for generation summaries.
func WithLogger(logger *log.Logger) Option {
	return func(p *Population) { p.logger = logger }
}

// NewPopulation builds a population of random members.
func NewPopulation(cfg PopulationConfig, opts ...Option) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := newPopulation(cfg, opts)
	p.members = make([]*Gambler, cfg.Size)
	for i := range p.members {
		g, err := NewGambler(cfg.Plays, nil, nil, randutil.Derive(p.rng))
		if err != nil {
			return nil, err
		}
		p.members[i] = g
	}
	return p, nil
}

func newPopulation(cfg PopulationConfig, opts []Option) *Population {
	p := &Population{
		runID: uuid.Must(uuid.NewV7()).String(),
		cfg:   cfg,
		rng:   randutil.New(cfg.Seed),
		clock: quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return p
}

// RunID identifies the search across checkpoints and resumes.
func (p *Population) RunID() string { return p.runID }

// Members returns the current generation.
func (p *Population) Members() []*Gambler {
	return append([]*Gambler(nil), p.members...)
}

// Generation returns how many generations have been evaluated.
func (p *Population) Generation() int { return p.generation }

// Best returns the highest-scoring member seen so far, or nil before the
// first Step.
func (p *Population) Best() (*Gambler, float64) {
	return p.best, p.bestScore
}

// Step evaluates the current generation and breeds the next one.
func (p *Population) Step(ctx context.Context, fitness Fitness) (GenerationStats, error) {
	start := p.clock.Now()

	scores, err := p.evaluate(ctx, fitness)
	if err != nil {
		return GenerationStats{}, err
	}

	order := make([]int, len(p.members))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	var summary statistics.Summary
	for _, s := range scores {
		summary.Add(s)
	}
	if err := summary.Validate(); err != nil {
		return GenerationStats{}, fmt.Errorf("generation %d scores: %w", p.generation+1, err)
	}
	stats := GenerationStats{
		Generation: p.generation + 1,
		Best:       summary.Max(),
		Mean:       summary.Mean(),
		Median:     summary.Median(),
		Worst:      summary.Min(),
		StdDev:     summary.StdDev(),
	}
	stats.CILow, stats.CIHigh = summary.ConfidenceInterval95()

	if p.best == nil || stats.Best > p.bestScore {
		p.best = p.members[order[0]]
		p.bestScore = stats.Best
	}

	survivors := make([]*Gambler, p.cfg.Bottleneck)
	for i := range survivors {
		survivors[i] = p.members[order[i]]
	}
	next := append(make([]*Gambler, 0, p.cfg.Size), survivors...)
	prob := p.cfg.mutationProbability()
	for len(next) < p.cfg.Size {
		a := survivors[p.rng.IntN(len(survivors))]
		b := survivors[p.rng.IntN(len(survivors))]
		child, err := a.Crossover(b)
		if err != nil {
			return GenerationStats{}, err
		}
		next = append(next, child.Mutate(prob))
	}

	p.members = next
	p.generation++
	stats.Elapsed = p.clock.Since(start)

	p.logger.Debug("generation complete",
		"run", p.runID,
		"generation", stats.Generation,
		"best", stats.Best,
		"mean", stats.Mean,
		"median", stats.Median,
		"worst", stats.Worst,
		"stddev", stats.StdDev,
		"ci_low", stats.CILow,
		"ci_high", stats.CIHigh,
		"elapsed", stats.Elapsed)
	return stats, nil
}

// evaluate scores every member, running up to Workers fitness calls at once.
func (p *Population) evaluate(ctx context.Context, fitness Fitness) ([]float64, error) {
	scores := make([]float64, len(p.members))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, m := range p.members {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := fitness(ctx, m)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Run steps the population until the configured number of generations has
// been evaluated, calling progress after each one.
func (p *Population) Run(ctx context.Context, fitness Fitness, progress func(GenerationStats)) error {
	for p.generation < p.cfg.Generations {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := p.Step(ctx, fitness)
		if err != nil {
			return err
		}
		if progress != nil {
			progress(stats)
		}
	}
	return nil
}

// SetGenerations changes the total number of generations Run evaluates.
func (p *Population) SetGenerations(n int) error {
	if n < p.generation {
		return fmt.Errorf("total generations %d less than completed %d", n, p.generation)
	}
	p.cfg.Generations = n
	return nil
}

// Config returns the population's configuration.
func (p *Population) Config() PopulationConfig { return p.cfg }
