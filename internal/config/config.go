// Package config loads evolution run settings from HCL files.
package config

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/gambler/internal/match"
	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/evolve"
	"github.com/lox/gambler/sdk/lookup"
	"github.com/lox/gambler/sdk/presets"
	"github.com/lox/gambler/sdk/tables"
)

// Config represents a complete evolution run
type Config struct {
	Run       RunSettings      `hcl:"run,block"`
	Opponents []OpponentConfig `hcl:"opponent,block"`
}

// RunSettings contains the search parameters
type RunSettings struct {
	SelfDepth           *int     `hcl:"self_depth,optional" validate:"required,gte=0"`
	OpponentDepth       *int     `hcl:"opponent_depth,optional" validate:"required,gte=0"`
	OpeningDepth        *int     `hcl:"opening_depth,optional" validate:"required,gte=0"`
	Population          int      `hcl:"population,optional" validate:"gte=2"`
	Bottleneck          int      `hcl:"bottleneck,optional" validate:"gte=1,ltefield=Population"`
	Generations         *int     `hcl:"generations,optional" validate:"required,gte=0"`
	MutationProbability *float64 `hcl:"mutation_probability,optional" validate:"omitnil,gte=0,lte=1"`
	Rounds              int      `hcl:"rounds,optional" validate:"gte=1"`
	Workers             int      `hcl:"workers,optional" validate:"gte=1"`
	Seed                int64    `hcl:"seed,optional"`
	Objective           string   `hcl:"objective,optional"`
	Output              string   `hcl:"output,optional" validate:"required"`
	Checkpoint          string   `hcl:"checkpoint,optional"`
	Tables              string   `hcl:"tables,optional"`
}

// runValidate checks RunSettings field ranges. Errors name fields by their
// HCL attribute.
var runValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("hcl"), ",")
		return name
	})
	return v
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return fmt.Errorf("invalid %s: %v violates %s", fe.Field(), fe.Value(), rule)
}

// OpponentConfig names a fixed strategy candidates are scored against.
// Exactly one of Preset or Serialized must be set.
type OpponentConfig struct {
	Name       string `hcl:"name,label"`
	Preset     string `hcl:"preset,optional"`
	Serialized string `hcl:"serialized,optional"`
}

const (
	defaultRounds = 100
	defaultOutput = "best.txt"
)

// Default returns a memory-one search against a small mixed field.
func Default() *Config {
	pop := evolve.DefaultPopulationConfig()
	cfg := &Config{
		Run: RunSettings{
			Population:  pop.Size,
			Bottleneck:  pop.Bottleneck,
			Generations: &pop.Generations,
			Rounds:      defaultRounds,
			Workers:     pop.Workers,
			Seed:        pop.Seed,
			Objective:   match.MutualCooperation.String(),
			Output:      defaultOutput,
		},
	}
	cfg.Run.setPlays(pop.Plays)
	cfg.Opponents = defaultOpponents()
	return cfg
}

func defaultOpponents() []OpponentConfig {
	return []OpponentConfig{
		{Name: "tft", Preset: presets.TitForTat},
		{Name: "cooperator", Preset: presets.Cooperator},
		{Name: "defector", Preset: presets.Defector},
		{Name: "random", Preset: presets.Random},
	}
}

// Load reads configuration from an HCL file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	r := &c.Run
	if r.SelfDepth == nil {
		r.SelfDepth = def.Run.SelfDepth
	}
	if r.OpponentDepth == nil {
		r.OpponentDepth = def.Run.OpponentDepth
	}
	if r.OpeningDepth == nil {
		r.OpeningDepth = def.Run.OpeningDepth
	}
	if r.Population == 0 {
		r.Population = def.Run.Population
	}
	if r.Bottleneck == 0 {
		// keep a quarter of the population, at least one
		r.Bottleneck = max(1, r.Population/4)
	}
	if r.Generations == nil {
		r.Generations = def.Run.Generations
	}
	if r.Rounds == 0 {
		r.Rounds = def.Run.Rounds
	}
	if r.Workers == 0 {
		r.Workers = def.Run.Workers
	}
	if r.Objective == "" {
		r.Objective = def.Run.Objective
	}
	if r.Output == "" {
		r.Output = def.Run.Output
	}
	if len(c.Opponents) == 0 {
		c.Opponents = def.Opponents
	}
}

func (r RunSettings) generations() int {
	if r.Generations == nil {
		return 0
	}
	return *r.Generations
}

// Plays returns the key space depths of the run.
func (r RunSettings) Plays() lookup.Plays {
	var p lookup.Plays
	if r.SelfDepth != nil {
		p.Self = *r.SelfDepth
	}
	if r.OpponentDepth != nil {
		p.Opponent = *r.OpponentDepth
	}
	if r.OpeningDepth != nil {
		p.Opening = *r.OpeningDepth
	}
	return p
}

func (r *RunSettings) setPlays(p lookup.Plays) {
	self, opp, open := p.Self, p.Opponent, p.Opening
	r.SelfDepth, r.OpponentDepth, r.OpeningDepth = &self, &opp, &open
}

// Population converts the run settings into a population configuration.
func (c *Config) Population() evolve.PopulationConfig {
	return evolve.PopulationConfig{
		Plays:               c.Run.Plays(),
		Size:                c.Run.Population,
		Bottleneck:          c.Run.Bottleneck,
		MutationProbability: c.Run.MutationProbability,
		Generations:         c.Run.generations(),
		Workers:             c.Run.Workers,
		Seed:                c.Run.Seed,
	}
}

// Objective returns the parsed fitness objective.
func (c *Config) Objective() (match.Objective, error) {
	return match.ParseObjective(c.Run.Objective)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := runValidate.Struct(c.Run); err != nil {
		return describe(err)
	}
	if err := c.Population().Validate(); err != nil {
		return err
	}
	if _, err := c.Objective(); err != nil {
		return err
	}
	if len(c.Opponents) == 0 {
		return errors.New("at least one opponent is required")
	}

	names := make(map[string]bool, len(c.Opponents))
	for _, o := range c.Opponents {
		if names[o.Name] {
			return fmt.Errorf("duplicate opponent name: %s", o.Name)
		}
		names[o.Name] = true
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the opponent names exactly one known strategy.
// Trained presets are only checked against the table store at build time.
func (o OpponentConfig) Validate() error {
	switch {
	case o.Preset == "" && o.Serialized == "":
		return fmt.Errorf("opponent %s: one of preset or serialized is required", o.Name)
	case o.Preset != "" && o.Serialized != "":
		return fmt.Errorf("opponent %s: preset and serialized are mutually exclusive", o.Name)
	case o.Preset != "":
		if !slices.Contains(presets.StrategyNames(), o.Preset) {
			return fmt.Errorf("opponent %s: unknown preset %q", o.Name, o.Preset)
		}
	default:
		if _, err := evolve.Deserialize(o.Serialized, randutil.New(0)); err != nil {
			return fmt.Errorf("opponent %s: %w", o.Name, err)
		}
	}
	return nil
}

// New builds a fresh strategy instance that owns rng.
func (o OpponentConfig) New(store *tables.Store, rng *rand.Rand) (match.Strategy, error) {
	if o.Preset != "" {
		p, err := presets.NewStrategy(o.Preset, store, rng)
		if err != nil {
			return nil, fmt.Errorf("opponent %s: %w", o.Name, err)
		}
		return p, nil
	}
	g, err := evolve.Deserialize(o.Serialized, rng)
	if err != nil {
		return nil, fmt.Errorf("opponent %s: %w", o.Name, err)
	}
	return g, nil
}
