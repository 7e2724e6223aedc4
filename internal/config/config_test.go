package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/gambler/internal/match"
	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/lookup"
	"github.com/lox/gambler/sdk/presets"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, lookup.Plays{Self: 1, Opponent: 1}, cfg.Run.Plays())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
run {
  self_depth           = 2
  opponent_depth       = 2
  opening_depth        = 1
  population           = 20
  bottleneck           = 4
  generations          = 5
  mutation_probability = 0.1
  rounds               = 30
  workers              = 2
  seed                 = 42
  objective            = "exploitation"
  output               = "out.txt"
  checkpoint           = "pop.json"
  tables               = "pso.csv"
}

opponent "tft" {
  preset = "Tit For Tat"
}

opponent "custom" {
  serialized = "1:1:0:1.0|0.0|1.0|0.0:C"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	pop := cfg.Population()
	assert.Equal(t, lookup.Plays{Self: 2, Opponent: 2, Opening: 1}, pop.Plays)
	assert.Equal(t, 20, pop.Size)
	assert.Equal(t, 4, pop.Bottleneck)
	assert.Equal(t, 5, pop.Generations)
	require.NotNil(t, pop.MutationProbability)
	assert.Equal(t, 0.1, *pop.MutationProbability)
	assert.Equal(t, 2, pop.Workers)
	assert.Equal(t, int64(42), pop.Seed)

	assert.Equal(t, 30, cfg.Run.Rounds)
	assert.Equal(t, "out.txt", cfg.Run.Output)
	assert.Equal(t, "pop.json", cfg.Run.Checkpoint)
	assert.Equal(t, "pso.csv", cfg.Run.Tables)

	obj, err := cfg.Objective()
	require.NoError(t, err)
	assert.Equal(t, match.Exploitation, obj)

	require.Len(t, cfg.Opponents, 2)
	assert.Equal(t, "tft", cfg.Opponents[0].Name)
	assert.Equal(t, presets.TitForTat, cfg.Opponents[0].Preset)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
run {
  opening_depth = 0
  self_depth    = 0
  population    = 12
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, lookup.Plays{Opponent: 1}, cfg.Run.Plays())
	assert.Equal(t, 3, cfg.Run.Bottleneck)
	assert.Equal(t, 100, cfg.Run.Rounds)
	assert.Equal(t, "mutual_cooperation", cfg.Run.Objective)
	assert.Equal(t, "best.txt", cfg.Run.Output)
	assert.Empty(t, cfg.Run.Checkpoint)
	assert.Len(t, cfg.Opponents, len(defaultOpponents()))
	assert.Equal(t, 50, cfg.Population().Generations)
	assert.Nil(t, cfg.Population().MutationProbability)
}

func TestLoadHonoursExplicitZero(t *testing.T) {
	path := writeConfig(t, `
run {
  generations          = 0
  mutation_probability = 0
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	pop := cfg.Population()
	assert.Equal(t, 0, pop.Generations)
	require.NotNil(t, pop.MutationProbability)
	assert.Equal(t, 0.0, *pop.MutationProbability)
}

func TestHistoryPresetOpponents(t *testing.T) {
	path := writeConfig(t, `
run {}

opponent "tullock" {
  preset = "Tullock"
}

opponent "feld" {
  preset = "Feld"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	for i, o := range cfg.Opponents {
		s, err := o.New(nil, randutil.New(int64(i)))
		require.NoError(t, err)
		assert.Equal(t, o.Preset, s.Name())
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, `run {`))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, `run { unknown = 1 }`))
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad rounds", func(c *Config) { c.Run.Rounds = 0 }, "invalid rounds"},
		{"bad workers", func(c *Config) { c.Run.Workers = 0 }, "invalid workers"},
		{"bad mutation", func(c *Config) { m := 1.5; c.Run.MutationProbability = &m }, "invalid mutation_probability"},
		{"negative generations", func(c *Config) { g := -1; c.Run.Generations = &g }, "invalid generations"},
		{"missing output", func(c *Config) { c.Run.Output = "" }, "invalid output"},
		{"negative depth", func(c *Config) { d := -1; c.Run.OpeningDepth = &d }, "invalid opening_depth"},
		{"unset depth", func(c *Config) { c.Run.SelfDepth = nil }, "invalid self_depth"},
		{"bad objective", func(c *Config) { c.Run.Objective = "payoff" }, "unknown objective"},
		{"bad bottleneck", func(c *Config) { c.Run.Bottleneck = 100 }, "invalid bottleneck"},
		{"too deep", func(c *Config) { d := 21; c.Run.SelfDepth = &d }, "configuration"},
		{"no opponents", func(c *Config) { c.Opponents = nil }, "at least one opponent"},
		{"duplicate", func(c *Config) {
			c.Opponents = append(c.Opponents, c.Opponents[0])
		}, "duplicate opponent"},
		{"empty opponent", func(c *Config) {
			c.Opponents = []OpponentConfig{{Name: "x"}}
		}, "one of preset or serialized"},
		{"both set", func(c *Config) {
			c.Opponents = []OpponentConfig{{Name: "x", Preset: presets.Defector, Serialized: "0:0:0:1:"}}
		}, "mutually exclusive"},
		{"unknown preset", func(c *Config) {
			c.Opponents = []OpponentConfig{{Name: "x", Preset: "Grudger"}}
		}, "unknown preset"},
		{"bad serialized", func(c *Config) {
			c.Opponents = []OpponentConfig{{Name: "x", Serialized: "1:1:0:0.5:C"}}
		}, "deserialization"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestOpponentNew(t *testing.T) {
	s, err := OpponentConfig{Name: "d", Preset: presets.Defector}.New(nil, randutil.New(1))
	require.NoError(t, err)
	assert.Equal(t, presets.Defector, s.Name())

	s, err = OpponentConfig{Name: "g", Serialized: "0:1:0:1|0:C"}.New(nil, randutil.New(1))
	require.NoError(t, err)
	a, err := s.Decide(nil, []lookup.Action{lookup.D})
	require.NoError(t, err)
	assert.Equal(t, lookup.Defect, a)

	_, err = OpponentConfig{Name: "pso", Preset: presets.PSOGamblerMem1}.New(nil, randutil.New(1))
	assert.ErrorContains(t, err, "opponent pso")
}
