package evolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/gambler/internal/fileutil"
	"github.com/lox/gambler/internal/randutil"
)

const checkpointFileVersion = 1

type checkpointSnapshot struct {
	Version    int              `json:"version"`
	RunID      string           `json:"run_id"`
	Generation int              `json:"generation"`
	Config     PopulationConfig `json:"config"`
	Members    []string         `json:"members"`
	Best       string           `json:"best,omitempty"`
	BestScore  float64          `json:"best_score"`
}

// SaveCheckpoint writes the population's members, in serialised form, to
// path.
func (p *Population) SaveCheckpoint(path string) error {
	snap := checkpointSnapshot{
		Version:    checkpointFileVersion,
		RunID:      p.runID,
		Generation: p.generation,
		Config:     p.cfg,
		Members:    make([]string, len(p.members)),
		BestScore:  p.bestScore,
	}
	for i, m := range p.members {
		snap.Members[i] = m.Serialize()
	}
	if p.best != nil {
		snap.Best = p.best.Serialize()
	}
	if err := fileutil.WriteJSONAtomic(path, snap); err != nil {
		return fmt.Errorf("persist checkpoint: %w", err)
	}
	return nil
}

// LoadPopulation restores a population from a checkpoint. The restored
// random sources are seeded from the configured seed and the generation
// count, so a resumed run is reproducible but does not continue the exact
// stream of the original process.
func LoadPopulation(path string, opts ...Option) (*Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := decodeCheckpoint(f)
	if err != nil {
		return nil, err
	}

	p := newPopulation(snap.Config, opts)
	p.rng = randutil.New(snap.Config.Seed + int64(snap.Generation))
	if snap.RunID != "" {
		p.runID = snap.RunID
	}
	p.generation = snap.Generation
	p.members = make([]*Gambler, len(snap.Members))
	for i, s := range snap.Members {
		g, err := Deserialize(s, randutil.Derive(p.rng))
		if err != nil {
			return nil, fmt.Errorf("checkpoint member %d: %w", i, err)
		}
		if g.Plays() != snap.Config.Plays {
			return nil, fmt.Errorf("checkpoint member %d has plays %s, expected %s", i, g.Plays(), snap.Config.Plays)
		}
		p.members[i] = g
	}
	if snap.Best != "" {
		best, err := Deserialize(snap.Best, randutil.Derive(p.rng))
		if err != nil {
			return nil, fmt.Errorf("checkpoint best: %w", err)
		}
		p.best = best
		p.bestScore = snap.BestScore
	}
	return p, nil
}

func decodeCheckpoint(r io.Reader) (*checkpointSnapshot, error) {
	var snap checkpointSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Version != checkpointFileVersion {
		return nil, errors.New("unsupported checkpoint version")
	}
	if err := snap.Config.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint config invalid: %w", err)
	}
	if len(snap.Members) != snap.Config.Size {
		return nil, fmt.Errorf("checkpoint has %d members, config size is %d", len(snap.Members), snap.Config.Size)
	}
	return &snap, nil
}
