// Package tables holds externally trained weight patterns, keyed by
// strategy name and depths. A Store is built once from a data source and
// passed explicitly to the preset constructors that need it.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lox/gambler/sdk/lookup"
)

// ErrNotFound reports a missing (name, plays) entry.
var ErrNotFound = errors.New("trained table not found")

// ID identifies one trained table.
type ID struct {
	Name  string
	Plays lookup.Plays
}

func (id ID) String() string {
	return fmt.Sprintf("%s (%s)", id.Name, id.Plays)
}

// Record is one trained pattern in canonical key order.
type Record struct {
	ID      ID
	Pattern []float64
}

// Store is an immutable set of trained patterns.
type Store struct {
	patterns map[ID][]float64
}

// NewStore validates records and builds a Store. Each pattern must have
// exactly one weight per key of its depths and names must be unique per
// depths.
func NewStore(records []Record) (*Store, error) {
	s := &Store{patterns: make(map[ID][]float64, len(records))}
	for _, r := range records {
		if err := r.ID.Plays.Validate(); err != nil {
			return nil, fmt.Errorf("table %s: %w", r.ID, err)
		}
		if want := lookup.KeyCount(r.ID.Plays); len(r.Pattern) != want {
			return nil, fmt.Errorf("table %s: %w: %d weights, expected %d", r.ID, lookup.ErrConfiguration, len(r.Pattern), want)
		}
		if _, dup := s.patterns[r.ID]; dup {
			return nil, fmt.Errorf("table %s: duplicate entry", r.ID)
		}
		s.patterns[r.ID] = append([]float64(nil), r.Pattern...)
	}
	return s, nil
}

// Pattern returns a copy of the trained pattern for name and plays.
func (s *Store) Pattern(name string, plays lookup.Plays) ([]float64, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no table store loaded", ErrNotFound)
	}
	id := ID{Name: name, Plays: plays}
	p, ok := s.patterns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]float64(nil), p...), nil
}

// IDs lists the stored tables sorted by name then depths.
func (s *Store) IDs() []ID {
	if s == nil {
		return nil
	}
	ids := make([]ID, 0, len(s.patterns))
	for id := range s.patterns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Name != ids[j].Name {
			return ids[i].Name < ids[j].Name
		}
		return ids[i].Plays.String() < ids[j].Plays.String()
	})
	return ids
}

// Len returns the number of stored tables.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Load parses comma separated rows of
// "name, self_depth, opponent_depth, opening_depth, w1, ..., wn".
// Blank lines and lines starting with '#' are skipped.
func Load(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []Record
	for n := 1; ; n++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse tables: %w", err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("parse tables record %d: %w", n, err)
		}
		records = append(records, rec)
	}
	return NewStore(records)
}

// LoadFile reads a Store from a CSV file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func parseRow(row []string) (Record, error) {
	if len(row) < 5 {
		return Record{}, fmt.Errorf("expected at least 5 fields, got %d", len(row))
	}
	var depths [3]int
	for i := range depths {
		v, err := strconv.Atoi(strings.TrimSpace(row[i+1]))
		if err != nil {
			return Record{}, fmt.Errorf("depth %q: %w", row[i+1], err)
		}
		depths[i] = v
	}
	pattern := make([]float64, 0, len(row)-4)
	for _, field := range row[4:] {
		w, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Record{}, fmt.Errorf("weight %q: %w", field, err)
		}
		pattern = append(pattern, w)
	}
	return Record{
		ID: ID{
			Name:  strings.TrimSpace(row[0]),
			Plays: lookup.Plays{Self: depths[0], Opponent: depths[1], Opening: depths[2]},
		},
		Pattern: pattern,
	}, nil
}
