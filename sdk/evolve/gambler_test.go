package evolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/gambler/internal/randutil"
	"github.com/lox/gambler/sdk/lookup"
)

func newTestGambler(t *testing.T, plays lookup.Plays, seed int64) *Gambler {
	t.Helper()
	g, err := NewGambler(plays, nil, nil, randutil.New(seed))
	require.NoError(t, err)
	return g
}

func TestNewGamblerRandomPattern(t *testing.T) {
	g := newTestGambler(t, lookup.Plays{Self: 2, Opponent: 2, Opening: 2}, 1)
	assert.Len(t, g.Pattern(), 64)
	for _, w := range g.Pattern() {
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
	}
	assert.Equal(t, []lookup.Action{lookup.C, lookup.C}, g.InitialActions())
	assert.Equal(t, g.Pattern(), g.Table().Pattern())
}

func TestNewGamblerClampsWeights(t *testing.T) {
	g, err := NewGambler(lookup.Plays{Self: 1}, []float64{-0.5, 1.5}, nil, randutil.New(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, g.Pattern())
}

func TestNewGamblerValidation(t *testing.T) {
	_, err := NewGambler(lookup.Plays{Self: 1}, []float64{0.5}, nil, randutil.New(1))
	assert.ErrorIs(t, err, lookup.ErrConfiguration)

	_, err = NewGambler(lookup.Plays{Self: -1}, nil, nil, randutil.New(1))
	assert.ErrorIs(t, err, lookup.ErrConfiguration)

	_, err = NewGambler(lookup.Plays{Self: 2}, nil, []lookup.Action{lookup.C}, randutil.New(1))
	assert.ErrorIs(t, err, lookup.ErrInsufficientSeed)

	_, err = NewGambler(lookup.Plays{}, nil, nil, nil)
	assert.ErrorIs(t, err, lookup.ErrConfiguration)
}

func TestReceiveVector(t *testing.T) {
	g := newTestGambler(t, lookup.Plays{Self: 1, Opponent: 1}, 2)

	require.NoError(t, g.ReceiveVector([]float64{7.0 / 9, 0, 8.0 / 9, 0}))
	assert.Equal(t, []float64{7.0 / 9, 0, 8.0 / 9, 0}, g.Pattern())

	w, err := g.Player().Weight([]lookup.Action{lookup.D}, []lookup.Action{lookup.C})
	require.NoError(t, err)
	assert.InDelta(t, 8.0/9, w, 1e-12)

	before := g.Pattern()
	assert.ErrorIs(t, g.ReceiveVector([]float64{0.1, 0.2, 0.3, 0.4, 0.5}), lookup.ErrConfiguration)
	assert.ErrorIs(t, g.ReceiveVector([]float64{0.1}), lookup.ErrConfiguration)
	assert.Equal(t, before, g.Pattern(), "failed receive must leave weights unchanged")
}

func TestVectorBounds(t *testing.T) {
	g := newTestGambler(t, lookup.Plays{Self: 1, Opponent: 1, Opening: 1}, 3)
	lower, upper := g.VectorBounds()
	require.Len(t, lower, 8)
	require.Len(t, upper, 8)
	for i := range lower {
		assert.Equal(t, 0.0, lower[i])
		assert.Equal(t, 1.0, upper[i])
	}
}

func TestMutateZeroProbabilityKeepsPattern(t *testing.T) {
	g := newTestGambler(t, lookup.Plays{Self: 2, Opponent: 2, Opening: 2}, 4)
	child := g.Mutate(0)

	assert.NotSame(t, g, child)
	assert.Equal(t, g.Pattern(), child.Pattern())
	assert.Equal(t, g.Plays(), child.Plays())
	assert.Len(t, child.InitialActions(), 2)
}

func TestMutateFullProbabilityStaysInBounds(t *testing.T) {
	g, err := NewGambler(lookup.Plays{Self: 1, Opponent: 1, Opening: 1}, []float64{0, 1, 0, 1, 0.01, 0.99, 0, 1}, nil, randutil.New(5))
	require.NoError(t, err)
	original := g.Pattern()

	for i := 0; i < 200; i++ {
		child := g.Mutate(1)
		for j, w := range child.Pattern() {
			require.GreaterOrEqual(t, w, 0.0)
			require.LessOrEqual(t, w, 1.0)
			require.LessOrEqual(t, w-original[j], mutationSpread+1e-12)
			require.GreaterOrEqual(t, w-original[j], -mutationSpread-1e-12)
		}
	}
	assert.Equal(t, original, g.Pattern(), "mutate must not modify the parent")
}

func TestMutateResamplesSeedActions(t *testing.T) {
	g := newTestGambler(t, lookup.Plays{Self: 3, Opponent: 1}, 6)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		child := g.Mutate(0)
		require.Len(t, child.InitialActions(), 3)
		seen[lookup.FormatActions(child.InitialActions())] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestCrossoverWithSelf(t *testing.T) {
	for _, plays := range []lookup.Plays{{Self: 1, Opponent: 1}, {Self: 2, Opponent: 2, Opening: 2}} {
		g := newTestGambler(t, plays, 7)
		for i := 0; i < 50; i++ {
			child, err := g.Crossover(g)
			require.NoError(t, err)
			assert.Equal(t, g.Pattern(), child.Pattern())
			assert.Equal(t, g.InitialActions(), child.InitialActions())
		}
	}
}

func TestCrossoverSplicesParents(t *testing.T) {
	plays := lookup.Plays{Self: 1, Opponent: 1, Opening: 1}
	a, err := NewGambler(plays, []float64{0, 0, 0, 0, 0, 0, 0, 0}, []lookup.Action{lookup.D}, randutil.New(8))
	require.NoError(t, err)
	b, err := NewGambler(plays, []float64{1, 1, 1, 1, 1, 1, 1, 1}, []lookup.Action{lookup.C}, randutil.New(9))
	require.NoError(t, err)

	splits := map[int]bool{}
	for i := 0; i < 500; i++ {
		child, err := a.Crossover(b)
		require.NoError(t, err)
		p := child.Pattern()
		split := 0
		for split < len(p) && p[split] == 0 {
			split++
		}
		for _, w := range p[split:] {
			require.Equal(t, 1.0, w)
		}
		splits[split] = true
		assert.Equal(t, []lookup.Action{lookup.D}, child.InitialActions())
	}
	// Both ends of the inclusive split range are reachable.
	assert.True(t, splits[0])
	assert.True(t, splits[8])
}

func TestCrossoverRequiresMatchingPlays(t *testing.T) {
	a := newTestGambler(t, lookup.Plays{Self: 1, Opponent: 1}, 10)
	b := newTestGambler(t, lookup.Plays{Self: 2}, 11)
	_, err := a.Crossover(b)
	assert.ErrorIs(t, err, lookup.ErrConfiguration)
}

func TestRandomParams(t *testing.T) {
	plays := lookup.Plays{Self: 1, Opponent: 1, Opening: 1}
	pattern, table, err := RandomParams(plays, randutil.New(12))
	require.NoError(t, err)
	assert.Len(t, pattern, 8)
	assert.Equal(t, pattern, table.Pattern())

	again, _, err := RandomParams(plays, randutil.New(12))
	require.NoError(t, err)
	assert.Equal(t, pattern, again)
}

func TestDefaultMutationProbability(t *testing.T) {
	assert.Equal(t, 1.0, DefaultMutationProbability(lookup.Plays{}))
	assert.InDelta(t, 2.5/64, DefaultMutationProbability(lookup.Plays{Self: 2, Opponent: 2, Opening: 2}), 1e-12)
}

func TestGamblerDecideDeterministicWeights(t *testing.T) {
	g, err := NewGambler(lookup.Plays{Opponent: 1}, []float64{1, 0}, nil, randutil.New(13))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		a, err := g.Decide(nil, []lookup.Action{lookup.C})
		require.NoError(t, err)
		require.Equal(t, lookup.Cooperate, a)
		a, err = g.Decide(nil, []lookup.Action{lookup.D})
		require.NoError(t, err)
		require.Equal(t, lookup.Defect, a)
	}
}
