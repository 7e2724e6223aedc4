package lookup

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestLookupZDFourVector(t *testing.T) {
	table, err := FromPattern([]float64{7.0 / 9, 0, 8.0 / 9, 0}, Plays{Self: 1, Opponent: 1})
	require.NoError(t, err)

	w, err := Lookup([]Action{C}, []Action{C}, table, nil)
	require.NoError(t, err)
	assert.InDelta(t, 7.0/9, w, 1e-12)

	w, err = Lookup([]Action{D}, []Action{C}, table, nil)
	require.NoError(t, err)
	assert.InDelta(t, 8.0/9, w, 1e-12)

	w, err = Lookup([]Action{C, C, C}, []Action{C, C, D}, table, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)
}

func TestDecideBoundaryWeightsAreExact(t *testing.T) {
	always, err := FromPattern([]float64{1}, Plays{})
	require.NoError(t, err)
	never, err := FromPattern([]float64{0}, Plays{})
	require.NoError(t, err)

	rng := testRNG(7)
	for i := 0; i < 1000; i++ {
		a, err := Decide(nil, nil, always, nil, rng)
		require.NoError(t, err)
		require.Equal(t, Cooperate, a)

		a, err = Decide(nil, nil, never, nil, rng)
		require.NoError(t, err)
		require.Equal(t, Defect, a)
	}
}

func TestDecideSamplesProbability(t *testing.T) {
	table, err := FromPattern([]float64{0.3}, Plays{})
	require.NoError(t, err)

	rng := testRNG(42)
	coops := 0
	const n = 10000
	for i := 0; i < n; i++ {
		a, err := Decide(nil, nil, table, nil, rng)
		require.NoError(t, err)
		if a == Cooperate {
			coops++
		}
	}
	assert.InDelta(t, 0.3, float64(coops)/n, 0.03)
}

func TestDecideReproducibleWithSameSeed(t *testing.T) {
	table, err := FromPattern([]float64{0.5, 0.5, 0.5, 0.5}, Plays{Self: 1, Opponent: 1})
	require.NoError(t, err)

	run := func() []Action {
		rng := testRNG(99)
		out := make([]Action, 0, 50)
		for i := 0; i < 50; i++ {
			a, err := Decide([]Action{C}, []Action{D}, table, nil, rng)
			require.NoError(t, err)
			out = append(out, a)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestKeyForPadsWithSeed(t *testing.T) {
	p := Plays{Self: 2, Opponent: 3, Opening: 2}
	seed := []Action{D, C, D}

	key, err := KeyFor(nil, nil, p, seed)
	require.NoError(t, err)
	assert.Equal(t, Key{Self: "CD", Opponent: "DCD", Opening: "DC"}, key)

	key, err = KeyFor([]Action{C}, []Action{C}, p, seed)
	require.NoError(t, err)
	assert.Equal(t, Key{Self: "DC", Opponent: "CDC", Opening: "CC"}, key)

	key, err = KeyFor([]Action{C, C, D}, []Action{D, D, C, C}, p, seed)
	require.NoError(t, err)
	assert.Equal(t, Key{Self: "CD", Opponent: "DCC", Opening: "DD"}, key)
}

func TestKeyForOpeningIsFirstMoves(t *testing.T) {
	p := Plays{Opening: 2}
	opponent := []Action{D, C, C, C, C, C}
	key, err := KeyFor(make([]Action, 6), opponent, p, []Action{C, C})
	require.NoError(t, err)
	assert.Equal(t, Window("DC"), key.Opening)
}

func TestKeyForInsufficientSeed(t *testing.T) {
	p := Plays{Self: 3, Opponent: 1}

	_, err := KeyFor(nil, nil, p, []Action{C})
	assert.ErrorIs(t, err, ErrInsufficientSeed)

	// Once history has grown to cover the gap the short seed is enough.
	_, err = KeyFor([]Action{C, C}, []Action{C, C}, p, []Action{C})
	assert.NoError(t, err)

	_, err = KeyFor(nil, nil, Plays{Opening: 2}, []Action{C})
	assert.ErrorIs(t, err, ErrInsufficientSeed)
}

func TestDeterministicTableIgnoresRNG(t *testing.T) {
	table, err := FromActions([]Action{C, D}, Plays{Opponent: 1})
	require.NoError(t, err)

	a, err := Decide(nil, []Action{D}, table, []Action{C}, nil)
	require.NoError(t, err)
	assert.Equal(t, Defect, a)

	a, err = Decide(nil, nil, table, []Action{C}, nil)
	require.NoError(t, err)
	assert.Equal(t, Cooperate, a)
}

func TestDecideFractionalWeightWithoutRNG(t *testing.T) {
	table, err := FromPattern([]float64{0.5}, Plays{})
	require.NoError(t, err)

	_, err = Decide(nil, nil, table, nil, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	exact, err := FromPattern([]float64{1}, Plays{})
	require.NoError(t, err)
	a, err := Decide(nil, nil, exact, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Cooperate, a)
}
