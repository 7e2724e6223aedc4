// Package randutil builds the private random sources owned by each strategy
// instance. Nothing in this module draws from a shared global source.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	return fromUint(uint64(seed))
}

// Derive returns an independent *rand.Rand seeded from parent's stream. The
// parent advances by one draw, so deriving children in a fixed order is
// reproducible.
func Derive(parent *rand.Rand) *rand.Rand {
	return fromUint(parent.Uint64())
}

// Seeds draws n child seeds from parent, for handing to workers that build
// their own sources.
func Seeds(parent *rand.Rand, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = parent.Int64()
	}
	return out
}

func fromUint(u uint64) *rand.Rand {
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// mix is the splitmix64 finaliser.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
