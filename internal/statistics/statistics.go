// Package statistics summarises a stream of fitness scores.
package statistics

import (
	"errors"
	"math"
	"slices"
)

// Summary accumulates scores for mean, spread and order statistics
type Summary struct {
	N      int
	Sum    float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // Kept for median/percentile calculation
}

// Add incorporates a new score
func (s *Summary) Add(v float64) {
	s.N++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean of all scores
func (s *Summary) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance of all scores
func (s *Summary) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	// rounding can push a zero variance slightly negative
	return max(0, (s.SumSq-float64(s.N)*mean*mean)/float64(s.N-1))
}

// StdDev returns the sample standard deviation
func (s *Summary) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Summary) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Summary) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Min returns the smallest score, or 0 when empty
func (s *Summary) Min() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return slices.Min(s.Values)
}

// Max returns the largest score, or 0 when empty
func (s *Summary) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return slices.Max(s.Values)
}

// Median returns the median score
func (s *Summary) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the linearly interpolated value at p, clamped to [0, 1]
func (s *Summary) Percentile(p float64) float64 {
	if len(s.Values) == 0 || math.IsNaN(p) {
		return 0
	}
	p = min(max(p, 0), 1)
	sorted := slices.Clone(s.Values)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the running totals agree with the stored values
func (s *Summary) Validate() error {
	if len(s.Values) != s.N {
		return errors.New("values length does not match count")
	}
	sum := 0.0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			return errors.New("summary contains NaN")
		}
		sum += v
	}
	if math.Abs(sum-s.Sum) > 1e-6 {
		return errors.New("running sum does not match values")
	}
	return nil
}
