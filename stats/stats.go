// Package stats keeps running statistics over simulation trials.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance, updated with Welford's algorithm
// so no samples need to be kept.
type Statistic struct {
	n    int
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

// PushBool pushes 1 for true and 0 for false, so the mean is a proportion.
func (s *Statistic) PushBool(b bool) {
	if b {
		s.Push(1)
		return
	}
	s.Push(0)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

// Variance is the sample variance.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// HalfWidth returns the half-width of the confidence interval around the
// mean for the given z-value.
func (s *Statistic) HalfWidth(z float64) float64 {
	return z * s.StandardError()
}

func (s *Statistic) Iterations() int {
	return s.n
}
