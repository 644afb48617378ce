package testutil

import (
	"math"
	"math/rand"
)

// HoursGrid returns n elapsed-hour values spaced stepHours apart,
// starting at zero.
func HoursGrid(n int, stepHours float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * stepHours
	}
	return out
}

// Rhythm samples level + amplitude*cos(2*pi/periodHours*(t - peakHours))
// on an n-point grid spaced stepHours apart. The result peaks at
// peakHours and every period after.
func Rhythm(n int, stepHours, level, amplitude, periodHours, peakHours float64) []float64 {
	out := make([]float64, n)
	omega := 2 * math.Pi / periodHours
	for i := range out {
		t := float64(i) * stepHours
		out[i] = level + amplitude*math.Cos(omega*(t-peakHours))
	}
	return out
}

// WithGaussianNoise returns a copy of values with seeded Gaussian noise
// added, so noisy fixtures stay reproducible across runs.
func WithGaussianNoise(values []float64, seed int64, sigma float64) []float64 {
	out := make([]float64, len(values))
	rng := rand.New(rand.NewSource(seed))
	for i, v := range values {
		out[i] = v + rng.NormFloat64()*sigma
	}
	return out
}

// Constant returns a slice of length n filled with value. Useful for
// exercising degenerate, rhythm-free inputs.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
