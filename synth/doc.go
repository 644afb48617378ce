// Package synth generates synthetic circadian recordings for tests and
// demos.
//
// A series is a cosine rhythm sampled on a uniform grid, with optional
// Gaussian noise, injected outlier values, and a NaN gap. Generation is
// deterministic for a given seed, so downstream estimates are
// reproducible.
//
// Reference returns the benchmark configuration used throughout the
// repository: a recording whose level, amplitude, period, and acrophase
// are known exactly, for checking how well the estimation pipeline
// recovers them.
package synth
