// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order filters.
//
// Sections expose their delay-line state ([Section.State],
// [Section.SetState], [Coefficients.StepState]) so a caller can seed a
// cascade at a settled operating point. Zero-phase (forward-backward)
// filtering depends on this to avoid startup transients at the series
// edges.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter.
package biquad
