// Package filter provides Butterworth lowpass design and zero-phase
// filtering for slow physiological time series.
//
// [ButterworthLP] designs a cascade of [biquad.Coefficients] sections
// using bilinear-transform biquads. [ZeroPhase] runs a cascade forward
// and backward over a series so the output carries no phase shift, which
// keeps the timing of daily peaks intact for downstream rhythm fitting.
// [LowPass] combines both behind a [Config] with defaults suited to
// circadian smoothing: order 4 and a 4-hour cutoff period.
//
// Cutoffs are specified as periods in hours rather than frequencies in
// Hz, matching how rhythm lengths are discussed. [Config.CutoffHz]
// performs the conversion. [Config.Validate] rejects designs whose
// normalized cutoff falls outside (0, 1), which happens when the series
// is sampled too sparsely for the requested cutoff.
package filter
