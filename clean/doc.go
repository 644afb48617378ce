// Package clean prepares raw series for analysis: gap filling and outlier
// clamping.
//
// The conditioning and estimation stages require a gap-free series with
// bounded spikes and do not re-validate it. [Interpolate] fills NaN runs
// linearly against elapsed time; [ClipOutliers] clamps values to Tukey
// fences derived from the interquartile range. Both return derived series,
// leaving their input unchanged.
package clean
