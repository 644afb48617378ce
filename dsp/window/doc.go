// Package window provides taper functions for spectral analysis.
//
// [Generate] produces coefficients for the cosine-sum windows used before
// an FFT, and [Apply] tapers a buffer in place. Windowing trades a wider
// main lobe for much lower sidelobes, which keeps spectral leakage from
// skewing peak interpolation on slow rhythms.
//
// The symmetric form is the default; [WithPeriodic] selects the periodic
// form for FFT framing.
package window
