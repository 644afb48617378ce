// Package period estimates the dominant rhythm length of a sampled
// series from its power spectrum.
//
// Circadian data is short by FFT standards: a week at 15-minute spacing
// is 672 samples, so the raw bin spacing near 24 hours is coarser than
// the differences worth detecting. Estimation therefore combines three
// steps:
//
//   - the series is demeaned and tapered ([window.TypeHann] by default),
//     otherwise leakage from the large DC offset and the rectangular
//     sidelobes skews the peak by a sizable fraction of an hour
//   - the FFT is zero-padded ([Config.PadFactor], default 4x) to
//     interpolate the spectrum
//   - the peak bin, excluding DC, is refined by parabolic interpolation
//     over its two neighbors
//
// Typical use:
//
//	est, err := period.Analyze(values, period.Config{SampleRate: sampling.Rate})
//	if err != nil {
//	    // handle ErrInsufficientData / ErrDegenerateSpectrum
//	}
//	fmt.Printf("dominant period: %.2f h\n", est.PeriodHours)
//
// The estimate seeds the fixed-frequency cosinor fit in measure/cosinor.
package period
