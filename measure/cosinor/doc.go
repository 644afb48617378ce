// Package cosinor fits a fixed-period cosine to timestamped measurements
// and reports rhythm parameters with uncertainties.
//
// The model is
//
//	y(t) = M + A*cos(2*pi*t/Tau + Phi)
//
// with Tau held fixed, typically at the dominant period found by
// measure/period. M, A, and Phi are refined by Levenberg-Marquardt from
// the guesses (mean, half the range, 0). Because the frequency is fixed,
// the problem is nearly linear and converges in a handful of iterations.
//
// [Fit] returns the raw optimizer solution as a [FitResult]; amplitude
// may come out negative with the phase half a turn off, describing the
// same curve. [FitResult.Canonical] folds that ambiguity away and
// derives the acrophase, the clock time of the rhythm peak:
//
//	fit, err := cosinor.Fit(tHours, values, cosinor.Config{Tau: est.PeriodHours})
//	if err != nil {
//	    // ErrNoConvergence is expected on arrhythmic data
//	}
//	res := fit.Canonical()
//	fmt.Printf("level %.1f, amplitude %.1f, peak at %.1f h\n",
//	    res.Level, res.Amplitude, res.AcrophaseHours)
//
// Convergence failure is reported as an error value rather than a
// degenerate result, so callers can distinguish "no rhythm detectable"
// from a broken precondition.
package cosinor
