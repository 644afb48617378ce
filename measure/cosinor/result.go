package cosinor

import "math"

// Result holds rhythm parameters in the conventional form: non-negative
// amplitude and the acrophase expressed as hours after the series
// reference time.
type Result struct {
	Level          float64 // rhythm-adjusted mean (mesor)
	Amplitude      float64 // non-negative peak deviation from Level
	AcrophaseHours float64 // time of the rhythm peak in [0, Tau)
	Tau            float64 // period in hours

	LevelStdErr     float64
	AmplitudeStdErr float64
}

// Canonical maps the raw fitted parameters to the conventional form.
//
// A negative amplitude is folded into the phase, since |A| with a
// half-period shift describes the same curve. The phase is wrapped to
// [0, 2*pi) and the acrophase follows as (-Phi/omega) mod Tau. Standard
// errors for level and amplitude come from the covariance diagonal and
// are NaN when the covariance is unavailable.
func (r *FitResult) Canonical() Result {
	omega := 2 * math.Pi / r.Tau

	a := r.A
	phi := r.Phi

	if a < 0 {
		a = -a
		phi += math.Pi
	}

	phi = WrapPhase(phi)

	acro := math.Mod(-phi/omega, r.Tau)
	if acro < 0 {
		acro += r.Tau
	}

	res := Result{
		Level:           r.M,
		Amplitude:       a,
		AcrophaseHours:  acro,
		Tau:             r.Tau,
		LevelStdErr:     math.NaN(),
		AmplitudeStdErr: math.NaN(),
	}

	if r.Cov != nil {
		res.LevelStdErr = math.Sqrt(r.Cov.At(0, 0))
		res.AmplitudeStdErr = math.Sqrt(r.Cov.At(1, 1))
	}

	return res
}

// Curve evaluates the fitted model at the given times in hours. The raw
// parameters are used directly, so the curve matches the optimizer's
// solution whether or not A came out negative.
func (r *FitResult) Curve(tHours []float64) []float64 {
	omega := 2 * math.Pi / r.Tau

	out := make([]float64, len(tHours))
	for i, t := range tHours {
		out[i] = r.M + r.A*math.Cos(omega*t+r.Phi)
	}

	return out
}

// WrapPhase maps an angle in radians to [0, 2*pi). Values already in
// range pass through unchanged.
func WrapPhase(phi float64) float64 {
	m := math.Mod(phi, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	return m
}
