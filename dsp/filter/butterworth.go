package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-circadian/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass Butterworth cascade at cutoffHz.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLP(cutoffHz float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("filter: sample rate must be positive, got %v", sampleRate)
	}

	if cutoffHz <= 0 || cutoffHz >= sampleRate/2 {
		return nil, fmt.Errorf("%w: cutoff %v Hz at sample rate %v Hz", ErrInvalidFilterDesign, cutoffHz, sampleRate)
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, lowpassRBJ(cutoffHz, q, sampleRate))
	}

	if order%2 != 0 {
		sections = append(sections, firstOrderLP(cutoffHz, sampleRate))
	}

	return sections, nil
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2 // default Q
	}

	return 1 / (2 * s)
}

// lowpassRBJ designs a lowpass biquad at freq (Hz) with quality factor q.
func lowpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// firstOrderLP designs a first-order lowpass Butterworth section.
// Used for odd-order filters.
func firstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		B2: 0,
		A1: (k - 1) * norm,
		A2: 0,
	}
}
