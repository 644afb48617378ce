package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) of a biquad
// at the given frequency (Hz) and sample rate (Hz).
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w

	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression,
// avoiding complex exponentials.
func (c Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Phase returns the phase response in radians at the given frequency.
// The result is in [-pi, pi], consistent with the standard DSP convention
// H(e^{-jw}).
func (c Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// IsStable reports whether both poles lie strictly inside the unit circle.
func (c Coefficients) IsStable() bool {
	// Jury criterion for z^2 + A1*z + A2.
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// Response computes the complex frequency response of the full cascade
// as the product of individual section responses.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freqHz, sampleRate)
	}

	return h
}

// MagnitudeDB returns the cascaded magnitude response in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	h := c.Response(freqHz, sampleRate)
	return 20 * math.Log10(cmplx.Abs(h))
}
