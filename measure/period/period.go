package period

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-circadian/dsp/spectrum"
	"github.com/cwbudde/algo-circadian/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInsufficientData signals fewer samples than a spectrum needs.
	ErrInsufficientData = errors.New("period: need at least 4 samples for a spectrum")

	// ErrDegenerateSpectrum signals a spectrum with no power at any
	// positive frequency, for example from constant input.
	ErrDegenerateSpectrum = errors.New("period: no dominant positive frequency")
)

const (
	// DefaultPadFactor is the zero-padding multiple applied before the
	// FFT when Config.PadFactor is zero. Padding interpolates the
	// spectrum so the peak position can be refined to a fraction of a
	// bin.
	DefaultPadFactor = 4

	minSamples     = 4
	secondsPerHour = 3600.0
)

// Config holds dominant-period estimation parameters.
type Config struct {
	// SampleRate is the sampling rate of the input in Hz. There is no
	// default, callers derive it from the series timestamps.
	SampleRate float64

	// PadFactor is the zero-padding multiple; the FFT size is the next
	// power of two at or above PadFactor*len(values). Defaults to
	// DefaultPadFactor.
	PadFactor int

	// Window tapers the input before the FFT. The zero value is the
	// Hann window; rectangular leaves the input untouched but lets
	// spectral leakage skew the refined peak.
	Window window.Type
}

// Estimate holds the dominant-period measurement.
type Estimate struct {
	// Frequency of the dominant spectral peak in Hz, refined below bin
	// resolution.
	Frequency float64

	// PeriodHours is 1/Frequency expressed in hours.
	PeriodHours float64

	// Bin is the index of the peak in the one-sided power spectrum.
	Bin int

	// Power is the interpolated peak power.
	Power float64

	// FFTSize is the padded transform length that produced the bins.
	FFTSize int
}

// Calculator estimates the dominant period of a sampled series.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a dominant-period calculator.
func NewCalculator(cfg Config) *Calculator {
	cfg = normalizeConfig(cfg)
	return &Calculator{cfg: cfg}
}

// Analyze is a one-shot dominant-period estimation.
func Analyze(values []float64, cfg Config) (Estimate, error) {
	return NewCalculator(cfg).Analyze(values)
}

// Analyze estimates the dominant period of values.
//
// The input is demeaned so the DC bin cannot mask the rhythm, tapered
// with the configured window, zero-padded, and transformed. The peak of
// the one-sided power spectrum, excluding DC, is then refined by
// parabolic interpolation over its neighboring bins.
func (c *Calculator) Analyze(values []float64) (Estimate, error) {
	if len(values) < minSamples {
		return Estimate{}, fmt.Errorf("%w, got %d", ErrInsufficientData, len(values))
	}

	if c.cfg.SampleRate <= 0 {
		return Estimate{}, fmt.Errorf("period: sample rate must be positive, got %v", c.cfg.SampleRate)
	}

	fftSize := nextPowerOf2(c.cfg.PadFactor * len(values))

	mean := stat.Mean(values, nil)

	buf := make([]float64, len(values))
	for i, v := range values {
		buf[i] = v - mean
	}

	window.Apply(c.cfg.Window, buf)

	in := make([]complex128, fftSize)
	for i, v := range buf {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Estimate{}, fmt.Errorf("period: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Estimate{}, fmt.Errorf("period: fft: %w", err)
	}

	power := spectrum.Power(out[:fftSize/2+1])

	peak := floats.MaxIdx(power[1:]) + 1
	if power[peak] <= 0 {
		return Estimate{}, ErrDegenerateSpectrum
	}

	binPos := float64(peak)
	peakPower := power[peak]

	if peak < len(power)-1 {
		offset, height := spectrum.RefinePeak(power[peak-1], power[peak], power[peak+1])
		binPos += offset
		peakPower = height
	}

	freq := binPos * c.cfg.SampleRate / float64(fftSize)

	return Estimate{
		Frequency:   freq,
		PeriodHours: 1 / (freq * secondsPerHour),
		Bin:         peak,
		Power:       peakPower,
		FFTSize:     fftSize,
	}, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.PadFactor <= 0 {
		cfg.PadFactor = DefaultPadFactor
	}

	return cfg
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
