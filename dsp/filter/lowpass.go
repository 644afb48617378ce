package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrder signals a filter order below 1.
	ErrInvalidOrder = errors.New("filter: order must be at least 1")

	// ErrInvalidFilterDesign signals a cutoff frequency outside the open
	// interval (0, Nyquist) for the given sample rate.
	ErrInvalidFilterDesign = errors.New("filter: invalid design")

	// ErrSeriesTooShort signals an input shorter than the reflection
	// padding required by the zero-phase filter.
	ErrSeriesTooShort = errors.New("filter: series too short for zero-phase padding")
)

const (
	// DefaultOrder is the Butterworth order used when Config.Order is zero.
	DefaultOrder = 4

	// DefaultCutoffHours is the cutoff period used when Config.CutoffHours
	// is zero. A 4-hour cutoff passes circadian components and rejects
	// ultradian detail.
	DefaultCutoffHours = 4.0

	secondsPerHour = 3600.0
)

// Config controls the smoothing filter.
type Config struct {
	// Order is the Butterworth filter order. Defaults to DefaultOrder.
	Order int

	// CutoffHours is the cutoff period in hours. Components slower than
	// this pass, faster ones are attenuated. Defaults to DefaultCutoffHours.
	CutoffHours float64

	// SampleRate is the sampling rate of the input series in Hz.
	// There is no default, callers derive it from the series timestamps.
	SampleRate float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}

	if cfg.CutoffHours == 0 {
		cfg.CutoffHours = DefaultCutoffHours
	}

	return cfg
}

// CutoffHz returns the cutoff frequency in Hz for the configured cutoff
// period.
func (c Config) CutoffHz() float64 {
	return 1 / (c.CutoffHours * secondsPerHour)
}

// Validate reports whether the configuration describes a realizable filter.
func (c Config) Validate() error {
	c = normalizeConfig(c)

	if c.Order < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, c.Order)
	}

	if c.CutoffHours < 0 {
		return fmt.Errorf("filter: cutoff period must be positive, got %v hours", c.CutoffHours)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("filter: sample rate must be positive, got %v", c.SampleRate)
	}

	normalized := c.CutoffHz() / (c.SampleRate / 2)
	if normalized <= 0 || normalized >= 1 {
		return fmt.Errorf("%w: normalized cutoff %v outside (0, 1)", ErrInvalidFilterDesign, normalized)
	}

	return nil
}

// LowPass applies a zero-phase Butterworth lowpass to values.
//
// The series is filtered forward and backward, so the result carries no
// phase shift. Feature timing, in particular the location of daily peaks,
// is preserved.
func LowPass(values []float64, cfg Config) ([]float64, error) {
	cfg = normalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sections, err := ButterworthLP(cfg.CutoffHz(), cfg.Order, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	return ZeroPhase(values, sections)
}
