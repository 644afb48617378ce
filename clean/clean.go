package clean

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-circadian/timeseries"
	"github.com/montanaflynn/stats"
)

// DefaultIQRFactor is the Tukey fence multiplier used when no factor is
// given.
const DefaultIQRFactor = 1.5

var (
	// ErrAllMissing reports a channel with no finite values to
	// interpolate from.
	ErrAllMissing = errors.New("clean: channel contains no finite values")

	// ErrMissingValues reports NaN values in a channel that requires a
	// gap-free input.
	ErrMissingValues = errors.New("clean: channel contains missing values")
)

// Interpolate fills NaN gaps in the named channel by linear interpolation
// against elapsed time. Leading and trailing gaps take the nearest finite
// value. Returns a derived series with the channel replaced and the number
// of samples filled.
func Interpolate(s *timeseries.Series, channel string) (*timeseries.Series, int, error) {
	vals, err := s.Column(channel)
	if err != nil {
		return nil, 0, fmt.Errorf("clean: %w", err)
	}

	hours := s.ElapsedHours()

	out := make([]float64, len(vals))
	copy(out, vals)

	filled := 0

	prev := -1 // index of the last finite value seen

	for i := 0; i < len(out); i++ {
		if !math.IsNaN(out[i]) {
			prev = i
			continue
		}

		// Find the end of this gap.
		next := i
		for next < len(out) && math.IsNaN(out[next]) {
			next++
		}

		switch {
		case prev < 0 && next >= len(out):
			return nil, 0, fmt.Errorf("%w: %q", ErrAllMissing, channel)
		case prev < 0:
			for j := i; j < next; j++ {
				out[j] = out[next]
			}
		case next >= len(out):
			for j := i; j < len(out); j++ {
				out[j] = out[prev]
			}
		default:
			span := hours[next] - hours[prev]
			for j := i; j < next; j++ {
				frac := (hours[j] - hours[prev]) / span
				out[j] = out[prev] + frac*(out[next]-out[prev])
			}
		}

		filled += next - i
		i = next - 1
	}

	res, err := s.WithColumn(channel, out)
	if err != nil {
		return nil, 0, fmt.Errorf("clean: %w", err)
	}

	return res, filled, nil
}

// ClipOutliers clamps the named channel to the Tukey fences
// [Q1-factor*IQR, Q3+factor*IQR]. A non-positive factor selects
// [DefaultIQRFactor]. The channel must be gap-free; run [Interpolate]
// first. Returns a derived series and the number of samples clamped.
func ClipOutliers(s *timeseries.Series, channel string, factor float64) (*timeseries.Series, int, error) {
	vals, err := s.Column(channel)
	if err != nil {
		return nil, 0, fmt.Errorf("clean: %w", err)
	}

	for i, v := range vals {
		if math.IsNaN(v) {
			return nil, 0, fmt.Errorf("%w: %q index %d", ErrMissingValues, channel, i)
		}
	}

	if factor <= 0 {
		factor = DefaultIQRFactor
	}

	quartiles, err := stats.Quartile(vals)
	if err != nil {
		return nil, 0, fmt.Errorf("clean: quartiles of %q: %w", channel, err)
	}

	iqr, err := stats.InterQuartileRange(vals)
	if err != nil {
		return nil, 0, fmt.Errorf("clean: iqr of %q: %w", channel, err)
	}

	lower := quartiles.Q1 - factor*iqr
	upper := quartiles.Q3 + factor*iqr

	out := make([]float64, len(vals))
	clipped := 0

	for i, v := range vals {
		switch {
		case v < lower:
			out[i] = lower
			clipped++
		case v > upper:
			out[i] = upper
			clipped++
		default:
			out[i] = v
		}
	}

	res, err := s.WithColumn(channel, out)
	if err != nil {
		return nil, 0, fmt.Errorf("clean: %w", err)
	}

	return res, clipped, nil
}
