package timeseries

import (
	"errors"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
)

// ErrInsufficientData reports a series too short to derive a sampling
// descriptor from.
var ErrInsufficientData = errors.New("timeseries: need at least 2 samples to derive sampling")

// Sampling describes the effective sample spacing of a series. It is
// derived once from the modal inter-sample interval and passed explicitly
// to the stages that need it, so filtering and spectral analysis share one
// consistent rate.
type Sampling struct {
	Interval time.Duration // modal spacing between consecutive samples
	Rate     float64       // samples per second
}

// Sampling derives the sampling descriptor from the series timestamps.
// The interval is the statistical mode of the consecutive timestamp
// differences, which tolerates occasional irregular spacing left by
// upstream gap handling. When no spacing repeats, the median is used.
func (s *Series) Sampling() (Sampling, error) {
	if len(s.times) < 2 {
		return Sampling{}, fmt.Errorf("%w: have %d", ErrInsufficientData, len(s.times))
	}

	diffs := make([]float64, len(s.times)-1)
	for i := 1; i < len(s.times); i++ {
		diffs[i-1] = s.times[i].Sub(s.times[i-1]).Seconds()
	}

	interval, err := modalInterval(diffs)
	if err != nil {
		return Sampling{}, fmt.Errorf("timeseries: sampling interval: %w", err)
	}

	if interval <= 0 {
		return Sampling{}, fmt.Errorf("timeseries: non-positive sampling interval %v", interval)
	}

	return Sampling{
		Interval: time.Duration(interval * float64(time.Second)),
		Rate:     1 / interval,
	}, nil
}

// modalInterval returns the most frequent value in diffs, the smallest of
// them on a tie, or the median when every value is unique.
func modalInterval(diffs []float64) (float64, error) {
	modes, err := stats.Mode(diffs)
	if err != nil {
		return 0, err
	}

	if len(modes) == 0 {
		return stats.Median(diffs)
	}

	m := modes[0]
	for _, v := range modes[1:] {
		if v < m {
			m = v
		}
	}

	return m, nil
}
