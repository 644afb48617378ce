package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrEmptySeries reports construction from zero samples.
	ErrEmptySeries = errors.New("timeseries: series must contain at least one sample")

	// ErrUnknownColumn reports access to a value channel that does not exist.
	ErrUnknownColumn = errors.New("timeseries: unknown column")
)

// Series is an ordered sequence of timestamped samples with one or more
// named value channels. Timestamps are strictly increasing. Missing values
// are represented as NaN.
//
// A Series is immutable by convention: transformations return a derived
// Series and never modify the receiver. Accessors return backing slices
// without copying; callers must not modify them.
type Series struct {
	times []time.Time
	names []string
	cols  map[string][]float64
}

// New creates a Series from parallel timestamp and value slices under the
// given channel name. Timestamps must be strictly increasing; values may
// contain NaN for missing samples.
func New(times []time.Time, name string, values []float64) (*Series, error) {
	if len(times) == 0 {
		return nil, ErrEmptySeries
	}

	if name == "" {
		return nil, fmt.Errorf("timeseries: column name must not be empty")
	}

	if len(values) != len(times) {
		return nil, fmt.Errorf("timeseries: %d timestamps but %d values", len(times), len(values))
	}

	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("timeseries: timestamps not strictly increasing at index %d", i)
		}
	}

	return &Series{
		times: times,
		names: []string{name},
		cols:  map[string][]float64{name: values},
	}, nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.times)
}

// Times returns the timestamps.
func (s *Series) Times() []time.Time {
	return s.times
}

// Columns returns the channel names in insertion order.
func (s *Series) Columns() []string {
	return s.names
}

// Column returns the values of the named channel.
func (s *Series) Column(name string) ([]float64, error) {
	vals, ok := s.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	return vals, nil
}

// HasColumn reports whether the named channel exists.
func (s *Series) HasColumn(name string) bool {
	_, ok := s.cols[name]
	return ok
}

// WithColumn returns a derived Series with the named channel added or
// replaced. The receiver is left unchanged; untouched channels share their
// backing slices with the receiver.
func (s *Series) WithColumn(name string, values []float64) (*Series, error) {
	if name == "" {
		return nil, fmt.Errorf("timeseries: column name must not be empty")
	}

	if len(values) != len(s.times) {
		return nil, fmt.Errorf("timeseries: column %q has %d values, series has %d samples", name, len(values), len(s.times))
	}

	cols := make(map[string][]float64, len(s.cols)+1)
	for k, v := range s.cols {
		cols[k] = v
	}

	names := make([]string, len(s.names), len(s.names)+1)
	copy(names, s.names)

	if _, exists := s.cols[name]; !exists {
		names = append(names, name)
	}

	cols[name] = values

	return &Series{times: s.times, names: names, cols: cols}, nil
}

// ElapsedHours returns each sample's offset from the first timestamp in
// hours. The time origin is always the first sample, which anchors any
// phase estimate derived from the series.
func (s *Series) ElapsedHours() []float64 {
	out := make([]float64, len(s.times))
	for i, t := range s.times {
		out[i] = t.Sub(s.times[0]).Hours()
	}

	return out
}

// CountMissing returns the number of NaN values in the named channel.
func (s *Series) CountMissing(name string) (int, error) {
	vals, err := s.Column(name)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			n++
		}
	}

	return n, nil
}
