package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"
)

const timestampHeader = "timestamp"

// ReadCSV parses a series from CSV. The first header column must be
// "timestamp" with RFC 3339 values; every further column becomes a value
// channel. Empty cells are read as NaN.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("timeseries: read csv header: %w", err)
	}

	if len(header) < 2 || header[0] != timestampHeader {
		return nil, fmt.Errorf("timeseries: csv header must be %q followed by at least one value column", timestampHeader)
	}

	names := header[1:]

	var times []time.Time

	cols := make([][]float64, len(names))

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("timeseries: read csv line %d: %w", line, err)
		}

		if len(record) != len(header) {
			return nil, fmt.Errorf("timeseries: csv line %d has %d fields, want %d", line, len(record), len(header))
		}

		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("timeseries: csv line %d: %w", line, err)
		}

		times = append(times, ts)

		for i, cell := range record[1:] {
			v := math.NaN()
			if cell != "" {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("timeseries: csv line %d column %q: %w", line, names[i], err)
				}
			}

			cols[i] = append(cols[i], v)
		}
	}

	s, err := New(times, names[0], cols[0])
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(names); i++ {
		s, err = s.WithColumn(names[i], cols[i])
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// LoadCSV reads a series from the named file.
func LoadCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("timeseries: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// WriteCSV writes the series as CSV with RFC 3339 timestamps. NaN values
// are written as empty cells so a round-trip preserves missing samples.
func (s *Series) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(s.names)+1)
	header = append(header, timestampHeader)
	header = append(header, s.names...)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("timeseries: write csv header: %w", err)
	}

	record := make([]string, len(header))

	for i, ts := range s.times {
		record[0] = ts.Format(time.RFC3339)

		for j, name := range s.names {
			v := s.cols[name][i]
			if math.IsNaN(v) {
				record[j+1] = ""
			} else {
				record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("timeseries: write csv row %d: %w", i, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("timeseries: flush csv: %w", err)
	}

	return nil
}

// SaveCSV writes the series to the named file, replacing any existing
// content.
func (s *Series) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("timeseries: %w", err)
	}

	if err := s.WriteCSV(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("timeseries: %w", err)
	}

	return nil
}
