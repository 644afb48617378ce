package timeseries

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func TestCSV_RoundTrip(t *testing.T) {
	times := makeTimes(4, 15*time.Minute)
	vals := []float64{70.5, math.NaN(), 72, 68.25}

	s, err := New(times, "heart_rate", vals)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s, err = s.WithColumn("heart_rate_filtered", []float64{70, 71, 72, 69})
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}

	var buf bytes.Buffer
	if err := s.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if got.Len() != s.Len() {
		t.Fatalf("Len=%d, want %d", got.Len(), s.Len())
	}

	wantCols := []string{"heart_rate", "heart_rate_filtered"}
	for i, name := range got.Columns() {
		if name != wantCols[i] {
			t.Fatalf("column %d: %q, want %q", i, name, wantCols[i])
		}
	}

	raw, _ := got.Column("heart_rate")
	if !math.IsNaN(raw[1]) {
		t.Fatalf("missing value not preserved: got %v", raw[1])
	}

	for _, i := range []int{0, 2, 3} {
		if raw[i] != vals[i] {
			t.Fatalf("index %d: value=%v, want %v", i, raw[i], vals[i])
		}
	}

	for i, ts := range got.Times() {
		if !ts.Equal(times[i]) {
			t.Fatalf("index %d: timestamp=%v, want %v", i, ts, times[i])
		}
	}
}

func TestReadCSV_MalformedHeader(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"missing timestamp column", "time,heart_rate\n2024-01-01T00:00:00Z,70\n"},
		{"no value columns", "timestamp\n2024-01-01T00:00:00Z\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tc.in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadCSV_BadCells(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"bad timestamp", "timestamp,hr\nnot-a-time,70\n"},
		{"bad value", "timestamp,hr\n2024-01-01T00:00:00Z,seventy\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tc.in)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadCSV_EmptyCellIsMissing(t *testing.T) {
	in := "timestamp,hr\n" +
		"2024-01-01T00:00:00Z,70\n" +
		"2024-01-01T00:15:00Z,\n" +
		"2024-01-01T00:30:00Z,71\n"

	s, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	n, err := s.CountMissing("hr")
	if err != nil {
		t.Fatalf("CountMissing: %v", err)
	}

	if n != 1 {
		t.Fatalf("missing=%d, want 1", n)
	}
}
