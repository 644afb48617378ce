package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-circadian/dsp/filter"
	"github.com/cwbudde/algo-circadian/internal/testutil"
	"github.com/cwbudde/algo-circadian/measure/period"
	"github.com/cwbudde/algo-circadian/synth"
	"github.com/cwbudde/algo-circadian/timeseries"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func TestPipeline_RecoversBenchmarkParameters(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	a, err := runPipeline(cfg, quietLogger())
	if err != nil {
		t.Fatalf("runPipeline failed: %v", err)
	}

	if a.fit == nil {
		t.Fatalf("fit did not converge: %v", a.fitErr)
	}

	ref := synth.Reference()
	testutil.RequireNear(t, "level", a.params.Level, ref.Level, 1)
	testutil.RequireNear(t, "amplitude", a.params.Amplitude, ref.Amplitude, 1)
	testutil.RequireNear(t, "acrophase", a.params.AcrophaseHours, ref.AcrophaseHours, 0.5)
	testutil.RequireNear(t, "tau", a.params.Tau, ref.PeriodHours, 0.1)

	if a.filled != 5 {
		t.Fatalf("filled = %d, want 5 interpolated gap samples", a.filled)
	}

	if a.clipped < 2 {
		t.Fatalf("clipped = %d, want at least the 2 injected outliers", a.clipped)
	}

	filteredName := ref.Channel + filteredSuffix
	if !a.series.HasColumn(filteredName) {
		t.Fatalf("series is missing the %q channel", filteredName)
	}

	var buf bytes.Buffer
	if err := printReport(&buf, a); err != nil {
		t.Fatalf("printReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Level (M)", "Amplitude (A)", "Acrophase", "Period (tau)", "Outliers clipped"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report is missing %q:\n%s", want, out)
		}
	}
}

func TestPipeline_PeriodOverride(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	cfg.Period.OverrideHours = 24

	a, err := runPipeline(cfg, quietLogger())
	if err != nil {
		t.Fatalf("runPipeline failed: %v", err)
	}

	if a.fit == nil {
		t.Fatalf("fit did not converge: %v", a.fitErr)
	}

	if a.params.Tau != 24 {
		t.Fatalf("Tau = %v, want the overridden 24", a.params.Tau)
	}
}

func TestPipeline_CSVInput(t *testing.T) {
	// A noiseless recording without outliers or gaps, round-tripped
	// through CSV.
	s, err := synth.Generate(synth.Config{AcrophaseHours: 12})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "recording.csv")
	if err := s.SaveCSV(path); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	cfg.Input = path

	a, err := runPipeline(cfg, quietLogger())
	if err != nil {
		t.Fatalf("runPipeline failed: %v", err)
	}

	if a.fit == nil {
		t.Fatalf("fit did not converge: %v", a.fitErr)
	}

	if a.filled != 0 || a.clipped != 0 {
		t.Fatalf("clean stages touched a clean recording: filled %d, clipped %d", a.filled, a.clipped)
	}

	testutil.RequireNear(t, "level", a.params.Level, 75, 0.05)
	testutil.RequireNear(t, "amplitude", a.params.Amplitude, 5, 0.05)
	testutil.RequireNear(t, "acrophase", a.params.AcrophaseHours, 12, 0.1)
	testutil.RequireNear(t, "tau", a.params.Tau, 24.15, 0.01)
}

func TestPipeline_SavesOutput(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	cfg.Output = filepath.Join(t.TempDir(), "cleaned.csv")

	if _, err := runPipeline(cfg, quietLogger()); err != nil {
		t.Fatalf("runPipeline failed: %v", err)
	}

	saved, err := timeseries.LoadCSV(cfg.Output)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if !saved.HasColumn(cfg.Channel) || !saved.HasColumn(cfg.Channel+filteredSuffix) {
		t.Fatalf("saved series is missing channels, have %v", saved.Columns())
	}

	if saved.Len() != 7*24*4 {
		t.Fatalf("saved series has %d samples, want %d", saved.Len(), 7*24*4)
	}
}

func TestPipeline_ShortRecordingFails(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC),
	}

	s, err := timeseries.New(times, "heart_rate", []float64{70, 75, 72})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "short.csv")
	if err := s.SaveCSV(path); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	cfg.Input = path

	_, err = runPipeline(cfg, quietLogger())
	if !errors.Is(err, filter.ErrSeriesTooShort) {
		t.Fatalf("runPipeline error = %v, want ErrSeriesTooShort", err)
	}
}

func TestPrintReport_NoResult(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 15, 0, 0, time.UTC),
	}

	s, err := timeseries.New(times, "heart_rate", []float64{70, 75})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a := &artifacts{
		series:   s,
		sampling: timeseries.Sampling{Interval: 15 * time.Minute, Rate: 1.0 / 900},
		estimate: period.Estimate{PeriodHours: 24.076},
		tau:      24.076,
	}

	var buf bytes.Buffer
	if err := printReport(&buf, a); err != nil {
		t.Fatalf("printReport failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "no result") {
		t.Fatalf("report does not mark parameters as missing:\n%s", out)
	}

	if !strings.Contains(out, "24.076 h") {
		t.Fatalf("report does not show the attempted period:\n%s", out)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	ref := synth.Reference()

	if cfg.Channel != ref.Channel {
		t.Fatalf("Channel = %q, want %q", cfg.Channel, ref.Channel)
	}

	if cfg.Filter.Order != filter.DefaultOrder || cfg.Filter.CutoffHours != filter.DefaultCutoffHours {
		t.Fatalf("filter defaults = %d/%v, want %d/%v",
			cfg.Filter.Order, cfg.Filter.CutoffHours, filter.DefaultOrder, filter.DefaultCutoffHours)
	}

	if cfg.Period.PadFactor != period.DefaultPadFactor || cfg.Period.OverrideHours != 0 {
		t.Fatalf("period defaults = %d/%v, want %d/0",
			cfg.Period.PadFactor, cfg.Period.OverrideHours, period.DefaultPadFactor)
	}

	if cfg.Synth.PeriodHours != ref.PeriodHours || cfg.Synth.Seed != ref.Seed {
		t.Fatalf("synth defaults = %v/%d, want %v/%d",
			cfg.Synth.PeriodHours, cfg.Synth.Seed, ref.PeriodHours, ref.Seed)
	}
}

func TestLoadConfig_File(t *testing.T) {
	body := strings.Join([]string{
		"channel: temperature",
		"filter:",
		"  cutoff_hours: 6",
		"synth:",
		"  seed: 7",
	}, "\n")

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Channel != "temperature" {
		t.Fatalf("Channel = %q, want %q", cfg.Channel, "temperature")
	}

	if cfg.Filter.CutoffHours != 6 {
		t.Fatalf("CutoffHours = %v, want 6", cfg.Filter.CutoffHours)
	}

	if cfg.Synth.Seed != 7 {
		t.Fatalf("Seed = %d, want 7", cfg.Synth.Seed)
	}

	// Unset keys keep their defaults.
	if cfg.Filter.Order != filter.DefaultOrder {
		t.Fatalf("Order = %d, want default %d", cfg.Filter.Order, filter.DefaultOrder)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
