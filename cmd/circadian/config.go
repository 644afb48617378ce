package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-circadian/clean"
	"github.com/cwbudde/algo-circadian/dsp/filter"
	"github.com/cwbudde/algo-circadian/measure/cosinor"
	"github.com/cwbudde/algo-circadian/measure/period"
	"github.com/cwbudde/algo-circadian/synth"
	"github.com/spf13/viper"
)

// runConfig collects every knob of a pipeline run. Values come from the
// config file, CIRCADIAN_* environment variables, and flags, in rising
// precedence.
type runConfig struct {
	Input    string `mapstructure:"input"`
	Channel  string `mapstructure:"channel"`
	Output   string `mapstructure:"output"`
	LogLevel string `mapstructure:"log_level"`

	Clean   cleanConfig   `mapstructure:"clean"`
	Filter  filterConfig  `mapstructure:"filter"`
	Period  periodConfig  `mapstructure:"period"`
	Cosinor cosinorConfig `mapstructure:"cosinor"`
	Synth   synthConfig   `mapstructure:"synth"`
}

type cleanConfig struct {
	IQRFactor float64 `mapstructure:"iqr_factor"`
}

type filterConfig struct {
	Order       int     `mapstructure:"order"`
	CutoffHours float64 `mapstructure:"cutoff_hours"`
}

type periodConfig struct {
	PadFactor int `mapstructure:"pad_factor"`

	// OverrideHours fixes the cosinor period instead of the spectral
	// estimate. Zero means use the estimate.
	OverrideHours float64 `mapstructure:"override_hours"`
}

type cosinorConfig struct {
	MaxIterations int     `mapstructure:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
}

// synthConfig shapes the built-in benchmark recording used when no
// input file is given. Outlier and gap placement stay fixed at the
// benchmark positions.
type synthConfig struct {
	Days           int     `mapstructure:"days"`
	SamplesPerHour int     `mapstructure:"samples_per_hour"`
	Level          float64 `mapstructure:"level"`
	Amplitude      float64 `mapstructure:"amplitude"`
	PeriodHours    float64 `mapstructure:"period_hours"`
	AcrophaseHours float64 `mapstructure:"acrophase_hours"`
	NoiseStdDev    float64 `mapstructure:"noise_std_dev"`
	Seed           int64   `mapstructure:"seed"`
}

// loadConfig reads the run configuration. With an explicit path the file
// must exist; otherwise ./run.yaml is picked up when present and the
// defaults apply when it is not.
func loadConfig(path string) (runConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("run")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("circadian")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return runConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg runConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return runConfig{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	ref := synth.Reference()

	v.SetDefault("input", "")
	v.SetDefault("channel", synth.DefaultChannel)
	v.SetDefault("output", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("clean.iqr_factor", clean.DefaultIQRFactor)

	v.SetDefault("filter.order", filter.DefaultOrder)
	v.SetDefault("filter.cutoff_hours", filter.DefaultCutoffHours)

	v.SetDefault("period.pad_factor", period.DefaultPadFactor)
	v.SetDefault("period.override_hours", 0.0)

	v.SetDefault("cosinor.max_iterations", cosinor.DefaultMaxIterations)
	v.SetDefault("cosinor.tolerance", cosinor.DefaultTolerance)

	v.SetDefault("synth.days", ref.Days)
	v.SetDefault("synth.samples_per_hour", ref.SamplesPerHour)
	v.SetDefault("synth.level", ref.Level)
	v.SetDefault("synth.amplitude", ref.Amplitude)
	v.SetDefault("synth.period_hours", ref.PeriodHours)
	v.SetDefault("synth.acrophase_hours", ref.AcrophaseHours)
	v.SetDefault("synth.noise_std_dev", ref.NoiseStdDev)
	v.SetDefault("synth.seed", ref.Seed)
}
