package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/isinglab/internal/ensemble"
	"github.com/san-kum/isinglab/internal/sim"
)

const (
	DefaultWidth         = 30
	DefaultHeight        = 30
	DefaultTemperature   = 2.0
	DefaultCoupling      = 1.0
	DefaultEquilSweeps   = 500
	DefaultMeasureSweeps = 500
	DefaultUpProbability = 0.5
	DefaultSweepSamples  = 50
)

type Config struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Temperature   float64 `yaml:"temperature"`
	Field         float64 `yaml:"field"`
	Coupling      float64 `yaml:"coupling"`
	EquilSweeps   int     `yaml:"equilibration_sweeps"`
	MeasureSweeps int     `yaml:"measurement_sweeps"`
	Seed          int64   `yaml:"seed"`
	RandomInit    bool    `yaml:"random_init"`
	UpProbability float64 `yaml:"up_probability"`

	Sweep SweepConfig `yaml:"sweep"`
}

// SweepConfig configures the ensemble layer. Explicit temperature lists
// win over the min/max/steps range.
type SweepConfig struct {
	Temperatures []float64 `yaml:"temperatures"`
	TempMin      float64   `yaml:"temp_min"`
	TempMax      float64   `yaml:"temp_max"`
	TempSteps    int       `yaml:"temp_steps"`
	Fields       []float64 `yaml:"fields"`
	Samples      int       `yaml:"samples"`
	Workers      int       `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Temperature:   DefaultTemperature,
		Coupling:      DefaultCoupling,
		EquilSweeps:   DefaultEquilSweeps,
		MeasureSweeps: DefaultMeasureSweeps,
		RandomInit:    true,
		UpProbability: DefaultUpProbability,
		Sweep: SweepConfig{
			TempMin:   0.5,
			TempMax:   4.0,
			TempSteps: 15,
			Samples:   DefaultSweepSamples,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the single-run portion of the config.
func (c *Config) Params() sim.Params {
	return sim.Params{
		Width:         c.Width,
		Height:        c.Height,
		Temperature:   c.Temperature,
		Field:         c.Field,
		Coupling:      c.Coupling,
		EquilSweeps:   c.EquilSweeps,
		MeasureSweeps: c.MeasureSweeps,
		Seed:          c.Seed,
		RandomInit:    c.RandomInit,
		UpProbability: c.UpProbability,
	}
}

// SweepGrid builds the temperature/field grid for an ensemble sweep.
func (c *Config) SweepGrid() ensemble.Grid {
	temps := c.Sweep.Temperatures
	if len(temps) == 0 && c.Sweep.TempSteps > 0 {
		temps = ensemble.Linspace(c.Sweep.TempMin, c.Sweep.TempMax, c.Sweep.TempSteps)
	}
	return ensemble.Grid{
		Temperatures: temps,
		Fields:       c.Sweep.Fields,
	}
}
