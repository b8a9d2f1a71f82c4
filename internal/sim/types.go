package sim

import (
	"fmt"

	"github.com/san-kum/isinglab/internal/ising"
)

// Phase tracks where a run is in its sweep schedule.
type Phase int

const (
	Created Phase = iota
	Equilibrating
	Measuring
	Completed
)

func (p Phase) String() string {
	switch p {
	case Created:
		return "created"
	case Equilibrating:
		return "equilibrating"
	case Measuring:
		return "measuring"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Params configures one simulation run.
type Params struct {
	Width         int
	Height        int
	Temperature   float64
	Field         float64
	Coupling      float64
	EquilSweeps   int
	MeasureSweeps int
	Seed          int64
	RandomInit    bool
	UpProbability float64
}

func DefaultParams() Params {
	return Params{
		Width:         30,
		Height:        30,
		Temperature:   2.0,
		Coupling:      1.0,
		EquilSweeps:   500,
		MeasureSweeps: 500,
		Seed:          1,
		RandomInit:    true,
		UpProbability: 0.5,
	}
}

// Validate checks the sweep schedule and temperature. Lattice dimensions
// are validated by the lattice constructor.
func (p Params) Validate() error {
	if p.EquilSweeps < 0 {
		return fmt.Errorf("%w: equilibration sweeps must be non-negative, got %d", ising.ErrInvalidParameter, p.EquilSweeps)
	}
	if p.MeasureSweeps < 1 {
		return fmt.Errorf("%w: measurement sweeps must be at least 1, got %d", ising.ErrInvalidParameter, p.MeasureSweeps)
	}
	if p.Temperature < 0 {
		return fmt.Errorf("%w: temperature must be non-negative, got %f", ising.ErrInvalidParameter, p.Temperature)
	}
	return nil
}

// Sites returns the number of lattice sites the run will simulate.
func (p Params) Sites() int { return p.Width * p.Height }

// Sample is one observation of the lattice, recorded after each
// measurement sweep. Magnetization and Energy are per-site values.
type Sample struct {
	Sweep         int
	Magnetization float64
	Energy        float64
}

// Result holds everything a completed run produced.
type Result struct {
	Params             Params
	Samples            []Sample
	Metrics            map[string]float64
	FinalMagnetization float64
	FinalEnergy        float64
	MeanAbsMag         float64
	AcceptedFlips      int
}

// Metric accumulates a scalar observable over the measurement samples of
// one run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified after every measurement sweep.
type Observer interface {
	OnSweep(s Sample)
}
