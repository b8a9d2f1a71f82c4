package sim

import (
	"context"
	"math"
	"math/rand"

	"github.com/san-kum/isinglab/internal/ising"
)

// Cached totals are cross-checked against a full recomputation this many
// measurement sweeps apart, and once more at the end of the run.
const driftCheckInterval = 256

const driftTolerance = 1e-6

// Engine drives the sweep schedule of one simulation run: equilibration
// sweeps with no recording, then measurement sweeps producing one Sample
// each. A sweep attempts width*height Metropolis trials at sites chosen
// uniformly at random with replacement, the same schedule per-run seeds
// reproduce exactly. Engines are single-use per Run call and not safe for
// concurrent use; run many engines instead.
type Engine struct {
	params    Params
	metrics   []Metric
	observers []Observer
	phase     Phase
}

func New(params Params) *Engine {
	return &Engine{params: params, phase: Created}
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Phase reports the current state of the sweep schedule.
func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) Params() Params { return e.params }

// Run executes the full sweep schedule and returns the recorded samples.
// Cancellation is honored only between sweeps so a recorded sweep is
// always a complete pass over the lattice.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.params.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(e.params.Seed))

	lat, err := e.buildLattice(rng)
	if err != nil {
		return nil, err
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	result := &Result{
		Params:  e.params,
		Samples: make([]Sample, 0, e.params.MeasureSweeps),
		Metrics: make(map[string]float64),
	}

	e.phase = Equilibrating
	for i := 0; i < e.params.EquilSweeps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result.AcceptedFlips += e.sweep(lat, rng)
	}

	e.phase = Measuring
	absSum := 0.0
	for i := 0; i < e.params.MeasureSweeps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.AcceptedFlips += e.sweep(lat, rng)

		sample := Sample{
			Sweep:         i,
			Magnetization: lat.MagnetizationPerSite(),
			Energy:        lat.EnergyPerSite(),
		}
		result.Samples = append(result.Samples, sample)
		absSum += math.Abs(sample.Magnetization)

		for _, m := range e.metrics {
			m.Observe(sample)
		}
		for _, obs := range e.observers {
			obs.OnSweep(sample)
		}

		if (i+1)%driftCheckInterval == 0 {
			if err := lat.CheckTotals(driftTolerance * float64(lat.Sites())); err != nil {
				return nil, err
			}
		}
	}

	if err := lat.CheckTotals(driftTolerance * float64(lat.Sites())); err != nil {
		return nil, err
	}

	e.phase = Completed

	result.FinalMagnetization = lat.MagnetizationPerSite()
	result.FinalEnergy = lat.EnergyPerSite()
	result.MeanAbsMag = absSum / float64(e.params.MeasureSweeps)
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (e *Engine) buildLattice(rng *rand.Rand) (*ising.Lattice, error) {
	if e.params.RandomInit {
		return ising.NewRandom(e.params.Width, e.params.Height,
			e.params.Coupling, e.params.Field, e.params.UpProbability, rng)
	}
	return ising.New(e.params.Width, e.params.Height, e.params.Coupling, e.params.Field)
}

// sweep attempts one Metropolis trial per lattice site at random
// positions and returns the number of accepted flips.
func (e *Engine) sweep(lat *ising.Lattice, rng *rand.Rand) int {
	accepted := 0
	trials := lat.Sites()
	for i := 0; i < trials; i++ {
		row := rng.Intn(lat.Height())
		col := rng.Intn(lat.Width())
		if ising.TryFlip(lat, row, col, e.params.Temperature, rng) {
			accepted++
		}
	}
	return accepted
}
