// Package ensemble fans independent simulation runs out over a parameter
// grid and collects the resulting magnetizations into a distribution.
//
// Each run owns its own lattice and random source, seeded from the run's
// global index, so runs are independent and the whole sweep is
// reproducible from a single starting seed.
package ensemble

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/san-kum/isinglab/internal/sim"
)

// Outcome is the result of one run at one grid point.
type Outcome struct {
	Point              Point
	Run                int
	Seed               int64
	FinalMagnetization float64
	MeanAbsMag         float64
	FinalEnergy        float64
}

// Distribution is the ordered collection of per-run outcomes, one per
// (point, repetition) pair in grid order.
type Distribution []Outcome

// Magnetizations returns the final per-site magnetization of every run,
// sign kept.
func (d Distribution) Magnetizations() []float64 {
	out := make([]float64, len(d))
	for i, o := range d {
		out[i] = o.FinalMagnetization
	}
	return out
}

// GroupByPoint collects outcomes per parameter combination.
func (d Distribution) GroupByPoint() map[Point][]Outcome {
	groups := make(map[Point][]Outcome)
	for _, o := range d {
		groups[o.Point] = append(groups[o.Point], o)
	}
	return groups
}

// Sampler runs the engine once per (grid point, repetition) across a
// worker pool.
type Sampler struct {
	Base      sim.Params
	Samples   int // runs per grid point, minimum 1
	Workers   int // goroutines; <=0 uses NumCPU
	SeedStart int64

	// Progress, if set, is called after every completed run. It may be
	// called concurrently from worker goroutines.
	Progress func(done, total int)
}

// Run executes the full sweep and returns one Outcome per run, in grid
// order. The first run error aborts the sweep.
func (s *Sampler) Run(ctx context.Context, grid Grid) (Distribution, error) {
	points := grid.Points(s.Base)
	reps := s.Samples
	if reps < 1 {
		reps = 1
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type job struct {
		idx   int
		point Point
		run   int
	}

	total := len(points) * reps
	outcomes := make(Distribution, total)
	errs := make([]error, total)
	jobs := make(chan job)

	var done int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				p := s.Base
				p.Width = j.point.Width
				p.Height = j.point.Height
				p.Temperature = j.point.Temperature
				p.Field = j.point.Field
				p.Seed = s.SeedStart + int64(j.idx)

				result, err := sim.New(p).Run(ctx)
				if err != nil {
					errs[j.idx] = err
					continue
				}

				outcomes[j.idx] = Outcome{
					Point:              j.point,
					Run:                j.run,
					Seed:               p.Seed,
					FinalMagnetization: result.FinalMagnetization,
					MeanAbsMag:         result.MeanAbsMag,
					FinalEnergy:        result.FinalEnergy,
				}
				if s.Progress != nil {
					s.Progress(int(atomic.AddInt64(&done, 1)), total)
				}
			}
		}()
	}

	idx := 0
	for _, pt := range points {
		for r := 0; r < reps; r++ {
			jobs <- job{idx: idx, point: pt, run: r}
			idx++
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}
