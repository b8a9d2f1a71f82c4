package ensemble_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/isinglab/internal/ensemble"
	"github.com/san-kum/isinglab/internal/ising"
	"github.com/san-kum/isinglab/internal/sim"
)

func baseParams() sim.Params {
	p := sim.DefaultParams()
	p.Width = 6
	p.Height = 6
	p.EquilSweeps = 10
	p.MeasureSweeps = 5
	return p
}

var _ = Describe("Grid", func() {
	It("expands the cartesian product in deterministic order", func() {
		grid := ensemble.Grid{
			Temperatures: []float64{1.0, 2.0, 3.0},
			Fields:       []float64{0.0, 0.5},
			Sizes:        []ensemble.Size{{Width: 6, Height: 6}, {Width: 8, Height: 8}},
		}

		points := grid.Points(baseParams())
		Expect(points).To(HaveLen(12))
		Expect(points[0]).To(Equal(ensemble.Point{Width: 6, Height: 6, Temperature: 1.0, Field: 0.0}))
		// Temperatures vary fastest, sizes slowest.
		Expect(points[1].Temperature).To(Equal(2.0))
		Expect(points[3].Field).To(Equal(0.5))
		Expect(points[6].Width).To(Equal(8))
	})

	It("falls back to the base parameters on empty axes", func() {
		base := baseParams()
		base.Temperature = 2.5

		points := ensemble.Grid{}.Points(base)
		Expect(points).To(HaveLen(1))
		Expect(points[0].Temperature).To(Equal(2.5))
		Expect(points[0].Width).To(Equal(base.Width))
	})

	Describe("Linspace", func() {
		It("spaces values evenly over the closed interval", func() {
			temps := ensemble.Linspace(1.0, 3.0, 5)
			Expect(temps).To(Equal([]float64{1.0, 1.5, 2.0, 2.5, 3.0}))
		})

		It("handles degenerate step counts", func() {
			Expect(ensemble.Linspace(1.0, 3.0, 1)).To(Equal([]float64{1.0}))
			Expect(ensemble.Linspace(1.0, 3.0, 0)).To(BeNil())
		})
	})
})

var _ = Describe("Sampler", func() {
	It("produces one outcome per point and repetition with distinct seeds", func() {
		s := &ensemble.Sampler{
			Base:      baseParams(),
			Samples:   3,
			Workers:   2,
			SeedStart: 100,
		}
		grid := ensemble.Grid{Temperatures: []float64{1.0, 5.0}}

		dist, err := s.Run(context.Background(), grid)
		Expect(err).NotTo(HaveOccurred())
		Expect(dist).To(HaveLen(6))

		seeds := make(map[int64]bool)
		for _, o := range dist {
			seeds[o.Seed] = true
		}
		Expect(seeds).To(HaveLen(6))

		groups := dist.GroupByPoint()
		Expect(groups).To(HaveLen(2))
		for _, outcomes := range groups {
			Expect(outcomes).To(HaveLen(3))
		}
	})

	It("is reproducible from the same starting seed", func() {
		grid := ensemble.Grid{Temperatures: []float64{1.5, 4.0}}
		run := func() ensemble.Distribution {
			s := &ensemble.Sampler{Base: baseParams(), Samples: 2, Workers: 4, SeedStart: 7}
			dist, err := s.Run(context.Background(), grid)
			Expect(err).NotTo(HaveOccurred())
			return dist
		}

		Expect(run()).To(Equal(run()))
	})

	It("reports progress for every completed run", func() {
		var mu sync.Mutex
		var calls int
		var lastTotal int

		s := &ensemble.Sampler{
			Base:      baseParams(),
			Samples:   2,
			Workers:   3,
			SeedStart: 1,
			Progress: func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				calls++
				lastTotal = total
			},
		}

		_, err := s.Run(context.Background(), ensemble.Grid{Temperatures: []float64{2.0, 3.0}})
		Expect(err).NotTo(HaveOccurred())

		mu.Lock()
		defer mu.Unlock()
		Expect(calls).To(Equal(4))
		Expect(lastTotal).To(Equal(4))
	})

	It("propagates run validation errors", func() {
		base := baseParams()
		base.MeasureSweeps = 0

		s := &ensemble.Sampler{Base: base, Samples: 1, SeedStart: 1}
		_, err := s.Run(context.Background(), ensemble.Grid{Temperatures: []float64{2.0}})
		Expect(err).To(MatchError(ising.ErrInvalidParameter))
	})

	It("keeps the sign of the final magnetization", func() {
		// Deep in the ordered phase from a cold start every run ends
		// strongly magnetized in the starting direction.
		base := baseParams()
		base.RandomInit = false
		base.EquilSweeps = 50
		base.MeasureSweeps = 10

		s := &ensemble.Sampler{Base: base, Samples: 2, SeedStart: 5}
		dist, err := s.Run(context.Background(), ensemble.Grid{Temperatures: []float64{0.5}})
		Expect(err).NotTo(HaveOccurred())
		for _, o := range dist {
			Expect(o.FinalMagnetization).To(BeNumerically(">", 0.9))
			Expect(o.MeanAbsMag).To(BeNumerically(">", 0.9))
		}
	})
})
