package ensemble

import "github.com/san-kum/isinglab/internal/sim"

// Size is one lattice geometry in a parameter grid.
type Size struct {
	Width  int
	Height int
}

// Point is one fully resolved parameter combination.
type Point struct {
	Width       int
	Height      int
	Temperature float64
	Field       float64
}

// Grid spans a cartesian product of temperatures, external fields, and
// lattice sizes. Empty axes fall back to the sampler's base parameters.
type Grid struct {
	Temperatures []float64
	Fields       []float64
	Sizes        []Size
}

// Points expands the grid against base parameters in deterministic order:
// sizes outermost, then fields, then temperatures.
func (g Grid) Points(base sim.Params) []Point {
	temps := g.Temperatures
	if len(temps) == 0 {
		temps = []float64{base.Temperature}
	}
	fields := g.Fields
	if len(fields) == 0 {
		fields = []float64{base.Field}
	}
	sizes := g.Sizes
	if len(sizes) == 0 {
		sizes = []Size{{Width: base.Width, Height: base.Height}}
	}

	points := make([]Point, 0, len(sizes)*len(fields)*len(temps))
	for _, sz := range sizes {
		for _, h := range fields {
			for _, t := range temps {
				points = append(points, Point{
					Width:       sz.Width,
					Height:      sz.Height,
					Temperature: t,
					Field:       h,
				})
			}
		}
	}
	return points
}

// Linspace returns steps evenly spaced values from min to max inclusive.
// A single step collapses to min.
func Linspace(min, max float64, steps int) []float64 {
	if steps < 1 {
		return nil
	}
	if steps == 1 {
		return []float64{min}
	}
	out := make([]float64, steps)
	d := (max - min) / float64(steps-1)
	for i := range out {
		out[i] = min + float64(i)*d
	}
	return out
}
