package ising

import (
	"fmt"
	"math"
	"math/rand"
)

// Lattice is a rectangular grid of +1/-1 spins with periodic boundary
// conditions. Spins are stored row-major. The energy and magnetization
// totals are cached and kept current by ApplyFlip.
type Lattice struct {
	width    int
	height   int
	coupling float64
	field    float64

	spins []int8

	energy        float64
	magnetization int
}

// New builds a lattice with every spin up, the fixed cold start.
func New(width, height int, coupling, field float64) (*Lattice, error) {
	lat, err := alloc(width, height, coupling, field)
	if err != nil {
		return nil, err
	}
	for i := range lat.spins {
		lat.spins[i] = 1
	}
	lat.RecomputeTotals()
	return lat, nil
}

// NewRandom builds a lattice with each spin independently up with
// probability upProb, drawn from rng.
func NewRandom(width, height int, coupling, field, upProb float64, rng *rand.Rand) (*Lattice, error) {
	if upProb < 0 || upProb > 1 {
		return nil, fmt.Errorf("%w: up probability %f outside [0,1]", ErrInvalidParameter, upProb)
	}
	lat, err := alloc(width, height, coupling, field)
	if err != nil {
		return nil, err
	}
	for i := range lat.spins {
		if rng.Float64() < upProb {
			lat.spins[i] = 1
		} else {
			lat.spins[i] = -1
		}
	}
	lat.RecomputeTotals()
	return lat, nil
}

func alloc(width, height int, coupling, field float64) (*Lattice, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimension, width, height)
	}
	return &Lattice{
		width:    width,
		height:   height,
		coupling: coupling,
		field:    field,
		spins:    make([]int8, width*height),
	}, nil
}

func (l *Lattice) Width() int  { return l.width }
func (l *Lattice) Height() int { return l.height }

// Sites returns the number of lattice sites.
func (l *Lattice) Sites() int { return l.width * l.height }

func (l *Lattice) Coupling() float64 { return l.coupling }
func (l *Lattice) Field() float64    { return l.field }

func (l *Lattice) index(row, col int) int { return row*l.width + col }

// At returns the spin at (row, col).
func (l *Lattice) At(row, col int) int8 {
	return l.spins[l.index(row, col)]
}

// Spins exposes the backing slice in row-major order for rendering.
// Callers must not write through it.
func (l *Lattice) Spins() []int8 { return l.spins }

// NeighborSum returns the sum of the four nearest-neighbor spins under
// periodic wraparound. On an axis of length 2 both wrap directions reach
// the same site, so that neighbor is counted twice, matching the bond
// structure of the periodic lattice.
func (l *Lattice) NeighborSum(row, col int) int {
	up := l.spins[l.index((row+l.height-1)%l.height, col)]
	down := l.spins[l.index((row+1)%l.height, col)]
	left := l.spins[l.index(row, (col+l.width-1)%l.width)]
	right := l.spins[l.index(row, (col+1)%l.width)]
	return int(up) + int(down) + int(left) + int(right)
}

// SiteEnergy returns the energy attributable to one site,
// -J*s*neighborSum - h*s. Each bond appears in two sites' local energies;
// the global sum counts each bond once instead.
func (l *Lattice) SiteEnergy(row, col int) float64 {
	s := float64(l.At(row, col))
	return -l.coupling*s*float64(l.NeighborSum(row, col)) - l.field*s
}

// FlipDelta returns the total-energy change of flipping the spin at
// (row, col). Flipping negates the local energy contribution exactly,
// so the delta is -2 times the site energy.
func (l *Lattice) FlipDelta(row, col int) float64 {
	return -2 * l.SiteEnergy(row, col)
}

// ApplyFlip flips the spin at (row, col) and applies the supplied deltas
// to the cached totals. O(1); the hot path of every accepted move.
func (l *Lattice) ApplyFlip(row, col int, deltaEnergy float64, deltaMagnetization int) {
	i := l.index(row, col)
	l.spins[i] = -l.spins[i]
	l.energy += deltaEnergy
	l.magnetization += deltaMagnetization
}

// RecomputeTotals rebuilds the cached energy and magnetization from the
// grid. Bonds are enumerated once via each site's right and down neighbor.
func (l *Lattice) RecomputeTotals() {
	l.energy, l.magnetization = l.computeTotals()
}

func (l *Lattice) computeTotals() (float64, int) {
	bond := 0
	mag := 0
	for row := 0; row < l.height; row++ {
		for col := 0; col < l.width; col++ {
			s := int(l.spins[l.index(row, col)])
			right := int(l.spins[l.index(row, (col+1)%l.width)])
			down := int(l.spins[l.index((row+1)%l.height, col)])
			bond += s * (right + down)
			mag += s
		}
	}
	return -l.coupling*float64(bond) - l.field*float64(mag), mag
}

// TotalEnergy returns the cached total energy.
func (l *Lattice) TotalEnergy() float64 { return l.energy }

// TotalMagnetization returns the cached sum of all spins.
func (l *Lattice) TotalMagnetization() int { return l.magnetization }

// EnergyPerSite returns the cached total energy divided by the site count.
func (l *Lattice) EnergyPerSite() float64 {
	return l.energy / float64(l.Sites())
}

// MagnetizationPerSite returns the cached magnetization divided by the
// site count.
func (l *Lattice) MagnetizationPerSite() float64 {
	return float64(l.magnetization) / float64(l.Sites())
}

// CheckTotals cross-checks the cached totals against a full recomputation.
// A magnetization mismatch or an energy difference beyond tol returns
// ErrEnergyDrift; either means the incremental accounting has a bug.
func (l *Lattice) CheckTotals(tol float64) error {
	energy, mag := l.computeTotals()
	if mag != l.magnetization {
		return fmt.Errorf("%w: magnetization cache %d, recomputed %d", ErrEnergyDrift, l.magnetization, mag)
	}
	if math.Abs(energy-l.energy) > tol {
		return fmt.Errorf("%w: energy cache %g, recomputed %g", ErrEnergyDrift, l.energy, energy)
	}
	return nil
}
