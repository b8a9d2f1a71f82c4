package ising

import (
	"math"
	"math/rand"
)

// TryFlip proposes flipping the spin at (row, col) and applies the
// Metropolis acceptance rule at the given reduced temperature. Moves that
// lower the energy (or leave it unchanged) are always taken; uphill moves
// are taken with probability exp(-deltaE/T) against one uniform draw from
// rng. A temperature of exactly zero is the deterministic strict-descent
// limit: uphill moves are rejected outright, never divided by.
//
// Returns true if the flip was applied.
func TryFlip(lat *Lattice, row, col int, temperature float64, rng *rand.Rand) bool {
	delta := lat.FlipDelta(row, col)

	if delta > 0 {
		if temperature == 0 {
			return false
		}
		if rng.Float64() >= math.Exp(-delta/temperature) {
			return false
		}
	}

	lat.ApplyFlip(row, col, delta, -2*int(lat.At(row, col)))
	return true
}
