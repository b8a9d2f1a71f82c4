// Package ising provides the core primitives of a 2D Ising model
// Metropolis Monte Carlo simulation.
//
// The package defines the lattice state and the single-flip update rule:
//
//   - [Lattice]: rectangular spin grid with periodic boundary conditions
//     and cached energy/magnetization totals
//   - [TryFlip]: one Metropolis trial move at a chosen site
//
// Energies follow the standard Ising Hamiltonian
//
//	H = -J * sum_<ij> s_i s_j - h * sum_i s_i
//
// with each nearest-neighbor bond counted once and temperature expressed
// in reduced units (Boltzmann's constant absorbed). The known critical
// temperature of the square lattice at zero field, T_c ~ 2.269, holds in
// these units.
//
// # Energy Accounting
//
// The lattice keeps running energy and magnetization totals that are
// updated incrementally on every accepted flip. [Lattice.RecomputeTotals]
// rebuilds both from scratch and [Lattice.CheckTotals] cross-checks the
// caches against a fresh recomputation, which guards against drift from
// accumulated floating-point error over long runs.
//
// # Thread Safety
//
// A Lattice is NOT safe for concurrent use. Independent simulation runs
// must each own their own Lattice and random source.
package ising
