package ising

import "errors"

// Domain errors for lattice construction and simulation runs.
var (
	// ErrInvalidDimension indicates a lattice axis below the 2-site minimum
	// required by periodic boundary conditions.
	ErrInvalidDimension = errors.New("ising: lattice dimension must be at least 2")

	// ErrInvalidParameter indicates a simulation parameter outside its valid range.
	ErrInvalidParameter = errors.New("ising: parameter out of valid range")

	// ErrEnergyDrift indicates the cached totals diverged from a full
	// recomputation, which means the incremental accounting is broken.
	ErrEnergyDrift = errors.New("ising: cached totals diverged from recomputation")
)
