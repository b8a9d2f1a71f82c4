package ising

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewUniform(t *testing.T) {
	lat, err := New(4, 4, 1.0, 0.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if lat.At(row, col) != 1 {
				t.Errorf("spin (%d,%d) = %d, want 1", row, col, lat.At(row, col))
			}
		}
	}

	if lat.TotalMagnetization() != 16 {
		t.Errorf("magnetization = %d, want 16", lat.TotalMagnetization())
	}

	// All-up square lattice: 2 bonds per site, each contributing -J.
	if math.Abs(lat.TotalEnergy()-(-32.0)) > 1e-12 {
		t.Errorf("energy = %f, want -32", lat.TotalEnergy())
	}
}

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"one column", 1, 4},
		{"one row", 4, 1},
		{"negative", -2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height, 1.0, 0.0)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("expected ErrInvalidDimension, got %v", err)
			}
		})
	}
}

func TestNewRandomUpProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	_, err := NewRandom(4, 4, 1.0, 0.0, 1.5, rng)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for prob > 1, got %v", err)
	}

	lat, err := NewRandom(8, 8, 1.0, 0.0, 1.0, rng)
	if err != nil {
		t.Fatalf("new random failed: %v", err)
	}
	if lat.TotalMagnetization() != 64 {
		t.Errorf("prob 1.0 should give all-up, magnetization = %d", lat.TotalMagnetization())
	}

	lat, err = NewRandom(8, 8, 1.0, 0.0, 0.0, rng)
	if err != nil {
		t.Fatalf("new random failed: %v", err)
	}
	if lat.TotalMagnetization() != -64 {
		t.Errorf("prob 0.0 should give all-down, magnetization = %d", lat.TotalMagnetization())
	}
}

func TestNeighborSum2x2(t *testing.T) {
	// On a 2x2 periodic lattice both wrap directions reach the same site,
	// so each orthogonal partner is counted twice and the diagonal site
	// never contributes.
	lat, err := New(2, 2, 1.0, 0.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	lat.spins[lat.index(0, 0)] = 1
	lat.spins[lat.index(0, 1)] = 1
	lat.spins[lat.index(1, 0)] = -1
	lat.spins[lat.index(1, 1)] = -1

	tests := []struct {
		row, col int
		want     int
	}{
		{0, 0, 0},  // 2*(0,1) + 2*(1,0) = 2 - 2
		{0, 1, 0},  // 2*(0,0) + 2*(1,1) = 2 - 2
		{1, 0, 0},  // 2*(1,1) + 2*(0,0) = -2 + 2
		{1, 1, 0},  // 2*(1,0) + 2*(0,1) = -2 + 2
	}
	for _, tt := range tests {
		if got := lat.NeighborSum(tt.row, tt.col); got != tt.want {
			t.Errorf("NeighborSum(%d,%d) = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}

	// Flipping the diagonal partner must not change a site's neighbor sum.
	before := lat.NeighborSum(0, 0)
	lat.spins[lat.index(1, 1)] = 1
	if got := lat.NeighborSum(0, 0); got != before {
		t.Errorf("diagonal site leaked into NeighborSum: %d != %d", got, before)
	}

	// Flipping an orthogonal partner changes it by twice the spin delta.
	lat.spins[lat.index(0, 1)] = -1
	if got := lat.NeighborSum(0, 0); got != before-4 {
		t.Errorf("wrapped neighbor not counted twice: got %d, want %d", got, before-4)
	}
}

func TestNeighborSumWraparound(t *testing.T) {
	lat, err := New(3, 3, 1.0, 0.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	for i := range lat.spins {
		lat.spins[i] = -1
	}
	// Corner site: neighbors of (0,0) are (2,0), (1,0), (0,2), (0,1).
	lat.spins[lat.index(2, 0)] = 1
	lat.spins[lat.index(0, 2)] = 1

	if got := lat.NeighborSum(0, 0); got != 0 {
		t.Errorf("NeighborSum(0,0) = %d, want 0", got)
	}
}

func TestFlipDeltaMatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	lat, err := NewRandom(6, 5, 1.2, 0.3, 0.5, rng)
	if err != nil {
		t.Fatalf("new random failed: %v", err)
	}

	for i := 0; i < 200; i++ {
		row := rng.Intn(lat.Height())
		col := rng.Intn(lat.Width())

		before := lat.TotalEnergy()
		delta := lat.FlipDelta(row, col)
		lat.ApplyFlip(row, col, delta, -2*int(lat.At(row, col)))

		energy, _ := lat.computeTotals()
		if math.Abs(lat.TotalEnergy()-energy) > 1e-9 {
			t.Fatalf("flip %d: incremental energy %f, recomputed %f (delta %f from %f)",
				i, lat.TotalEnergy(), energy, delta, before)
		}
		if err := lat.CheckTotals(1e-9); err != nil {
			t.Fatalf("flip %d: %v", i, err)
		}
	}
}

func TestApplyFlipMagnetization(t *testing.T) {
	lat, err := New(4, 4, 1.0, 0.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	lat.ApplyFlip(1, 2, lat.FlipDelta(1, 2), -2*int(lat.At(1, 2)))
	if lat.TotalMagnetization() != 14 {
		t.Errorf("magnetization after one flip = %d, want 14", lat.TotalMagnetization())
	}
	if lat.At(1, 2) != -1 {
		t.Errorf("spin not flipped")
	}

	lat.ApplyFlip(1, 2, lat.FlipDelta(1, 2), -2*int(lat.At(1, 2)))
	if lat.TotalMagnetization() != 16 {
		t.Errorf("magnetization after flip back = %d, want 16", lat.TotalMagnetization())
	}
}

func TestPerSiteReads(t *testing.T) {
	lat, err := New(4, 5, 1.0, 0.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	if lat.Sites() != 20 {
		t.Errorf("sites = %d, want 20", lat.Sites())
	}
	if lat.MagnetizationPerSite() != 1.0 {
		t.Errorf("magnetization per site = %f, want 1", lat.MagnetizationPerSite())
	}
	if math.Abs(lat.EnergyPerSite()-(-2.0)) > 1e-12 {
		t.Errorf("energy per site = %f, want -2", lat.EnergyPerSite())
	}
}

func TestCheckTotalsDetectsCorruption(t *testing.T) {
	lat, err := New(4, 4, 1.0, 0.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	if err := lat.CheckTotals(1e-9); err != nil {
		t.Fatalf("fresh lattice should pass: %v", err)
	}

	lat.energy += 0.5
	if err := lat.CheckTotals(1e-9); !errors.Is(err, ErrEnergyDrift) {
		t.Errorf("expected ErrEnergyDrift for corrupted energy, got %v", err)
	}
	lat.RecomputeTotals()

	lat.magnetization++
	if err := lat.CheckTotals(1e-9); !errors.Is(err, ErrEnergyDrift) {
		t.Errorf("expected ErrEnergyDrift for corrupted magnetization, got %v", err)
	}
}

func TestFieldTerm(t *testing.T) {
	// All-up 3x3 with h=0.5: E = -J*2N - h*N = -18 - 4.5.
	lat, err := New(3, 3, 1.0, 0.5)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if math.Abs(lat.TotalEnergy()-(-22.5)) > 1e-12 {
		t.Errorf("energy = %f, want -22.5", lat.TotalEnergy())
	}

	// Flipping against the field costs 2h on top of the bond cost.
	delta := lat.FlipDelta(0, 0)
	if math.Abs(delta-(8.0+1.0)) > 1e-12 {
		t.Errorf("flip delta = %f, want 9", delta)
	}
}
