// Package metrics provides standard Ising observables accumulated over
// the measurement samples of a run.
package metrics

import (
	"math"

	"github.com/san-kum/isinglab/internal/sim"
)

// AbsMagnetization accumulates <|m|> per site.
type AbsMagnetization struct {
	samples int
	sum     float64
}

func NewAbsMagnetization() *AbsMagnetization { return &AbsMagnetization{} }

func (a *AbsMagnetization) Name() string { return "abs_magnetization" }

func (a *AbsMagnetization) Observe(s sim.Sample) {
	a.sum += math.Abs(s.Magnetization)
	a.samples++
}

func (a *AbsMagnetization) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AbsMagnetization) Reset() {
	a.sum = 0
	a.samples = 0
}

// MeanEnergy accumulates <e> per site.
type MeanEnergy struct {
	samples int
	sum     float64
}

func NewMeanEnergy() *MeanEnergy { return &MeanEnergy{} }

func (m *MeanEnergy) Name() string { return "energy" }

func (m *MeanEnergy) Observe(s sim.Sample) {
	m.sum += s.Energy
	m.samples++
}

func (m *MeanEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanEnergy) Reset() {
	m.sum = 0
	m.samples = 0
}

// Susceptibility estimates chi = N*(<m^2> - <|m|>^2)/T from the per-site
// magnetization samples.
type Susceptibility struct {
	sites       int
	temperature float64
	samples     int
	sumAbs      float64
	sumSq       float64
}

func NewSusceptibility(sites int, temperature float64) *Susceptibility {
	return &Susceptibility{sites: sites, temperature: temperature}
}

func (x *Susceptibility) Name() string { return "susceptibility" }

func (x *Susceptibility) Observe(s sim.Sample) {
	x.sumAbs += math.Abs(s.Magnetization)
	x.sumSq += s.Magnetization * s.Magnetization
	x.samples++
}

func (x *Susceptibility) Value() float64 {
	if x.samples == 0 || x.temperature == 0 {
		return 0
	}
	n := float64(x.samples)
	meanAbs := x.sumAbs / n
	meanSq := x.sumSq / n
	return float64(x.sites) * (meanSq - meanAbs*meanAbs) / x.temperature
}

func (x *Susceptibility) Reset() {
	x.sumAbs = 0
	x.sumSq = 0
	x.samples = 0
}

// SpecificHeat estimates C = N*(<e^2> - <e>^2)/T^2 from the per-site
// energy samples.
type SpecificHeat struct {
	sites       int
	temperature float64
	samples     int
	sum         float64
	sumSq       float64
}

func NewSpecificHeat(sites int, temperature float64) *SpecificHeat {
	return &SpecificHeat{sites: sites, temperature: temperature}
}

func (c *SpecificHeat) Name() string { return "specific_heat" }

func (c *SpecificHeat) Observe(s sim.Sample) {
	c.sum += s.Energy
	c.sumSq += s.Energy * s.Energy
	c.samples++
}

func (c *SpecificHeat) Value() float64 {
	if c.samples == 0 || c.temperature == 0 {
		return 0
	}
	n := float64(c.samples)
	mean := c.sum / n
	meanSq := c.sumSq / n
	return float64(c.sites) * (meanSq - mean*mean) / (c.temperature * c.temperature)
}

func (c *SpecificHeat) Reset() {
	c.sum = 0
	c.sumSq = 0
	c.samples = 0
}

// BinderCumulant accumulates U = 1 - <m^4>/(3*<m^2>^2), which crosses
// between its ordered (2/3) and disordered (0) limits near the critical
// temperature.
type BinderCumulant struct {
	samples int
	sumM2   float64
	sumM4   float64
}

func NewBinderCumulant() *BinderCumulant { return &BinderCumulant{} }

func (b *BinderCumulant) Name() string { return "binder_cumulant" }

func (b *BinderCumulant) Observe(s sim.Sample) {
	m2 := s.Magnetization * s.Magnetization
	b.sumM2 += m2
	b.sumM4 += m2 * m2
	b.samples++
}

func (b *BinderCumulant) Value() float64 {
	if b.samples == 0 || b.sumM2 == 0 {
		return 0
	}
	n := float64(b.samples)
	m2 := b.sumM2 / n
	m4 := b.sumM4 / n
	return 1 - m4/(3*m2*m2)
}

func (b *BinderCumulant) Reset() {
	b.sumM2 = 0
	b.sumM4 = 0
	b.samples = 0
}

// Defaults returns the standard observable set for a run.
func Defaults(p sim.Params) []sim.Metric {
	return []sim.Metric{
		NewAbsMagnetization(),
		NewMeanEnergy(),
		NewSusceptibility(p.Sites(), p.Temperature),
		NewSpecificHeat(p.Sites(), p.Temperature),
		NewBinderCumulant(),
	}
}
