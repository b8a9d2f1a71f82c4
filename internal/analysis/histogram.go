// Package analysis provides statistical tools for magnetization series
// and distributions: histogram binning and autocorrelation estimates.
package analysis

// Histogram bins a set of values over their observed range.
type Histogram struct {
	Min      float64
	Max      float64
	BinWidth float64
	Counts   []int
	Total    int
}

// NewHistogram bins values into the given number of equal-width bins
// spanning [min, max]. Values at the upper edge land in the last bin.
func NewHistogram(values []float64, bins int) Histogram {
	if bins < 1 || len(values) == 0 {
		return Histogram{}
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		// Degenerate range; widen so every value lands in one bin.
		min -= 0.5
		max += 0.5
	}

	h := Histogram{
		Min:      min,
		Max:      max,
		BinWidth: (max - min) / float64(bins),
		Counts:   make([]int, bins),
		Total:    len(values),
	}
	for _, v := range values {
		i := int((v - min) / h.BinWidth)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}
	return h
}

// Normalized returns the fraction of values per bin.
func (h Histogram) Normalized() []float64 {
	out := make([]float64, len(h.Counts))
	if h.Total == 0 {
		return out
	}
	for i, c := range h.Counts {
		out[i] = float64(c) / float64(h.Total)
	}
	return out
}

// Centers returns the midpoint value of each bin.
func (h Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = h.Min + (float64(i)+0.5)*h.BinWidth
	}
	return out
}
