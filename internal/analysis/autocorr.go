package analysis

// Autocorrelation returns the normalized autocorrelation function of the
// series for lags 0..maxLag. Lag 0 is 1 by construction; a constant
// series has zero correlation at every positive lag.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if n == 0 || maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	c0 := 0.0
	for _, v := range series {
		d := v - mean
		c0 += d * d
	}

	rho := make([]float64, maxLag+1)
	rho[0] = 1
	if c0 == 0 {
		return rho
	}

	for lag := 1; lag <= maxLag; lag++ {
		c := 0.0
		for i := 0; i < n-lag; i++ {
			c += (series[i] - mean) * (series[i+lag] - mean)
		}
		rho[lag] = c / c0
	}
	return rho
}

// IntegratedAutocorrTime estimates the integrated autocorrelation time
// tau = 1/2 + sum of the autocorrelation function, summed until it first
// drops to zero or below. An uncorrelated series gives 1/2, in units of
// sweeps; roughly 2*tau consecutive samples carry one independent
// measurement.
func IntegratedAutocorrTime(series []float64) float64 {
	rho := Autocorrelation(series, len(series)/2)
	tau := 0.5
	for lag := 1; lag < len(rho); lag++ {
		if rho[lag] <= 0 {
			break
		}
		tau += rho[lag]
	}
	return tau
}
