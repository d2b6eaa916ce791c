package analytics

// CenteredMovingAverage smooths a series with a centered window, matching a
// "same"-mode convolution against a uniform kernel: edge positions see zero
// padding outside the series but the divisor stays the window size, so the
// ends are pulled toward zero. That bias is part of the observed baseline
// semantics and is kept deliberately.
func CenteredMovingAverage(values []float64, window int) []float64 {
	n := len(values)
	if n == 0 || window <= 0 {
		return nil
	}

	out := make([]float64, n)
	// "same" mode keeps the n middle samples of the full convolution, whose
	// leading offset is (window-1)/2.
	offset := (window - 1) / 2
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < window; j++ {
			idx := i + offset - j
			if idx >= 0 && idx < n {
				sum += values[idx]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
