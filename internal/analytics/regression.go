package analytics

// LinearModel is an ordinary least-squares fit of y on x.
type LinearModel struct {
	Intercept float64
	Slope     float64
}

// FitOLS fits y = intercept + slope*x by least squares. It returns ok=false
// when fewer than two points are given or x carries no variance; callers fall
// back to their documented defaults in that case rather than erroring.
func FitOLS(xs, ys []float64) (LinearModel, bool) {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return LinearModel{}, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return LinearModel{}, false
	}

	slope := sxy / sxx
	return LinearModel{
		Intercept: meanY - slope*meanX,
		Slope:     slope,
	}, true
}

// Predict evaluates the model at x.
func (m LinearModel) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}
