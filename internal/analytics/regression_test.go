package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitOLSKnownSeries(t *testing.T) {
	// Monthly sales 10,12,11,15 over months 1..4.
	xs := []float64{1, 2, 3, 4}
	ys := []float64{10, 12, 11, 15}

	model, ok := FitOLS(xs, ys)
	assert.True(t, ok)
	assert.InDelta(t, 1.4, model.Slope, 1e-9)
	assert.InDelta(t, 8.5, model.Intercept, 1e-9)

	// Forecast for month 5 rounds to 16 units.
	forecast := model.Predict(5)
	assert.InDelta(t, 15.5, forecast, 1e-9)
	assert.Equal(t, 16, int(math.Round(forecast)))
}

func TestFitOLSDecreasingSeriesFloorsAtZero(t *testing.T) {
	model, ok := FitOLS([]float64{1, 2, 3}, []float64{100, 50, 0})
	assert.True(t, ok)

	forecast := model.Predict(4)
	assert.Less(t, forecast, 0.0)
	// Callers floor at zero; the model itself may go negative.
	assert.GreaterOrEqual(t, math.Max(forecast, 0), 0.0)
}

func TestFitOLSDegenerateInputs(t *testing.T) {
	_, ok := FitOLS([]float64{1}, []float64{5})
	assert.False(t, ok, "single point has no trend")

	_, ok = FitOLS([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.False(t, ok, "zero x variance")

	_, ok = FitOLS(nil, nil)
	assert.False(t, ok)
}

func TestFitOLSFlatSeries(t *testing.T) {
	model, ok := FitOLS([]float64{1, 2, 3}, []float64{7, 7, 7})
	assert.True(t, ok)
	assert.InDelta(t, 0, model.Slope, 1e-9)
	assert.InDelta(t, 7, model.Predict(4), 1e-9)
}
