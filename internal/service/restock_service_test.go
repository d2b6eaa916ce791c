package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaretail/dss-go/internal/domain"
)

func monthlySeries(productID int64, quantities ...float64) []domain.MonthlySalesRow {
	rows := make([]domain.MonthlySalesRow, len(quantities))
	for i, q := range quantities {
		rows[i] = domain.MonthlySalesRow{
			ProductID: productID,
			Month:     time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Quantity:  q,
		}
	}
	return rows
}

func newRestockFixture(sales *fakeSales, snapshots *fakeSnapshots, seed int64) *RestockService {
	svc := NewRestockService(sales, snapshots, fakeTx{}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rand.New(rand.NewSource(seed)))
	svc.now = fixedNow
	return svc
}

func TestRestockRunNoData(t *testing.T) {
	svc := newRestockFixture(&fakeSales{}, &fakeSnapshots{}, 1)
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRestockForecastFromTrend(t *testing.T) {
	sales := &fakeSales{
		stocked: []domain.StockedProduct{
			{ProductID: 1, ProductName: "Paracetamol", StockQuantity: 20, CostPrice: 10, Price: 40},
		},
		monthly: monthlySeries(1, 10, 12, 11, 15),
	}
	snapshots := &fakeSnapshots{accuracy: map[int64]float64{1: 85}}
	svc := newRestockFixture(sales, snapshots, 7)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, 16, r.ForecastNextMonth)
	assert.Equal(t, 16, r.RecommendedQuantity)
	assert.InDelta(t, 0.53, r.AvgDailyDemand, 0.001)
	assert.Equal(t, 0.85, r.ForecastAccuracy)
	assert.Equal(t, 4, r.MonthsOfHistory)
	assert.Equal(t, "Medium", r.Confidence)
	// 16 units at 30 profit each
	assert.Equal(t, 480.0, r.ExpectedProfit)
}

func TestRestockDecliningSeriesFloorsForecast(t *testing.T) {
	sales := &fakeSales{
		stocked: []domain.StockedProduct{
			{ProductID: 1, ProductName: "Paracetamol", StockQuantity: 30, CostPrice: 10, Price: 15},
		},
		monthly: monthlySeries(1, 50, 30, 10, 1),
	}
	snapshots := &fakeSnapshots{accuracy: map[int64]float64{1: 70}}
	svc := newRestockFixture(sales, snapshots, 7)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, results[0].ForecastNextMonth)
	// quantity never drops below one unit
	assert.Equal(t, 1, results[0].RecommendedQuantity)
	// demand falls back to stock-based estimate
	assert.Equal(t, 1.0, results[0].AvgDailyDemand)
}

func TestRestockAccuracyFallbackRange(t *testing.T) {
	sales := &fakeSales{
		stocked: []domain.StockedProduct{
			{ProductID: 9, ProductName: "New Product", StockQuantity: 10, CostPrice: 5, Price: 8},
		},
	}
	svc := newRestockFixture(sales, &fakeSnapshots{}, 42)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	acc := results[0].ForecastAccuracy
	assert.GreaterOrEqual(t, acc, 0.50)
	assert.LessOrEqual(t, acc, 0.70)
}

func TestRestockDeterministicUnderSeededRand(t *testing.T) {
	build := func() *RestockService {
		sales := &fakeSales{
			stocked: []domain.StockedProduct{
				{ProductID: 1, ProductName: "A", StockQuantity: 20, CostPrice: 10, Price: 40},
				{ProductID: 2, ProductName: "B", StockQuantity: 5, CostPrice: 2, Price: 3},
			},
			monthly: append(monthlySeries(1, 10, 12, 11, 15), monthlySeries(2, 3, 4)...),
		}
		return newRestockFixture(sales, &fakeSnapshots{accuracy: map[int64]float64{1: 80}}, 99)
	}

	first, err := build().Run(context.Background())
	require.NoError(t, err)
	second, err := build().Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRestockSortedByForecastDescending(t *testing.T) {
	sales := &fakeSales{
		stocked: []domain.StockedProduct{
			{ProductID: 1, ProductName: "A", StockQuantity: 20, CostPrice: 10, Price: 40},
			{ProductID: 2, ProductName: "B", StockQuantity: 20, CostPrice: 10, Price: 40},
		},
		monthly: append(monthlySeries(1, 1, 2), monthlySeries(2, 40, 50)...),
	}
	snapshots := &fakeSnapshots{accuracy: map[int64]float64{1: 60, 2: 60}}
	svc := newRestockFixture(sales, snapshots, 3)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].ProductID)
	assert.GreaterOrEqual(t, results[0].ForecastNextMonth, results[1].ForecastNextMonth)
}

func TestRestockUpsertRowsMatchResults(t *testing.T) {
	sales := &fakeSales{
		stocked: []domain.StockedProduct{
			{ProductID: 1, ProductName: "A", StockQuantity: 20, CostPrice: 10, Price: 40},
		},
		monthly: monthlySeries(1, 10, 12, 11, 15),
	}
	snapshots := &fakeSnapshots{accuracy: map[int64]float64{1: 85}}
	svc := newRestockFixture(sales, snapshots, 7)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshots.restocks, 1)
	require.Len(t, snapshots.restocks[0], 1)
	row := snapshots.restocks[0][0]
	assert.Equal(t, int64(1), row.ProductID)
	assert.Equal(t, 16, row.RecommendedQuantity)
	// stored accuracy stays on the percent scale
	assert.Equal(t, 85.0, row.ForecastAccuracy)
}
