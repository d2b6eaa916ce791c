package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaretail/dss-go/internal/domain"
)

func historyRow(productID int64, name string, year int, month time.Month, qty, stock float64) domain.SeasonalSalesRow {
	return domain.SeasonalSalesRow{
		ProductID:     productID,
		ProductName:   name,
		OrderDate:     time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
		Quantity:      qty,
		StockQuantity: stock,
	}
}

func newSeasonalFixture(rows []domain.SeasonalSalesRow) (*SeasonalService, *fakeSnapshots) {
	snapshots := &fakeSnapshots{}
	svc := NewSeasonalService(&fakeSales{history: rows}, snapshots, fakeTx{})
	svc.now = fixedNow
	return svc, snapshots
}

func TestSeasonalRunNoData(t *testing.T) {
	svc, _ := newSeasonalFixture(nil)
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSeasonalSinglePeakMonth(t *testing.T) {
	rows := []domain.SeasonalSalesRow{
		historyRow(1, "Cough Syrup", 2025, time.January, 10, 40),
		historyRow(1, "Cough Syrup", 2025, time.February, 10, 40),
		historyRow(1, "Cough Syrup", 2025, time.March, 100, 40),
		historyRow(1, "Cough Syrup", 2025, time.April, 10, 40),
		historyRow(1, "Cough Syrup", 2025, time.May, 10, 40),
	}
	svc, _ := newSeasonalFixture(rows)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "High Season (March)", r.SeasonType)
	assert.Equal(t, 2025, r.Year)
	assert.Equal(t, "2025-01-01", r.PreparationStart)
	assert.Equal(t, "2025-03-01", r.PeakSeasonDate)
	assert.Equal(t, "2025-03-01", r.SeasonEndDate)
}

func TestSeasonalPeakRange(t *testing.T) {
	rows := []domain.SeasonalSalesRow{
		historyRow(1, "Antihistamine", 2025, time.January, 5, 40),
		historyRow(1, "Antihistamine", 2025, time.February, 5, 40),
		historyRow(1, "Antihistamine", 2025, time.March, 80, 40),
		historyRow(1, "Antihistamine", 2025, time.April, 90, 40),
		historyRow(1, "Antihistamine", 2025, time.May, 5, 40),
		historyRow(1, "Antihistamine", 2025, time.June, 5, 40),
	}
	svc, _ := newSeasonalFixture(rows)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "High Season (March–April)", results[0].SeasonType)
	assert.Equal(t, "2025-03-01", results[0].PeakSeasonDate)
	assert.Equal(t, "2025-04-01", results[0].SeasonEndDate)
}

func TestSeasonalNoStrongSeasonality(t *testing.T) {
	rows := []domain.SeasonalSalesRow{
		historyRow(1, "Vitamin C", 2025, time.January, 10, 40),
		historyRow(1, "Vitamin C", 2025, time.February, 11, 40),
		historyRow(1, "Vitamin C", 2025, time.March, 10, 40),
		historyRow(1, "Vitamin C", 2025, time.April, 11, 40),
		historyRow(1, "Vitamin C", 2025, time.May, 10, 40),
		historyRow(1, "Vitamin C", 2025, time.June, 11, 40),
	}
	svc, _ := newSeasonalFixture(rows)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	r := results[0]
	assert.Equal(t, "No Strong Seasonality", r.SeasonType)
	// both season dates collapse onto the last observed month
	assert.Equal(t, "2025-06-01", r.PeakSeasonDate)
	assert.Equal(t, "2025-06-01", r.SeasonEndDate)
}

func TestSeasonalAccuracyZeroWhenNoActualDemand(t *testing.T) {
	rows := []domain.SeasonalSalesRow{
		historyRow(1, "Sunscreen", 2025, time.January, 30, 40),
		historyRow(1, "Sunscreen", 2025, time.February, 20, 40),
		historyRow(1, "Sunscreen", 2025, time.March, 0, 40),
	}
	svc, snapshots := newSeasonalFixture(rows)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.00%", results[0].ForecastAccuracy)

	require.Len(t, snapshots.seasonal, 1)
	assert.Equal(t, 0.0, snapshots.seasonal[0][0].ForecastAccuracy)
}

func TestSeasonalMonthlyAggregationAcrossOrders(t *testing.T) {
	// two orders in the same month add up before smoothing
	rows := []domain.SeasonalSalesRow{
		historyRow(1, "Bandages", 2025, time.January, 10, 50),
		historyRow(1, "Bandages", 2025, time.January, 15, 50),
		historyRow(1, "Bandages", 2025, time.February, 20, 50),
		historyRow(2, "Gauze", 2025, time.January, 3, 10),
	}
	svc, snapshots := newSeasonalFixture(rows)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	// ascending product id order
	assert.Equal(t, int64(1), results[0].ProductID)
	assert.Equal(t, int64(2), results[1].ProductID)
	assert.Equal(t, 20.0, snapshots.seasonal[0][0].ActualDemand)
}
