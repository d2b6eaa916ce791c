package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/domain"
)

// fakeSales serves canned fact rows to the services under test.
type fakeSales struct {
	kpis       []domain.ProductKPIRow
	stocked    []domain.StockedProduct
	monthly    []domain.MonthlySalesRow
	history    []domain.SeasonalSalesRow
	aggregates []domain.RecommendationAggregate
	lineItems  []domain.CustomerLineItem
	expiring   []domain.ExpiringProduct
	profitRows []domain.ProfitMarginRow
	err        error
}

func (f *fakeSales) ProductKPIs(ctx context.Context, since time.Time) ([]domain.ProductKPIRow, error) {
	return f.kpis, f.err
}

func (f *fakeSales) StockedProducts(ctx context.Context, since time.Time) ([]domain.StockedProduct, error) {
	return f.stocked, f.err
}

func (f *fakeSales) MonthlySales(ctx context.Context, since time.Time) ([]domain.MonthlySalesRow, error) {
	return f.monthly, f.err
}

func (f *fakeSales) SalesHistory(ctx context.Context) ([]domain.SeasonalSalesRow, error) {
	return f.history, f.err
}

func (f *fakeSales) RecommendationAggregates(ctx context.Context) ([]domain.RecommendationAggregate, error) {
	return f.aggregates, f.err
}

func (f *fakeSales) CustomerLineItems(ctx context.Context) ([]domain.CustomerLineItem, error) {
	return f.lineItems, f.err
}

func (f *fakeSales) ExpiringProducts(ctx context.Context) ([]domain.ExpiringProduct, error) {
	return f.expiring, f.err
}

func (f *fakeSales) ProfitMarginRows(ctx context.Context) ([]domain.ProfitMarginRow, error) {
	return f.profitRows, f.err
}

// fakeSnapshots records every upserted row so tests can assert on what would
// have been written.
type fakeSnapshots struct {
	accuracy map[int64]float64

	metrics         [][]domain.ProductMetricSnapshot
	restocks        [][]domain.RestockPrediction
	seasonal        [][]domain.SeasonalForecast
	recommendations [][]domain.SmartRecommendation
	patterns        [][]domain.CustomerPurchasePattern
}

func (f *fakeSnapshots) UpsertProductMetrics(ctx context.Context, tx *sqlx.Tx, rows []domain.ProductMetricSnapshot) error {
	f.metrics = append(f.metrics, rows)
	return nil
}

func (f *fakeSnapshots) UpsertRestockPredictions(ctx context.Context, tx *sqlx.Tx, rows []domain.RestockPrediction) error {
	f.restocks = append(f.restocks, rows)
	return nil
}

func (f *fakeSnapshots) UpsertSeasonalForecasts(ctx context.Context, tx *sqlx.Tx, rows []domain.SeasonalForecast) error {
	f.seasonal = append(f.seasonal, rows)
	return nil
}

func (f *fakeSnapshots) UpsertSmartRecommendations(ctx context.Context, tx *sqlx.Tx, rows []domain.SmartRecommendation) error {
	f.recommendations = append(f.recommendations, rows)
	return nil
}

func (f *fakeSnapshots) UpsertCustomerPatterns(ctx context.Context, tx *sqlx.Tx, rows []domain.CustomerPurchasePattern) error {
	f.patterns = append(f.patterns, rows)
	return nil
}

func (f *fakeSnapshots) RestockAccuracy(ctx context.Context) (map[int64]float64, error) {
	return f.accuracy, nil
}

func (f *fakeSnapshots) RestockPredictions(ctx context.Context) ([]domain.RestockPrediction, error) {
	if len(f.restocks) == 0 {
		return nil, nil
	}
	return f.restocks[len(f.restocks)-1], nil
}

func (f *fakeSnapshots) SeasonalForecasts(ctx context.Context) ([]domain.SeasonalForecast, error) {
	if len(f.seasonal) == 0 {
		return nil, nil
	}
	return f.seasonal[len(f.seasonal)-1], nil
}

func (f *fakeSnapshots) SmartRecommendations(ctx context.Context) ([]domain.SmartRecommendation, error) {
	if len(f.recommendations) == 0 {
		return nil, nil
	}
	return f.recommendations[len(f.recommendations)-1], nil
}

func (f *fakeSnapshots) CustomerPatterns(ctx context.Context) ([]domain.CustomerPurchasePattern, error) {
	if len(f.patterns) == 0 {
		return nil, nil
	}
	return f.patterns[len(f.patterns)-1], nil
}

// fakeTx runs the transaction body outside any transaction.
type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}
