package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/analytics"
	"github.com/pharmaretail/dss-go/internal/domain"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

// flatUnitCost is the placeholder per-unit cost used for the seasonal
// turnover figure, which compares products against each other rather than
// reporting true COGS.
const flatUnitCost = 100.0

// SeasonalService detects high-season months per product from smoothed
// monthly sales and persists one forecast row per (product, year).
type SeasonalService struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	tx        TxRunner
	now       func() time.Time
}

func NewSeasonalService(sales repository.SalesRepository, snapshots repository.SnapshotRepository, tx TxRunner) *SeasonalService {
	return &SeasonalService{sales: sales, snapshots: snapshots, tx: tx, now: time.Now}
}

func (s *SeasonalService) Run(ctx context.Context) ([]domain.SeasonalResult, error) {
	lg := logger.With("seasonal")
	started := s.now()

	rows, err := s.sales.SalesHistory(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	monthlySales := make(map[int64]map[string]float64)
	names := make(map[int64]string)
	stocks := make(map[int64]float64)
	for _, row := range rows {
		if row.OrderDate.IsZero() {
			continue
		}
		if monthlySales[row.ProductID] == nil {
			monthlySales[row.ProductID] = make(map[string]float64)
		}
		monthlySales[row.ProductID][row.OrderDate.Format("2006-01")] += row.Quantity
		names[row.ProductID] = row.ProductName
		stocks[row.ProductID] = row.StockQuantity
	}

	productIDs := make([]int64, 0, len(monthlySales))
	for pid := range monthlySales {
		productIDs = append(productIDs, pid)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	results := make([]domain.SeasonalResult, 0, len(productIDs))
	snapshots := make([]domain.SeasonalForecast, 0, len(productIDs))

	for _, pid := range productIDs {
		byMonth := monthlySales[pid]
		months := make([]string, 0, len(byMonth))
		for m := range byMonth {
			months = append(months, m)
		}
		sort.Strings(months)

		values := make([]float64, len(months))
		for i, m := range months {
			values[i] = byMonth[m]
		}

		smoothed := analytics.CenteredMovingAverage(values, 3)
		baseline := round2(analytics.Mean(smoothed))
		predicted := math.Round(baseline)
		actual := values[len(values)-1]

		accuracy := 0.0
		if actual > 0 {
			accuracy = round2((1 - math.Abs(actual-predicted)/actual) * 100)
		}

		avgInventory := 1.0
		if stocks[pid] > 0 {
			avgInventory = stocks[pid] / 2.0
		}
		turnover := round2(sumFloat(values) * flatUnitCost / avgInventory)

		var highMonths []string
		for _, m := range months {
			if byMonth[m] > baseline*1.2 {
				highMonths = append(highMonths, m)
			}
		}

		lastMonth := parseMonth(months[len(months)-1])
		seasonType := "No Strong Seasonality"
		peak, end := lastMonth, lastMonth
		if len(highMonths) > 0 {
			peak = parseMonth(highMonths[0])
			end = parseMonth(highMonths[len(highMonths)-1])
			if len(highMonths) == 1 {
				seasonType = fmt.Sprintf("High Season (%s)", peak.Month())
			} else {
				seasonType = fmt.Sprintf("High Season (%s–%s)", peak.Month(), end.Month())
			}
		}
		preparation := parseMonth(months[0])
		year := lastMonth.Year()

		results = append(results, domain.SeasonalResult{
			ProductID:        pid,
			ProductName:      names[pid],
			Year:             year,
			SeasonType:       seasonType,
			PredictedDemand:  fmt.Sprintf("%g units", predicted),
			ActualDemand:     domain.FormatUnits(actual),
			ForecastAccuracy: domain.FormatPercent(accuracy),
			TurnoverRate:     fmt.Sprintf("%.2f times/year", turnover),
			PreparationStart: preparation.Format("2006-01-02"),
			PeakSeasonDate:   peak.Format("2006-01-02"),
			SeasonEndDate:    end.Format("2006-01-02"),
		})

		snapshots = append(snapshots, domain.SeasonalForecast{
			ProductID:        pid,
			Year:             year,
			SeasonType:       seasonType,
			PredictedDemand:  predicted,
			ActualDemand:     actual,
			ForecastAccuracy: accuracy,
			TurnoverRate:     turnover,
			PreparationStart: preparation,
			PeakSeasonDate:   peak,
			SeasonEndDate:    end,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.snapshots.UpsertSeasonalForecasts(ctx, tx, snapshots)
	})
	if err != nil {
		return nil, err
	}

	lg.Info().Int("products", len(results)).Dur("elapsed", s.now().Sub(started)).Msg("seasonal run complete")
	return results, nil
}

func parseMonth(ym string) time.Time {
	t, err := time.Parse("2006-01", ym)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sumFloat(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
