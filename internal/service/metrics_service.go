package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/analytics"
	"github.com/pharmaretail/dss-go/internal/domain"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

// MetricsService computes per-product sales KPIs and demand tiers, persists
// them in profit_records and returns the full result set. Each run recomputes
// every product from the transactional tables.
type MetricsService struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	tx        TxRunner
	since     time.Time
	now       func() time.Time
}

func NewMetricsService(sales repository.SalesRepository, snapshots repository.SnapshotRepository, tx TxRunner, since time.Time) *MetricsService {
	return &MetricsService{
		sales:     sales,
		snapshots: snapshots,
		tx:        tx,
		since:     since,
		now:       time.Now,
	}
}

func (s *MetricsService) Run(ctx context.Context) ([]domain.ProductMetricResult, error) {
	lg := logger.With("kpi")
	started := s.now()

	rows, err := s.sales.ProductKPIs(ctx, s.since)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	quantities := make([]float64, len(rows))
	for i, row := range rows {
		quantities[i] = row.TotalQuantity
	}
	tiers := analytics.DemandTiers(quantities)

	results := make([]domain.ProductMetricResult, 0, len(rows))
	snapshots := make([]domain.ProductMetricSnapshot, 0, len(rows))

	for i, row := range rows {
		totalProfit := row.TotalRevenue - row.TotalCost

		margin := 0.0
		if row.TotalRevenue > 0 {
			margin = totalProfit / row.TotalRevenue * 100
		}
		if margin < 0 {
			margin = -margin
		}
		if margin > 100 {
			margin = 100
		}
		grossMargin := 0.0
		if row.TotalRevenue > 0 {
			grossMargin = totalProfit / row.TotalRevenue * 100
		}

		velocity := 0.0
		if !row.FirstSaleDate.IsZero() && !row.LastSaleDate.IsZero() {
			spanDays := row.LastSaleDate.Sub(row.FirstSaleDate).Hours() / 24
			if spanDays > 0 {
				denom := spanDays / 30.0
				if denom < 1 {
					denom = 1
				}
				velocity = round2(row.TotalQuantity / denom)
			}
		}

		daysSinceLastSale := 0
		if !row.LastSaleDate.IsZero() {
			daysSinceLastSale = int(s.now().Sub(row.LastSaleDate).Hours() / 24)
		}

		quality := "Low"
		if velocity > 10 {
			quality = "High"
		} else if velocity > 5 {
			quality = "Medium"
		}

		results = append(results, domain.ProductMetricResult{
			ProductID:         row.ProductID,
			ProductName:       row.ProductName,
			CostPrice:         domain.FormatRs(row.UnitCostPrice),
			SellingPrice:      domain.FormatRs(row.UnitSellingPrice),
			QuantitySold:      domain.FormatUnits(row.TotalQuantity),
			TotalOrders:       row.TotalOrders,
			TotalCost:         row.TotalCost,
			TotalRevenue:      row.TotalRevenue,
			TotalProfit:       totalProfit,
			ProfitMargin:      domain.FormatPercent(margin),
			GrossProfitMargin: domain.FormatPercent(grossMargin),
			SalesRevenue:      row.TotalRevenue,
			DemandLevel:       tiers[i],
			DailySales30:      domain.FormatUnits(row.DailySales30),
			WeeklySales4:      domain.FormatUnits(row.WeeklySales4),
			MonthlySales3:     domain.FormatUnits(row.MonthlySales3),
			SalesVelocity:     fmt.Sprintf("%g units/month", velocity),
			FirstSaleDate:     formatDate(row.FirstSaleDate),
			LastSaleDate:      formatDate(row.LastSaleDate),
			AvgUnitPrice:      domain.FormatRs(row.AvgUnitPrice),
			DaysSinceLastSale: daysSinceLastSale,
			DataQuality:       quality,
		})

		snapshots = append(snapshots, domain.ProductMetricSnapshot{
			ProductID:         row.ProductID,
			ProductName:       row.ProductName,
			CostPrice:         row.UnitCostPrice,
			SellingPrice:      row.UnitSellingPrice,
			ProfitMargin:      margin,
			DemandLevel:       tiers[i],
			TotalCost:         row.TotalCost,
			TotalRevenue:      row.TotalRevenue,
			TotalProfit:       totalProfit,
			GrossProfitMargin: grossMargin,
			SalesRevenue:      row.TotalRevenue,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.snapshots.UpsertProductMetrics(ctx, tx, snapshots)
	})
	if err != nil {
		return nil, err
	}

	lg.Info().Int("products", len(results)).Dur("elapsed", s.now().Sub(started)).Msg("kpi run complete")
	return results, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
