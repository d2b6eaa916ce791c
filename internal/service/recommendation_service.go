package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/analytics"
	"github.com/pharmaretail/dss-go/internal/domain"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

// RecommendationService scores every product with a fuzzy-AHP weighted
// composite over six inventory KPIs and persists the ranked recommendations.
type RecommendationService struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	tx        TxRunner
	now       func() time.Time
}

func NewRecommendationService(sales repository.SalesRepository, snapshots repository.SnapshotRepository, tx TxRunner) *RecommendationService {
	return &RecommendationService{sales: sales, snapshots: snapshots, tx: tx, now: time.Now}
}

func (s *RecommendationService) Run(ctx context.Context) ([]domain.RecommendationResult, error) {
	lg := logger.With("recommendations")
	started := s.now()

	aggregates, err := s.sales.RecommendationAggregates(ctx)
	if err != nil {
		return nil, err
	}
	if len(aggregates) == 0 {
		return nil, ErrNoData
	}

	weights := analytics.FAHPWeights(analytics.ProductCriteriaMatrix())

	matrix := make([][]float64, len(aggregates))
	ids := make([]int64, len(aggregates))
	results := make([]domain.RecommendationResult, len(aggregates))

	for i, agg := range aggregates {
		avgInventory := agg.StockQuantity / 2
		if avgInventory < 0.001 {
			avgInventory = 0.001
		}
		margin := 0.0
		if agg.GrossSales > 0 {
			margin = round2((agg.GrossSales - agg.COGS) / agg.GrossSales * 100)
		}
		turnover := round2(agg.COGS / avgInventory)

		row := make([]float64, analytics.CriteriaCount)
		row[analytics.CriterionTurnover] = turnover
		row[analytics.CriterionGrossSales] = agg.GrossSales
		row[analytics.CriterionGrossMargin] = margin
		row[analytics.CriterionTotalSales] = agg.TotalSales
		row[analytics.CriterionStockQuantity] = agg.StockQuantity
		row[analytics.CriterionTotalOrders] = agg.TotalOrders
		matrix[i] = row
		ids[i] = agg.ProductID

		results[i] = domain.RecommendationResult{
			ProductID:     agg.ProductID,
			ProductName:   agg.ProductName,
			TotalSales:    agg.TotalSales,
			GrossSales:    agg.GrossSales,
			COGS:          agg.COGS,
			GrossMargin:   margin,
			TurnoverRate:  turnover,
			StockQuantity: agg.StockQuantity,
			TotalOrders:   agg.TotalOrders,
		}
	}

	cost := analytics.ProductCostCriteria()
	normalized := analytics.MinMaxNormalize(matrix, cost[:])
	scores := analytics.CompositeScores(normalized, weights)
	ranks := analytics.RankDescending(scores, ids)

	snapshots := make([]domain.SmartRecommendation, len(results))
	for i := range results {
		score := round4(scores[i])
		results[i].Score = score
		results[i].FAHPScore = score
		results[i].Rank = ranks[i]

		switch {
		case ranks[i] <= 3:
			results[i].Recommendation = "Promote & Restock"
			results[i].Reason = "High demand, high profit, and low stock issues."
		case ranks[i] <= 6:
			results[i].Recommendation = "Monitor Closely"
			results[i].Reason = "Mixed KPI performance."
		default:
			results[i].Recommendation = "Low Priority"
			results[i].Reason = "Low demand because of margin issues."
		}

		snapshots[i] = domain.SmartRecommendation{
			ProductID:      results[i].ProductID,
			ProductName:    results[i].ProductName,
			TotalSales:     results[i].TotalSales,
			GrossSales:     results[i].GrossSales,
			COGS:           results[i].COGS,
			GrossMargin:    results[i].GrossMargin,
			TurnoverRate:   results[i].TurnoverRate,
			FAHPScore:      score,
			Rank:           ranks[i],
			Recommendation: results[i].Recommendation,
			Reason:         results[i].Reason,
		}
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.snapshots.UpsertSmartRecommendations(ctx, tx, snapshots)
	})
	if err != nil {
		return nil, err
	}

	lg.Info().Int("products", len(results)).Dur("elapsed", s.now().Sub(started)).Msg("recommendations run complete")
	return results, nil
}
