package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/domain"
)

// SnapshotRepository owns the five DSS snapshot tables. Every table is
// overwritten keyed by its identity on each run (no history); upserts run
// inside the caller's transaction so a failed job leaves nothing behind.
type SnapshotRepository interface {
	UpsertProductMetrics(ctx context.Context, tx *sqlx.Tx, rows []domain.ProductMetricSnapshot) error
	UpsertRestockPredictions(ctx context.Context, tx *sqlx.Tx, rows []domain.RestockPrediction) error
	UpsertSeasonalForecasts(ctx context.Context, tx *sqlx.Tx, rows []domain.SeasonalForecast) error
	UpsertSmartRecommendations(ctx context.Context, tx *sqlx.Tx, rows []domain.SmartRecommendation) error
	UpsertCustomerPatterns(ctx context.Context, tx *sqlx.Tx, rows []domain.CustomerPurchasePattern) error

	// RestockAccuracy compares previously recommended quantities against the
	// actual sales of the trailing three months, per product, clamped to
	// [50,99]. Products with no prior prediction are absent from the map.
	RestockAccuracy(ctx context.Context) (map[int64]float64, error)

	// Readbacks for report generation.
	RestockPredictions(ctx context.Context) ([]domain.RestockPrediction, error)
	SeasonalForecasts(ctx context.Context) ([]domain.SeasonalForecast, error)
	SmartRecommendations(ctx context.Context) ([]domain.SmartRecommendation, error)
	CustomerPatterns(ctx context.Context) ([]domain.CustomerPurchasePattern, error)
}

type snapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) UpsertProductMetrics(ctx context.Context, tx *sqlx.Tx, rows []domain.ProductMetricSnapshot) error {
	query := `
		INSERT INTO profit_records
			(product_id, product_name, cost_price, selling_price, profit_margin, demand_level,
			 total_cost, total_revenue, total_profit, gross_profit_margin, sales_revenue)
		VALUES
			(:product_id, :product_name, :cost_price, :selling_price, :profit_margin, :demand_level,
			 :total_cost, :total_revenue, :total_profit, :gross_profit_margin, :sales_revenue)
		ON CONFLICT (product_id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			cost_price = EXCLUDED.cost_price,
			selling_price = EXCLUDED.selling_price,
			profit_margin = EXCLUDED.profit_margin,
			demand_level = EXCLUDED.demand_level,
			total_cost = EXCLUDED.total_cost,
			total_revenue = EXCLUDED.total_revenue,
			total_profit = EXCLUDED.total_profit,
			gross_profit_margin = EXCLUDED.gross_profit_margin,
			sales_revenue = EXCLUDED.sales_revenue
	`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("error upserting profit record for product %d: %w", row.ProductID, err)
		}
	}
	return nil
}

func (r *snapshotRepository) UpsertRestockPredictions(ctx context.Context, tx *sqlx.Tx, rows []domain.RestockPrediction) error {
	query := `
		INSERT INTO restock_prediction
			(product_id, prediction_date, current_stock, predicted_restock_date,
			 recommended_quantity, turnover_rate, days_on_hand, forecast_accuracy)
		VALUES
			(:product_id, :prediction_date, :current_stock, :predicted_restock_date,
			 :recommended_quantity, :turnover_rate, :days_on_hand, :forecast_accuracy)
		ON CONFLICT (product_id) DO UPDATE SET
			prediction_date = EXCLUDED.prediction_date,
			current_stock = EXCLUDED.current_stock,
			predicted_restock_date = EXCLUDED.predicted_restock_date,
			recommended_quantity = EXCLUDED.recommended_quantity,
			turnover_rate = EXCLUDED.turnover_rate,
			days_on_hand = EXCLUDED.days_on_hand,
			forecast_accuracy = EXCLUDED.forecast_accuracy
	`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("error upserting restock prediction for product %d: %w", row.ProductID, err)
		}
	}
	return nil
}

func (r *snapshotRepository) UpsertSeasonalForecasts(ctx context.Context, tx *sqlx.Tx, rows []domain.SeasonalForecast) error {
	query := `
		INSERT INTO seasonal_forecasts
			(product_id, year, season_type, predicted_demand, actual_demand, forecast_accuracy,
			 inventory_turnover_rate, preparation_start_date, peak_season_date, season_end_date)
		VALUES
			(:product_id, :year, :season_type, :predicted_demand, :actual_demand, :forecast_accuracy,
			 :inventory_turnover_rate, :preparation_start_date, :peak_season_date, :season_end_date)
		ON CONFLICT (product_id, year) DO UPDATE SET
			season_type = EXCLUDED.season_type,
			predicted_demand = EXCLUDED.predicted_demand,
			actual_demand = EXCLUDED.actual_demand,
			forecast_accuracy = EXCLUDED.forecast_accuracy,
			inventory_turnover_rate = EXCLUDED.inventory_turnover_rate,
			preparation_start_date = EXCLUDED.preparation_start_date,
			peak_season_date = EXCLUDED.peak_season_date,
			season_end_date = EXCLUDED.season_end_date
	`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("error upserting seasonal forecast for product %d: %w", row.ProductID, err)
		}
	}
	return nil
}

func (r *snapshotRepository) UpsertSmartRecommendations(ctx context.Context, tx *sqlx.Tx, rows []domain.SmartRecommendation) error {
	query := `
		INSERT INTO smart_recommendations
			(product_id, product_name, total_sales, gross_sales, cogs, gross_margin,
			 inventory_turnover_rate, fahp_score, rank, recommendation, reason)
		VALUES
			(:product_id, :product_name, :total_sales, :gross_sales, :cogs, :gross_margin,
			 :inventory_turnover_rate, :fahp_score, :rank, :recommendation, :reason)
		ON CONFLICT (product_id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			total_sales = EXCLUDED.total_sales,
			gross_sales = EXCLUDED.gross_sales,
			cogs = EXCLUDED.cogs,
			gross_margin = EXCLUDED.gross_margin,
			inventory_turnover_rate = EXCLUDED.inventory_turnover_rate,
			fahp_score = EXCLUDED.fahp_score,
			rank = EXCLUDED.rank,
			recommendation = EXCLUDED.recommendation,
			reason = EXCLUDED.reason
	`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("error upserting smart recommendation for product %d: %w", row.ProductID, err)
		}
	}
	return nil
}

func (r *snapshotRepository) UpsertCustomerPatterns(ctx context.Context, tx *sqlx.Tx, rows []domain.CustomerPurchasePattern) error {
	query := `
		INSERT INTO customer_purchase_patterns
			(customer_id, customer_seq, product_id, product_name, total_quantity_purchased,
			 product_sales, gross_margin, inventory_turnover_rate,
			 fahp_score, purchase_frequency, next_predicted_purchase_date, confidence_score)
		VALUES
			(:customer_id, :customer_seq, :product_id, :product_name, :total_quantity_purchased,
			 :product_sales, :gross_margin, :inventory_turnover_rate,
			 :fahp_score, :purchase_frequency, :next_predicted_purchase_date, :confidence_score)
		ON CONFLICT (customer_id, customer_seq) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			product_name = EXCLUDED.product_name,
			total_quantity_purchased = EXCLUDED.total_quantity_purchased,
			product_sales = EXCLUDED.product_sales,
			gross_margin = EXCLUDED.gross_margin,
			inventory_turnover_rate = EXCLUDED.inventory_turnover_rate,
			fahp_score = EXCLUDED.fahp_score,
			purchase_frequency = EXCLUDED.purchase_frequency,
			next_predicted_purchase_date = EXCLUDED.next_predicted_purchase_date,
			confidence_score = EXCLUDED.confidence_score
	`
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("error upserting purchase pattern for customer %d: %w", row.CustomerID, err)
		}
	}
	return nil
}

func (r *snapshotRepository) RestockAccuracy(ctx context.Context) (map[int64]float64, error) {
	query := `
		SELECT
			r.product_id,
			AVG(LEAST(GREATEST(
				100 - ABS((COALESCE(oi.qty, 0) - r.recommended_quantity) * 100.0 / GREATEST(oi.qty, 1)),
				50
			), 99)) AS accuracy
		FROM restock_prediction r
		LEFT JOIN (
			SELECT product_id, SUM(quantity) AS qty
			FROM order_items
			WHERE order_id IN (
				SELECT order_id FROM orders
				WHERE order_date >= CURRENT_DATE - INTERVAL '3 months'
			)
			GROUP BY product_id
		) oi ON r.product_id = oi.product_id
		GROUP BY r.product_id
	`

	var rows []struct {
		ProductID int64   `db:"product_id"`
		Accuracy  float64 `db:"accuracy"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading restock accuracy: %w", err)
	}

	accuracy := make(map[int64]float64, len(rows))
	for _, row := range rows {
		accuracy[row.ProductID] = row.Accuracy
	}
	return accuracy, nil
}

func (r *snapshotRepository) RestockPredictions(ctx context.Context) ([]domain.RestockPrediction, error) {
	query := `
		SELECT product_id, prediction_date, current_stock, predicted_restock_date,
		       recommended_quantity, turnover_rate, days_on_hand, forecast_accuracy
		FROM restock_prediction
		ORDER BY product_id
	`
	var rows []domain.RestockPrediction
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading restock predictions: %w", err)
	}
	return rows, nil
}

func (r *snapshotRepository) SeasonalForecasts(ctx context.Context) ([]domain.SeasonalForecast, error) {
	query := `
		SELECT product_id, year, season_type, predicted_demand, actual_demand, forecast_accuracy,
		       inventory_turnover_rate, preparation_start_date, peak_season_date, season_end_date
		FROM seasonal_forecasts
		ORDER BY year DESC, peak_season_date DESC
	`
	var rows []domain.SeasonalForecast
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading seasonal forecasts: %w", err)
	}
	return rows, nil
}

func (r *snapshotRepository) SmartRecommendations(ctx context.Context) ([]domain.SmartRecommendation, error) {
	query := `
		SELECT product_id, product_name, total_sales, gross_sales, cogs, gross_margin,
		       inventory_turnover_rate, fahp_score, rank, recommendation, reason
		FROM smart_recommendations
		ORDER BY rank ASC, gross_margin DESC
	`
	var rows []domain.SmartRecommendation
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading smart recommendations: %w", err)
	}
	return rows, nil
}

func (r *snapshotRepository) CustomerPatterns(ctx context.Context) ([]domain.CustomerPurchasePattern, error) {
	query := `
		SELECT customer_id, customer_seq, product_id, product_name, total_quantity_purchased,
		       product_sales, gross_margin, inventory_turnover_rate,
		       fahp_score, purchase_frequency, next_predicted_purchase_date, confidence_score
		FROM customer_purchase_patterns
		ORDER BY next_predicted_purchase_date DESC
	`
	var rows []domain.CustomerPurchasePattern
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading customer patterns: %w", err)
	}
	return rows, nil
}
