package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/domain"
)

// SalesRepository reads the transactional tables (orders, order_items,
// products, users). The DSS never writes to them; their integrity belongs to
// the POS and e-commerce collaborators.
type SalesRepository interface {
	// ProductKPIs aggregates the full sales history per product since the
	// analysis start date, including 30/28/90-day rolling windows.
	ProductKPIs(ctx context.Context, since time.Time) ([]domain.ProductKPIRow, error)

	// StockedProducts lists products with at least one sale since the
	// analysis start date.
	StockedProducts(ctx context.Context, since time.Time) ([]domain.StockedProduct, error)

	// MonthlySales buckets quantities per (product, calendar month); only
	// months with at least one order event appear.
	MonthlySales(ctx context.Context, since time.Time) ([]domain.MonthlySalesRow, error)

	// SalesHistory returns every line item with its order date, for the
	// seasonal detector.
	SalesHistory(ctx context.Context) ([]domain.SeasonalSalesRow, error)

	// RecommendationAggregates returns per-product sales KPIs over all
	// products, zero-filled for products that never sold.
	RecommendationAggregates(ctx context.Context) ([]domain.RecommendationAggregate, error)

	// CustomerLineItems returns every line item attributed to a registered
	// customer; walk-in sales are excluded.
	CustomerLineItems(ctx context.Context) ([]domain.CustomerLineItem, error)

	// ExpiringProducts lists unexpired products with their trailing 30-day
	// sales, soonest expiry first.
	ExpiringProducts(ctx context.Context) ([]domain.ExpiringProduct, error)

	// ProfitMarginRows feeds the unit-wise profit margin report.
	ProfitMarginRows(ctx context.Context) ([]domain.ProfitMarginRow, error)
}

type salesRepository struct {
	db *sqlx.DB
}

func NewSalesRepository(db *sqlx.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ProductKPIs(ctx context.Context, since time.Time) ([]domain.ProductKPIRow, error) {
	query := `
		SELECT
			oi.product_id,
			p.product_name,
			p.cost_price AS unit_cost_price,
			p.price AS unit_selling_price,
			SUM(oi.quantity) AS total_quantity,
			SUM(oi.quantity * p.cost_price) AS total_cost,
			SUM(oi.quantity * oi.unit_price) AS total_revenue,
			COUNT(DISTINCT o.order_id) AS total_orders,
			MIN(o.order_date) AS first_sale_date,
			MAX(o.order_date) AS last_sale_date,
			AVG(oi.unit_price) AS avg_unit_price,
			COALESCE((
				SELECT SUM(oi2.quantity)
				FROM order_items oi2
				JOIN orders o2 ON oi2.order_id = o2.order_id
				WHERE oi2.product_id = oi.product_id
				AND o2.order_date >= CURRENT_DATE - INTERVAL '30 days'
			), 0) AS daily_sales_30,
			COALESCE((
				SELECT SUM(oi2.quantity)
				FROM order_items oi2
				JOIN orders o2 ON oi2.order_id = o2.order_id
				WHERE oi2.product_id = oi.product_id
				AND o2.order_date >= CURRENT_DATE - INTERVAL '28 days'
			), 0) AS weekly_sales_4,
			COALESCE((
				SELECT SUM(oi2.quantity)
				FROM order_items oi2
				JOIN orders o2 ON oi2.order_id = o2.order_id
				WHERE oi2.product_id = oi.product_id
				AND o2.order_date >= CURRENT_DATE - INTERVAL '90 days'
			), 0) AS monthly_sales_3
		FROM order_items oi
		JOIN products p ON oi.product_id = p.product_id
		JOIN orders o ON oi.order_id = o.order_id
		WHERE o.order_date >= $1
		GROUP BY oi.product_id, p.product_name, p.cost_price, p.price
		ORDER BY total_revenue DESC
	`

	var rows []domain.ProductKPIRow
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("error reading product KPIs: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) StockedProducts(ctx context.Context, since time.Time) ([]domain.StockedProduct, error) {
	query := `
		SELECT DISTINCT
			p.product_id,
			p.product_name,
			p.stock_quantity,
			p.cost_price,
			p.price
		FROM products p
		INNER JOIN order_items oi ON p.product_id = oi.product_id
		INNER JOIN orders o ON oi.order_id = o.order_id
		WHERE o.order_date >= $1
		ORDER BY p.product_id
	`

	var rows []domain.StockedProduct
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("error reading stocked products: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) MonthlySales(ctx context.Context, since time.Time) ([]domain.MonthlySalesRow, error) {
	query := `
		SELECT
			oi.product_id,
			to_char(o.order_date, 'YYYY-MM') AS ym,
			COALESCE(SUM(oi.quantity), 0) AS qty
		FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id
		WHERE o.order_date >= $1
		GROUP BY oi.product_id, ym
		ORDER BY oi.product_id, ym
	`

	var rows []domain.MonthlySalesRow
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("error reading monthly sales: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) SalesHistory(ctx context.Context) ([]domain.SeasonalSalesRow, error) {
	query := `
		SELECT
			p.product_id,
			p.product_name,
			o.order_date,
			oi.quantity,
			p.stock_quantity
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.order_id
		JOIN products p ON p.product_id = oi.product_id
		ORDER BY p.product_id, o.order_date
	`

	var rows []domain.SeasonalSalesRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading sales history: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) RecommendationAggregates(ctx context.Context) ([]domain.RecommendationAggregate, error) {
	query := `
		SELECT
			p.product_id,
			p.product_name,
			p.stock_quantity,
			p.cost_price,
			p.price,
			COALESCE(SUM(oi.quantity), 0) AS total_sales,
			COALESCE(SUM(oi.unit_price * oi.quantity), 0) AS gross_sales,
			COALESCE(SUM(oi.quantity * p.cost_price), 0) AS cogs,
			COUNT(DISTINCT o.order_id) AS total_orders
		FROM products p
		LEFT JOIN order_items oi ON p.product_id = oi.product_id
		LEFT JOIN orders o ON oi.order_id = o.order_id
		GROUP BY p.product_id, p.product_name, p.stock_quantity, p.cost_price, p.price
		ORDER BY gross_sales DESC
	`

	var rows []domain.RecommendationAggregate
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading recommendation aggregates: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) CustomerLineItems(ctx context.Context) ([]domain.CustomerLineItem, error) {
	query := `
		SELECT
			o.customer_id,
			oi.product_id,
			p.product_name,
			oi.quantity,
			oi.unit_price,
			p.cost_price,
			o.order_date
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.order_id
		JOIN products p ON oi.product_id = p.product_id
		WHERE o.customer_id IS NOT NULL
		ORDER BY o.customer_id, o.order_date
	`

	var rows []domain.CustomerLineItem
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading customer line items: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) ExpiringProducts(ctx context.Context) ([]domain.ExpiringProduct, error) {
	query := `
		SELECT
			p.product_id,
			p.product_name,
			p.expiry_date,
			p.stock_quantity,
			COALESCE(p.image_path, '') AS image_path,
			COALESCE((
				SELECT SUM(oi.quantity)
				FROM order_items oi
				JOIN orders o ON oi.order_id = o.order_id
				WHERE oi.product_id = p.product_id
				AND o.order_date >= CURRENT_DATE - INTERVAL '30 days'
			), 0) AS recent_sales
		FROM products p
		WHERE p.expiry_date > CURRENT_DATE
		ORDER BY p.expiry_date ASC
	`

	var rows []domain.ExpiringProduct
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading expiring products: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) ProfitMarginRows(ctx context.Context) ([]domain.ProfitMarginRow, error) {
	query := `
		SELECT
			p.product_id,
			p.product_name,
			COALESCE(p.dosage_form, 'Unit') AS unit_type,
			COALESCE(p.cost_price, 0) AS unit_cost,
			COALESCE(AVG(oi.unit_price), p.price, 0) AS unit_price,
			COALESCE(SUM(oi.quantity), 0) AS qty_sold
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.product_id
		GROUP BY p.product_id, p.product_name, p.dosage_form, p.cost_price, p.price
		ORDER BY p.product_name ASC
	`

	var rows []domain.ProfitMarginRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error reading profit margin rows: %w", err)
	}
	return rows, nil
}
