package domain

import "time"

// ProductKPIRow is one product's aggregated sales history as read from the
// transactional tables. It is derived on the fly by joining order items
// against orders and products; nothing in this shape is persisted.
type ProductKPIRow struct {
	ProductID        int64     `db:"product_id"`
	ProductName      string    `db:"product_name"`
	UnitCostPrice    float64   `db:"unit_cost_price"`
	UnitSellingPrice float64   `db:"unit_selling_price"`
	TotalQuantity    float64   `db:"total_quantity"`
	TotalCost        float64   `db:"total_cost"`
	TotalRevenue     float64   `db:"total_revenue"`
	TotalOrders      int       `db:"total_orders"`
	FirstSaleDate    time.Time `db:"first_sale_date"`
	LastSaleDate     time.Time `db:"last_sale_date"`
	AvgUnitPrice     float64   `db:"avg_unit_price"`
	DailySales30     float64   `db:"daily_sales_30"`
	WeeklySales4     float64   `db:"weekly_sales_4"`
	MonthlySales3    float64   `db:"monthly_sales_3"`
}

// ProductMetricSnapshot is the per-product row upserted into profit_records.
// It is recomputed wholesale every run; no historical versions are kept.
type ProductMetricSnapshot struct {
	ProductID         int64   `db:"product_id"`
	ProductName       string  `db:"product_name"`
	CostPrice         float64 `db:"cost_price"`
	SellingPrice      float64 `db:"selling_price"`
	ProfitMargin      float64 `db:"profit_margin"`
	DemandLevel       string  `db:"demand_level"`
	TotalCost         float64 `db:"total_cost"`
	TotalRevenue      float64 `db:"total_revenue"`
	TotalProfit       float64 `db:"total_profit"`
	GrossProfitMargin float64 `db:"gross_profit_margin"`
	SalesRevenue      float64 `db:"sales_revenue"`
}

// StockedProduct is a product that has at least one sale on record.
type StockedProduct struct {
	ProductID     int64   `db:"product_id"`
	ProductName   string  `db:"product_name"`
	StockQuantity float64 `db:"stock_quantity"`
	CostPrice     float64 `db:"cost_price"`
	Price         float64 `db:"price"`
}

// MonthlySalesRow is one (product, calendar month) quantity bucket. Month is
// formatted YYYY-MM; only months with at least one order event appear.
type MonthlySalesRow struct {
	ProductID int64   `db:"product_id"`
	Month     string  `db:"ym"`
	Quantity  float64 `db:"qty"`
}

// RestockPrediction is the per-product row upserted into restock_prediction.
type RestockPrediction struct {
	ProductID           int64     `db:"product_id"`
	PredictionDate      time.Time `db:"prediction_date"`
	CurrentStock        float64   `db:"current_stock"`
	PredictedRestockAt  time.Time `db:"predicted_restock_date"`
	RecommendedQuantity int       `db:"recommended_quantity"`
	TurnoverRate        float64   `db:"turnover_rate"`
	DaysOnHand          float64   `db:"days_on_hand"`
	ForecastAccuracy    float64   `db:"forecast_accuracy"`
}

// SeasonalSalesRow is one raw line item with its order date, used to build
// the per-product monthly series for seasonal detection.
type SeasonalSalesRow struct {
	ProductID     int64     `db:"product_id"`
	ProductName   string    `db:"product_name"`
	OrderDate     time.Time `db:"order_date"`
	Quantity      float64   `db:"quantity"`
	StockQuantity float64   `db:"stock_quantity"`
}

// SeasonalForecast is the per-(product, year) row upserted into
// seasonal_forecasts.
type SeasonalForecast struct {
	ProductID        int64     `db:"product_id"`
	Year             int       `db:"year"`
	SeasonType       string    `db:"season_type"`
	PredictedDemand  float64   `db:"predicted_demand"`
	ActualDemand     float64   `db:"actual_demand"`
	ForecastAccuracy float64   `db:"forecast_accuracy"`
	TurnoverRate     float64   `db:"inventory_turnover_rate"`
	PreparationStart time.Time `db:"preparation_start_date"`
	PeakSeasonDate   time.Time `db:"peak_season_date"`
	SeasonEndDate    time.Time `db:"season_end_date"`
}

// RecommendationAggregate is the raw per-product KPI row feeding the FAHP
// decision matrix. Products without any sale appear with zero aggregates.
type RecommendationAggregate struct {
	ProductID     int64   `db:"product_id"`
	ProductName   string  `db:"product_name"`
	StockQuantity float64 `db:"stock_quantity"`
	CostPrice     float64 `db:"cost_price"`
	Price         float64 `db:"price"`
	TotalSales    float64 `db:"total_sales"`
	GrossSales    float64 `db:"gross_sales"`
	COGS          float64 `db:"cogs"`
	TotalOrders   float64 `db:"total_orders"`
}

// SmartRecommendation is the per-product row upserted into
// smart_recommendations. Rank 1 is the strongest candidate.
type SmartRecommendation struct {
	ProductID      int64   `db:"product_id"`
	ProductName    string  `db:"product_name"`
	TotalSales     float64 `db:"total_sales"`
	GrossSales     float64 `db:"gross_sales"`
	COGS           float64 `db:"cogs"`
	GrossMargin    float64 `db:"gross_margin"`
	TurnoverRate   float64 `db:"inventory_turnover_rate"`
	FAHPScore      float64 `db:"fahp_score"`
	Rank           int     `db:"rank"`
	Recommendation string  `db:"recommendation"`
	Reason         string  `db:"reason"`
}

// CustomerLineItem is one purchased line item attributed to a registered
// customer. Walk-in sales (null customer) never reach this type.
type CustomerLineItem struct {
	CustomerID  int64     `db:"customer_id"`
	ProductID   int64     `db:"product_id"`
	ProductName string    `db:"product_name"`
	Quantity    float64   `db:"quantity"`
	UnitPrice   float64   `db:"unit_price"`
	CostPrice   float64   `db:"cost_price"`
	OrderDate   time.Time `db:"order_date"`
}

// CustomerPurchasePattern is the per-(customer, sequence) row upserted into
// customer_purchase_patterns. Sequence restarts at 1 each run.
type CustomerPurchasePattern struct {
	CustomerID        int64     `db:"customer_id"`
	Sequence          int       `db:"customer_seq"`
	ProductIDs        string    `db:"product_id"`
	ProductNames      string    `db:"product_name"`
	TotalQuantity     float64   `db:"total_quantity_purchased"`
	ProductSales      float64   `db:"product_sales"`
	GrossMargin       float64   `db:"gross_margin"`
	TurnoverRate      float64   `db:"inventory_turnover_rate"`
	FAHPScore         float64   `db:"fahp_score"`
	PurchaseFrequency int       `db:"purchase_frequency"`
	NextPurchaseDate  time.Time `db:"next_predicted_purchase_date"`
	ConfidenceScore   int       `db:"confidence_score"`
}

// ExpiringProduct is a product with a future expiry date plus its trailing
// 30-day sales, read for expiry alerting.
type ExpiringProduct struct {
	ProductID     int64     `db:"product_id"`
	ProductName   string    `db:"product_name"`
	ExpiryDate    time.Time `db:"expiry_date"`
	StockQuantity float64   `db:"stock_quantity"`
	ImagePath     string    `db:"image_path"`
	RecentSales   float64   `db:"recent_sales"`
}

// ProfitMarginRow feeds the unit-wise profit margin report.
type ProfitMarginRow struct {
	ProductID    int64   `db:"product_id"`
	ProductName  string  `db:"product_name"`
	UnitType     string  `db:"unit_type"`
	UnitCost     float64 `db:"unit_cost"`
	UnitPrice    float64 `db:"unit_price"`
	QuantitySold float64 `db:"qty_sold"`
}
