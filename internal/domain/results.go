package domain

import "fmt"

// The original platform rendered several numeric fields as display strings
// ("Rs. 123.45", "87.50%", "12 units") alongside the raw numbers. The JSON
// payloads keep both so existing clients stay compatible.

func FormatRs(v float64) string      { return fmt.Sprintf("Rs. %.2f", v) }
func FormatPercent(v float64) string { return fmt.Sprintf("%.2f%%", v) }
func FormatUnits(v float64) string   { return fmt.Sprintf("%g units", v) }

// ProductMetricResult is the JSON shape returned by the KPI + demand job.
type ProductMetricResult struct {
	ProductID         int64   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	CostPrice         string  `json:"cost_price"`
	SellingPrice      string  `json:"selling_price"`
	QuantitySold      string  `json:"quantity_sold"`
	TotalOrders       int     `json:"total_orders"`
	TotalCost         float64 `json:"total_cost"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalProfit       float64 `json:"total_profit"`
	ProfitMargin      string  `json:"profit_margin"`
	GrossProfitMargin string  `json:"gross_profit_margin"`
	SalesRevenue      float64 `json:"sales_revenue"`
	DemandLevel       string  `json:"demand_level"`
	DailySales30      string  `json:"daily_sales_30"`
	WeeklySales4      string  `json:"weekly_sales_4"`
	MonthlySales3     string  `json:"monthly_sales_3"`
	SalesVelocity     string  `json:"sales_velocity"`
	FirstSaleDate     string  `json:"first_sale_date"`
	LastSaleDate      string  `json:"last_sale_date"`
	AvgUnitPrice      string  `json:"avg_unit_price"`
	DaysSinceLastSale int     `json:"days_since_last_sale"`
	DataQuality       string  `json:"data_quality"`
}

// RestockResult is the JSON shape returned by the restock forecast job.
type RestockResult struct {
	ProductID           int64   `json:"product_id"`
	ProductName         string  `json:"product_name"`
	StockQuantity       float64 `json:"stock_quantity"`
	ForecastNextMonth   int     `json:"forecast_sales_next_month"`
	RecommendedQuantity int     `json:"recommended_quantity"`
	DaysUntilRestock    int     `json:"predicted_days_until_restock"`
	RestockDate         string  `json:"restock_date"`
	AvgDailyDemand      float64 `json:"avg_daily_demand"`
	TurnoverRate        float64 `json:"inventory_turnover_rate"`
	DaysOnHand          float64 `json:"days_on_hand"`
	DaysSalesInventory  float64 `json:"days_sales_in_inventory"`
	ForecastAccuracy    float64 `json:"forecast_accuracy"`
	ProfitPriority      string  `json:"profit_priority"`
	DemandPriority      string  `json:"demand_priority"`
	DemandInsight       string  `json:"demand_insight"`
	MonthsOfHistory     int     `json:"months_of_history"`
	Confidence          string  `json:"prediction_confidence"`
	ExpectedProfit      float64 `json:"expected_profit"`
}

// SeasonalResult is the JSON shape returned by the seasonal forecast job.
type SeasonalResult struct {
	ProductID        int64  `json:"product_id"`
	ProductName      string `json:"product_name"`
	Year             int    `json:"year"`
	SeasonType       string `json:"season_type"`
	PredictedDemand  string `json:"predicted_demand"`
	ActualDemand     string `json:"actual_demand"`
	ForecastAccuracy string `json:"forecast_accuracy"`
	TurnoverRate     string `json:"inventory_turnover_rate"`
	PreparationStart string `json:"preparation_start_date"`
	PeakSeasonDate   string `json:"peak_season_date"`
	SeasonEndDate    string `json:"season_end_date"`
}

// RecommendationResult is the JSON shape returned by the FAHP ranking job.
type RecommendationResult struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	TotalSales     float64 `json:"total_sales"`
	GrossSales     float64 `json:"gross_sales"`
	COGS           float64 `json:"cogs"`
	GrossMargin    float64 `json:"gross_margin"`
	TurnoverRate   float64 `json:"inventory_turnover_rate"`
	StockQuantity  float64 `json:"stock_quantity"`
	TotalOrders    float64 `json:"total_orders"`
	Score          float64 `json:"score"`
	FAHPScore      float64 `json:"fahp_score"`
	Rank           int     `json:"rank"`
	Recommendation string  `json:"recommendation"`
	Reason         string  `json:"reason"`
}

// CustomerPatternResult is the JSON shape returned by the customer
// purchase-pattern job.
type CustomerPatternResult struct {
	CustomerID        int64  `json:"customer_id"`
	Sequence          int    `json:"customer_seq"`
	ProductIDs        string `json:"product_ids"`
	ProductNames      string `json:"product_name"`
	ProductSales      string `json:"product_sales"`
	TotalQuantity     float64 `json:"total_quantity_purchased"`
	GrossMargin       string `json:"gross_margin"`
	TurnoverRate      string `json:"inventory_turnover_rate"`
	PurchaseFrequency string `json:"purchase_frequency"`
	NextPurchaseDate  string `json:"next_predicted_purchase_date"`
	ConfidenceScore   string `json:"confidence_score"`
	FAHPScore         string `json:"fahp_score"`
}

// ExpiryAlertResult is the JSON shape returned by the expiry alert listing.
type ExpiryAlertResult struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	ExpiryDate    string  `json:"expiry_date"`
	TimeToExpiry  float64 `json:"time_to_expiry"`
	StockQuantity float64 `json:"stock_quantity"`
	Demand        string  `json:"demand"`
	PriorityScore float64 `json:"priority_score"`
	ExpiryAlert   string  `json:"expiry_alert"`
	ImageURL      string  `json:"image_url,omitempty"`
}
