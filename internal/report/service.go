package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/internal/storage"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

// Service builds PDF reports from the snapshot tables and, when an archive
// is configured, mirrors each generated file to S3-compatible storage. A nil
// archive disables mirroring.
type Service struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	archive   storage.ObjectStorage
	dir       string
}

func NewService(sales repository.SalesRepository, snapshots repository.SnapshotRepository, archive storage.ObjectStorage, dir string) *Service {
	return &Service{sales: sales, snapshots: snapshots, archive: archive, dir: dir}
}

func (s *Service) Expiry(ctx context.Context) (string, error) {
	products, err := s.sales.ExpiringProducts(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			strconv.FormatInt(p.ProductID, 10),
			p.ProductName,
			p.ExpiryDate.Format("2006-01-02"),
			formatQty(p.StockQuantity),
		}
	}

	return s.generate(ctx, "Expiry Report",
		[]string{"Product ID", "Product Name", "Expiry Date", "Stock"},
		rows, nil)
}

func (s *Service) Restock(ctx context.Context) (string, error) {
	predictions, err := s.snapshots.RestockPredictions(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(predictions))
	for i, p := range predictions {
		rows[i] = []string{
			strconv.FormatInt(p.ProductID, 10),
			p.PredictionDate.Format("2006-01-02"),
			formatQty(p.CurrentStock),
			p.PredictedRestockAt.Format("2006-01-02"),
			strconv.Itoa(p.RecommendedQuantity),
			fmt.Sprintf("%.2f", p.DaysOnHand),
			fmt.Sprintf("%.2f", p.ForecastAccuracy),
		}
	}

	return s.generate(ctx, "Restock Prediction Report",
		[]string{"Product ID", "Prediction Date", "Current Stock", "Restock Date", "Recommended Quantity", "Days On Hand", "Forecast Accuracy"},
		rows, nil)
}

func (s *Service) Seasonal(ctx context.Context) (string, error) {
	forecasts, err := s.snapshots.SeasonalForecasts(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(forecasts))
	for i, f := range forecasts {
		rows[i] = []string{
			strconv.FormatInt(f.ProductID, 10),
			strconv.Itoa(f.Year),
			// the core font set cannot encode the en dash in range labels
			strings.ReplaceAll(f.SeasonType, "–", "-"),
			formatQty(f.PredictedDemand),
			fmt.Sprintf("%.2f%%", f.ForecastAccuracy),
			f.PeakSeasonDate.Format("2006-01-02"),
		}
	}

	return s.generate(ctx, "Seasonal Forecast Report",
		[]string{"Product ID", "Year", "Season Type", "Predicted Demand", "Forecast Accuracy", "Peak Season"},
		rows, nil)
}

func (s *Service) CustomerPatterns(ctx context.Context) (string, error) {
	patterns, err := s.snapshots.CustomerPatterns(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(patterns))
	for i, p := range patterns {
		rows[i] = []string{
			strconv.FormatInt(p.CustomerID, 10),
			p.ProductNames,
			fmt.Sprintf("%.2f", p.ProductSales),
			fmt.Sprintf("%.2f", p.GrossMargin),
			strconv.Itoa(p.PurchaseFrequency),
			p.NextPurchaseDate.Format("2006-01-02"),
		}
	}

	return s.generate(ctx, "Customer Purchase Patterns Report",
		[]string{"Customer ID", "Products", "Product Sales (PKR)", "Gross Margin %", "Frequency", "Next Purchase"},
		rows, []float64{25, 120, 35, 30, 25, 35})
}

func (s *Service) SmartRecommendations(ctx context.Context) (string, error) {
	recommendations, err := s.snapshots.SmartRecommendations(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(recommendations))
	for i, r := range recommendations {
		name := r.ProductName
		if len(name) > 50 {
			name = name[:50]
		}
		rows[i] = []string{
			strconv.FormatInt(r.ProductID, 10),
			name,
			strconv.Itoa(int(r.TotalSales)),
			fmt.Sprintf("%.2f", r.GrossSales),
			fmt.Sprintf("%.2f%%", r.GrossMargin),
			fmt.Sprintf("%.2f", r.TurnoverRate),
			strconv.Itoa(r.Rank),
			r.Recommendation,
		}
	}

	return s.generate(ctx, "Smart Recommendations Report",
		[]string{"Product ID", "Product Name", "Total Sales", "Gross Sales (PKR)", "Gross Margin %", "ITR", "Rank", "Recommendation"},
		rows, []float64{20, 80, 25, 35, 30, 25, 20, 60})
}

func (s *Service) ProfitMargin(ctx context.Context) (string, error) {
	marginRows, err := s.sales.ProfitMarginRows(ctx)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(marginRows))
	for i, r := range marginRows {
		unitProfit := r.UnitPrice - r.UnitCost
		if unitProfit < 0 && r.UnitPrice >= 0 && r.UnitCost >= 0 {
			unitProfit = 0
		}
		totalProfit := unitProfit * r.QuantitySold
		marginPct := 0.0
		if r.UnitPrice > 0 {
			marginPct = (r.UnitPrice - r.UnitCost) / r.UnitPrice * 100
		}

		rows[i] = []string{
			strconv.FormatInt(r.ProductID, 10),
			r.ProductName,
			r.UnitType,
			fmt.Sprintf("%.2f", r.UnitCost),
			fmt.Sprintf("%.2f", r.UnitPrice),
			fmt.Sprintf("%.2f", unitProfit),
			strconv.Itoa(int(r.QuantitySold)),
			fmt.Sprintf("%.2f", totalProfit),
			fmt.Sprintf("%.2f%%", marginPct),
		}
	}

	return s.generate(ctx, "Unit-wise Profit Margin Report",
		[]string{"Product ID", "Product Name", "Unit Type", "Unit Cost", "Unit Price", "Unit Profit", "Units Sold", "Total Profit", "Margin %"},
		rows, []float64{20, 90, 25, 25, 25, 25, 25, 30, 25})
}

// FilePath resolves a previously generated report inside the reports dir.
// The filename is flattened to its base to keep lookups inside the dir.
func (s *Service) FilePath(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

func (s *Service) generate(ctx context.Context, title string, columns []string, rows [][]string, colWidths []float64) (string, error) {
	filename, err := GeneratePDF(s.dir, title, columns, rows, colWidths)
	if err != nil {
		return "", err
	}

	if s.archive != nil {
		data, err := os.ReadFile(filepath.Join(s.dir, filename))
		if err == nil {
			err = s.archive.UploadObject(ctx, "reports/"+filename, data)
		}
		if err != nil {
			logger.Log.Warn().Err(err).Str("report", filename).Msg("report archive upload failed")
		}
	}

	return filename, nil
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
