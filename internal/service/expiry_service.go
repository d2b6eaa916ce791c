package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pharmaretail/dss-go/internal/domain"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

const highDemandThreshold = 50

// ExpiryService lists unexpired products ranked by how urgently they need
// attention. Unlike the batch analytics jobs it writes nothing; the alert
// list is derived fresh on every request.
type ExpiryService struct {
	sales repository.SalesRepository
	now   func() time.Time
}

func NewExpiryService(sales repository.SalesRepository) *ExpiryService {
	return &ExpiryService{sales: sales, now: time.Now}
}

func (s *ExpiryService) Run(ctx context.Context) ([]domain.ExpiryAlertResult, error) {
	lg := logger.With("expiry-alerts")

	products, err := s.sales.ExpiringProducts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]domain.ExpiryAlertResult, 0, len(products))
	for _, p := range products {
		daysToExpiry := float64(int(p.ExpiryDate.Sub(now).Hours() / 24))

		demand := "Low"
		if p.RecentSales >= highDemandThreshold {
			demand = "High"
		}

		alert := "Normal"
		if daysToExpiry <= 7 {
			alert = "Urgent (Within 1 Week)"
		} else if daysToExpiry <= 30 {
			alert = "Warning (Within 1 Month)"
		}

		results = append(results, domain.ExpiryAlertResult{
			ProductID:     p.ProductID,
			ProductName:   p.ProductName,
			ExpiryDate:    p.ExpiryDate.Format("2006-01-02"),
			TimeToExpiry:  daysToExpiry,
			StockQuantity: p.StockQuantity,
			Demand:        demand,
			PriorityScore: round2(p.RecentSales + daysToExpiry*0.5),
			ExpiryAlert:   alert,
			ImageURL:      imageURL(p.ImagePath),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PriorityScore > results[j].PriorityScore
	})

	lg.Info().Int("products", len(results)).Msg("expiry alerts computed")
	return results, nil
}

// imageURL normalizes the stored image path into something a client can
// fetch: absolute URLs pass through, anything else is served from /pictures.
func imageURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(strings.ToLower(path), "http"):
		return path
	case strings.HasPrefix(path, "/pictures/"):
		return path
	default:
		return "/pictures/" + path
	}
}
