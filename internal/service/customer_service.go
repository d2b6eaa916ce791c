package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmaretail/dss-go/internal/domain"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

// CustomerService aggregates purchase behavior per registered customer,
// predicts the next purchase date from the gap between the two most recent
// orders, and persists one pattern row per customer. Sequence numbers restart
// at 1 each run; customers are processed in ascending id order so the same
// facts always yield the same sequence.
type CustomerService struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	tx        TxRunner
	now       func() time.Time
}

func NewCustomerService(sales repository.SalesRepository, snapshots repository.SnapshotRepository, tx TxRunner) *CustomerService {
	return &CustomerService{sales: sales, snapshots: snapshots, tx: tx, now: time.Now}
}

func (s *CustomerService) Run(ctx context.Context) ([]domain.CustomerPatternResult, error) {
	lg := logger.With("customer-patterns")
	started := s.now()

	items, err := s.sales.CustomerLineItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoData
	}

	byCustomer := make(map[int64][]domain.CustomerLineItem)
	for _, item := range items {
		byCustomer[item.CustomerID] = append(byCustomer[item.CustomerID], item)
	}
	customerIDs := make([]int64, 0, len(byCustomer))
	for id := range byCustomer {
		customerIDs = append(customerIDs, id)
	}
	sort.Slice(customerIDs, func(i, j int) bool { return customerIDs[i] < customerIDs[j] })

	results := make([]domain.CustomerPatternResult, 0, len(customerIDs))
	snapshots := make([]domain.CustomerPurchasePattern, 0, len(customerIDs))

	for seq, customerID := range customerIDs {
		purchases := byCustomer[customerID]

		totalQuantity := 0.0
		salesSum := 0.0
		costSum := 0.0
		for _, p := range purchases {
			totalQuantity += p.Quantity
			salesSum += p.Quantity * p.UnitPrice
			costSum += p.Quantity * p.CostPrice
		}

		grossMargin := 0.0
		if salesSum > 0 {
			grossMargin = (salesSum - costSum) / salesSum * 100
		}
		turnover := 0.0
		if costSum > 0 {
			turnover = costSum / 30
		}
		frequency := len(purchases)

		dates := make([]time.Time, len(purchases))
		for i, p := range purchases {
			dates[i] = p.OrderDate
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		gapDays := 30
		if len(dates) >= 2 {
			gapDays = int(dates[len(dates)-1].Sub(dates[len(dates)-2]).Hours() / 24)
		}
		nextPurchase := dates[len(dates)-1].AddDate(0, 0, gapDays)

		confidence := frequency * 10
		if confidence > 100 {
			confidence = 100
		}
		fahpScore := 0.4*math.Min(float64(frequency)/10, 1) +
			0.3*math.Min(grossMargin/100, 1) +
			0.3*math.Min(turnover/1000, 1)

		productIDs, productNames := distinctProducts(purchases)

		results = append(results, domain.CustomerPatternResult{
			CustomerID:        customerID,
			Sequence:          seq + 1,
			ProductIDs:        productIDs,
			ProductNames:      productNames,
			ProductSales:      fmt.Sprintf("%.2f PKR", salesSum),
			TotalQuantity:     totalQuantity,
			GrossMargin:       domain.FormatPercent(grossMargin),
			TurnoverRate:      fmt.Sprintf("%.2f times per period", turnover),
			PurchaseFrequency: fmt.Sprintf("%d times", frequency),
			NextPurchaseDate:  nextPurchase.Format("2006-01-02"),
			ConfidenceScore:   fmt.Sprintf("%d/100", confidence),
			FAHPScore:         fmt.Sprintf("%.4f (FAHP Index)", fahpScore),
		})

		snapshots = append(snapshots, domain.CustomerPurchasePattern{
			CustomerID:        customerID,
			Sequence:          seq + 1,
			ProductIDs:        productIDs,
			ProductNames:      productNames,
			TotalQuantity:     totalQuantity,
			ProductSales:      salesSum,
			GrossMargin:       grossMargin,
			TurnoverRate:      turnover,
			FAHPScore:         fahpScore,
			PurchaseFrequency: frequency,
			NextPurchaseDate:  nextPurchase,
			ConfidenceScore:   confidence,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.snapshots.UpsertCustomerPatterns(ctx, tx, snapshots)
	})
	if err != nil {
		return nil, err
	}

	lg.Info().Int("customers", len(results)).Dur("elapsed", s.now().Sub(started)).Msg("customer pattern run complete")
	return results, nil
}

// distinctProducts renders the customer's distinct product ids (ascending)
// and the matching names as comma separated lists.
func distinctProducts(purchases []domain.CustomerLineItem) (string, string) {
	nameByID := make(map[int64]string, len(purchases))
	for _, p := range purchases {
		nameByID[p.ProductID] = p.ProductName
	}
	ids := make([]int64, 0, len(nameByID))
	for id := range nameByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	idParts := make([]string, len(ids))
	nameParts := make([]string, len(ids))
	for i, id := range ids {
		idParts[i] = strconv.FormatInt(id, 10)
		nameParts[i] = nameByID[id]
	}
	return strings.Join(idParts, ", "), strings.Join(nameParts, ", ")
}
