package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaretail/dss-go/internal/domain"
)

func aggregate(productID int64, name string, stock, totalSales, grossSales, cogs, orders float64) domain.RecommendationAggregate {
	return domain.RecommendationAggregate{
		ProductID:     productID,
		ProductName:   name,
		StockQuantity: stock,
		TotalSales:    totalSales,
		GrossSales:    grossSales,
		COGS:          cogs,
		TotalOrders:   orders,
	}
}

func newRecommendationFixture(aggs []domain.RecommendationAggregate) (*RecommendationService, *fakeSnapshots) {
	snapshots := &fakeSnapshots{}
	svc := NewRecommendationService(&fakeSales{aggregates: aggs}, snapshots, fakeTx{})
	svc.now = fixedNow
	return svc, snapshots
}

func TestRecommendationsRunNoData(t *testing.T) {
	svc, _ := newRecommendationFixture(nil)
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRecommendationsRanksArePermutation(t *testing.T) {
	aggs := []domain.RecommendationAggregate{
		aggregate(1, "A", 100, 500, 9000, 4000, 40),
		aggregate(2, "B", 30, 200, 5000, 2500, 25),
		aggregate(3, "C", 300, 20, 300, 250, 4),
		aggregate(4, "D", 10, 900, 20000, 8000, 90),
		aggregate(5, "E", 50, 0, 0, 0, 0),
	}
	svc, _ := newRecommendationFixture(aggs)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 5)

	ranks := make([]int, len(results))
	for i, r := range results {
		ranks[i] = r.Rank
	}
	sort.Ints(ranks)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ranks)
}

func TestRecommendationsBestSellerRanksFirst(t *testing.T) {
	aggs := []domain.RecommendationAggregate{
		aggregate(1, "Slow", 300, 20, 300, 250, 4),
		aggregate(2, "Star", 10, 900, 20000, 8000, 90),
		aggregate(3, "Dead", 50, 0, 0, 0, 0),
	}
	svc, _ := newRecommendationFixture(aggs)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	byName := make(map[string]domain.RecommendationResult)
	for _, r := range results {
		byName[r.ProductName] = r
	}
	assert.Equal(t, 1, byName["Star"].Rank)
	assert.Equal(t, "Promote & Restock", byName["Star"].Recommendation)
	assert.Greater(t, byName["Star"].Score, byName["Dead"].Score)
}

func TestRecommendationsBuckets(t *testing.T) {
	// eight products so all three buckets appear
	var aggs []domain.RecommendationAggregate
	for i := int64(1); i <= 8; i++ {
		scale := float64(9 - i)
		aggs = append(aggs, aggregate(i, "P", 10*scale, 100*scale, 1000*scale, 400*scale, 10*scale))
	}
	svc, _ := newRecommendationFixture(aggs)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Recommendation]++
	}
	assert.Equal(t, 3, counts["Promote & Restock"])
	assert.Equal(t, 3, counts["Monitor Closely"])
	assert.Equal(t, 2, counts["Low Priority"])
}

func TestRecommendationsNeverSoldProductGetsZeroKPIs(t *testing.T) {
	aggs := []domain.RecommendationAggregate{
		aggregate(1, "Seller", 10, 900, 20000, 8000, 90),
		aggregate(2, "Shelf Warmer", 50, 0, 0, 0, 0),
	}
	svc, snapshots := newRecommendationFixture(aggs)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, results[1].GrossMargin)
	assert.Equal(t, 0.0, results[1].TurnoverRate)

	require.Len(t, snapshots.recommendations, 1)
	assert.Equal(t, results[1].Rank, snapshots.recommendations[0][1].Rank)
}

func TestRecommendationsDeterministic(t *testing.T) {
	aggs := []domain.RecommendationAggregate{
		aggregate(1, "A", 100, 500, 9000, 4000, 40),
		aggregate(2, "B", 30, 200, 5000, 2500, 25),
	}

	first, err := func() ([]domain.RecommendationResult, error) {
		svc, _ := newRecommendationFixture(aggs)
		return svc.Run(context.Background())
	}()
	require.NoError(t, err)

	second, err := func() ([]domain.RecommendationResult, error) {
		svc, _ := newRecommendationFixture(aggs)
		return svc.Run(context.Background())
	}()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
