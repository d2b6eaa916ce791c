package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFAHPWeightsNormalizedAndDeterministic(t *testing.T) {
	matrix := ProductCriteriaMatrix()

	weights := FAHPWeights(matrix)
	assert.Len(t, weights, CriteriaCount)

	var sum float64
	for _, w := range weights {
		assert.Greater(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// Recomputing from the same matrix must be bit-for-bit identical.
	again := FAHPWeights(ProductCriteriaMatrix())
	assert.Equal(t, weights, again)

	// Turnover dominates the pairwise comparisons, order count is weakest.
	assert.Greater(t, weights[CriterionTurnover], weights[CriterionTotalOrders])
}

func TestMinMaxNormalize(t *testing.T) {
	matrix := [][]float64{
		{0, 100},
		{5, 200},
		{10, 300},
	}
	norm := MinMaxNormalize(matrix, []bool{false, true})

	assert.InDelta(t, 0.0, norm[0][0], 1e-9)
	assert.InDelta(t, 0.5, norm[1][0], 1e-9)
	assert.InDelta(t, 1.0, norm[2][0], 1e-9)

	// Second column is a cost criterion: inverted after scaling.
	assert.InDelta(t, 1.0, norm[0][1], 1e-9)
	assert.InDelta(t, 0.5, norm[1][1], 1e-9)
	assert.InDelta(t, 0.0, norm[2][1], 1e-9)
}

func TestMinMaxNormalizeConstantColumn(t *testing.T) {
	matrix := [][]float64{{3, 1}, {3, 2}}
	norm := MinMaxNormalize(matrix, []bool{false, false})
	assert.InDelta(t, 0.0, norm[0][0], 1e-9)
	assert.InDelta(t, 0.0, norm[1][0], 1e-9)
}

func TestCompositeScores(t *testing.T) {
	norm := [][]float64{
		{1, 0},
		{0, 1},
		{0.5, 0.5},
	}
	scores := CompositeScores(norm, []float64{0.7, 0.3})
	assert.InDelta(t, 0.7, scores[0], 1e-9)
	assert.InDelta(t, 0.3, scores[1], 1e-9)
	assert.InDelta(t, 0.5, scores[2], 1e-9)
}

func TestRankDescendingPermutation(t *testing.T) {
	scores := []float64{0.2, 0.9, 0.5, 0.7, 0.1}
	ids := []int64{11, 22, 33, 44, 55}

	ranks := RankDescending(scores, ids)

	assert.Equal(t, []int{4, 1, 3, 2, 5}, ranks)

	seen := make(map[int]bool)
	for _, r := range ranks {
		assert.False(t, seen[r], "duplicate rank %d", r)
		seen[r] = true
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, len(scores))
	}
}

func TestRankDescendingTieBreakByID(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.5}
	ids := []int64{30, 10, 20}

	ranks := RankDescending(scores, ids)

	// Equal scores order by ascending product id.
	assert.Equal(t, []int{3, 1, 2}, ranks)
}
