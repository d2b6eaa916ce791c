package analytics

import "sort"

// TFN is a triangular fuzzy number (low, mid, high).
type TFN struct {
	Low  float64
	Mid  float64
	High float64
}

// Add returns the element-wise sum of two triangular fuzzy numbers.
func (t TFN) Add(o TFN) TFN {
	return TFN{Low: t.Low + o.Low, Mid: t.Mid + o.Mid, High: t.High + o.High}
}

// FAHPWeights derives crisp criterion weights from a fuzzy pairwise-comparison
// matrix using the fuzzy-extent method: each row is summed into a fuzzy total,
// every row total is divided by the grand total with the division terms
// crossed (row low over grand high, row high over grand low), the three
// quotients are averaged, and the resulting crisp weights are normalized to
// sum to 1. The order of operations is fixed so the weights reproduce
// bit-for-bit across runs.
func FAHPWeights(matrix [][]TFN) []float64 {
	n := len(matrix)
	if n == 0 {
		return nil
	}

	rowSums := make([]TFN, n)
	for i := 0; i < n; i++ {
		for j := 0; j < len(matrix[i]); j++ {
			rowSums[i] = rowSums[i].Add(matrix[i][j])
		}
	}

	var total TFN
	for i := 0; i < n; i++ {
		total = total.Add(rowSums[i])
	}

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		l := rowSums[i].Low / total.High
		m := rowSums[i].Mid / total.Mid
		u := rowSums[i].High / total.Low
		weights[i] = (l + m + u) / 3
		sum += weights[i]
	}

	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Criteria order of the product recommendation model. StockQuantity is the
// only cost criterion (less stock on the shelf scores better).
const (
	CriterionTurnover = iota
	CriterionGrossSales
	CriterionGrossMargin
	CriterionTotalSales
	CriterionStockQuantity
	CriterionTotalOrders
	CriteriaCount
)

// ProductCriteriaMatrix is the fixed fuzzy pairwise comparison of the six
// product-ranking criteria. It never changes between runs, so its derived
// weights are effectively constants.
func ProductCriteriaMatrix() [][]TFN {
	return [][]TFN{
		{{1, 1, 1}, {1, 2, 3}, {3, 4, 5}, {2, 3, 4}, {1, 2, 3}, {2, 3, 4}},
		{{1.0 / 3, 0.5, 1}, {1, 1, 1}, {2, 3, 4}, {1, 2, 3}, {1, 2, 3}, {1, 2, 3}},
		{{0.2, 0.25, 1.0 / 3}, {0.25, 1.0 / 3, 0.5}, {1, 1, 1}, {1, 2, 3}, {1, 2, 3}, {1, 2, 3}},
		{{0.25, 1.0 / 3, 0.5}, {1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1, 1, 1}, {1, 2, 3}, {1, 2, 3}},
		{{1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1, 1, 1}, {1, 2, 3}},
		{{0.25, 1.0 / 3, 0.5}, {1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1.0 / 3, 0.5, 1}, {1, 1, 1}},
	}
}

// ProductCostCriteria marks which criteria columns are cost criteria
// (lower raw value is better); their normalized values are inverted.
func ProductCostCriteria() [CriteriaCount]bool {
	var cost [CriteriaCount]bool
	cost[CriterionStockQuantity] = true
	return cost
}

// MinMaxNormalize scales every column of the decision matrix to [0,1]. A
// column with no spread maps to all zeros. Columns flagged as cost criteria
// are inverted after scaling so that "less is better" still scores higher.
func MinMaxNormalize(matrix [][]float64, cost []bool) [][]float64 {
	rows := len(matrix)
	if rows == 0 {
		return nil
	}
	cols := len(matrix[0])

	norm := make([][]float64, rows)
	for i := range norm {
		norm[i] = make([]float64, cols)
	}

	for c := 0; c < cols; c++ {
		lo, hi := matrix[0][c], matrix[0][c]
		for r := 1; r < rows; r++ {
			if matrix[r][c] < lo {
				lo = matrix[r][c]
			}
			if matrix[r][c] > hi {
				hi = matrix[r][c]
			}
		}

		span := hi - lo
		for r := 0; r < rows; r++ {
			v := 0.0
			if span > 0 {
				v = (matrix[r][c] - lo) / span
			}
			if c < len(cost) && cost[c] {
				v = 1 - v
			}
			norm[r][c] = v
		}
	}

	return norm
}

// CompositeScores returns the weighted sum of each normalized row.
func CompositeScores(norm [][]float64, weights []float64) []float64 {
	scores := make([]float64, len(norm))
	for i, row := range norm {
		var s float64
		for j := 0; j < len(row) && j < len(weights); j++ {
			s += row[j] * weights[j]
		}
		scores[i] = s
	}
	return scores
}

// RankDescending assigns 1-based ranks by descending score. Equal scores are
// ordered by ascending id, a deterministic tie-break rather than whatever
// order the rows happened to arrive in. The result is a permutation of 1..N
// aligned with the input rows.
func RankDescending(scores []float64, ids []int64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ids[ia] < ids[ib]
	})

	ranks := make([]int, len(scores))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}
