package analytics

import (
	"math"
	"sort"
)

const kmeansMaxIterations = 100

// DemandTierCount is the number of clusters the demand classifier uses.
const DemandTierCount = 3

// KMeans1D clusters scalar values into k groups. Initial centers are the
// minimum, the median and the maximum of the input so labels do not depend
// on seeding, then standard Lloyd iterations run
// until assignments stabilize. Returns one label per value plus the final
// cluster centers; labels index into centers.
func KMeans1D(values []float64, k int) ([]int, []float64) {
	n := len(values)
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	centers := make([]float64, k)
	for i := 0; i < k; i++ {
		// Spread initial centers across the sorted range.
		idx := i * (n - 1) / max(k-1, 1)
		centers[i] = sorted[idx]
	}

	labels := make([]int, n)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, v := range values {
			best := 0
			bestDist := math.Abs(v - centers[0])
			for c := 1; c < k; c++ {
				if d := math.Abs(v - centers[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		sums := make([]float64, k)
		counts := make([]int, k)
		for i, v := range values {
			sums[labels[i]] += v
			counts[labels[i]]++
		}
		for c := 0; c < k; c++ {
			if counts[c] > 0 {
				centers[c] = sums[c] / float64(counts[c])
			}
			// An emptied cluster keeps its center; it can re-acquire points.
		}

		if !changed && iter > 0 {
			break
		}
	}

	return labels, centers
}

// DemandTiers maps each product's total quantity to a Low/Medium/High label.
// The label is derived from the magnitude order of the cluster centers, never
// from the raw cluster index. Fewer than three products cannot be clustered
// into three tiers, so everything is labelled Low.
func DemandTiers(quantities []float64) []string {
	tiers := make([]string, len(quantities))
	if len(quantities) < DemandTierCount {
		for i := range tiers {
			tiers[i] = "Low"
		}
		return tiers
	}

	labels, centers := KMeans1D(quantities, DemandTierCount)
	names := TierNamesByCenter(centers)
	for i, label := range labels {
		tiers[i] = names[label]
	}
	return tiers
}

// TierNamesByCenter returns the Low/Medium/High name for each cluster index,
// assigned by ascending center magnitude.
func TierNamesByCenter(centers []float64) map[int]string {
	type centerIdx struct {
		center float64
		idx    int
	}
	ordered := make([]centerIdx, len(centers))
	for i, c := range centers {
		ordered[i] = centerIdx{center: c, idx: i}
	}
	sort.Slice(ordered, func(a, b int) bool { return ordered[a].center < ordered[b].center })

	levels := []string{"Low", "Medium", "High"}
	names := make(map[int]string, len(centers))
	for rank, ci := range ordered {
		level := levels[min(rank, len(levels)-1)]
		names[ci.idx] = level
	}
	return names
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
