package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemandTiersMagnitudeDerived(t *testing.T) {
	// Three obvious groups around 5, 50 and 500. Whatever cluster index each
	// group lands in, the label must follow the center magnitude.
	orderings := [][]float64{
		{4, 5, 6, 48, 50, 52, 480, 500, 520},
		{480, 500, 520, 4, 5, 6, 48, 50, 52},
		{50, 500, 5, 52, 520, 6, 48, 480, 4},
	}

	for _, values := range orderings {
		tiers := DemandTiers(values)
		assert.Len(t, tiers, len(values))
		for i, v := range values {
			switch {
			case v < 10:
				assert.Equal(t, "Low", tiers[i], "value %v", v)
			case v < 100:
				assert.Equal(t, "Medium", tiers[i], "value %v", v)
			default:
				assert.Equal(t, "High", tiers[i], "value %v", v)
			}
		}
	}
}

func TestDemandTiersFewerThanThreeProducts(t *testing.T) {
	assert.Equal(t, []string{"Low"}, DemandTiers([]float64{500}))
	assert.Equal(t, []string{"Low", "Low"}, DemandTiers([]float64{5, 500}))
	assert.Empty(t, DemandTiers(nil))
}

func TestKMeans1DDeterministic(t *testing.T) {
	values := []float64{1, 2, 3, 10, 11, 12, 100, 110, 120}

	labelsA, centersA := KMeans1D(values, 3)
	labelsB, centersB := KMeans1D(values, 3)
	assert.Equal(t, labelsA, labelsB)
	assert.Equal(t, centersA, centersB)
}

func TestKMeans1DIdenticalValues(t *testing.T) {
	labels, centers := KMeans1D([]float64{7, 7, 7, 7}, 3)
	assert.Len(t, labels, 4)
	assert.Len(t, centers, 3)
	// All points collapse into one cluster; labels stay in range.
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 3)
	}
}

func TestTierNamesByCenterShuffledIndices(t *testing.T) {
	// Cluster index order is arbitrary; names must track center magnitude.
	names := TierNamesByCenter([]float64{500, 5, 50})
	assert.Equal(t, "High", names[0])
	assert.Equal(t, "Low", names[1])
	assert.Equal(t, "Medium", names[2])
}
