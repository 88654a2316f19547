package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLouvainGroupsTwoDenseCliquesSeparately(t *testing.T) {
	// Two triangles connected by a single bridge edge: the bridge should
	// not be enough to merge them into one community.
	edges := [][3]float64{
		{0, 1, 1}, {1, 2, 1}, {2, 0, 1},
		{3, 4, 1}, {4, 5, 1}, {5, 3, 1},
		{2, 3, 1},
	}
	assignment := Louvain(6, edges, 1.0, louvainSeed)
	require.Len(t, assignment, 6)
	assert.Equal(t, assignment[0], assignment[1])
	assert.Equal(t, assignment[1], assignment[2])
	assert.Equal(t, assignment[3], assignment[4])
	assert.Equal(t, assignment[4], assignment[5])
	assert.NotEqual(t, assignment[0], assignment[3])
}

func TestLouvainIsDeterministicAcrossRuns(t *testing.T) {
	edges := [][3]float64{{0, 1, 2}, {1, 2, 1}, {2, 3, 3}, {3, 0, 1}}
	first := Louvain(4, edges, 1.0, louvainSeed)
	second := Louvain(4, edges, 1.0, louvainSeed)
	assert.Equal(t, first, second)
}

func TestLouvainNoEdgesReturnsSingletonCommunities(t *testing.T) {
	assignment := Louvain(3, nil, 1.0, louvainSeed)
	require.Len(t, assignment, 3)
	assert.NotEqual(t, assignment[0], assignment[1])
	assert.NotEqual(t, assignment[1], assignment[2])
}

func TestRenumberIsContiguousFromZero(t *testing.T) {
	out := renumber([]int{5, 5, 9, 2})
	seen := make(map[int]bool)
	for _, v := range out {
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	for v := range seen {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
	}
	assert.Equal(t, out[0], out[1])
}
