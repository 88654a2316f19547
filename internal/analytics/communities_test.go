package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestCommunitiesDropsSingletonsAndComputesPurity(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "core"},
		{Hash: "b", Module: "core"},
		{Hash: "c", Module: "api"},
		{Hash: "isolated", Module: "misc"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 5},
		{CallerHash: "b", CalleeHash: "a", CallCount: 5},
		{CallerHash: "a", CalleeHash: "c", CallCount: 1},
	}
	report := Communities(nodes, edges, 1.0)
	require.NotEmpty(t, report.Communities)
	for _, c := range report.Communities {
		assert.GreaterOrEqual(t, c.Size, 2)
		assert.GreaterOrEqual(t, c.Purity, 0.0)
		assert.LessOrEqual(t, c.Purity, 1.0)
	}
}

func TestCommunitiesOnEmptyGraphReturnsZeroValue(t *testing.T) {
	report := Communities(nil, nil, 1.0)
	assert.Empty(t, report.Communities)
	assert.Empty(t, report.Misaligned)
	assert.Empty(t, report.InterEdges)
}

func TestCommunitiesDefaultsNonPositiveResolution(t *testing.T) {
	nodes := []snapshot.Node{{Hash: "a", Module: "m"}, {Hash: "b", Module: "m"}}
	edges := []snapshot.Edge{{CallerHash: "a", CalleeHash: "b", CallCount: 1}}
	a := Communities(nodes, edges, 0)
	b := Communities(nodes, edges, 1.0)
	assert.Equal(t, a, b)
}
