package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
	"symgraph/internal/snapshottest"
)

func TestGetDiffOnIdenticalSnapshotsIsFullSimilarity(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "m:a", Name: "A", Module: "m"},
		{Hash: "m:b", Name: "B", Module: "m"},
	}
	s := snapshottest.New(t, nodes, nil, nil)

	summary, err := GetDiff(s, s)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Added)
	assert.Equal(t, 0, summary.Removed)
	assert.Equal(t, 0, summary.Modified)
	assert.Equal(t, 2, summary.Unchanged)
	assert.Equal(t, 1.0, summary.Similarity)
}

func TestGetDiffStatusMapOmitsUnchanged(t *testing.T) {
	nodesA := []snapshot.Node{{Hash: "m:a", Name: "A", Module: "m"}, {Hash: "m:b", Name: "B", Module: "m"}}
	nodesB := []snapshot.Node{{Hash: "m:a", Name: "A", Module: "m"}, {Hash: "m:c", Name: "C", Module: "m"}}
	a := snapshottest.New(t, nodesA, nil, nil)
	b := snapshottest.New(t, nodesB, nil, nil)

	statusMap, err := GetDiffStatusMap(a, b)
	require.NoError(t, err)
	assert.NotContains(t, statusMap, "m::A")
	assert.Equal(t, "removed", statusMap["m::B"])
	assert.Equal(t, "added", statusMap["m::C"])
}
