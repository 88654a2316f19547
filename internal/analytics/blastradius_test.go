package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestBlastRadiusBFSDepthsUpstream(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "target", Module: "m"},
		{Hash: "direct", Module: "m"},
		{Hash: "indirect", Module: "other"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "direct", CalleeHash: "target", CallCount: 1},
		{CallerHash: "indirect", CalleeHash: "direct", CallCount: 1},
	}
	report := BlastRadius(nodes, edges, "target", 5)
	require.Len(t, report.Nodes, 2)
	assert.Equal(t, "direct", report.Nodes[0].Hash)
	assert.Equal(t, 1, report.Nodes[0].Depth)
	assert.Equal(t, "indirect", report.Nodes[1].Hash)
	assert.Equal(t, 2, report.Nodes[1].Depth)
	assert.Equal(t, []string{"m", "other"}, report.AffectedModules)
}

func TestBlastRadiusRespectsMaxDepthCap(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "target", Module: "m"},
		{Hash: "direct", Module: "m"},
		{Hash: "indirect", Module: "m"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "direct", CalleeHash: "target", CallCount: 1},
		{CallerHash: "indirect", CalleeHash: "direct", CallCount: 1},
	}
	report := BlastRadius(nodes, edges, "target", 1)
	require.Len(t, report.Nodes, 1)
	assert.Equal(t, "direct", report.Nodes[0].Hash)
}

func TestBlastRadiusUnknownTargetIsEmpty(t *testing.T) {
	report := BlastRadius(nil, nil, "missing", 5)
	assert.Empty(t, report.Nodes)
	assert.Empty(t, report.AffectedModules)
}
