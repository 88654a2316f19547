package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/graphalg"
	"symgraph/internal/snapshot"
)

func TestBuildGraphExcludesExternalNodesAndEdges(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "m1"},
		{Hash: "b", Module: "m2"},
		{Hash: "ext:libc.free", Module: "__external__"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 2},
		{CallerHash: "a", CalleeHash: "ext:libc.free", CallCount: 1},
	}
	g, meta := BuildGraph(nodes, edges)
	assert.Equal(t, 2, g.NumNodes())
	assert.Equal(t, -1, g.Index("ext:libc.free"))
	assert.Len(t, meta.EdgeOrder, 1)
	assert.Equal(t, 2, meta.CallCount[[2]string{"a", "b"}])
}

func TestRunOnEmptyGraphIsNoOpSuccess(t *testing.T) {
	features, runID, err := Run(context.Background(), nil, nil, Options{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.Empty(t, features)
}

func TestRunProducesOneFeatureRowPerInternalNode(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "m1", Complexity: 1},
		{Hash: "b", Module: "m1", Complexity: 2},
		{Hash: "c", Module: "m2", Complexity: 3},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "c", CallCount: 1},
	}
	features, runID, err := Run(context.Background(), nodes, edges, Options{Resolution: 1.0}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	require.Len(t, features, 3)

	byHash := make(map[string]snapshot.NodeFeatures, len(features))
	for _, f := range features {
		byHash[f.Hash] = f
	}
	assert.Equal(t, 0, byHash["a"].TopologicalDepth)
	assert.Equal(t, 2, byHash["c"].TopologicalDepth)
}

type failingStep struct{}

func (failingStep) Name() string { return "failing" }
func (failingStep) Run(context.Context, *graphalg.Graph, *Metadata) (PartialFeatures, error) {
	panic("boom")
}

func TestRunAllIsolatesPanickingStep(t *testing.T) {
	g := graphalg.NewGraph()
	g.AddEdge("a", "b", 1)
	meta := &Metadata{
		Module:    map[string]string{"a": "m", "b": "m"},
		EdgeOrder: [][2]string{{"a", "b"}},
		Order:     []string{"a", "b"},
	}
	merged := RunAll(context.Background(), g, meta, []Step{failingStep{}, StructuralStep{}}, nil)
	require.Contains(t, merged, "a")
	assert.Equal(t, 0, merged["a"]["topological_depth"])
}
