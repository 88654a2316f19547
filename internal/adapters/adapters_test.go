package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
	"symgraph/internal/snapshottest"
)

func fixtureNodes() []snapshot.Node {
	return []snapshot.Node{
		{Hash: "m:a", Name: "A", Module: "m", CallerCount: 0},
		{Hash: "m:b", Name: "B", Module: "m", CallerCount: 1},
		{Hash: "m:c", Name: "C", Module: "m", CallerCount: 0},
	}
}

func TestZeroCallerNodesFiltersToUncalled(t *testing.T) {
	s := snapshottest.New(t, fixtureNodes(), nil, nil)
	zero, total, err := ZeroCallerNodes(s)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, zero, 2)
}

func TestCycleInputsReturnsNodesAndEdges(t *testing.T) {
	edges := []snapshot.Edge{{CallerHash: "m:a", CalleeHash: "m:b", CallCount: 1}}
	s := snapshottest.New(t, fixtureNodes(), edges, nil)
	nodes, gotEdges, err := CycleInputs(s)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
	assert.Len(t, gotEdges, 1)
}

func TestCouplingInputsReturnsModuleEdges(t *testing.T) {
	modEdges := []snapshot.ModuleEdge{{CallerModule: "m", CalleeModule: "other", EdgeCount: 4}}
	s := snapshottest.New(t, fixtureNodes(), nil, modEdges)
	nodes, gotModEdges, err := CouplingInputs(s)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
	require.Len(t, gotModEdges, 1)
	assert.Equal(t, 4, gotModEdges[0].EdgeCount)
}

func TestLoadBearingCandidatesFiltersByXModFanInThreshold(t *testing.T) {
	features := []snapshot.NodeFeatures{
		{Hash: "m:a", XModFanIn: 5},
		{Hash: "m:b", XModFanIn: 1},
		{Hash: "m:c", XModFanIn: 0},
	}
	s := snapshottest.NewDerived(t, fixtureNodes(), nil, nil, features)
	out, err := LoadBearingCandidates(s, 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m:a", out[0].Hash)
}

func TestOverviewBundlesNodesEdgesAndModuleEdges(t *testing.T) {
	edges := []snapshot.Edge{{CallerHash: "m:a", CalleeHash: "m:b", CallCount: 1}}
	modEdges := []snapshot.ModuleEdge{{CallerModule: "m", CalleeModule: "other", EdgeCount: 1}}
	s := snapshottest.New(t, fixtureNodes(), edges, modEdges)
	bundle, err := Overview(s)
	require.NoError(t, err)
	assert.Len(t, bundle.Nodes, 3)
	assert.Len(t, bundle.Edges, 1)
	assert.Len(t, bundle.ModuleEdges, 1)
}

func TestTriageFetchesHighCentralityNodesAndDeadFileStats(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "m:a", Name: "A", Module: "m", FilePath: "pkg/dead.go", Kind: "function", CallerCount: 0},
		{Hash: "m:b", Name: "B", Module: "m", FilePath: "pkg/dead.go", Kind: "function", CallerCount: 0},
		{Hash: "m:c", Name: "C", Module: "m", FilePath: "pkg/dead.go", Kind: "function", CallerCount: 0},
		{Hash: "m:d", Name: "D", Module: "m", FilePath: "pkg/dead.go", Kind: "function", CallerCount: 0},
		{Hash: "m:e", Name: "E", Module: "m", FilePath: "pkg/dead.go", Kind: "function", CallerCount: 0},
		{Hash: "m:f", Name: "F", Module: "m", FilePath: "pkg/dead.go", Kind: "function", CallerCount: 1},
	}
	features := []snapshot.NodeFeatures{{Hash: "m:a", XModFanIn: 6}}
	modEdges := []snapshot.ModuleEdge{{CallerModule: "m", CalleeModule: "other", EdgeCount: 1}}
	s := snapshottest.NewDerived(t, nodes, nil, modEdges, features)

	bundle, err := Triage(s)
	require.NoError(t, err)
	require.Len(t, bundle.HighCentralityNodes, 1)
	assert.Equal(t, "m:a", bundle.HighCentralityNodes[0].Hash)
	assert.Equal(t, 6, bundle.HighCentralityNodes[0].CallingModules)

	require.Len(t, bundle.DeadFileStats, 1)
	assert.Equal(t, "pkg/dead.go", bundle.DeadFileStats[0].FilePath)
	assert.Equal(t, 6, bundle.DeadFileStats[0].Total)
	assert.Equal(t, 5, bundle.DeadFileStats[0].Dead)
}
