package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
	"symgraph/internal/snapshottest"
)

func threeModuleFixture() ([]snapshot.Node, []snapshot.Edge) {
	nodes := []snapshot.Node{
		{Hash: "core:a", Name: "A", Module: "core", Risk: "low"},
		{Hash: "core:b", Name: "B", Module: "core", Risk: "high"},
		{Hash: "auth:c", Name: "C", Module: "auth", Risk: "low"},
	}
	edges := []snapshot.Edge{{CallerHash: "core:a", CalleeHash: "core:b", CallCount: 1}}
	return nodes, edges
}

func TestGetOverviewCountsModulesAndRisk(t *testing.T) {
	nodes, edges := threeModuleFixture()
	s := snapshottest.New(t, nodes, edges, nil)
	overview, err := GetOverview(s)
	require.NoError(t, err)
	assert.Equal(t, 3, overview.TotalNodes)
	assert.Equal(t, 1, overview.TotalEdges)
	assert.Equal(t, 2, overview.ModuleCount)
	assert.Equal(t, 2, overview.RiskDistribution["low"])
	assert.Equal(t, 1, overview.RiskDistribution["high"])
}

func TestGetOverviewTopModulesOrderedByCountThenName(t *testing.T) {
	nodes, edges := threeModuleFixture()
	s := snapshottest.New(t, nodes, edges, nil)
	overview, err := GetOverview(s)
	require.NoError(t, err)
	require.Len(t, overview.TopModules, 2)
	assert.Equal(t, "core", overview.TopModules[0].Module)
	assert.Equal(t, 2, overview.TopModules[0].Count)
}

func TestGetDeadCodeClassifiesUncalledNodes(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "m:_helper", Name: "_helper", Module: "m", CallerCount: 0, Complexity: 1},
		{Hash: "m:called", Name: "called", Module: "m", CallerCount: 3},
	}
	s := snapshottest.New(t, nodes, nil, nil)
	report, err := GetDeadCode(s, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalDead)
}

func TestGetBlastRadiusRunsOverStoredEdges(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "m:target", Module: "m"}, {Hash: "m:direct", Module: "m"},
	}
	edges := []snapshot.Edge{{CallerHash: "m:direct", CalleeHash: "m:target", CallCount: 1}}
	s := snapshottest.New(t, nodes, edges, nil)
	report, err := GetBlastRadius(s, "m:target", 5)
	require.NoError(t, err)
	require.Len(t, report.Nodes, 1)
	assert.Equal(t, "m:direct", report.Nodes[0].Hash)
}

func TestGetLoadBearingUsesDeclaredConfigSidecar(t *testing.T) {
	root := t.TempDir()
	nodes := []snapshot.Node{{Hash: "m:a", Module: "m"}}
	features := []snapshot.NodeFeatures{{Hash: "m:a", XModFanIn: 0}}
	s := snapshottest.NewDerived(t, nodes, nil, nil, features)

	require.NoError(t, DeclareLoadBearing(s.RepoID(), root, "m:a"))
	report, err := GetLoadBearing(s, root, 0)
	require.NoError(t, err)
	require.Len(t, report.Declared, 1)
	assert.Equal(t, "m:a", report.Declared[0].Hash)
}
