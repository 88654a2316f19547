package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
	"symgraph/internal/snapshottest"
)

func cycleFixture() ([]snapshot.Node, []snapshot.Edge) {
	nodes := []snapshot.Node{{Hash: "a", Module: "m"}, {Hash: "b", Module: "m"}, {Hash: "c", Module: "m"}}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "c", CallCount: 1},
		{CallerHash: "c", CalleeHash: "a", CallCount: 1},
	}
	return nodes, edges
}

func TestGetCyclesFindsStoredCycle(t *testing.T) {
	nodes, edges := cycleFixture()
	s := snapshottest.New(t, nodes, edges, nil)
	cycles, err := GetCycles(s)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0].Members, 3)
}

func TestGetCentralityRunsOverStoredGraph(t *testing.T) {
	nodes, edges := cycleFixture()
	s := snapshottest.New(t, nodes, edges, nil)
	report, err := GetCentrality(s, 10)
	require.NoError(t, err)
	assert.Len(t, report.Ranked, 3)
}

func TestGetCommunitiesRunsOverStoredGraph(t *testing.T) {
	nodes, edges := cycleFixture()
	s := snapshottest.New(t, nodes, edges, nil)
	_, err := GetCommunities(s, 1.0)
	require.NoError(t, err)
}

func TestGetPatternsFiltersByMinConfidence(t *testing.T) {
	nodes := []snapshot.Node{{Hash: "a", Name: "walk", Module: "m"}, {Hash: "b", Name: "walkHelper", Module: "m"}}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "a", CallCount: 1},
	}
	s := snapshottest.New(t, nodes, edges, nil)
	out, err := GetPatterns(s, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	none, err := GetPatterns(s, 1.1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetTriageSynthesizesIssuesFromBundledInputs(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "m:a", Name: "A", Module: "m1"},
		{Hash: "m:b", Name: "B", Module: "m2"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "m:a", CalleeHash: "m:b", CallCount: 10},
		{CallerHash: "m:b", CalleeHash: "m:a", CallCount: 2},
	}
	s := snapshottest.New(t, nodes, edges, nil)
	report, err := GetTriage(s, t.TempDir())
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "cross_module_cycle", report.Issues[0].Type)
}

func TestGetCouplingIsAliasOfModules(t *testing.T) {
	nodes := []snapshot.Node{{Hash: "m:a", Module: "m"}}
	s := snapshottest.New(t, nodes, nil, nil)
	viaCoupling, err := GetCoupling(s)
	require.NoError(t, err)
	viaModules, err := GetModules(s)
	require.NoError(t, err)
	assert.Equal(t, viaModules, viaCoupling)
}
