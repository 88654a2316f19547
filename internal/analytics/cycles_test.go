package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestFindCyclesIgnoresSingletonSCCs(t *testing.T) {
	nodes := []snapshot.Node{{Hash: "a", Module: "m"}, {Hash: "b", Module: "m"}}
	edges := []snapshot.Edge{{CallerHash: "a", CalleeHash: "b", CallCount: 1}}
	cycles := FindCycles(nodes, edges, 0)
	assert.Empty(t, cycles)
}

func TestFindCyclesFlagsCrossModuleAndSuggestsCheapestBreak(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "m1"},
		{Hash: "b", Module: "m2"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 10},
		{CallerHash: "b", CalleeHash: "a", CallCount: 2},
	}
	cycles := FindCycles(nodes, edges, 20)
	require.Len(t, cycles, 1)
	c := cycles[0]
	assert.True(t, c.CrossModule)
	assert.Equal(t, []string{"a", "b"}, c.Members)
	assert.Equal(t, []string{"m1", "m2"}, c.Modules)
	assert.Equal(t, "b", c.BreakSuggestion.CallerHash)
	assert.Equal(t, "a", c.BreakSuggestion.CalleeHash)
	assert.Equal(t, 2, c.BreakSuggestion.CallCount)
}

func TestFindCyclesTopNCapsAndOrdersBySizeDesc(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "m"}, {Hash: "b", Module: "m"}, {Hash: "c", Module: "m"},
		{Hash: "x", Module: "m"}, {Hash: "y", Module: "m"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "c", CallCount: 1},
		{CallerHash: "c", CalleeHash: "a", CallCount: 1},
		{CallerHash: "x", CalleeHash: "y", CallCount: 1},
		{CallerHash: "y", CalleeHash: "x", CallCount: 1},
	}
	cycles := FindCycles(nodes, edges, 1)
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0].Members, 3)
}
