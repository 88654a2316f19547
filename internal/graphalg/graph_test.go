package graphalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDiamond() *Graph {
	g := NewGraph()
	g.AddEdge("a", "b", 1)
	g.AddEdge("a", "c", 1)
	g.AddEdge("b", "d", 1)
	g.AddEdge("c", "d", 1)
	return g
}

func TestAddEdgeIsIdempotentOnNodes(t *testing.T) {
	g := buildDiamond()
	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 0, g.Index("a"))
	assert.Equal(t, -1, g.Index("z"))
}

func TestTarjanSingleNodeSCCsForDAG(t *testing.T) {
	g := buildDiamond()
	sccs := Tarjan(g)
	require.Len(t, sccs, 4)
	for _, scc := range sccs {
		assert.Len(t, scc.Members, 1)
	}
}

func TestTarjanFindsCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("x", "y", 1)
	g.AddEdge("y", "z", 1)
	g.AddEdge("z", "x", 1)
	sccs := Tarjan(g)
	require.Len(t, sccs, 1)
	assert.Len(t, sccs[0].Members, 3)
}

func TestCondenseProducesAcyclicGraph(t *testing.T) {
	g := NewGraph()
	g.AddEdge("x", "y", 1)
	g.AddEdge("y", "x", 1)
	g.AddEdge("y", "z", 1)
	cond := Condense(g)
	assert.Equal(t, 2, cond.C.NumNodes())
	order := TopologicalOrder(cond.C)
	assert.Len(t, order, 2)
}

func TestTopologicalOrderIsDeterministic(t *testing.T) {
	g := buildDiamond()
	order1 := TopologicalOrder(g)
	order2 := TopologicalOrder(g)
	assert.Equal(t, order1, order2)
	assert.Equal(t, 0, order1[0]) // "a" has in-degree 0 and lowest index
}

func TestLongestPathDepths(t *testing.T) {
	g := buildDiamond()
	order := TopologicalOrder(g)
	depths := LongestPathDepths(g, order)
	assert.Equal(t, 0, depths[g.Index("a")])
	assert.Equal(t, 2, depths[g.Index("d")])
}

func TestReverseFlipsEdges(t *testing.T) {
	g := buildDiamond()
	r := Reverse(g)
	assert.Contains(t, r.OutNeighbors(g.Index("d")), g.Index("b"))
	assert.Contains(t, r.OutNeighbors(g.Index("d")), g.Index("c"))
}

func TestReachabilityCountsInclusive(t *testing.T) {
	g := buildDiamond()
	order := TopologicalOrder(g)
	descendants, ancestors := ReachabilityCounts(g, order)
	// "a" reaches all 4 nodes inclusive of itself.
	assert.Equal(t, 4, descendants[g.Index("a")])
	// "d" is reached by all 4 nodes inclusive of itself.
	assert.Equal(t, 4, ancestors[g.Index("d")])
	// "d" is a sink: only itself descends from it.
	assert.Equal(t, 1, descendants[g.Index("d")])
}

func TestProjectAccumulatesEdgeMultiplicity(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b", 2)
	g.AddEdge("b", "a", 3)
	proj := Project(g, func() [][2]int {
		return [][2]int{{g.Index("a"), g.Index("b")}, {g.Index("b"), g.Index("a")}}
	})
	pairs := proj.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, float64(g.Index("a")), pairs[0][0])
	assert.Equal(t, float64(g.Index("b")), pairs[0][1])
	assert.Equal(t, 2.0, pairs[0][2])
}
