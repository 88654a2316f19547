package graphalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberOfMapsEveryNodeToItsSCC(t *testing.T) {
	g := NewGraph()
	g.AddEdge("x", "y", 1)
	g.AddEdge("y", "x", 1)
	g.AddEdge("y", "z", 1)
	sccs := Tarjan(g)
	owner := MemberOf(sccs)
	require.Len(t, owner, g.NumNodes())
	assert.Equal(t, owner[g.Index("x")], owner[g.Index("y")])
	assert.NotEqual(t, owner[g.Index("x")], owner[g.Index("z")])
}

func TestCondenseCollapsesCycleToSingleNodeWithSelfLoopDropped(t *testing.T) {
	g := NewGraph()
	g.AddEdge("x", "y", 1)
	g.AddEdge("y", "x", 1)
	cond := Condense(g)
	require.Equal(t, 1, cond.C.NumNodes())
	onlyNode := 0
	assert.Empty(t, cond.C.OutNeighbors(onlyNode))
}

func TestCondenseDeduplicatesParallelCrossSCCEdges(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b", 1)
	g.AddEdge("a", "b", 1)
	g.AddEdge("a", "b", 1)
	cond := Condense(g)
	aOwner := cond.NodeOwner[g.Index("a")]
	assert.Len(t, cond.C.OutNeighbors(cond.SCCToCNode[aOwner]), 1)
}
