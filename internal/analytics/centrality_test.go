package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestCentralityUsesBetweennessBelowExactLimit(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "m"}, {Hash: "b", Module: "m"}, {Hash: "c", Module: "m"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "c", CallCount: 1},
	}
	report := Centrality(nodes, edges, 10)
	assert.Equal(t, MethodBetweenness, report.Method)
	require.NotEmpty(t, report.Ranked)
	assert.Equal(t, "b", report.Ranked[0].Hash)
}

func TestCentralityTopNTruncatesRanking(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Module: "m"}, {Hash: "b", Module: "m"}, {Hash: "c", Module: "m"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "c", CallCount: 1},
	}
	report := Centrality(nodes, edges, 1)
	assert.Len(t, report.Ranked, 1)
}

func TestCentralityOnEmptyGraphReturnsNoRanking(t *testing.T) {
	report := Centrality(nil, nil, 0)
	assert.Empty(t, report.Ranked)
}
