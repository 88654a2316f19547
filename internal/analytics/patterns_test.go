package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestDetectPatternsFindsMutualRecursionPair(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "walk", Module: "m"},
		{Hash: "b", Name: "walkHelper", Module: "m"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 1},
		{CallerHash: "b", CalleeHash: "a", CallCount: 1},
	}
	out := DetectPatterns(nodes, edges)
	var found bool
	for _, p := range out {
		if p.Pattern == "mutual_recursion" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectPatternsFindsProxyForwarding(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "p", Name: "UserProxy", Module: "m"},
		{Hash: "r", Name: "UserService", Module: "m"},
	}
	edges := []snapshot.Edge{{CallerHash: "p", CalleeHash: "r", CallCount: 1}}
	out := DetectPatterns(nodes, edges)
	require.NotEmpty(t, out)
	var found bool
	for _, p := range out {
		if p.Pattern == "proxy" {
			found = true
			assert.Contains(t, p.Nodes, "p")
			assert.Contains(t, p.Nodes, "r")
		}
	}
	assert.True(t, found)
}

func TestDetectPatternsResultsAreAboveConfidenceFloor(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "getInstance", Module: "m"},
	}
	out := DetectPatterns(nodes, nil)
	for _, p := range out {
		assert.GreaterOrEqual(t, p.Confidence, patternConfidenceFloor)
	}
}

func TestDetectPatternsNoMatchesOnEmptyGraph(t *testing.T) {
	out := DetectPatterns(nil, nil)
	assert.Empty(t, out)
}
