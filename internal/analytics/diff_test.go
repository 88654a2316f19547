package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"symgraph/internal/snapshot"
)

func TestDiffIdenticalSnapshotsHaveFullSimilarityAndNoChanges(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "mod1:hash-a", Name: "Foo", Module: "mod1"},
		{Hash: "mod1:hash-b", Name: "Bar", Module: "mod1"},
	}
	edges := []snapshot.Edge{{CallerHash: "mod1:hash-a", CalleeHash: "mod1:hash-b", CallCount: 1}}

	report := Diff(nodes, nodes, edges, edges, 0, 0)
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Removed)
	assert.Empty(t, report.Modified)
	assert.Len(t, report.Unchanged, 2)
	assert.Equal(t, 1.0, report.Similarity)
}

func TestDiffDetectsAddedRemovedAndModifiedByNameModuleKey(t *testing.T) {
	nodesA := []snapshot.Node{
		{Hash: "mod1:old-hash", Name: "Foo", Module: "mod1"},
		{Hash: "mod1:hash-gone", Name: "Gone", Module: "mod1"},
	}
	nodesB := []snapshot.Node{
		{Hash: "mod1:new-hash", Name: "Foo", Module: "mod1"}, // same key, different content
		{Hash: "mod1:hash-new", Name: "New", Module: "mod1"},
	}
	report := Diff(nodesA, nodesB, nil, nil, 0, 0)
	assert.Equal(t, []string{"mod1::New"}, report.Added)
	assert.Equal(t, []string{"mod1::Gone"}, report.Removed)
	assert.Equal(t, []string{"mod1::Foo"}, report.Modified)
	assert.Empty(t, report.Unchanged)
}

func TestDiffSubgraphTagsEdgeStatuses(t *testing.T) {
	nodesA := []snapshot.Node{
		{Hash: "m:a", Name: "A", Module: "m"},
		{Hash: "m:b", Name: "B", Module: "m"},
	}
	nodesB := []snapshot.Node{
		{Hash: "m:a2", Name: "A", Module: "m"}, // modified
		{Hash: "m:b", Name: "B", Module: "m"},  // unchanged
	}
	edgesA := []snapshot.Edge{{CallerHash: "m:a", CalleeHash: "m:b", CallCount: 1}}
	edgesB := []snapshot.Edge{{CallerHash: "m:a2", CalleeHash: "m:b", CallCount: 1}}

	report := Diff(nodesA, nodesB, edgesA, edgesB, 5, 500)
	assert.Contains(t, report.Subgraph.NodeHashesA, "m:a")
	assert.Contains(t, report.Subgraph.NodeHashesB, "m:a2")
	var sawRemoved, sawAdded bool
	for _, e := range report.Subgraph.Edges {
		if e.CallerHash == "m:a" && e.Status == EdgeRemoved {
			sawRemoved = true
		}
		if e.CallerHash == "m:a2" && e.Status == EdgeAdded {
			sawAdded = true
		}
	}
	assert.True(t, sawRemoved)
	assert.True(t, sawAdded)
}

func TestDiffContextTrimmedBeforeChangedNodesWhenOverCap(t *testing.T) {
	nodesA := []snapshot.Node{{Hash: "m:a", Name: "A", Module: "m", CallerCount: 1}}
	nodesB := []snapshot.Node{
		{Hash: "m:a2", Name: "A", Module: "m"},
		{Hash: "m:c", Name: "C", Module: "m", CallerCount: 5},
	}
	edgesB := []snapshot.Edge{{CallerHash: "m:a2", CalleeHash: "m:c", CallCount: 1}}
	report := Diff(nodesA, nodesB, nil, edgesB, 10, 1)
	// Over the cap: context-only nodes must be dropped, changed nodes kept.
	assert.Contains(t, report.Subgraph.NodeHashesB, "m:a2")
}
