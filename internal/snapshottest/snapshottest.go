// Package snapshottest builds real *snapshot.Snapshot handles over a
// temp directory for tests that need to exercise code sitting above the
// store layer (diffcoord, query, adapters) without a real indexer run.
package snapshottest

import (
	"testing"

	"symgraph/internal/snapshot"
)

// New opens a raw snapshot under t.TempDir() and seeds it with nodes,
// edges and module edges, failing the test on any error.
func New(t *testing.T, nodes []snapshot.Node, edges []snapshot.Edge, moduleEdges []snapshot.ModuleEdge) *snapshot.Snapshot {
	t.Helper()
	dir := t.TempDir()
	s, err := snapshot.OpenForWrite(dir, nil, false)
	if err != nil {
		t.Fatalf("open snapshot fixture: %v", err)
	}
	if err := s.InsertRaw(nodes, edges, moduleEdges); err != nil {
		t.Fatalf("seed snapshot fixture: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewDerived opens a derived snapshot (raw tables plus node_features)
// under t.TempDir(), failing the test on any error.
func NewDerived(t *testing.T, nodes []snapshot.Node, edges []snapshot.Edge, moduleEdges []snapshot.ModuleEdge, features []snapshot.NodeFeatures) *snapshot.Snapshot {
	t.Helper()
	dir := t.TempDir()
	s, err := snapshot.OpenForWrite(dir, nil, true)
	if err != nil {
		t.Fatalf("open derived snapshot fixture: %v", err)
	}
	if err := s.InsertRaw(nodes, edges, moduleEdges); err != nil {
		t.Fatalf("seed snapshot fixture: %v", err)
	}
	if err := s.InsertFeatures(features); err != nil {
		t.Fatalf("seed feature fixture: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
