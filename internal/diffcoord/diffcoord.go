// Package diffcoord pairs two snapshots and invokes the diff analytics
// kernel over them, producing the combined report plus the per-node
// ("module::name") status map the visualization UI overlays onto a rendered graph
// (§4.6 "Diff Coordinator").
package diffcoord

import (
	"symgraph/internal/analytics"
	"symgraph/internal/snapshot"
)

// StatusMap maps a node key ("module::name") to its diff status, one of
// "added", "removed", "modified"; unchanged nodes have no entry.
type StatusMap map[string]string

// Result bundles the diff report with its derived status map.
type Result struct {
	Report     analytics.DiffReport
	StatusMap  StatusMap
}

// Compare runs the diff kernel over snapshot A (base) and snapshot B
// (head) and derives the status map from its four node sets.
func Compare(a, b *snapshot.Snapshot, topKContext, maxNodes int) (Result, error) {
	nodesA, err := a.Nodes(snapshot.Filters{})
	if err != nil {
		return Result{}, err
	}
	edgesA, err := a.Edges(snapshot.Filters{})
	if err != nil {
		return Result{}, err
	}
	nodesB, err := b.Nodes(snapshot.Filters{})
	if err != nil {
		return Result{}, err
	}
	edgesB, err := b.Edges(snapshot.Filters{})
	if err != nil {
		return Result{}, err
	}

	report := analytics.Diff(nodesA, nodesB, edgesA, edgesB, topKContext, maxNodes)

	// Only changed rows are reported (§6 "diff_status_map": added/removed/
	// modified); unchanged nodes are the implicit default and are omitted,
	// so an identical pair of snapshots yields an empty map (Scenario E).
	statusMap := make(StatusMap, len(report.Added)+len(report.Removed)+len(report.Modified))
	for _, k := range report.Added {
		statusMap[k] = "added"
	}
	for _, k := range report.Removed {
		statusMap[k] = "removed"
	}
	for _, k := range report.Modified {
		statusMap[k] = "modified"
	}

	return Result{Report: report, StatusMap: statusMap}, nil
}
