package query

import (
	"symgraph/internal/analytics"
	"symgraph/internal/graphalg"
	"symgraph/internal/pivot"
	"symgraph/internal/snapshot"
)

// GetPivot implements the "pivot" contract: the dynamic query compiler
// of §4.5. compareTo, when non-nil, adds the diff overlay.
func GetPivot(s *snapshot.Snapshot, req pivot.Request, compareTo *snapshot.Snapshot) (pivot.Result, error) {
	rows, hasFeatures, err := buildPivotRows(s)
	if err != nil {
		return pivot.Result{}, err
	}

	var diffStatus map[string]float64
	if compareTo != nil {
		diffStatus, err = diffOverlayStatus(s, compareTo)
		if err != nil {
			return pivot.Result{}, err
		}
	}

	return pivot.Compute(req, rows, hasFeatures, diffStatus), nil
}

func buildPivotRows(s *snapshot.Snapshot) ([]pivot.Row, bool, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, false, err
	}
	edges, err := s.Edges(snapshot.Filters{})
	if err != nil {
		return nil, false, err
	}

	g := graphalg.NewGraph()
	for _, n := range nodes {
		g.AddNode(n.Hash)
	}
	for _, e := range edges {
		g.AddEdge(e.CallerHash, e.CalleeHash, float64(e.CallCount))
	}
	inCycle := make(map[string]bool)
	for _, scc := range graphalg.Tarjan(g) {
		if len(scc.Members) > 1 {
			for _, idx := range scc.Members {
				inCycle[g.NodeAt(idx)] = true
			}
		}
	}

	callees := make(map[string]map[string]int, len(nodes))
	for _, e := range edges {
		if callees[e.CallerHash] == nil {
			callees[e.CallerHash] = make(map[string]int)
		}
		callees[e.CallerHash][e.CalleeHash] += e.CallCount
	}

	hasFeatures := s.HasFeatures()
	var featByHash map[string]snapshot.NodeFeatures
	if hasFeatures {
		hashes := make([]string, len(nodes))
		for i, n := range nodes {
			hashes[i] = n.Hash
		}
		feats, err := s.NodeFeatures(hashes)
		if err != nil {
			return nil, false, err
		}
		featByHash = make(map[string]snapshot.NodeFeatures, len(feats))
		for _, f := range feats {
			featByHash[f.Hash] = f
		}
	}

	rows := make([]pivot.Row, 0, len(nodes))
	for _, n := range nodes {
		row := pivot.Row{Node: n, InCycle: inCycle[n.Hash], Callees: callees[n.Hash]}
		if hasFeatures {
			if f, ok := featByHash[n.Hash]; ok {
				fCopy := f
				row.Features = &fCopy
			}
		}
		rows = append(rows, row)
	}
	return rows, hasFeatures, nil
}

// diffOverlayStatus computes the per-symbol-key status codes the §4.5
// diff overlay uses: 0.0 added, 0.25 modified, 0.5 unchanged, 1.0 removed.
// Anything not present in the diff's node sets defaults to 0.5 at the
// row-building layer, per "These are intentional -- they map to a
// visualization color scale -- and must be preserved" (design notes).
func diffOverlayStatus(a, b *snapshot.Snapshot) (map[string]float64, error) {
	nodesA, err := a.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	nodesB, err := b.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	edgesA, err := a.Edges(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	edgesB, err := b.Edges(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	report := analytics.Diff(nodesA, nodesB, edgesA, edgesB, 0, 0)

	status := make(map[string]float64, len(report.Added)+len(report.Removed)+len(report.Modified)+len(report.Unchanged))
	for _, k := range report.Added {
		status[k] = 0.0
	}
	for _, k := range report.Modified {
		status[k] = 0.25
	}
	for _, k := range report.Unchanged {
		status[k] = 0.5
	}
	for _, k := range report.Removed {
		status[k] = 1.0
	}
	return status, nil
}
