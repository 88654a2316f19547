package query

import (
	"symgraph/internal/analytics"
	"symgraph/internal/diffcoord"
	"symgraph/internal/snapshot"
)

// DiffSummary is the "diff" contract result: summary stats only.
type DiffSummary struct {
	Added      int
	Removed    int
	Modified   int
	Unchanged  int
	Similarity float64
}

// GetDiff implements the "diff" contract.
func GetDiff(a, b *snapshot.Snapshot) (DiffSummary, error) {
	result, err := diffcoord.Compare(a, b, 10, 500)
	if err != nil {
		return DiffSummary{}, err
	}
	r := result.Report
	return DiffSummary{
		Added: len(r.Added), Removed: len(r.Removed),
		Modified: len(r.Modified), Unchanged: len(r.Unchanged),
		Similarity: r.Similarity,
	}, nil
}

// GetDiffGraph implements the "diff_graph" contract: the structural
// context subgraph.
func GetDiffGraph(a, b *snapshot.Snapshot, maxContext, maxNodes int) (analytics.DiffSubgraph, error) {
	result, err := diffcoord.Compare(a, b, maxContext, maxNodes)
	if err != nil {
		return analytics.DiffSubgraph{}, err
	}
	return result.Report.Subgraph, nil
}

// GetDiffStatusMap implements the "diff_status_map" contract.
func GetDiffStatusMap(a, b *snapshot.Snapshot) (diffcoord.StatusMap, error) {
	result, err := diffcoord.Compare(a, b, 10, 500)
	if err != nil {
		return nil, err
	}
	return result.StatusMap, nil
}
