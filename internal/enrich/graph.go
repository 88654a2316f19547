// Package enrich implements the Enrichment Pipeline (§4.3): a set of
// independent, pure feature-computation steps over the full call graph,
// each producing a partial feature map that gets merged into one record
// per node. Individual step failure is isolated and produces zero/default
// values rather than aborting the run.
package enrich

import (
	"symgraph/internal/graphalg"
	"symgraph/internal/snapshot"
)

// BuildGraph constructs the internal directed graph (and its module index)
// from raw snapshot rows, excluding external nodes/edges per §3.1.
func BuildGraph(nodes []snapshot.Node, edges []snapshot.Edge) (*graphalg.Graph, *Metadata) {
	g := graphalg.NewGraph()
	meta := &Metadata{
		Module:      make(map[string]string),
		Complexity:  make(map[string]int),
		CallerCount: make(map[string]int),
		CalleeCount: make(map[string]int),
		CallCount:   make(map[[2]string]int),
	}

	for _, n := range nodes {
		if n.IsExternal() {
			continue
		}
		g.AddNode(n.Hash)
		meta.Module[n.Hash] = n.Module
		meta.Complexity[n.Hash] = n.Complexity
		meta.CallerCount[n.Hash] = n.CallerCount
		meta.CalleeCount[n.Hash] = n.CalleeCount
		meta.Order = append(meta.Order, n.Hash)
	}

	for _, e := range edges {
		if isExternalHash(e.CallerHash) || isExternalHash(e.CalleeHash) {
			continue
		}
		if _, ok := meta.Module[e.CallerHash]; !ok {
			continue
		}
		if _, ok := meta.Module[e.CalleeHash]; !ok {
			continue
		}
		g.AddEdge(e.CallerHash, e.CalleeHash, 1)
		meta.CallCount[[2]string{e.CallerHash, e.CalleeHash}] += e.CallCount
		meta.EdgeOrder = append(meta.EdgeOrder, [2]string{e.CallerHash, e.CalleeHash})
	}

	return g, meta
}

func isExternalHash(h string) bool {
	return len(h) >= 4 && h[:4] == "ext:"
}

// Metadata carries the per-node attributes steps need beyond adjacency.
type Metadata struct {
	Module     map[string]string
	Complexity map[string]int
	// CallerCount/CalleeCount are each node's raw total in-/out-degree as
	// recorded on the snapshot row, independent of module boundaries --
	// the composite step's middleman_score wants this, not the cross-module
	// fan sets it derives itself.
	CallerCount map[string]int
	CalleeCount map[string]int
	CallCount   map[[2]string]int
	// Order is node hashes in snapshot iteration order (Nodes() is sorted
	// by hash), used wherever a stable default iteration order matters.
	Order []string
	// EdgeOrder is (caller, callee) pairs in the order Edges() returned
	// them (sorted by (caller, callee) ascending) -- the accumulation
	// order §9 requires for Louvain determinism.
	EdgeOrder [][2]string
}
