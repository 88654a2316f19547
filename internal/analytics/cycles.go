package analytics

import (
	"sort"

	"symgraph/internal/graphalg"
	"symgraph/internal/snapshot"
)

// Cycle is a strongly connected component of size > 1.
type Cycle struct {
	SCCID           int
	Members         []string
	Modules         []string
	CrossModule     bool
	BreakSuggestion CycleEdge
}

// CycleEdge names the intra-cycle edge with the lowest call count, the
// cheapest one to break first.
type CycleEdge struct {
	CallerHash string
	CalleeHash string
	CallCount  int
}

// FindCycles implements §4.4 "Cycles": SCCs with |scc| > 1, sorted desc by
// size, top N returned (default 20).
func FindCycles(nodes []snapshot.Node, edges []snapshot.Edge, topN int) []Cycle {
	if topN <= 0 {
		topN = 20
	}
	g, moduleOf := buildInternalGraph(nodes, edges)
	sccs := graphalg.Tarjan(g)

	edgeCount := make(map[[2]string]int, len(edges))
	for _, e := range edges {
		edgeCount[[2]string{e.CallerHash, e.CalleeHash}] = e.CallCount
	}

	var cycles []Cycle
	for _, scc := range sccs {
		if len(scc.Members) <= 1 {
			continue
		}
		members := make([]string, len(scc.Members))
		modSet := make(map[string]bool)
		for i, idx := range scc.Members {
			hash := g.NodeAt(idx)
			members[i] = hash
			modSet[moduleOf[hash]] = true
		}
		sort.Strings(members)

		mods := make([]string, 0, len(modSet))
		for m := range modSet {
			mods = append(mods, m)
		}
		sort.Strings(mods)

		memberSet := make(map[string]bool, len(members))
		for _, m := range members {
			memberSet[m] = true
		}

		// Deterministic minimum: iterate members ascending, then their
		// sorted out-edges, so the first-seen minimum wins ties.
		var best CycleEdge
		haveBest := false
		for _, m := range members {
			idx := g.Index(m)
			for _, w := range sortedNeighbors(g.OutNeighbors(idx), g) {
				callee := g.NodeAt(w)
				if !memberSet[callee] {
					continue
				}
				cc := edgeCount[[2]string{m, callee}]
				if !haveBest || cc < best.CallCount {
					best = CycleEdge{CallerHash: m, CalleeHash: callee, CallCount: cc}
					haveBest = true
				}
			}
		}

		cycles = append(cycles, Cycle{
			SCCID: scc.ID, Members: members, Modules: mods,
			CrossModule: len(mods) >= 2, BreakSuggestion: best,
		})
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		if len(cycles[i].Members) != len(cycles[j].Members) {
			return len(cycles[i].Members) > len(cycles[j].Members)
		}
		return cycles[i].SCCID < cycles[j].SCCID
	})
	if len(cycles) > topN {
		cycles = cycles[:topN]
	}
	return cycles
}

func sortedNeighbors(idxs []int, g *graphalg.Graph) []int {
	out := make([]int, len(idxs))
	copy(out, idxs)
	sort.Slice(out, func(i, j int) bool { return g.NodeAt(out[i]) < g.NodeAt(out[j]) })
	return out
}

// buildInternalGraph builds a graphalg.Graph over internal nodes/edges
// only, alongside a hash->module lookup, shared by the kernels that need
// a fresh graph rather than enrich.BuildGraph's Metadata.
func buildInternalGraph(nodes []snapshot.Node, edges []snapshot.Edge) (*graphalg.Graph, map[string]string) {
	g := graphalg.NewGraph()
	moduleOf := make(map[string]string, len(nodes))
	internal := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.IsExternal() {
			continue
		}
		g.AddNode(n.Hash)
		moduleOf[n.Hash] = n.Module
		internal[n.Hash] = true
	}
	for _, e := range edges {
		if !internal[e.CallerHash] || !internal[e.CalleeHash] {
			continue
		}
		g.AddEdge(e.CallerHash, e.CalleeHash, float64(e.CallCount))
	}
	return g, moduleOf
}
