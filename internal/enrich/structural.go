package enrich

import (
	"context"

	"symgraph/internal/graphalg"
)

// StructuralStep computes scc_id, scc_size, scc_cross_module,
// topological_depth, reverse_topological_depth, transitive_callers and
// transitive_callees (§4.3).
type StructuralStep struct{}

func (StructuralStep) Name() string { return "structural" }

func (StructuralStep) Run(_ context.Context, g *graphalg.Graph, meta *Metadata) (PartialFeatures, error) {
	cond := graphalg.Condense(g)
	order := graphalg.TopologicalOrder(cond.C)
	depth := graphalg.LongestPathDepths(cond.C, order)

	revC := graphalg.Reverse(cond.C)
	revOrder := graphalg.TopologicalOrder(revC)
	revDepth := graphalg.LongestPathDepths(revC, revOrder)

	descendants, ancestors := graphalg.ReachabilityCounts(cond.C, order)

	out := make(PartialFeatures, g.NumNodes())

	sccSize := make(map[int]int)
	sccModules := make(map[int]map[string]bool)
	for _, scc := range cond.SCCs {
		sccSize[scc.ID] = len(scc.Members)
		mods := make(map[string]bool)
		for _, m := range scc.Members {
			mods[meta.Module[g.NodeAt(m)]] = true
		}
		sccModules[scc.ID] = mods
	}

	for v := 0; v < g.NumNodes(); v++ {
		hash := g.NodeAt(v)
		sccID := cond.NodeOwner[v]
		cIdx := cond.SCCToCNode[sccID]

		strictCallees := descendants[cIdx] - sccSize[sccID]
		strictCallers := ancestors[cIdx] - sccSize[sccID]
		if strictCallees < 0 {
			strictCallees = 0
		}
		if strictCallers < 0 {
			strictCallers = 0
		}

		out[hash] = map[string]interface{}{
			"scc_id":                    sccID,
			"scc_size":                  sccSize[sccID],
			"scc_cross_module":          len(sccModules[sccID]) >= 2,
			"topological_depth":         depth[cIdx],
			"reverse_topological_depth": revDepth[cIdx],
			"transitive_callees":        strictCallees,
			"transitive_callers":        strictCallers,
		}
	}
	return out, nil
}
