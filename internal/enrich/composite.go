package enrich

import (
	"context"
	"math"
	"sort"

	"symgraph/internal/graphalg"
)

// CompositeStep computes utility_score, stability_rank, complexity_pct and
// middleman_score (§4.3). These depend on structural/boundary quantities
// (transitive callers, cross-module fan-in/out), which this step
// recomputes itself from the graph instead of reading other steps'
// output, since steps run independently.
type CompositeStep struct{}

func (CompositeStep) Name() string { return "composite" }

func (CompositeStep) Run(_ context.Context, g *graphalg.Graph, meta *Metadata) (PartialFeatures, error) {
	n := g.NumNodes()
	out := make(PartialFeatures, n)

	// Recompute the small set of upstream quantities this step needs,
	// independent of StructuralStep/BoundaryStep's own execution.
	cond := graphalg.Condense(g)
	order := graphalg.TopologicalOrder(cond.C)
	_, ancestors := graphalg.ReachabilityCounts(cond.C, order)
	sccSize := make(map[int]int)
	for _, scc := range cond.SCCs {
		sccSize[scc.ID] = len(scc.Members)
	}

	complexities := make([]int, n)
	for v := 0; v < n; v++ {
		complexities[v] = meta.Complexity[g.NodeAt(v)]
	}
	pctRank := complexityPercentiles(complexities)

	for v := 0; v < n; v++ {
		hash := g.NodeAt(v)
		mod := meta.Module[hash]

		fanIn := make(map[string]bool)
		for _, u := range g.InNeighbors(v) {
			if um := meta.Module[g.NodeAt(u)]; um != mod {
				fanIn[um] = true
			}
		}
		fanOut := make(map[string]bool)
		for _, w := range g.OutNeighbors(v) {
			if wm := meta.Module[g.NodeAt(w)]; wm != mod {
				fanOut[wm] = true
			}
		}

		sccID := cond.NodeOwner[v]
		cIdx := cond.SCCToCNode[sccID]
		transitiveCallers := ancestors[cIdx] - sccSize[sccID]
		if transitiveCallers < 0 {
			transitiveCallers = 0
		}

		utility := math.Log(1+float64(transitiveCallers)) * math.Log(2+float64(len(fanIn)))

		stability := 0.5
		if denom := len(fanIn) + len(fanOut); denom > 0 {
			stability = float64(len(fanOut)) / float64(denom)
		}

		// Middleman reads the node's raw caller/callee counts, not the
		// cross-module fan sets above: a relay concentrated entirely within
		// its own module still scores as a relay.
		callerCount := meta.CallerCount[hash]
		calleeCount := meta.CalleeCount[hash]
		middleman := 0.0
		if callerCount > 0 && calleeCount > 0 {
			complexity := complexities[v]
			middleman = (1.0 / (1.0 + float64(complexity))) *
				math.Log(1+float64(callerCount)) * math.Log(1+float64(calleeCount)) / 10.0
			if middleman > 1 {
				middleman = 1
			}
		}

		out[hash] = map[string]interface{}{
			"utility_score":   utility,
			"stability_rank":  stability,
			"complexity_pct":  pctRank[v],
			"middleman_score": middleman,
		}
	}
	return out, nil
}

// complexityPercentiles ranks nodes by complexity ascending. Ties share
// the lower rank (first-occurrence index), per §9 "Percentile with ties":
// "nodes with equal complexity share the lower rank".
func complexityPercentiles(complexities []int) []float64 {
	n := len(complexities)
	pct := make([]float64, n)
	if n == 0 {
		return pct
	}
	if n == 1 {
		pct[0] = 1
		return pct
	}

	type entry struct {
		idx   int
		value int
	}
	entries := make([]entry, n)
	for i, c := range complexities {
		entries[i] = entry{idx: i, value: c}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].value < entries[j].value })

	rank := make([]int, n)
	lowestRankForValue := make(map[int]int)
	for pos, e := range entries {
		if r, ok := lowestRankForValue[e.value]; ok {
			rank[e.idx] = r
		} else {
			lowestRankForValue[e.value] = pos
			rank[e.idx] = pos
		}
	}

	for i, r := range rank {
		pct[i] = float64(r+1) / float64(n)
	}
	return pct
}
