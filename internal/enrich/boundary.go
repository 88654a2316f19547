package enrich

import (
	"context"
	"sort"

	"symgraph/internal/graphalg"
	"symgraph/internal/snapshot"
)

// BoundaryStep computes xmod_fan_in, xmod_fan_out, xmod_call_ratio,
// dominant_callee_mod and dominant_callee_frac (§4.3). The __external__
// sentinel is left out of xmod_fan_in, xmod_fan_out and
// dominant_callee_mod; xmod_call_ratio and the dominant_callee_frac
// denominator do count calls into __external__ as outgoing edges.
type BoundaryStep struct{}

func (BoundaryStep) Name() string { return "boundary" }

func (BoundaryStep) Run(_ context.Context, g *graphalg.Graph, meta *Metadata) (PartialFeatures, error) {
	out := make(PartialFeatures, g.NumNodes())

	for v := 0; v < g.NumNodes(); v++ {
		hash := g.NodeAt(v)
		mod := meta.Module[hash]

		callerMods := make(map[string]bool)
		for _, u := range g.InNeighbors(v) {
			um := meta.Module[g.NodeAt(u)]
			if um != mod && um != snapshot.ExternalModuleSentinel {
				callerMods[um] = true
			}
		}
		calleeMods := make(map[string]bool)
		calleeCounts := make(map[string]int)
		totalOut := 0
		xmodOut := 0
		for _, w := range g.OutNeighbors(v) {
			wm := meta.Module[g.NodeAt(w)]
			totalOut++
			if wm != mod {
				xmodOut++
				if wm != snapshot.ExternalModuleSentinel {
					calleeMods[wm] = true
					calleeCounts[wm]++
				}
			}
		}

		ratio := 0.0
		if totalOut > 0 {
			ratio = float64(xmodOut) / float64(totalOut)
		}

		domMod := ""
		domFrac := 0.0
		if totalOut > 0 && len(calleeCounts) > 0 {
			keys := make([]string, 0, len(calleeCounts))
			for k := range calleeCounts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			best, bestCount := "", -1
			for _, k := range keys {
				if calleeCounts[k] > bestCount {
					best, bestCount = k, calleeCounts[k]
				}
			}
			domMod = best
			domFrac = float64(bestCount) / float64(totalOut)
		}

		out[hash] = map[string]interface{}{
			"xmod_fan_in":          len(callerMods),
			"xmod_fan_out":         len(calleeMods),
			"xmod_call_ratio":      ratio,
			"dominant_callee_mod":  domMod,
			"dominant_callee_frac": domFrac,
		}
	}
	return out, nil
}
