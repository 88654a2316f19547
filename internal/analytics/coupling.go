package analytics

import (
	"sort"

	"symgraph/internal/snapshot"
)

// ModuleCoupling is one module's afferent/efferent coupling stats.
type ModuleCoupling struct {
	Module      string
	Afferent    int // incoming inter-module edges, summed
	Efferent    int // outgoing inter-module edges, summed
	Instability float64
	SymbolCount int
}

// Coupling implements §4.4 "Coupling": afferent/efferent per module,
// instability = ce / (ca+ce) (0 when total is 0), joined with per-module
// symbol counts, sorted desc by ca+ce.
func Coupling(nodes []snapshot.Node, moduleEdges []snapshot.ModuleEdge) []ModuleCoupling {
	symbolCount := make(map[string]int)
	for _, n := range nodes {
		if n.IsExternal() {
			continue
		}
		symbolCount[n.Module]++
	}

	afferent := make(map[string]int)
	efferent := make(map[string]int)
	touched := make(map[string]bool)
	for _, me := range moduleEdges {
		if me.CallerModule == me.CalleeModule {
			continue
		}
		if me.CallerModule != snapshot.ExternalModuleSentinel {
			efferent[me.CallerModule] += me.EdgeCount
			touched[me.CallerModule] = true
		}
		if me.CalleeModule != snapshot.ExternalModuleSentinel {
			afferent[me.CalleeModule] += me.EdgeCount
			touched[me.CalleeModule] = true
		}
	}
	for m := range symbolCount {
		touched[m] = true
	}

	modules := make([]string, 0, len(touched))
	for m := range touched {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	out := make([]ModuleCoupling, 0, len(modules))
	for _, m := range modules {
		ca, ce := afferent[m], efferent[m]
		instability := 0.0
		if total := ca + ce; total > 0 {
			instability = float64(ce) / float64(total)
		}
		out = append(out, ModuleCoupling{
			Module: m, Afferent: ca, Efferent: ce,
			Instability: instability, SymbolCount: symbolCount[m],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti := out[i].Afferent + out[i].Efferent
		tj := out[j].Afferent + out[j].Efferent
		if ti != tj {
			return ti > tj
		}
		return out[i].Module < out[j].Module
	})
	return out
}
