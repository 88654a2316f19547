package query

import (
	"sort"

	"symgraph/internal/analytics"
	"symgraph/internal/snapshot"
)

// ModuleGraphResult is the "module_graph" contract result: rolled-up
// modules with their coupling stats plus the inter-module edges among
// them, to depth.
type ModuleGraphResult struct {
	Modules []analytics.ModuleCoupling
	Edges   []ModuleEdge
}

// GetModuleGraph implements the "module_graph" contract. depth is a count
// of modules, not hops: only edges touching one of the first depth modules
// of the coupling table (the busiest by ca+ce) are kept, while the module
// list is returned whole; depth <= 0 returns everything.
func GetModuleGraph(s *snapshot.Snapshot, depth int) (ModuleGraphResult, error) {
	modules, err := GetModules(s)
	if err != nil {
		return ModuleGraphResult{}, err
	}
	edges, err := GetModuleEdges(s)
	if err != nil {
		return ModuleGraphResult{}, err
	}

	if depth <= 0 {
		return ModuleGraphResult{Modules: modules, Edges: edges}, nil
	}

	kept := make(map[string]bool, depth)
	for i, m := range modules {
		if i >= depth {
			break
		}
		kept[m.Module] = true
	}
	var filteredEdges []ModuleEdge
	for _, e := range edges {
		if kept[e.CallerModule] || kept[e.CalleeModule] {
			filteredEdges = append(filteredEdges, e)
		}
	}
	sort.Slice(filteredEdges, func(i, j int) bool {
		if filteredEdges[i].CallerModule != filteredEdges[j].CallerModule {
			return filteredEdges[i].CallerModule < filteredEdges[j].CallerModule
		}
		return filteredEdges[i].CalleeModule < filteredEdges[j].CalleeModule
	})

	return ModuleGraphResult{Modules: modules, Edges: filteredEdges}, nil
}
