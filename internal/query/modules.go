package query

import (
	"symgraph/internal/adapters"
	"symgraph/internal/analytics"
	"symgraph/internal/snapshot"
)

// GetModules implements the "modules" contract: the full per-module
// coupling table.
func GetModules(s *snapshot.Snapshot) ([]analytics.ModuleCoupling, error) {
	nodes, moduleEdges, err := adapters.CouplingInputs(s)
	if err != nil {
		return nil, err
	}
	return analytics.Coupling(nodes, moduleEdges), nil
}

// ModuleEdge is one inter-module edge row, external sentinel filtered.
type ModuleEdge struct {
	CallerModule string
	CalleeModule string
	EdgeCount    int
}

// GetModuleEdges implements the "module_edges" contract.
func GetModuleEdges(s *snapshot.Snapshot) ([]ModuleEdge, error) {
	raw, err := s.ModuleEdges()
	if err != nil {
		return nil, err
	}
	out := make([]ModuleEdge, 0, len(raw))
	for _, me := range raw {
		if me.CallerModule == snapshot.ExternalModuleSentinel || me.CalleeModule == snapshot.ExternalModuleSentinel {
			continue
		}
		out = append(out, ModuleEdge{CallerModule: me.CallerModule, CalleeModule: me.CalleeModule, EdgeCount: me.EdgeCount})
	}
	return out, nil
}

// FunctionCall is one function-level call between two modules.
type FunctionCall struct {
	CallerHash string
	CalleeHash string
	CallCount  int
}

// GetModuleEdgesDetail implements the "module_edges_detail" contract:
// function-level calls between srcMod and tgtMod.
func GetModuleEdgesDetail(s *snapshot.Snapshot, srcMod, tgtMod string) ([]FunctionCall, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	moduleOf := make(map[string]string, len(nodes))
	for _, n := range nodes {
		moduleOf[n.Hash] = n.Module
	}
	edges, err := s.Edges(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	var out []FunctionCall
	for _, e := range edges {
		if moduleOf[e.CallerHash] == srcMod && moduleOf[e.CalleeHash] == tgtMod {
			out = append(out, FunctionCall{CallerHash: e.CallerHash, CalleeHash: e.CalleeHash, CallCount: e.CallCount})
		}
	}
	return out, nil
}
