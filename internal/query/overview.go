// Package query is the orchestration layer exposing one function per
// §6 "Analytics request contracts" row: it wires the snapshot store,
// query adapters, analytics kernels, pivot engine and diff coordinator
// together behind a single pure-function-per-operation surface.
package query

import (
	"sort"

	"symgraph/internal/adapters"
	"symgraph/internal/snapshot"
)

// Overview is the §6 "overview" result: counts, top modules, risk
// distribution.
type Overview struct {
	TotalNodes      int
	TotalEdges      int
	ModuleCount     int
	TopModules      []ModuleCount
	RiskDistribution map[string]int
}

// ModuleCount is one module's symbol count, used for the overview's
// top-modules list.
type ModuleCount struct {
	Module string
	Count  int
}

// GetOverview implements the "overview" contract.
func GetOverview(s *snapshot.Snapshot) (Overview, error) {
	bundle, err := adapters.Overview(s)
	if err != nil {
		return Overview{}, err
	}

	moduleCounts := make(map[string]int)
	riskDist := make(map[string]int)
	internalNodes := 0
	for _, n := range bundle.Nodes {
		if n.IsExternal() {
			continue
		}
		internalNodes++
		moduleCounts[n.Module]++
		riskDist[n.Risk]++
	}

	internalEdges := 0
	for _, e := range bundle.Edges {
		internalEdges++
	}

	modules := make([]string, 0, len(moduleCounts))
	for m := range moduleCounts {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	top := make([]ModuleCount, 0, len(modules))
	for _, m := range modules {
		top = append(top, ModuleCount{Module: m, Count: moduleCounts[m]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Module < top[j].Module
	})
	if len(top) > 10 {
		top = top[:10]
	}

	return Overview{
		TotalNodes: internalNodes, TotalEdges: internalEdges,
		ModuleCount: len(moduleCounts), TopModules: top, RiskDistribution: riskDist,
	}, nil
}
