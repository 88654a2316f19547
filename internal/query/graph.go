package query

import (
	"sort"

	"symgraph/internal/snapshot"
)

// GraphResult is a nodes+edges subgraph, the "graph" contract result.
type GraphResult struct {
	Nodes []snapshot.Node
	Edges []snapshot.Edge
}

// GetGraph implements the "graph" contract: nodes (optionally filtered
// to a module), paginated by limit/offset, plus the edges among them.
func GetGraph(s *snapshot.Snapshot, module string, limit, offset int) (GraphResult, error) {
	filters := snapshot.Filters{}
	if module != "" {
		filters.Module = module
	}
	nodes, err := s.Nodes(filters)
	if err != nil {
		return GraphResult{}, err
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Hash < nodes[j].Hash })

	if offset < 0 {
		offset = 0
	}
	if offset > len(nodes) {
		offset = len(nodes)
	}
	end := len(nodes)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page := nodes[offset:end]

	hashSet := make(map[string]bool, len(page))
	for _, n := range page {
		hashSet[n.Hash] = true
	}

	edges, err := s.Edges(snapshot.Filters{})
	if err != nil {
		return GraphResult{}, err
	}
	var kept []snapshot.Edge
	for _, e := range edges {
		if hashSet[e.CallerHash] && hashSet[e.CalleeHash] {
			kept = append(kept, e)
		}
	}

	return GraphResult{Nodes: page, Edges: kept}, nil
}

// NodeDetail is the "node_detail" contract result: a node plus its
// direct callers and callees.
type NodeDetail struct {
	Node    snapshot.Node
	Callers []snapshot.Node
	Callees []snapshot.Node
}

// GetNodeDetail implements the "node_detail" contract.
func GetNodeDetail(s *snapshot.Snapshot, hash string) (NodeDetail, error) {
	nodes, err := s.Nodes(snapshot.Filters{IncludeExternal: true})
	if err != nil {
		return NodeDetail{}, err
	}
	byHash := make(map[string]snapshot.Node, len(nodes))
	for _, n := range nodes {
		byHash[n.Hash] = n
	}
	target, ok := byHash[hash]
	if !ok {
		return NodeDetail{}, nodeNotFound(s, hash)
	}

	edges, err := s.Edges(snapshot.Filters{IncludeExternal: true})
	if err != nil {
		return NodeDetail{}, err
	}
	var callers, callees []snapshot.Node
	for _, e := range edges {
		if e.CalleeHash == hash {
			if n, ok := byHash[e.CallerHash]; ok {
				callers = append(callers, n)
			}
		}
		if e.CallerHash == hash {
			if n, ok := byHash[e.CalleeHash]; ok {
				callees = append(callees, n)
			}
		}
	}
	sort.Slice(callers, func(i, j int) bool { return callers[i].Hash < callers[j].Hash })
	sort.Slice(callees, func(i, j int) bool { return callees[i].Hash < callees[j].Hash })

	return NodeDetail{Node: target, Callers: callers, Callees: callees}, nil
}
