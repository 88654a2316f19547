// Package graphalg implements stateless directed-graph primitives shared
// by the enrichment pipeline and the analytics kernels: SCC/condensation,
// topological ordering, longest-path DP, reachability-count DP, and the
// weighted undirected projection used by community detection. None of it
// touches storage; callers supply adjacency built from snapshot rows.
package graphalg

import "sort"

// Graph is a simple directed multigraph over string node ids, adjacency
// lists built once and reused across every primitive in this package.
// Grounded on the adjacency/index shape of the teacher's symbol graph
// (NodeID <-> dense index, forward and reverse adjacency lists).
type Graph struct {
	nodes   []string
	index   map[string]int
	out     [][]weightedEdge
	in      [][]weightedEdge
}

type weightedEdge struct {
	to     int
	weight float64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode registers a node id, returning its dense index. Calling it again
// with the same id is a no-op.
func (g *Graph) AddNode(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.index[id] = idx
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// AddEdge adds a directed edge, auto-registering endpoints.
func (g *Graph) AddEdge(from, to string, weight float64) {
	fi := g.AddNode(from)
	ti := g.AddNode(to)
	g.out[fi] = append(g.out[fi], weightedEdge{to: ti, weight: weight})
	g.in[ti] = append(g.in[ti], weightedEdge{to: fi, weight: weight})
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Nodes returns node ids in insertion order.
func (g *Graph) Nodes() []string { return g.nodes }

// Index returns the dense index for a node id, or -1 if unknown.
func (g *Graph) Index(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	return -1
}

// NodeAt returns the node id at a dense index.
func (g *Graph) NodeAt(idx int) string { return g.nodes[idx] }

// OutNeighbors returns the dense indices of nodes reachable by one outgoing
// edge from idx, in insertion order of the edges.
func (g *Graph) OutNeighbors(idx int) []int {
	out := make([]int, len(g.out[idx]))
	for i, e := range g.out[idx] {
		out[i] = e.to
	}
	return out
}

// InNeighbors returns the dense indices of nodes with an edge into idx.
func (g *Graph) InNeighbors(idx int) []int {
	out := make([]int, len(g.in[idx]))
	for i, e := range g.in[idx] {
		out[i] = e.to
	}
	return out
}

// OutDegree and InDegree return edge counts (not distinct-neighbor counts).
func (g *Graph) OutDegree(idx int) int { return len(g.out[idx]) }
func (g *Graph) InDegree(idx int) int  { return len(g.in[idx]) }

// SortedNodeIndices returns 0..n-1, provided for callers that want a
// deterministic iteration order matching insertion (used by Louvain's
// tie-break-free accumulation, §9).
func (g *Graph) SortedNodeIndices() []int {
	idx := make([]int, len(g.nodes))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// UndirectedProjection holds the Louvain projection weights: edge
// multiplicity summed across both directions between a and b (§4.2).
type UndirectedProjection struct {
	g       *Graph
	weights map[[2]int]float64
}

// Project builds the undirected weighted projection from a directed graph.
// Accumulation order is (caller index, callee index) ascending over the
// original edge list, matching the determinism requirement in §9 (Louvain
// determinism: "fix... the edge-weight accumulation order").
func Project(g *Graph, edgeOrder func() [][2]int) *UndirectedProjection {
	weights := make(map[[2]int]float64)
	for _, pair := range edgeOrder() {
		a, b := pair[0], pair[1]
		if a == b {
			continue
		}
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		weights[key]++
	}
	return &UndirectedProjection{g: g, weights: weights}
}

// Pairs returns the (a, b, weight) triples sorted by (a, b) ascending.
func (p *UndirectedProjection) Pairs() [][3]float64 {
	keys := make([][2]int, 0, len(p.weights))
	for k := range p.weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	out := make([][3]float64, 0, len(keys))
	for _, k := range keys {
		out = append(out, [3]float64{float64(k[0]), float64(k[1]), p.weights[k]})
	}
	return out
}
