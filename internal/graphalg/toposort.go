package graphalg

import "sort"

// TopologicalOrder returns a topological order of the condensation DAG's
// node indices. Ties (multiple nodes with indegree 0 at the same step) are
// broken by SCC id ascending, so downstream DP is deterministic (§4.2).
func TopologicalOrder(c *Graph) []int {
	n := c.NumNodes()
	indeg := make([]int, n)
	for v := 0; v < n; v++ {
		for _, w := range c.OutNeighbors(v) {
			indeg[w]++
		}
	}

	var ready []int
	for v := 0; v < n; v++ {
		if indeg[v] == 0 {
			ready = append(ready, v)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, n)
	for len(ready) > 0 {
		sort.Ints(ready)
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)

		var newlyReady []int
		for _, w := range c.OutNeighbors(v) {
			indeg[w]--
			if indeg[w] == 0 {
				newlyReady = append(newlyReady, w)
			}
		}
		sort.Ints(newlyReady)
		ready = append(ready, newlyReady...)
	}
	return order
}

// LongestPathDepths computes, for each condensation node, the length of
// the longest path from any source (in-degree-0 node) to it: "depth".
// Pass the reversed condensation graph to get reverse depth (§4.2, §4.3:
// topological_depth / reverse_topological_depth).
func LongestPathDepths(c *Graph, order []int) []int {
	n := c.NumNodes()
	depth := make([]int, n)
	for _, v := range order {
		for _, w := range c.OutNeighbors(v) {
			if depth[v]+1 > depth[w] {
				depth[w] = depth[v] + 1
			}
		}
	}
	return depth
}

// Reverse returns a graph with every edge direction flipped, preserving
// node identity and order.
func Reverse(g *Graph) *Graph {
	r := NewGraph()
	for _, id := range g.Nodes() {
		r.AddNode(id)
	}
	for v := 0; v < g.NumNodes(); v++ {
		for _, w := range g.OutNeighbors(v) {
			r.AddEdge(g.NodeAt(w), g.NodeAt(v), 1)
		}
	}
	return r
}
