package graphalg

import "sort"

// SCC is a strongly connected component, given as dense node indices into
// the Graph it was computed from.
type SCC struct {
	ID      int
	Members []int
}

// Tarjan computes strongly connected components using an iterative
// (stack-based) version of Tarjan's algorithm, avoiding recursion depth
// limits on large call graphs. SCC ids are assigned in discovery order;
// every node belongs to exactly one SCC, including singletons (§4.2:
// "returns SCCs with >= 1 member").
func Tarjan(g *Graph) []SCC {
	n := g.NumNodes()
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var sccs []SCC
	var stack []int
	counter := 0

	type frame struct {
		node    int
		edgePos int
	}

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}
		var work []frame
		work = append(work, frame{node: start})

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.node

			if index[v] == -1 {
				index[v] = counter
				lowlink[v] = counter
				counter++
				stack = append(stack, v)
				onStack[v] = true
			}

			neighbors := g.OutNeighbors(v)
			advanced := false
			for top.edgePos < len(neighbors) {
				w := neighbors[top.edgePos]
				top.edgePos++
				if index[w] == -1 {
					work = append(work, frame{node: w})
					advanced = true
					break
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
			}
			if advanced {
				continue
			}

			// Done with v: pop, propagate lowlink to parent.
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var members []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					members = append(members, w)
					if w == v {
						break
					}
				}
				sort.Ints(members)
				sccs = append(sccs, SCC{ID: len(sccs), Members: members})
			}
		}
	}
	return sccs
}

// MemberOf inverts an SCC list into a per-node-index SCC id map.
func MemberOf(sccs []SCC) []int {
	var maxIdx int
	for _, s := range sccs {
		for _, m := range s.Members {
			if m > maxIdx {
				maxIdx = m
			}
		}
	}
	owner := make([]int, maxIdx+1)
	for _, s := range sccs {
		for _, m := range s.Members {
			owner[m] = s.ID
		}
	}
	return owner
}

// Condensation contracts each SCC to a single DAG node. C is the
// condensation graph; SCCs[id].Members lists the original node indices an
// SCC contains, and SCCToCNode maps an SCC id to its condensation node
// index (§4.2).
type Condensation struct {
	C            *Graph
	SCCs         []SCC
	NodeOwner    []int // original index -> scc id
	SCCToCNode   []int // scc id -> condensation node index (identity, kept for clarity)
}

// Condense builds the condensation DAG of g.
func Condense(g *Graph) *Condensation {
	sccs := Tarjan(g)
	owner := MemberOf(sccs)

	c := NewGraph()
	for i := range sccs {
		c.AddNode(cNodeID(i))
	}

	seen := make(map[[2]int]bool)
	for v := 0; v < g.NumNodes(); v++ {
		sv := owner[v]
		for _, w := range g.OutNeighbors(v) {
			sw := owner[w]
			if sv == sw {
				continue
			}
			key := [2]int{sv, sw}
			if seen[key] {
				continue
			}
			seen[key] = true
			c.AddEdge(cNodeID(sv), cNodeID(sw), 1)
		}
	}

	sccToC := make([]int, len(sccs))
	for i := range sccs {
		sccToC[i] = c.Index(cNodeID(i))
	}

	return &Condensation{C: c, SCCs: sccs, NodeOwner: owner, SCCToCNode: sccToC}
}

func cNodeID(sccID int) string {
	return "scc#" + itoa(sccID)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
