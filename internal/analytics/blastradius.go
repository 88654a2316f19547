package analytics

import (
	"sort"

	"symgraph/internal/snapshot"
)

// BlastRadiusNode is one upstream node reached within max_depth.
type BlastRadiusNode struct {
	Hash  string
	Depth int
}

// BlastRadiusReport is the §4.4 "Blast radius" result.
type BlastRadiusReport struct {
	Nodes           []BlastRadiusNode
	AffectedModules []string
}

// BlastRadius implements §4.4 "Blast radius": BFS upstream from target
// over reverse adjacency, capped at maxDepth (default 5).
func BlastRadius(nodes []snapshot.Node, edges []snapshot.Edge, target string, maxDepth int) BlastRadiusReport {
	if maxDepth <= 0 {
		maxDepth = 5
	}
	g, moduleOf := buildInternalGraph(nodes, edges)
	start := g.Index(target)
	if start < 0 {
		return BlastRadiusReport{}
	}

	depth := map[int]int{start: 0}
	queue := []int{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if depth[v] >= maxDepth {
			continue
		}
		for _, u := range g.InNeighbors(v) {
			if _, seen := depth[u]; seen {
				continue
			}
			depth[u] = depth[v] + 1
			queue = append(queue, u)
		}
	}

	var out []BlastRadiusNode
	modSet := make(map[string]bool)
	for v, d := range depth {
		if v == start {
			continue
		}
		hash := g.NodeAt(v)
		out = append(out, BlastRadiusNode{Hash: hash, Depth: d})
		modSet[moduleOf[hash]] = true
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Hash < out[j].Hash
	})

	mods := make([]string, 0, len(modSet))
	for m := range modSet {
		mods = append(mods, m)
	}
	sort.Strings(mods)

	return BlastRadiusReport{Nodes: out, AffectedModules: mods}
}
