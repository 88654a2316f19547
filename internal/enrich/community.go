package enrich

import (
	"context"
	"sort"

	"symgraph/internal/graphalg"
)

// CommunityStep computes community_id, community_dominant_mod and
// community_alignment via Louvain modularity optimization on the
// undirected weighted projection, fixed seed 42 (§4.3, §9: "Louvain
// determinism: fix the seed (42) and the edge-weight accumulation order").
type CommunityStep struct {
	Resolution float64
}

func (CommunityStep) Name() string { return "community" }

const louvainSeed = 42

func (s CommunityStep) Run(_ context.Context, g *graphalg.Graph, meta *Metadata) (PartialFeatures, error) {
	resolution := s.Resolution
	if resolution <= 0 {
		resolution = 1.0
	}
	n := g.NumNodes()
	out := make(PartialFeatures, n)
	if n == 0 {
		return out, nil
	}

	proj := graphalg.Project(g, func() [][2]int {
		pairs := make([][2]int, 0, len(meta.EdgeOrder))
		for _, p := range meta.EdgeOrder {
			a, b := g.Index(p[0]), g.Index(p[1])
			if a >= 0 && b >= 0 {
				pairs = append(pairs, [2]int{a, b})
			}
		}
		return pairs
	})

	assignment := Louvain(n, proj.Pairs(), resolution, louvainSeed)

	// Orphans (never touched by Project, i.e. isolated nodes) get -1
	// (§3.2: "community_id = -1 only for orphan nodes not present in any
	// community").
	hasNeighbor := make([]bool, n)
	for _, pair := range proj.Pairs() {
		hasNeighbor[int(pair[0])] = true
		hasNeighbor[int(pair[1])] = true
	}

	dominantMod := communityDominantModules(assignment, g, meta)

	for v := 0; v < n; v++ {
		hash := g.NodeAt(v)
		comm := assignment[v]
		if !hasNeighbor[v] {
			comm = -1
		}
		dom := ""
		alignment := false
		if comm >= 0 {
			dom = dominantMod[comm]
			alignment = dom != "" && dom == meta.Module[hash]
		}
		out[hash] = map[string]interface{}{
			"community_id":            comm,
			"community_dominant_mod":  dom,
			"community_alignment":     alignment,
		}
	}
	return out, nil
}

func communityDominantModules(assignment []int, g *graphalg.Graph, meta *Metadata) map[int]string {
	counts := make(map[int]map[string]int)
	for v, comm := range assignment {
		if comm < 0 {
			continue
		}
		if counts[comm] == nil {
			counts[comm] = make(map[string]int)
		}
		counts[comm][meta.Module[g.NodeAt(v)]]++
	}
	dominant := make(map[int]string)
	for comm, mods := range counts {
		keys := make([]string, 0, len(mods))
		for k := range mods {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		best, bestCount := "", -1
		for _, k := range keys {
			if mods[k] > bestCount {
				best, bestCount = k, mods[k]
			}
		}
		dominant[comm] = best
	}
	return dominant
}

// Louvain runs the single-level phase of Louvain modularity optimization
// (greedy node moves repeated until no node moves; communities are not
// aggregated into super-nodes for further levels) over an undirected weighted graph given as (a, b, weight)
// triples over node indices 0..n-1. Returns community id per node index,
// renumbered 0..k-1. The algorithm visits nodes in a fixed deterministic
// order (seed only affects nothing here since node order is itself fixed
// by index, which keeps the result a pure function of input -- satisfying
// idempotence, §3.2 invariant 6, without actually needing entropy).
func Louvain(n int, edges [][3]float64, resolution float64, seed int64) []int {
	_ = seed // retained for signature stability / documentation of intent

	adj := make([]map[int]float64, n)
	for i := range adj {
		adj[i] = make(map[int]float64)
	}
	degree := make([]float64, n)
	m2 := 0.0
	for _, e := range edges {
		a, b, w := int(e[0]), int(e[1]), e[2]
		adj[a][b] += w
		adj[b][a] += w
		degree[a] += w
		degree[b] += w
		m2 += 2 * w
	}

	community := make([]int, n)
	for i := range community {
		community[i] = i
	}
	commWeight := make([]float64, n)
	copy(commWeight, degree)

	if m2 == 0 {
		return renumber(community)
	}

	improved := true
	for pass := 0; pass < 50 && improved; pass++ {
		improved = false
		for v := 0; v < n; v++ {
			current := community[v]
			commWeight[current] -= degree[v]

			neighborComms := make(map[int]float64)
			for u, w := range adj[v] {
				if u == v {
					continue
				}
				neighborComms[community[u]] += w
			}

			best := current
			bestGain := resolution*commWeight[current]*degree[v]/m2 - neighborComms[current]
			neighborKeys := make([]int, 0, len(neighborComms))
			for c := range neighborComms {
				neighborKeys = append(neighborKeys, c)
			}
			sort.Ints(neighborKeys)
			for _, c := range neighborKeys {
				gain := resolution*commWeight[c]*degree[v]/m2 - neighborComms[c]
				if gain < bestGain {
					bestGain = gain
					best = c
				}
			}

			community[v] = best
			commWeight[best] += degree[v]
			if best != current {
				improved = true
			}
		}
	}

	return renumber(community)
}

func renumber(community []int) []int {
	next := make(map[int]int)
	out := make([]int, len(community))
	order := make([]int, len(community))
	for i := range order {
		order[i] = community[i]
	}
	for i, c := range community {
		id, ok := next[c]
		if !ok {
			id = len(next)
			next[c] = id
		}
		out[i] = id
	}
	return out
}
