package enrich

import (
	"context"
	"math"

	"symgraph/internal/graphalg"
)

// CentralityStep computes betweenness_centrality, pagerank, hub_score,
// authority_score and clustering_coeff (§4.3).
type CentralityStep struct{}

func (CentralityStep) Name() string { return "centrality" }

const (
	exactBetweennessLimit = 3000
	betweennessSampleCap  = 500
	pagerankDamping       = 0.85
	pagerankIterations    = 200
	hitsIterations        = 200
)

func (CentralityStep) Run(_ context.Context, g *graphalg.Graph, meta *Metadata) (PartialFeatures, error) {
	n := g.NumNodes()
	out := make(PartialFeatures, n)
	if n == 0 {
		return out, nil
	}

	betweenness := Betweenness(g)
	pagerank := PageRank(g)
	hub, authority, hitsOK := HITS(g)
	clustering := ClusteringCoefficients(g, meta)

	for v := 0; v < n; v++ {
		hash := g.NodeAt(v)
		h, a := 0.0, 0.0
		if hitsOK {
			h, a = hub[v], authority[v]
		}
		out[hash] = map[string]interface{}{
			"betweenness_centrality": betweenness[v],
			"pagerank":               pagerank[v],
			"hub_score":              h,
			"authority_score":        a,
			"clustering_coeff":       clustering[v],
		}
	}
	return out, nil
}

// Betweenness computes normalized betweenness centrality via Brandes'
// algorithm on the unweighted directed graph. Exact for |V| <= 3000; for
// larger graphs it samples k = min(500, |V|) deterministically-spaced
// source nodes and scales accordingly (§4.3, §9: "Preserve the source
// value" for the k = min(500, n) sampling parameter).
func Betweenness(g *graphalg.Graph) []float64 {
	n := g.NumNodes()
	cb := make([]float64, n)
	if n < 2 {
		return cb
	}

	sources := make([]int, n)
	for i := range sources {
		sources[i] = i
	}
	sampled := false
	if n > exactBetweennessLimit {
		k := betweennessSampleCap
		if k > n {
			k = n
		}
		sampled = true
		step := float64(n) / float64(k)
		picked := make([]int, 0, k)
		for i := 0; i < k; i++ {
			picked = append(picked, int(float64(i)*step)%n)
		}
		sources = picked
	}

	for _, s := range sources {
		brandesSingleSource(g, s, cb)
	}

	// Normalize to [0, 1] for a directed graph: divide by (n-1)(n-2).
	denom := float64(n-1) * float64(n-2)
	if denom <= 0 {
		denom = 1
	}
	scale := 1.0
	if sampled {
		scale = float64(n) / float64(len(sources))
	}
	for v := range cb {
		cb[v] = cb[v] * scale / denom
		if cb[v] > 1 {
			cb[v] = 1
		}
		if cb[v] < 0 {
			cb[v] = 0
		}
	}
	return cb
}

func brandesSingleSource(g *graphalg.Graph, s int, cb []float64) {
	n := g.NumNodes()
	dist := make([]int, n)
	sigma := make([]float64, n)
	preds := make([][]int, n)
	for i := range dist {
		dist[i] = -1
	}
	dist[s] = 0
	sigma[s] = 1

	queue := []int{s}
	var order []int
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, w := range g.OutNeighbors(v) {
			if dist[w] < 0 {
				dist[w] = dist[v] + 1
				queue = append(queue, w)
			}
			if dist[w] == dist[v]+1 {
				sigma[w] += sigma[v]
				preds[w] = append(preds[w], v)
			}
		}
	}

	delta := make([]float64, n)
	for i := len(order) - 1; i >= 0; i-- {
		w := order[i]
		for _, v := range preds[w] {
			if sigma[w] != 0 {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
		}
		if w != s {
			cb[w] += delta[w]
		}
	}
}

// PageRank computes damping=0.85, 200-iteration, L1-normalized PageRank
// over the directed graph, dangling nodes (no out-edges) redistributed
// uniformly (§4.3; invariant: sum over internal nodes is 1.0 +/- 0.02).
func PageRank(g *graphalg.Graph) []float64 {
	n := g.NumNodes()
	rank := make([]float64, n)
	if n == 0 {
		return rank
	}
	for i := range rank {
		rank[i] = 1.0 / float64(n)
	}

	outDeg := make([]int, n)
	for v := 0; v < n; v++ {
		outDeg[v] = g.OutDegree(v)
	}

	for iter := 0; iter < pagerankIterations; iter++ {
		next := make([]float64, n)
		danglingSum := 0.0
		for v := 0; v < n; v++ {
			if outDeg[v] == 0 {
				danglingSum += rank[v]
			}
		}
		base := (1 - pagerankDamping) / float64(n)
		dangleShare := pagerankDamping * danglingSum / float64(n)
		for v := range next {
			next[v] = base + dangleShare
		}
		for v := 0; v < n; v++ {
			if outDeg[v] == 0 {
				continue
			}
			share := pagerankDamping * rank[v] / float64(outDeg[v])
			for _, w := range g.OutNeighbors(v) {
				next[w] += share
			}
		}
		rank = next
	}

	sum := 0.0
	for _, r := range rank {
		sum += r
	}
	if sum > 0 {
		for i := range rank {
			rank[i] /= sum
		}
	}
	return rank
}

// HITS computes hub and authority scores via 200 power iterations,
// L2-normalized. On non-convergence (e.g. a graph with no edges, which
// makes every score collapse to zero), both are returned as all-zero with
// ok=false (§4.3: "On convergence failure, both zeroed").
func HITS(g *graphalg.Graph) (hub, authority []float64, ok bool) {
	n := g.NumNodes()
	hub = make([]float64, n)
	authority = make([]float64, n)
	if n == 0 {
		return hub, authority, false
	}
	for i := range hub {
		hub[i] = 1
		authority[i] = 1
	}

	for iter := 0; iter < hitsIterations; iter++ {
		newAuth := make([]float64, n)
		for v := 0; v < n; v++ {
			for _, u := range g.InNeighbors(v) {
				newAuth[v] += hub[u]
			}
		}
		newHub := make([]float64, n)
		for v := 0; v < n; v++ {
			for _, w := range g.OutNeighbors(v) {
				newHub[v] += newAuth[w]
			}
		}
		authority = normalizeL2(newAuth)
		hub = normalizeL2(newHub)
	}

	authSum, hubSum := 0.0, 0.0
	for v := 0; v < n; v++ {
		authSum += authority[v]
		hubSum += hub[v]
	}
	if authSum == 0 && hubSum == 0 {
		return make([]float64, n), make([]float64, n), false
	}
	return hub, authority, true
}

func normalizeL2(v []float64) []float64 {
	sumSq := 0.0
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// ClusteringCoefficients computes the local clustering coefficient of each
// node on the undirected projection (§4.2, §4.3).
func ClusteringCoefficients(g *graphalg.Graph, meta *Metadata) []float64 {
	n := g.NumNodes()
	coeff := make([]float64, n)
	neighbors := undirectedAdjacency(g, meta)

	for v := 0; v < n; v++ {
		nb := neighbors[v]
		k := len(nb)
		if k < 2 {
			continue
		}
		set := make(map[int]bool, k)
		for _, u := range nb {
			set[u] = true
		}
		links := 0
		for _, u := range nb {
			for _, w := range neighbors[u] {
				if w != v && set[w] {
					links++
				}
			}
		}
		links /= 2
		possible := k * (k - 1) / 2
		if possible > 0 {
			coeff[v] = float64(links) / float64(possible)
		}
	}
	return coeff
}

// undirectedAdjacency builds distinct-neighbor adjacency lists for the
// undirected projection, using meta.EdgeOrder for deterministic iteration.
func undirectedAdjacency(g *graphalg.Graph, meta *Metadata) [][]int {
	n := g.NumNodes()
	sets := make([]map[int]bool, n)
	for i := range sets {
		sets[i] = make(map[int]bool)
	}
	for _, pair := range meta.EdgeOrder {
		a, b := g.Index(pair[0]), g.Index(pair[1])
		if a < 0 || b < 0 || a == b {
			continue
		}
		sets[a][b] = true
		sets[b][a] = true
	}
	out := make([][]int, n)
	for i, set := range sets {
		for nb := range set {
			out[i] = append(out[i], nb)
		}
	}
	return out
}
