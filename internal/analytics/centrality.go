package analytics

import (
	"sort"

	"symgraph/internal/enrich"
	"symgraph/internal/snapshot"
)

const centralityExactLimit = 2000

// CentralityMethod records which algorithm produced a ranking.
type CentralityMethod string

const (
	MethodBetweenness CentralityMethod = "betweenness"
	MethodInDegree    CentralityMethod = "in_degree_proxy"
)

// CentralityRank is one node's score in a centrality ranking.
type CentralityRank struct {
	Hash  string
	Score float64
}

// CentralityReport is the top-N ranking plus which method produced it.
type CentralityReport struct {
	Method CentralityMethod
	Ranked []CentralityRank
}

// Centrality implements §4.4 "Centrality": betweenness (exact) for graphs
// of <= 2000 nodes, otherwise normalized in-degree as a cheap proxy.
// Returns top N with scores attached.
func Centrality(nodes []snapshot.Node, edges []snapshot.Edge, topN int) CentralityReport {
	if topN <= 0 {
		topN = 20
	}
	g, _ := buildInternalGraph(nodes, edges)
	n := g.NumNodes()
	if n == 0 {
		return CentralityReport{Method: MethodBetweenness, Ranked: nil}
	}

	var method CentralityMethod
	var scores []float64
	if n <= centralityExactLimit {
		method = MethodBetweenness
		scores = enrich.Betweenness(g)
	} else {
		method = MethodInDegree
		scores = make([]float64, n)
		maxIn := 0
		for v := 0; v < n; v++ {
			if d := g.InDegree(v); d > maxIn {
				maxIn = d
			}
		}
		for v := 0; v < n; v++ {
			if maxIn > 0 {
				scores[v] = float64(g.InDegree(v)) / float64(maxIn)
			}
		}
	}

	ranked := make([]CentralityRank, n)
	for v := 0; v < n; v++ {
		ranked[v] = CentralityRank{Hash: g.NodeAt(v), Score: scores[v]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Hash < ranked[j].Hash
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return CentralityReport{Method: method, Ranked: ranked}
}
