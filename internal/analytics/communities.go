package analytics

import (
	"sort"

	"symgraph/internal/enrich"
	"symgraph/internal/graphalg"
	"symgraph/internal/snapshot"
)

const communityLouvainSeed = 42

// ModuleShare is one module's share of a community's membership.
type ModuleShare struct {
	Module string
	Count  int
}

// Community is one non-singleton Louvain community.
type Community struct {
	ID             int
	Size           int
	DominantModule string
	Purity         float64
	TopModules     []ModuleShare // top 6, desc by count
}

// MisalignedNode is a node whose own module disagrees with its
// community's dominant module, in a community with purity >= 0.5.
type MisalignedNode struct {
	Hash            string
	Module          string
	CommunityID     int
	DominantModule  string
}

// InterCommunityEdge is a normalized-weight edge between two communities.
type InterCommunityEdge struct {
	SourceCommunity int
	TargetCommunity int
	Weight          float64
}

// CommunityReport is the full §4.4 "Communities" result.
type CommunityReport struct {
	Communities  []Community
	Misaligned   []MisalignedNode
	InterEdges   []InterCommunityEdge
}

// Communities implements §4.4 "Communities": Louvain on the weighted
// undirected projection, resolution as input, singleton communities
// dropped. Misaligned nodes capped at 200.
func Communities(nodes []snapshot.Node, edges []snapshot.Edge, resolution float64) CommunityReport {
	if resolution <= 0 {
		resolution = 1.0
	}
	g, moduleOf := buildInternalGraph(nodes, edges)
	n := g.NumNodes()
	if n == 0 {
		return CommunityReport{}
	}

	edgeOrder := make([][2]string, 0, len(edges))
	for _, e := range edges {
		edgeOrder = append(edgeOrder, [2]string{e.CallerHash, e.CalleeHash})
	}
	sort.Slice(edgeOrder, func(i, j int) bool {
		if edgeOrder[i][0] != edgeOrder[j][0] {
			return edgeOrder[i][0] < edgeOrder[j][0]
		}
		return edgeOrder[i][1] < edgeOrder[j][1]
	})

	proj := graphalg.Project(g, func() [][2]int {
		pairs := make([][2]int, 0, len(edgeOrder))
		for _, p := range edgeOrder {
			a, b := g.Index(p[0]), g.Index(p[1])
			if a >= 0 && b >= 0 {
				pairs = append(pairs, [2]int{a, b})
			}
		}
		return pairs
	})

	assignment := enrich.Louvain(n, proj.Pairs(), resolution, communityLouvainSeed)

	members := make(map[int][]int)
	for v, c := range assignment {
		members[c] = append(members[c], v)
	}

	var communities []Community
	purityByComm := make(map[int]float64)
	for c, vs := range members {
		if len(vs) <= 1 {
			continue
		}
		modCount := make(map[string]int)
		for _, v := range vs {
			modCount[moduleOf[g.NodeAt(v)]]++
		}
		keys := make([]string, 0, len(modCount))
		for k := range modCount {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sort.SliceStable(keys, func(i, j int) bool { return modCount[keys[i]] > modCount[keys[j]] })

		dominant := keys[0]
		purity := float64(modCount[dominant]) / float64(len(vs))
		purityByComm[c] = purity

		top := keys
		if len(top) > 6 {
			top = top[:6]
		}
		shares := make([]ModuleShare, len(top))
		for i, k := range top {
			shares[i] = ModuleShare{Module: k, Count: modCount[k]}
		}

		communities = append(communities, Community{
			ID: c, Size: len(vs), DominantModule: dominant,
			Purity: purity, TopModules: shares,
		})
	}
	sort.SliceStable(communities, func(i, j int) bool {
		if communities[i].Size != communities[j].Size {
			return communities[i].Size > communities[j].Size
		}
		return communities[i].ID < communities[j].ID
	})

	dominantOf := make(map[int]string)
	for _, c := range communities {
		dominantOf[c.ID] = c.DominantModule
	}

	var misaligned []MisalignedNode
	for v := 0; v < n; v++ {
		c := assignment[v]
		dom, ok := dominantOf[c]
		if !ok {
			continue
		}
		if purityByComm[c] < 0.5 {
			continue
		}
		mod := moduleOf[g.NodeAt(v)]
		if mod == dom {
			continue
		}
		misaligned = append(misaligned, MisalignedNode{
			Hash: g.NodeAt(v), Module: mod, CommunityID: c, DominantModule: dom,
		})
	}
	sort.Slice(misaligned, func(i, j int) bool { return misaligned[i].Hash < misaligned[j].Hash })
	if len(misaligned) > 200 {
		misaligned = misaligned[:200]
	}

	interWeight := make(map[[2]int]float64)
	for _, pair := range proj.Pairs() {
		a, b := int(pair[0]), int(pair[1])
		ca, cb := assignment[a], assignment[b]
		if ca == cb {
			continue
		}
		key := [2]int{ca, cb}
		if ca > cb {
			key = [2]int{cb, ca}
		}
		interWeight[key] += pair[2]
	}
	var maxW float64
	for _, w := range interWeight {
		if w > maxW {
			maxW = w
		}
	}
	var interEdges []InterCommunityEdge
	for pair, w := range interWeight {
		norm := 0.0
		if maxW > 0 {
			norm = w / maxW
		}
		interEdges = append(interEdges, InterCommunityEdge{
			SourceCommunity: pair[0], TargetCommunity: pair[1], Weight: norm,
		})
	}
	sort.Slice(interEdges, func(i, j int) bool {
		if interEdges[i].SourceCommunity != interEdges[j].SourceCommunity {
			return interEdges[i].SourceCommunity < interEdges[j].SourceCommunity
		}
		return interEdges[i].TargetCommunity < interEdges[j].TargetCommunity
	})

	return CommunityReport{Communities: communities, Misaligned: misaligned, InterEdges: interEdges}
}
