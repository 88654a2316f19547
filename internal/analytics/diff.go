package analytics

import (
	"sort"

	"symgraph/internal/diffkit"
	"symgraph/internal/snapshot"
)

// DiffEdgeStatus tags which side(s) of a diff an edge belongs to.
type DiffEdgeStatus string

const (
	EdgeAdded     DiffEdgeStatus = "added"
	EdgeRemoved   DiffEdgeStatus = "removed"
	EdgeUnchanged DiffEdgeStatus = "unchanged"
)

// nodeKey is the (name, module) identity diff matches nodes on, since raw
// hashes are expected to change across snapshots even for unmodified
// symbols (§4.4 "Diff": "Match nodes by (name, module)").
type nodeKey struct {
	Name   string
	Module string
}

// DiffReport is the §4.4 "Diff" result: added/removed/common sets,
// similarity, and a bounded context subgraph.
type DiffReport struct {
	Added      []string // node keys, formatted "module::name"
	Removed    []string
	Modified   []string
	Unchanged  []string
	Similarity float64
	Subgraph   DiffSubgraph
}

// DiffSubgraph is the induced context graph: changed nodes plus their
// top-K neighbors by caller_count from each snapshot. When the total
// exceeds maxNodes, every context node is dropped; changed nodes are
// never dropped, so the result can still exceed maxNodes.
type DiffSubgraph struct {
	NodeHashesA []string
	NodeHashesB []string
	Edges       []DiffEdge
}

// DiffEdge is one caller->callee edge in the diff subgraph, tagged with
// its add/remove/unchanged status.
type DiffEdge struct {
	CallerHash string
	CalleeHash string
	Status     DiffEdgeStatus
}

// Diff implements §4.4 "Diff" across two snapshots' internal nodes/edges.
func Diff(nodesA, nodesB []snapshot.Node, edgesA, edgesB []snapshot.Edge, topKContext, maxNodes int) DiffReport {
	if topKContext <= 0 {
		topKContext = 10
	}
	if maxNodes <= 0 {
		maxNodes = 500
	}

	byKeyA := indexByKey(nodesA)
	byKeyB := indexByKey(nodesB)

	var added, removed, modified, unchanged []nodeKey
	for k, na := range byKeyA {
		nb, ok := byKeyB[k]
		if !ok {
			removed = append(removed, k)
			continue
		}
		if diffkit.ContentHash(na.Hash) != diffkit.ContentHash(nb.Hash) {
			modified = append(modified, k)
		} else {
			unchanged = append(unchanged, k)
		}
	}
	for k := range byKeyB {
		if _, ok := byKeyA[k]; !ok {
			added = append(added, k)
		}
	}

	sortKeys(added)
	sortKeys(removed)
	sortKeys(modified)
	sortKeys(unchanged)

	union := len(byKeyA)
	for k := range byKeyB {
		if _, ok := byKeyA[k]; !ok {
			union++
		}
	}
	common := len(unchanged) + len(modified)
	similarity := 0.0
	if union > 0 {
		similarity = float64(common) / float64(union)
	}

	changed := make(map[nodeKey]bool, len(added)+len(removed)+len(modified))
	for _, k := range added {
		changed[k] = true
	}
	for _, k := range removed {
		changed[k] = true
	}
	for _, k := range modified {
		changed[k] = true
	}

	subgraph := buildDiffSubgraph(byKeyA, byKeyB, edgesA, edgesB, changed, topKContext, maxNodes)

	return DiffReport{
		Added: formatKeys(added), Removed: formatKeys(removed),
		Modified: formatKeys(modified), Unchanged: formatKeys(unchanged),
		Similarity: similarity, Subgraph: subgraph,
	}
}

func indexByKey(nodes []snapshot.Node) map[nodeKey]snapshot.Node {
	out := make(map[nodeKey]snapshot.Node, len(nodes))
	for _, n := range nodes {
		if n.IsExternal() {
			continue
		}
		out[nodeKey{Name: n.Name, Module: n.Module}] = n
	}
	return out
}

func sortKeys(ks []nodeKey) {
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].Module != ks[j].Module {
			return ks[i].Module < ks[j].Module
		}
		return ks[i].Name < ks[j].Name
	})
}

func formatKeys(ks []nodeKey) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.Module + "::" + k.Name
	}
	return out
}

func buildDiffSubgraph(byKeyA, byKeyB map[nodeKey]snapshot.Node, edgesA, edgesB []snapshot.Edge, changed map[nodeKey]bool, topK, maxNodes int) DiffSubgraph {
	changedHashesA := make(map[string]bool)
	changedHashesB := make(map[string]bool)
	for k := range changed {
		if n, ok := byKeyA[k]; ok {
			changedHashesA[n.Hash] = true
		}
		if n, ok := byKeyB[k]; ok {
			changedHashesB[n.Hash] = true
		}
	}

	contextA := topCallerNeighbors(byKeyA, edgesA, changedHashesA, topK)
	contextB := topCallerNeighbors(byKeyB, edgesB, changedHashesB, topK)

	hashesA := unionSortedKeys(changedHashesA, contextA)
	hashesB := unionSortedKeys(changedHashesB, contextB)

	// Over maxNodes, all context is dropped and only changed nodes remain.
	hashesA, hashesB = trimContext(hashesA, hashesB, changedHashesA, changedHashesB, maxNodes)

	inA := make(map[string]bool, len(hashesA))
	for _, h := range hashesA {
		inA[h] = true
	}
	inB := make(map[string]bool, len(hashesB))
	for _, h := range hashesB {
		inB[h] = true
	}

	var edges []DiffEdge
	seenA := make(map[[2]string]bool)
	for _, e := range edgesA {
		if !inA[e.CallerHash] || !inA[e.CalleeHash] {
			continue
		}
		seenA[[2]string{e.CallerHash, e.CalleeHash}] = true
	}
	seenB := make(map[[2]string]bool)
	for _, e := range edgesB {
		if !inB[e.CallerHash] || !inB[e.CalleeHash] {
			continue
		}
		seenB[[2]string{e.CallerHash, e.CalleeHash}] = true
	}
	for pair := range seenA {
		status := EdgeRemoved
		if seenB[pair] {
			status = EdgeUnchanged
		}
		edges = append(edges, DiffEdge{CallerHash: pair[0], CalleeHash: pair[1], Status: status})
	}
	for pair := range seenB {
		if !seenA[pair] {
			edges = append(edges, DiffEdge{CallerHash: pair[0], CalleeHash: pair[1], Status: EdgeAdded})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].CallerHash != edges[j].CallerHash {
			return edges[i].CallerHash < edges[j].CallerHash
		}
		return edges[i].CalleeHash < edges[j].CalleeHash
	})

	return DiffSubgraph{NodeHashesA: hashesA, NodeHashesB: hashesB, Edges: edges}
}

// topCallerNeighbors returns, for each changed node, its top-K neighbors
// by caller_count as additional context.
func topCallerNeighbors(byKey map[nodeKey]snapshot.Node, edges []snapshot.Edge, changedHashes map[string]bool, topK int) map[string]bool {
	byHash := make(map[string]snapshot.Node, len(byKey))
	for _, n := range byKey {
		byHash[n.Hash] = n
	}
	neighbors := make(map[string][]string)
	for _, e := range edges {
		if changedHashes[e.CallerHash] {
			neighbors[e.CallerHash] = append(neighbors[e.CallerHash], e.CalleeHash)
		}
		if changedHashes[e.CalleeHash] {
			neighbors[e.CalleeHash] = append(neighbors[e.CalleeHash], e.CallerHash)
		}
	}

	out := make(map[string]bool)
	hashes := make([]string, 0, len(neighbors))
	for h := range neighbors {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	for _, h := range hashes {
		ns := neighbors[h]
		sort.SliceStable(ns, func(i, j int) bool {
			return byHash[ns[i]].CallerCount > byHash[ns[j]].CallerCount
		})
		if len(ns) > topK {
			ns = ns[:topK]
		}
		for _, n := range ns {
			out[n] = true
		}
	}
	return out
}

func unionSortedKeys(a, b map[string]bool) []string {
	merged := make(map[string]bool, len(a)+len(b))
	for h := range a {
		merged[h] = true
	}
	for h := range b {
		merged[h] = true
	}
	out := make([]string, 0, len(merged))
	for h := range merged {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func trimContext(hashesA, hashesB []string, changedA, changedB map[string]bool, maxNodes int) ([]string, []string) {
	total := len(hashesA) + len(hashesB)
	if total <= maxNodes {
		return hashesA, hashesB
	}
	trim := func(hashes []string, changed map[string]bool) []string {
		var kept []string
		for _, h := range hashes {
			if changed[h] {
				kept = append(kept, h)
			}
		}
		return kept
	}
	return trim(hashesA, changedA), trim(hashesB, changedB)
}
