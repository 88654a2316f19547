// Package adapters contains the thin, fetch-only layer between the
// snapshot store and the analytics kernels (§4.6 "Query Adapters"): one
// adapter per kernel that knows how to pull exactly the rows that kernel
// needs, plus two bundle adapters for the contracts that read several
// kernels' worth of data at once -- Overview (for the "overview"
// contract) and Triage, the one orchestration adapter §4.6 names
// explicitly, which fetches the four independent inputs the triage
// kernel needs in a single call.
package adapters

import (
	"sort"

	"symgraph/internal/analytics"
	"symgraph/internal/snapshot"
)

// ZeroCallerNodes returns internal nodes with no callers, for dead-code
// classification.
func ZeroCallerNodes(s *snapshot.Snapshot) ([]snapshot.Node, int, error) {
	all, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, 0, err
	}
	var zero []snapshot.Node
	for _, n := range all {
		if n.CallerCount == 0 {
			zero = append(zero, n)
		}
	}
	return zero, len(all), nil
}

// CycleInputs returns the internal nodes and edges cycle detection runs
// over.
func CycleInputs(s *snapshot.Snapshot) ([]snapshot.Node, []snapshot.Edge, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, nil, err
	}
	edges, err := s.Edges(snapshot.Filters{})
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

// CouplingInputs returns internal nodes and module edges for the
// coupling kernel.
func CouplingInputs(s *snapshot.Snapshot) ([]snapshot.Node, []snapshot.ModuleEdge, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, nil, err
	}
	moduleEdges, err := s.ModuleEdges()
	if err != nil {
		return nil, nil, err
	}
	return nodes, moduleEdges, nil
}

// CentralityInputs returns internal nodes and edges for the centrality
// kernel.
func CentralityInputs(s *snapshot.Snapshot) ([]snapshot.Node, []snapshot.Edge, error) {
	return CycleInputs(s)
}

// CommunityInputs returns internal nodes and edges for the communities
// kernel.
func CommunityInputs(s *snapshot.Snapshot) ([]snapshot.Node, []snapshot.Edge, error) {
	return CycleInputs(s)
}

// LoadBearingCandidates returns nodes called from at least threshold
// distinct external modules, by joining node features' xmod_fan_in
// against the configured threshold.
func LoadBearingCandidates(s *snapshot.Snapshot, threshold int) ([]snapshot.Node, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(nodes))
	for i, n := range nodes {
		hashes[i] = n.Hash
	}
	feats, err := s.NodeFeatures(hashes)
	if err != nil {
		return nil, err
	}
	fanIn := make(map[string]int, len(feats))
	for _, f := range feats {
		fanIn[f.Hash] = f.XModFanIn
	}
	var out []snapshot.Node
	for _, n := range nodes {
		if fanIn[n.Hash] >= threshold {
			out = append(out, n)
		}
	}
	return out, nil
}

// BlastRadiusInputs returns internal nodes and edges for the blast-radius
// kernel.
func BlastRadiusInputs(s *snapshot.Snapshot) ([]snapshot.Node, []snapshot.Edge, error) {
	return CycleInputs(s)
}

// PatternInputs returns internal nodes and edges for pattern detection.
func PatternInputs(s *snapshot.Snapshot) ([]snapshot.Node, []snapshot.Edge, error) {
	return CycleInputs(s)
}

// OverviewBundle is the single fetch behind the §6 "overview" contract:
// the handful of cheap kernels the overview dashboard wants together.
type OverviewBundle struct {
	Nodes       []snapshot.Node
	Edges       []snapshot.Edge
	ModuleEdges []snapshot.ModuleEdge
}

// Overview fetches everything the overview operation's kernels need in
// one pass, so the orchestration layer doesn't issue three separate
// queries.
func Overview(s *snapshot.Snapshot) (OverviewBundle, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return OverviewBundle{}, err
	}
	edges, err := s.Edges(snapshot.Filters{})
	if err != nil {
		return OverviewBundle{}, err
	}
	moduleEdges, err := s.ModuleEdges()
	if err != nil {
		return OverviewBundle{}, err
	}
	return OverviewBundle{Nodes: nodes, Edges: edges, ModuleEdges: moduleEdges}, nil
}

// TriageBundle is the §4.6 orchestration adapter: it fetches the four
// independent inputs the triage kernel composes -- high-centrality
// (load-bearing candidate) nodes, module edges, the internal call graph,
// and per-file dead-code concentration stats -- in one round trip.
type TriageBundle struct {
	HighCentralityNodes []analytics.HighCentralityNode
	ModuleEdges         []snapshot.ModuleEdge
	Nodes               []snapshot.Node
	Edges               []snapshot.Edge
	DeadFileStats       []analytics.DeadFileStat
}

// highCentralityThreshold matches the original source's
// fetch_high_centrality_nodes(conn, threshold=5) call.
const highCentralityThreshold = 5

// deadFileMinTotal/deadFileMinRatio mirror the original source's SQL
// filter: "HAVING total >= 5 AND dead * 1.0 / total >= 0.6".
const (
	deadFileMinTotal = 5
	deadFileMinRatio = 0.6
)

// Triage fetches the triage kernel's four inputs in one pass.
func Triage(s *snapshot.Snapshot) (TriageBundle, error) {
	nodes, err := s.Nodes(snapshot.Filters{})
	if err != nil {
		return TriageBundle{}, err
	}
	edges, err := s.Edges(snapshot.Filters{})
	if err != nil {
		return TriageBundle{}, err
	}
	moduleEdges, err := s.ModuleEdges()
	if err != nil {
		return TriageBundle{}, err
	}

	highCentrality, err := highCentralityNodes(s, nodes, highCentralityThreshold)
	if err != nil {
		return TriageBundle{}, err
	}

	return TriageBundle{
		HighCentralityNodes: highCentrality,
		ModuleEdges:         moduleEdges,
		Nodes:               nodes,
		Edges:               edges,
		DeadFileStats:       deadFileStats(nodes),
	}, nil
}

// highCentralityNodes joins node_features' xmod_fan_in against threshold,
// the same join LoadBearingCandidates does, but keeps name/module/count
// together for triage's unexpected-coupling check.
func highCentralityNodes(s *snapshot.Snapshot, nodes []snapshot.Node, threshold int) ([]analytics.HighCentralityNode, error) {
	hashes := make([]string, len(nodes))
	for i, n := range nodes {
		hashes[i] = n.Hash
	}
	feats, err := s.NodeFeatures(hashes)
	if err != nil {
		return nil, err
	}
	fanIn := make(map[string]int, len(feats))
	for _, f := range feats {
		fanIn[f.Hash] = f.XModFanIn
	}

	var out []analytics.HighCentralityNode
	for _, n := range nodes {
		if fanIn[n.Hash] >= threshold {
			out = append(out, analytics.HighCentralityNode{
				Hash: n.Hash, Name: n.Name, Module: n.Module, CallingModules: fanIn[n.Hash],
			})
		}
	}
	return out, nil
}

// deadFileStats groups internal function/method/class nodes by file,
// keeping files where at least deadFileMinTotal symbols exist and at
// least deadFileMinRatio of them have zero callers, ordered dead desc,
// capped at 5 -- the same shape the original source's SQL query returns.
func deadFileStats(nodes []snapshot.Node) []analytics.DeadFileStat {
	type acc struct{ total, dead int }
	byFile := make(map[string]*acc)
	var order []string
	for _, n := range nodes {
		if n.IsExternal() || n.FilePath == "" {
			continue
		}
		if n.Kind != "function" && n.Kind != "method" && n.Kind != "class" {
			continue
		}
		a, ok := byFile[n.FilePath]
		if !ok {
			a = &acc{}
			byFile[n.FilePath] = a
			order = append(order, n.FilePath)
		}
		a.total++
		if n.CallerCount == 0 {
			a.dead++
		}
	}

	var out []analytics.DeadFileStat
	for _, fp := range order {
		a := byFile[fp]
		if a.total >= deadFileMinTotal && float64(a.dead)/float64(a.total) >= deadFileMinRatio {
			out = append(out, analytics.DeadFileStat{FilePath: fp, Total: a.total, Dead: a.dead})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Dead > out[j].Dead })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
