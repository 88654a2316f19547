package query

import (
	"symgraph/internal/adapters"
	"symgraph/internal/analytics"
	"symgraph/internal/repoconfig"
	"symgraph/internal/snapshot"
)

// GetBlastRadius implements the "blast_radius" contract.
func GetBlastRadius(s *snapshot.Snapshot, hash string, maxDepth int) (analytics.BlastRadiusReport, error) {
	nodes, edges, err := adapters.BlastRadiusInputs(s)
	if err != nil {
		return analytics.BlastRadiusReport{}, err
	}
	return analytics.BlastRadius(nodes, edges, hash, maxDepth), nil
}

// GetDeadCode implements the "dead_code" contract.
func GetDeadCode(s *snapshot.Snapshot, limit int) (analytics.DeadCodeReport, error) {
	zero, total, err := adapters.ZeroCallerNodes(s)
	if err != nil {
		return analytics.DeadCodeReport{}, err
	}
	report := analytics.ClassifyDeadCode(zero, total)
	if limit > 0 {
		for gi := range report.Groups {
			if len(report.Groups[gi].Nodes) > limit {
				report.Groups[gi].Nodes = report.Groups[gi].Nodes[:limit]
			}
		}
	}
	return report, nil
}

// GetCentrality implements the "centrality" contract.
func GetCentrality(s *snapshot.Snapshot, topN int) (analytics.CentralityReport, error) {
	nodes, edges, err := adapters.CentralityInputs(s)
	if err != nil {
		return analytics.CentralityReport{}, err
	}
	return analytics.Centrality(nodes, edges, topN), nil
}

// GetCycles implements the "cycles" contract.
func GetCycles(s *snapshot.Snapshot) ([]analytics.Cycle, error) {
	nodes, edges, err := adapters.CycleInputs(s)
	if err != nil {
		return nil, err
	}
	return analytics.FindCycles(nodes, edges, 20), nil
}

// GetCoupling implements the "coupling" contract (alias of "modules").
func GetCoupling(s *snapshot.Snapshot) ([]analytics.ModuleCoupling, error) {
	return GetModules(s)
}

// GetCommunities implements the "communities" contract.
func GetCommunities(s *snapshot.Snapshot, resolution float64) (analytics.CommunityReport, error) {
	nodes, edges, err := adapters.CommunityInputs(s)
	if err != nil {
		return analytics.CommunityReport{}, err
	}
	return analytics.Communities(nodes, edges, resolution), nil
}

// GetLoadBearing implements the "load_bearing" contract.
func GetLoadBearing(s *snapshot.Snapshot, repoRoot string, threshold int) (analytics.LoadBearingReport, error) {
	candidates, err := adapters.LoadBearingCandidates(s, threshold)
	if err != nil {
		return analytics.LoadBearingReport{}, err
	}
	doc, err := repoconfig.Load(s.RepoID(), repoRoot)
	if err != nil {
		return analytics.LoadBearingReport{}, err
	}
	cfg := analytics.LoadBearingConfig{DeclaredNodes: doc.DeclaredNodes, DeclaredModules: doc.DeclaredModules}
	return analytics.LoadBearing(candidates, cfg), nil
}

// DeclareLoadBearing implements the "load_bearing.declare" contract,
// persisting the updated config sidecar.
func DeclareLoadBearing(repoID, repoRoot, hash string) error {
	return repoconfig.Declare(repoID, repoRoot, hash)
}

// GetPatterns implements the "patterns" contract.
func GetPatterns(s *snapshot.Snapshot, minConfidence float64) ([]analytics.PatternInstance, error) {
	nodes, edges, err := adapters.PatternInputs(s)
	if err != nil {
		return nil, err
	}
	all := analytics.DetectPatterns(nodes, edges)
	if minConfidence <= 0 {
		return all, nil
	}
	var out []analytics.PatternInstance
	for _, p := range all {
		if p.Confidence >= minConfidence {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetTriage implements the "triage" contract (§4.6): the one
// orchestration adapter's bundle feeds the triage kernel, which
// synthesizes a severity-ranked, capped-at-5 issue list from
// load-bearing, coupling, cycles and dead-code signals in a single call.
func GetTriage(s *snapshot.Snapshot, repoRoot string) (analytics.TriageReport, error) {
	bundle, err := adapters.Triage(s)
	if err != nil {
		return analytics.TriageReport{}, err
	}
	doc, err := repoconfig.Load(s.RepoID(), repoRoot)
	if err != nil {
		return analytics.TriageReport{}, err
	}
	inputs := analytics.TriageInputs{
		HighCentralityNodes: bundle.HighCentralityNodes,
		ModuleEdges:         bundle.ModuleEdges,
		Nodes:               bundle.Nodes,
		Edges:               bundle.Edges,
		DeadFileStats:       bundle.DeadFileStats,
	}
	cfg := analytics.LoadBearingConfig{DeclaredNodes: doc.DeclaredNodes, DeclaredModules: doc.DeclaredModules}
	return analytics.Triage(inputs, cfg), nil
}
