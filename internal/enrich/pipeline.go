package enrich

import (
	"context"

	"github.com/google/uuid"

	"symgraph/internal/logging"
	"symgraph/internal/snapshot"
)

// Options configures one enrichment invocation.
type Options struct {
	Resolution float64 // Louvain resolution, default 1.0
}

// Run executes the full enrichment pipeline over a raw snapshot and
// returns one NodeFeatures row per internal node, ready to be persisted by
// snapshot.WriteDerived. Enriching an empty graph is a no-op success
// (§4.3): RunID is still minted so callers can log the invocation, but the
// returned slice is empty.
func Run(ctx context.Context, nodes []snapshot.Node, edges []snapshot.Edge, opts Options, logger *logging.Logger) ([]snapshot.NodeFeatures, string, error) {
	runID := uuid.NewString()

	g, meta := BuildGraph(nodes, edges)
	if g.NumNodes() == 0 {
		return nil, runID, nil
	}

	steps := []Step{
		StructuralStep{},
		CentralityStep{},
		BoundaryStep{},
		CompositeStep{},
		CommunityStep{Resolution: opts.Resolution},
	}

	merged := RunAll(ctx, g, meta, steps, logger)

	features := make([]snapshot.NodeFeatures, 0, len(meta.Order))
	for _, hash := range meta.Order {
		features = append(features, toNodeFeatures(hash, merged[hash]))
	}
	return features, runID, nil
}

func toNodeFeatures(hash string, fields map[string]interface{}) snapshot.NodeFeatures {
	f := snapshot.NodeFeatures{Hash: hash}
	getInt := func(k string) int {
		if v, ok := fields[k].(int); ok {
			return v
		}
		return 0
	}
	getFloat := func(k string) float64 {
		if v, ok := fields[k].(float64); ok {
			return v
		}
		return 0
	}
	getBool := func(k string) bool {
		if v, ok := fields[k].(bool); ok {
			return v
		}
		return false
	}
	getString := func(k string) string {
		if v, ok := fields[k].(string); ok {
			return v
		}
		return ""
	}

	f.SCCID = getInt("scc_id")
	f.SCCSize = getInt("scc_size")
	f.SCCCrossModule = getBool("scc_cross_module")
	f.TopologicalDepth = getInt("topological_depth")
	f.ReverseTopologicalDepth = getInt("reverse_topological_depth")
	f.TransitiveCallers = getInt("transitive_callers")
	f.TransitiveCallees = getInt("transitive_callees")
	f.BetweennessCentrality = getFloat("betweenness_centrality")
	f.PageRank = getFloat("pagerank")
	f.HubScore = getFloat("hub_score")
	f.AuthorityScore = getFloat("authority_score")
	f.ClusteringCoeff = getFloat("clustering_coeff")
	f.XModFanIn = getInt("xmod_fan_in")
	f.XModFanOut = getInt("xmod_fan_out")
	f.XModCallRatio = getFloat("xmod_call_ratio")
	f.DominantCalleeMod = getString("dominant_callee_mod")
	f.DominantCalleeFrac = getFloat("dominant_callee_frac")
	f.UtilityScore = getFloat("utility_score")
	f.StabilityRank = getFloat("stability_rank")
	f.ComplexityPct = getFloat("complexity_pct")
	f.MiddlemanScore = getFloat("middleman_score")
	f.CommunityID = getInt("community_id")
	f.CommunityDominantMod = getString("community_dominant_mod")
	f.CommunityAlignment = getBool("community_alignment")
	return f
}
