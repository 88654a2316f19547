// Package pivot implements the dynamic query compiler of §4.5: resolving
// requested dimensions and measures into a grain, executing the grouped
// aggregation in Go over materialized rows (the snapshot store already
// loaded them; there is no SQL planner here, only the grain/bucketing
// semantics SQL would otherwise express), and emitting the induced
// subgraph edges alongside the result tree.
package pivot

import (
	"fmt"
	"sort"
	"strings"

	"symgraph/internal/snapshot"
)

// simpleDimensions is the closed set of non-bucketed dimensions (§4.5
// "Dimension resolution").
var simpleDimensions = map[string]bool{
	"module": true, "risk": true, "kind": true, "symbol": true,
	"dead": true, "high_risk": true, "in_cycle": true,
	"community_dominant_mod": true, "community_alignment": true,
}

// bucketableFields is the closed set of fields a `<field>:<mode>`
// bucketed dimension may reference.
var bucketableFields = map[string]bool{
	"caller_count": true, "callee_count": true, "complexity": true,
	"pagerank": true, "utility": true, "betweenness_centrality": true,
}

var enrichedSimpleDims = map[string]bool{
	"community_dominant_mod": true, "community_alignment": true, "in_cycle": true,
}

// Row is one (node, enriched-features) pair the compiler groups over.
type Row struct {
	Node     snapshot.Node
	Features *snapshot.NodeFeatures // nil if unenriched
	InCycle  bool
	Callees  map[string]int // callee hash -> call_count, for induced-subgraph emission
}

func (r Row) calleeCounts() map[string]int {
	return r.Callees
}

// resolvedDim is a dimension after resolution: a function computing a
// row's bucket key/label, plus whether it needed enriched data.
type resolvedDim struct {
	Token     string
	NeedsFeat bool
	Label     func(r Row) string
}

// ResolveDimensions resolves each requested token into a callable
// dimension, silently dropping unknown tokens and (when hasFeatures is
// false) tokens that need enriched data (§4.5: "Dims requiring enriched
// data are dropped silently when node_features is absent").
func ResolveDimensions(tokens []string, rows []Row, hasFeatures bool) ([]resolvedDim, []string) {
	var resolved []resolvedDim
	var applied []string
	for _, tok := range tokens {
		dim, ok := resolveOne(tok, rows, hasFeatures)
		if !ok {
			continue
		}
		resolved = append(resolved, dim)
		applied = append(applied, tok)
	}
	return resolved, applied
}

func resolveOne(tok string, rows []Row, hasFeatures bool) (resolvedDim, bool) {
	if simpleDimensions[tok] {
		if enrichedSimpleDims[tok] && !hasFeatures {
			return resolvedDim{}, false
		}
		return resolvedDim{Token: tok, NeedsFeat: enrichedSimpleDims[tok], Label: simpleDimLabel(tok)}, true
	}

	parts := strings.SplitN(tok, ":", 2)
	if len(parts) != 2 {
		return resolvedDim{}, false
	}
	field, mode := parts[0], parts[1]
	if !bucketableFields[field] || !isBucketMode(mode) {
		return resolvedDim{}, false
	}
	needsFeat := field != "caller_count" && field != "callee_count" && field != "complexity"
	if needsFeat && !hasFeatures {
		return resolvedDim{}, false
	}
	cutpoints := bucketCutpoints(rows, field, mode)
	return resolvedDim{
		Token: tok, NeedsFeat: needsFeat,
		Label: bucketLabel(field, mode, cutpoints),
	}, true
}

func isBucketMode(mode string) bool {
	return mode == "median" || mode == "quartile" || mode == "decile"
}

func simpleDimLabel(tok string) func(Row) string {
	switch tok {
	case "module":
		return func(r Row) string { return r.Node.Module }
	case "risk":
		return func(r Row) string { return r.Node.Risk }
	case "kind":
		return func(r Row) string { return r.Node.Kind }
	case "symbol":
		return func(r Row) string { return r.Node.Module + "::" + r.Node.Name }
	case "dead":
		return func(r Row) string {
			if r.Node.CallerCount == 0 {
				return "dead"
			}
			return "live"
		}
	case "high_risk":
		return func(r Row) string {
			if r.Node.Risk == "high" || r.Node.Risk == "critical" {
				return "high_risk"
			}
			return "normal"
		}
	case "in_cycle":
		return func(r Row) string {
			if r.InCycle {
				return "in_cycle"
			}
			return "acyclic"
		}
	case "community_dominant_mod":
		return func(r Row) string {
			if r.Features == nil {
				return ""
			}
			return r.Features.CommunityDominantMod
		}
	case "community_alignment":
		return func(r Row) string {
			if r.Features == nil {
				return "false"
			}
			if r.Features.CommunityAlignment {
				return "true"
			}
			return "false"
		}
	default:
		return func(Row) string { return "" }
	}
}

func fieldValue(r Row, field string) (float64, bool) {
	switch field {
	case "caller_count":
		return float64(r.Node.CallerCount), true
	case "callee_count":
		return float64(r.Node.CalleeCount), true
	case "complexity":
		return float64(r.Node.Complexity), true
	}
	if r.Features == nil {
		return 0, false
	}
	switch field {
	case "pagerank":
		return r.Features.PageRank, true
	case "utility":
		return r.Features.UtilityScore, true
	case "betweenness_centrality":
		return r.Features.BetweennessCentrality, true
	}
	return 0, false
}

// bucketCutpoints computes N-1 percentile cut-points over the field's
// values from rows that have it, per §4.5: "materialized by computing
// N-1 percentile cut-points from the current snapshot".
func bucketCutpoints(rows []Row, field, mode string) []float64 {
	var values []float64
	for _, r := range rows {
		if v, ok := fieldValue(r, field); ok {
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	n := len(values)
	if n == 0 {
		return nil
	}

	buckets := bucketCount(mode)
	cuts := make([]float64, 0, buckets-1)
	for i := 1; i < buckets; i++ {
		pos := float64(i) / float64(buckets) * float64(n)
		idx := int(pos)
		if idx >= n {
			idx = n - 1
		}
		cuts = append(cuts, values[idx])
	}
	return cuts
}

func bucketCount(mode string) int {
	switch mode {
	case "median":
		return 2
	case "quartile":
		return 4
	case "decile":
		return 10
	default:
		return 2
	}
}

func bucketLabel(field, mode string, cuts []float64) func(Row) string {
	labels := bucketLabels(mode)
	return func(r Row) string {
		v, ok := fieldValue(r, field)
		if !ok {
			return ""
		}
		idx := 0
		for idx < len(cuts) && v > cuts[idx] {
			idx++
		}
		if idx >= len(labels) {
			idx = len(labels) - 1
		}
		return labels[idx]
	}
}

func bucketLabels(mode string) []string {
	switch mode {
	case "median":
		return []string{"low", "high"}
	case "quartile":
		return []string{"Q1", "Q2", "Q3", "Q4"}
	case "decile":
		labels := make([]string, 10)
		for i := range labels {
			labels[i] = fmt.Sprintf("D%d", i+1)
		}
		return labels
	default:
		return []string{"low", "high"}
	}
}
