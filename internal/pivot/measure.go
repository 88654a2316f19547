package pivot

import (
	"math"
	"strings"
)

var specialMeasures = map[string]bool{
	"symbol_count": true, "dead_ratio": true, "high_risk_ratio": true, "in_cycle_ratio": true,
}

var dynamicAggs = map[string]bool{
	"avg": true, "min": true, "max": true, "sum": true, "count": true, "stddev": true,
}

// resolvedMeasure computes one measure's value over a group of rows.
type resolvedMeasure struct {
	Token     string
	NeedsFeat bool
	ValueType string // "int", "float", "ratio"
	Compute   func(rows []Row) float64
}

// ResolveMeasures resolves each requested measure token, silently
// dropping unknown tokens and measures needing enriched data when it is
// unavailable (§4.5: "Measures referencing enriched fields are dropped
// when unavailable").
func ResolveMeasures(tokens []string, hasFeatures bool) ([]resolvedMeasure, []string) {
	var resolved []resolvedMeasure
	var applied []string
	for _, tok := range tokens {
		m, ok := resolveMeasure(tok, hasFeatures)
		if !ok {
			continue
		}
		resolved = append(resolved, m)
		applied = append(applied, tok)
	}
	return resolved, applied
}

func resolveMeasure(tok string, hasFeatures bool) (resolvedMeasure, bool) {
	if specialMeasures[tok] {
		return specialMeasure(tok), true
	}

	parts := strings.SplitN(tok, ":", 2)
	if len(parts) != 2 {
		return resolvedMeasure{}, false
	}
	field, agg := parts[0], parts[1]
	if !dynamicAggs[agg] {
		return resolvedMeasure{}, false
	}
	needsFeat := !isRawField(field)
	if needsFeat && !hasFeatures {
		return resolvedMeasure{}, false
	}
	if !isRawField(field) && !isEnrichedField(field) {
		return resolvedMeasure{}, false
	}

	valueType := "float"
	if agg == "count" {
		valueType = "int"
	}
	return resolvedMeasure{
		Token: tok, NeedsFeat: needsFeat, ValueType: valueType,
		Compute: func(rows []Row) float64 { return aggregate(rows, field, agg) },
	}, true
}

func isRawField(field string) bool {
	switch field {
	case "caller_count", "callee_count", "complexity":
		return true
	}
	return false
}

func isEnrichedField(field string) bool {
	switch field {
	case "pagerank", "betweenness_centrality", "utility_score", "stability_rank",
		"complexity_pct", "middleman_score", "xmod_call_ratio", "clustering_coeff",
		"hub_score", "authority_score":
		return true
	}
	return false
}

func fieldValueExt(r Row, field string) (float64, bool) {
	if v, ok := fieldValue(r, field); ok {
		return v, true
	}
	if r.Features == nil {
		return 0, false
	}
	switch field {
	case "utility_score":
		return r.Features.UtilityScore, true
	case "stability_rank":
		return r.Features.StabilityRank, true
	case "complexity_pct":
		return r.Features.ComplexityPct, true
	case "middleman_score":
		return r.Features.MiddlemanScore, true
	case "xmod_call_ratio":
		return r.Features.XModCallRatio, true
	case "clustering_coeff":
		return r.Features.ClusteringCoeff, true
	case "hub_score":
		return r.Features.HubScore, true
	case "authority_score":
		return r.Features.AuthorityScore, true
	}
	return 0, false
}

func aggregate(rows []Row, field, agg string) float64 {
	var values []float64
	for _, r := range rows {
		if v, ok := fieldValueExt(r, field); ok {
			values = append(values, v)
		}
	}
	switch agg {
	case "count":
		return float64(len(values))
	case "sum":
		return sum(values)
	case "avg":
		if len(values) == 0 {
			return 0
		}
		return sum(values) / float64(len(values))
	case "min":
		if len(values) == 0 {
			return 0
		}
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case "max":
		if len(values) == 0 {
			return 0
		}
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case "stddev":
		return populationStddev(values)
	default:
		return 0
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// populationStddev implements the custom population-stddev aggregate
// §4.5 calls for ("stddev is population stddev implemented as a custom
// aggregate").
func populationStddev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := sum(values) / float64(n)
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}

func specialMeasure(tok string) resolvedMeasure {
	switch tok {
	case "symbol_count":
		return resolvedMeasure{Token: tok, ValueType: "int", Compute: func(rows []Row) float64 { return float64(len(rows)) }}
	case "dead_ratio":
		return resolvedMeasure{Token: tok, ValueType: "ratio", Compute: func(rows []Row) float64 {
			if len(rows) == 0 {
				return 0
			}
			dead := 0
			for _, r := range rows {
				if r.Node.CallerCount == 0 {
					dead++
				}
			}
			return float64(dead) / float64(len(rows))
		}}
	case "high_risk_ratio":
		return resolvedMeasure{Token: tok, ValueType: "ratio", Compute: func(rows []Row) float64 {
			if len(rows) == 0 {
				return 0
			}
			n := 0
			for _, r := range rows {
				if r.Node.Risk == "high" || r.Node.Risk == "critical" {
					n++
				}
			}
			return float64(n) / float64(len(rows))
		}}
	case "in_cycle_ratio":
		return resolvedMeasure{Token: tok, NeedsFeat: false, ValueType: "ratio", Compute: func(rows []Row) float64 {
			if len(rows) == 0 {
				return 0
			}
			n := 0
			for _, r := range rows {
				if r.InCycle {
					n++
				}
			}
			return float64(n) / float64(len(rows))
		}}
	}
	return resolvedMeasure{}
}
