package pivot

import (
	"sort"
)

const symbolGrainCap = 500

// GraphEdge is an induced-subgraph edge keyed by (src, tgt) labels.
type GraphEdge struct {
	Source string
	Target string
	Weight float64
}

// PivotRow is one tree node: a dimension value, its aggregated measures,
// and children (for pivot grain with >=2 dims).
type PivotRow struct {
	Key      string
	Depth    int
	Values   map[string]float64
	Children []*PivotRow
	DiffStatus *float64 // set only under a diff overlay
}

// Result is the §4.5 "Result shape".
type Result struct {
	Rows            []*PivotRow
	Dimensions      []string
	Measures        []string
	MeasureTypes    map[string]string
	HasEnriched     bool
	GraphEdges      []GraphEdge
	LeafGraphEdges  []GraphEdge
}

// Request is the §4.5 pivot request.
type Request struct {
	Dimensions []string
	Measures   []string
	Kinds      []string
}

// Compute implements §4.5 grain selection, measure/dimension resolution,
// tree building and induced-subgraph emission.
func Compute(req Request, rows []Row, hasFeatures bool, diffStatus map[string]float64) Result {
	if len(req.Kinds) > 0 {
		rows = filterByKind(rows, req.Kinds)
	}

	dims, appliedDims := ResolveDimensions(req.Dimensions, rows, hasFeatures)
	measures, appliedMeasures := ResolveMeasures(req.Measures, hasFeatures)

	measureTypes := make(map[string]string, len(measures))
	for _, m := range measures {
		measureTypes[m.Token] = m.ValueType
	}

	result := Result{
		Dimensions: appliedDims, Measures: appliedMeasures,
		MeasureTypes: measureTypes, HasEnriched: hasFeatures,
	}

	symbolGrain := len(dims) == 0 || (len(appliedDims) == 1 && appliedDims[0] == "symbol")
	if symbolGrain {
		result.Dimensions = []string{"symbol"}
		result.Rows = symbolGrainRows(rows, measures, diffStatus)
		result.GraphEdges = inducedEdges(rows, symbolKeyFunc, symbolKeyFunc)
		return result
	}

	result.Rows = pivotGrainRows(dims, rows, measures, diffStatus)

	topDim := dims[0]
	result.GraphEdges = inducedEdges(rows, topDim.Label, topDim.Label)
	if len(dims) >= 2 {
		deepest := dims[len(dims)-1]
		result.LeafGraphEdges = inducedEdges(rows, deepest.Label, deepest.Label)
	}
	return result
}

func filterByKind(rows []Row, kinds []string) []Row {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	var out []Row
	for _, r := range rows {
		if set[r.Node.Kind] {
			out = append(out, r)
		}
	}
	return out
}

func symbolKeyFunc(r Row) string {
	return r.Node.Module + "::" + r.Node.Name
}

// symbolGrainRows implements the zero/["symbol"] dims case: one row per
// node, ordered caller_count desc then name asc, capped at 500.
func symbolGrainRows(rows []Row, measures []resolvedMeasure, diffStatus map[string]float64) []*PivotRow {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Node.CallerCount != sorted[j].Node.CallerCount {
			return sorted[i].Node.CallerCount > sorted[j].Node.CallerCount
		}
		return sorted[i].Node.Name < sorted[j].Node.Name
	})
	if len(sorted) > symbolGrainCap {
		sorted = sorted[:symbolGrainCap]
	}

	out := make([]*PivotRow, 0, len(sorted))
	for _, r := range sorted {
		values := make(map[string]float64, len(measures))
		for _, m := range measures {
			values[m.Token] = m.Compute([]Row{r})
		}
		row := &PivotRow{Key: symbolKeyFunc(r), Depth: 0, Values: values}
		if diffStatus != nil {
			if s, ok := diffStatus[symbolKeyFunc(r)]; ok {
				row.DiffStatus = &s
			} else {
				v := 0.5
				row.DiffStatus = &v
			}
		}
		out = append(out, row)
	}
	return out
}

// pivotGrainRows implements GROUP BY on the first min(2, |dims|)
// resolved dims, with an N-level tree when more dims were resolved
// (§4.5 allows this extension; parent symbol_count always equals the
// sum of its children's).
func pivotGrainRows(dims []resolvedDim, rows []Row, measures []resolvedMeasure, diffStatus map[string]float64) []*PivotRow {
	return groupLevel(dims, rows, measures, diffStatus, 0)
}

func groupLevel(dims []resolvedDim, rows []Row, measures []resolvedMeasure, diffStatus map[string]float64, depth int) []*PivotRow {
	if depth >= len(dims) || len(rows) == 0 {
		return nil
	}
	dim := dims[depth]
	groups := make(map[string][]Row)
	var keys []string
	for _, r := range rows {
		k := dim.Label(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]*PivotRow, 0, len(keys))
	for _, k := range keys {
		members := groups[k]
		values := make(map[string]float64, len(measures))
		for _, m := range measures {
			values[m.Token] = m.Compute(members)
		}
		row := &PivotRow{Key: k, Depth: depth, Values: values}
		row.Children = groupLevel(dims, members, measures, diffStatus, depth+1)

		if diffStatus != nil {
			row.DiffStatus = groupDiffStatus(members, diffStatus)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, iok := out[i].Values["symbol_count"]
		sj, jok := out[j].Values["symbol_count"]
		if iok && jok && si != sj {
			return si > sj
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// groupDiffStatus is the mean status of member symbols (§4.5 "For
// grouped rows, the value is the mean status of member symbols").
func groupDiffStatus(rows []Row, diffStatus map[string]float64) *float64 {
	if len(rows) == 0 {
		v := 0.5
		return &v
	}
	total := 0.0
	for _, r := range rows {
		if s, ok := diffStatus[symbolKeyFunc(r)]; ok {
			total += s
		} else {
			total += 0.5
		}
	}
	mean := total / float64(len(rows))
	return &mean
}

// inducedEdges emits one edge per distinct (src, tgt) pair with weight =
// call count, self-edges excluded (§4.5 "Induced subgraph").
func inducedEdges(rows []Row, srcOf, tgtOf func(Row) string) []GraphEdge {
	byHash := make(map[string]Row, len(rows))
	for _, r := range rows {
		byHash[r.Node.Hash] = r
	}
	weight := make(map[[2]string]float64)
	for _, r := range rows {
		src := srcOf(r)
		for calleeHash, count := range r.calleeCounts() {
			callee, ok := byHash[calleeHash]
			if !ok {
				continue
			}
			tgt := tgtOf(callee)
			if src == tgt {
				continue
			}
			weight[[2]string{src, tgt}] += float64(count)
		}
	}

	keys := make([][2]string, 0, len(weight))
	for k := range weight {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	out := make([]GraphEdge, 0, len(keys))
	for _, k := range keys {
		out = append(out, GraphEdge{Source: k[0], Target: k[1], Weight: weight[k]})
	}
	return out
}
