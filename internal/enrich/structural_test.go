package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/graphalg"
)

func TestStructuralStepMarksCrossModuleSCC(t *testing.T) {
	g := graphalg.NewGraph()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "a", 1)
	meta := &Metadata{
		Module:    map[string]string{"a": "mod1", "b": "mod2"},
		EdgeOrder: [][2]string{{"a", "b"}, {"b", "a"}},
		Order:     []string{"a", "b"},
	}
	out, err := StructuralStep{}.Run(context.Background(), g, meta)
	require.NoError(t, err)
	assert.True(t, out["a"]["scc_cross_module"].(bool))
	assert.Equal(t, 2, out["a"]["scc_size"])
	assert.Equal(t, out["a"]["scc_id"], out["b"]["scc_id"])
}

func TestStructuralStepDepthsOnChain(t *testing.T) {
	g := graphalg.NewGraph()
	g.AddEdge("a", "b", 1)
	g.AddEdge("b", "c", 1)
	meta := &Metadata{
		Module:    map[string]string{"a": "m", "b": "m", "c": "m"},
		EdgeOrder: [][2]string{{"a", "b"}, {"b", "c"}},
		Order:     []string{"a", "b", "c"},
	}
	out, err := StructuralStep{}.Run(context.Background(), g, meta)
	require.NoError(t, err)
	assert.Equal(t, 0, out["a"]["topological_depth"])
	assert.Equal(t, 2, out["c"]["topological_depth"])
	assert.Equal(t, 0, out["c"]["reverse_topological_depth"])
	assert.Equal(t, 2, out["a"]["reverse_topological_depth"])
	assert.Equal(t, 2, out["a"]["transitive_callees"])
	assert.Equal(t, 2, out["c"]["transitive_callers"])
}

func TestBoundaryStepExcludesExternalSentinelFromFanCounts(t *testing.T) {
	g := graphalg.NewGraph()
	g.AddEdge("a", "ext", 1)
	g.AddEdge("a", "b", 1)
	meta := &Metadata{
		Module: map[string]string{
			"a":   "mod1",
			"b":   "mod2",
			"ext": "__external__",
		},
		EdgeOrder: [][2]string{{"a", "ext"}, {"a", "b"}},
		Order:     []string{"a", "b", "ext"},
	}
	out, err := BoundaryStep{}.Run(context.Background(), g, meta)
	require.NoError(t, err)
	assert.Equal(t, 1, out["a"]["xmod_fan_out"])
	assert.Equal(t, "mod2", out["a"]["dominant_callee_mod"])
	assert.InDelta(t, 1.0, out["a"]["xmod_call_ratio"], 1e-9)
}

func TestCompositeStepPercentileTiesShareLowerRank(t *testing.T) {
	ranks := complexityPercentiles([]int{5, 1, 1, 9})
	assert.Equal(t, ranks[1], ranks[2])
	assert.Less(t, ranks[1], ranks[0])
	assert.Less(t, ranks[0], ranks[3])
}

func TestCompositeStepPercentileIsOneIndexedOverN(t *testing.T) {
	// Five distinct values: source assigns (i+1)/n, not rank/(n-1).
	ranks := complexityPercentiles([]int{10, 20, 30, 40, 50})
	assert.InDelta(t, 0.2, ranks[0], 1e-9)
	assert.InDelta(t, 0.4, ranks[1], 1e-9)
	assert.InDelta(t, 0.6, ranks[2], 1e-9)
	assert.InDelta(t, 0.8, ranks[3], 1e-9)
	assert.InDelta(t, 1.0, ranks[4], 1e-9)
}

func TestCompositeStepMiddlemanUsesRawDegreeNotXmodFan(t *testing.T) {
	// a's callers/callees are both in its own module: xmod fan-in/out is
	// zero, but caller_count/callee_count are not, so middleman_score
	// must still be nonzero.
	g := graphalg.NewGraph()
	g.AddEdge("x", "a", 1)
	g.AddEdge("a", "y", 1)
	meta := &Metadata{
		Module:      map[string]string{"a": "m", "x": "m", "y": "m"},
		Complexity:  map[string]int{"a": 0, "x": 0, "y": 0},
		CallerCount: map[string]int{"a": 1, "x": 0, "y": 0},
		CalleeCount: map[string]int{"a": 1, "x": 0, "y": 0},
		EdgeOrder:   [][2]string{{"x", "a"}, {"a", "y"}},
		Order:       []string{"a", "x", "y"},
	}
	out, err := CompositeStep{}.Run(context.Background(), g, meta)
	require.NoError(t, err)
	assert.Equal(t, 0.5, out["a"]["stability_rank"]) // xmod fan-in/out both 0: falls back to 0.5
	assert.Greater(t, out["a"]["middleman_score"], 0.0)
}
