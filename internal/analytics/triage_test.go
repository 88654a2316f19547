package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestTriageUnexpectedCouplingSeverityByCallingModules(t *testing.T) {
	inputs := TriageInputs{
		HighCentralityNodes: []HighCentralityNode{
			{Hash: "a", Name: "walk", Module: "core", CallingModules: 9},
		},
	}
	report := Triage(inputs, LoadBearingConfig{})
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "unexpected_coupling", report.Issues[0].Type)
	assert.Equal(t, "high", report.Issues[0].Severity)
}

func TestTriageUnexpectedCouplingSkipsDeclaredHashesAndModules(t *testing.T) {
	inputs := TriageInputs{
		HighCentralityNodes: []HighCentralityNode{
			{Hash: "a", Name: "walk", Module: "core", CallingModules: 6},
			{Hash: "b", Name: "other", Module: "util", CallingModules: 6},
		},
	}
	cfg := LoadBearingConfig{DeclaredNodes: []string{"a"}, DeclaredModules: []string{"util"}}
	report := Triage(inputs, cfg)
	assert.Empty(t, report.Issues)
}

func TestTriageUnexpectedCouplingCapsAtThree(t *testing.T) {
	var nodes []HighCentralityNode
	for i := 0; i < 5; i++ {
		nodes = append(nodes, HighCentralityNode{Hash: string(rune('a' + i)), Name: "n", Module: "m", CallingModules: 6})
	}
	report := Triage(TriageInputs{HighCentralityNodes: nodes}, LoadBearingConfig{})
	count := 0
	for _, iss := range report.Issues {
		if iss.Type == "unexpected_coupling" {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestTriageUnstableModulePicksHighestTrafficOverThreshold(t *testing.T) {
	inputs := TriageInputs{
		ModuleEdges: []snapshot.ModuleEdge{
			{CallerModule: "x", CalleeModule: "m", EdgeCount: 6},
			{CallerModule: "m", CalleeModule: "y", EdgeCount: 12},
		},
	}
	report := Triage(inputs, LoadBearingConfig{})
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "unstable_module", report.Issues[0].Type)
	assert.Equal(t, "m", report.Issues[0].Module)
}

func TestTriageCrossModuleCyclePicksBiggestAndSuggestsCheapestBreak(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "a", Module: "m1"},
		{Hash: "b", Name: "b", Module: "m2"},
	}
	edges := []snapshot.Edge{
		{CallerHash: "a", CalleeHash: "b", CallCount: 10},
		{CallerHash: "b", CalleeHash: "a", CallCount: 2},
	}
	report := Triage(TriageInputs{Nodes: nodes, Edges: edges}, LoadBearingConfig{})
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "cross_module_cycle", report.Issues[0].Type)
	assert.Equal(t, "high", report.Issues[0].Severity)
	assert.Contains(t, report.Issues[0].Action, "`b` -> `a`")
}

func TestTriageDeadCodeConcentrationNeedsAtLeastFiveDead(t *testing.T) {
	below := Triage(TriageInputs{DeadFileStats: []DeadFileStat{{FilePath: "x.go", Total: 6, Dead: 4}}}, LoadBearingConfig{})
	assert.Empty(t, below.Issues)

	above := Triage(TriageInputs{DeadFileStats: []DeadFileStat{{FilePath: "pkg/x.go", Total: 8, Dead: 5}}}, LoadBearingConfig{})
	require.Len(t, above.Issues, 1)
	assert.Equal(t, "dead_code_concentration", above.Issues[0].Type)
	assert.Equal(t, "low", above.Issues[0].Severity)
	assert.Contains(t, above.Issues[0].Title, "x.go")
}

func TestTriageSortsBySeverityAndCapsAtFive(t *testing.T) {
	var candidates []HighCentralityNode
	for i := 0; i < 3; i++ {
		candidates = append(candidates, HighCentralityNode{Hash: string(rune('a' + i)), Name: "n", Module: "m", CallingModules: 9})
	}
	inputs := TriageInputs{
		HighCentralityNodes: candidates,
		ModuleEdges: []snapshot.ModuleEdge{
			{CallerModule: "x", CalleeModule: "m", EdgeCount: 6},
			{CallerModule: "m", CalleeModule: "y", EdgeCount: 12},
		},
		Nodes: []snapshot.Node{{Hash: "p", Name: "p", Module: "m1"}, {Hash: "q", Name: "q", Module: "m2"}},
		Edges: []snapshot.Edge{
			{CallerHash: "p", CalleeHash: "q", CallCount: 1},
			{CallerHash: "q", CalleeHash: "p", CallCount: 1},
		},
		DeadFileStats: []DeadFileStat{{FilePath: "dead.go", Total: 8, Dead: 6}},
	}
	report := Triage(inputs, LoadBearingConfig{})
	require.Len(t, report.Issues, 5)
	for i := 1; i < len(report.Issues); i++ {
		assert.LessOrEqual(t, triageSeverityOrder[report.Issues[i-1].Severity], triageSeverityOrder[report.Issues[i].Severity])
	}
}
