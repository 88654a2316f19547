package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symgraph/internal/snapshot"
)

func TestClassifyDeadCodeEntrypointNameIsCaution(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "main", FilePath: "cmd/app/main.go", Kind: "function"},
	}
	report := ClassifyDeadCode(nodes, 10)
	require.Len(t, report.Groups, 1)
	require.Len(t, report.Groups[0].Nodes, 1)
	assert.Equal(t, TierCaution, report.Groups[0].Nodes[0].Tier)
	assert.Equal(t, 1, report.CautionCount)
}

func TestClassifyDeadCodePrivateLowComplexityIsSafe(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "_helper", FilePath: "pkg/util.go", Kind: "function", Complexity: 3},
	}
	report := ClassifyDeadCode(nodes, 10)
	assert.Equal(t, TierSafe, report.Groups[0].Nodes[0].Tier)
	assert.Equal(t, 1, report.SafeCount)
}

func TestClassifyDeadCodeExportedComplexIsReview(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "ComputeTotals", FilePath: "pkg/billing.go", Kind: "function", Complexity: 20},
	}
	report := ClassifyDeadCode(nodes, 10)
	assert.Equal(t, TierReview, report.Groups[0].Nodes[0].Tier)
	assert.Equal(t, 1, report.ReviewCount)
}

func TestClassifyDeadCodeClassKindIsAlwaysCaution(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "_Impl", FilePath: "pkg/impl.go", Kind: "class", Complexity: 1},
	}
	report := ClassifyDeadCode(nodes, 10)
	assert.Equal(t, TierCaution, report.Groups[0].Nodes[0].Tier)
}

func TestClassifyDeadCodeFrameworkFileSegmentIsCaution(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "_loadData", FilePath: "pkg/fixture/data.go", Kind: "function", Complexity: 1},
	}
	report := ClassifyDeadCode(nodes, 10)
	assert.Equal(t, TierCaution, report.Groups[0].Nodes[0].Tier)
}

func TestClassifyDeadCodeFrameworkNamePatternCoversSetUpAndTearDown(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "setUp", FilePath: "pkg/x.go", Kind: "function"},
		{Hash: "b", Name: "tearDown", FilePath: "pkg/x.go", Kind: "function"},
		{Hash: "c", Name: "UserFixture", FilePath: "pkg/x.go", Kind: "function"},
	}
	report := ClassifyDeadCode(nodes, 10)
	assert.Equal(t, 3, report.CautionCount)
}

func TestClassifyDeadCodeEntrypointNamesCoverWsgiAndIndex(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "wsgi", FilePath: "pkg/x.go", Kind: "function"},
		{Hash: "b", Name: "index", FilePath: "pkg/x.go", Kind: "function"},
	}
	report := ClassifyDeadCode(nodes, 10)
	assert.Equal(t, 2, report.CautionCount)
}

func TestClassifyDeadCodeRatioAndGroupOrdering(t *testing.T) {
	nodes := []snapshot.Node{
		{Hash: "a", Name: "_a", FilePath: "pkg/x.go", Complexity: 1},
		{Hash: "b", Name: "_b", FilePath: "pkg/x.go", Complexity: 1},
		{Hash: "c", Name: "_c", FilePath: "pkg/y.go", Complexity: 1},
	}
	report := ClassifyDeadCode(nodes, 6)
	assert.InDelta(t, 0.5, report.DeadRatio, 1e-9)
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "pkg/x.go", report.Groups[0].FilePath)
}
