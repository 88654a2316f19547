// Package analytics implements the pure, DB-free analytics kernels of
// §4.4: dead code, cycles, coupling, centrality, communities,
// load-bearing, blast radius, diff and pattern detection. Every kernel
// takes plain records (no snapshot handle) and returns plain records, per
// spec: "Analytics Kernels... Pure, DB-free functions."
package analytics

import (
	"sort"
	"strings"

	"symgraph/internal/snapshot"
)

// DeadCodeTier classifies how confidently a zero-caller node can be
// removed.
type DeadCodeTier string

const (
	TierSafe    DeadCodeTier = "safe"
	TierReview  DeadCodeTier = "review"
	TierCaution DeadCodeTier = "caution"
)

// entrypointNames are symbol names that typically mark a program's entry
// point and should never be reported with confidence (Scenario A, §8).
var entrypointNames = map[string]bool{
	"main": true, "setup": true, "teardown": true, "configure": true,
	"run": true, "start": true, "init": true, "handler": true,
	"handle": true, "on_event": true, "register": true, "create_app": true,
	"app": true, "cli": true, "command": true, "callback": true,
	"entry": true, "entrypoint": true, "wsgi": true, "asgi": true,
	"lambda_handler": true, "index": true,
}

// frameworkNamePatterns are checked as both prefix and suffix of a
// symbol name to flag test/fixture scaffolding.
var frameworkNamePatterns = []string{"test_", "Test", "Spec", "Fixture", "conftest", "setUp", "tearDown"}

// frameworkFileSegments mark file paths that belong to test/fixture
// infrastructure rather than application code.
var frameworkFileSegments = []string{"test", "spec", "fixture", "conftest", "__init__", "setup.py", "manage.py"}

// DeadCodeNode is one zero-caller internal node plus its classification.
type DeadCodeNode struct {
	Hash       string
	Name       string
	FilePath   string
	Kind       string
	Complexity int
	Tier       DeadCodeTier
	Reason     string
}

// DeadCodeFileGroup buckets dead-code nodes by file; ClassifyDeadCode
// returns the groups sorted desc by group size (§4.4).
type DeadCodeFileGroup struct {
	FilePath string
	Nodes    []DeadCodeNode
}

// DeadCodeReport is the result of classifying every zero-caller node.
type DeadCodeReport struct {
	Groups      []DeadCodeFileGroup
	SafeCount   int
	ReviewCount int
	CautionCount int
	TotalDead   int
	DeadRatio   float64
}

// ClassifyDeadCode implements §4.4 "Dead code". zeroCallerNodes must
// already be filtered to internal nodes with caller_count == 0;
// totalInternal is the total internal symbol count used for dead_ratio.
func ClassifyDeadCode(zeroCallerNodes []snapshot.Node, totalInternal int) DeadCodeReport {
	byFile := make(map[string][]DeadCodeNode)
	var safeCount, reviewCount, cautionCount int

	for _, n := range zeroCallerNodes {
		tier, reason := classifyDeadNode(n)
		dn := DeadCodeNode{
			Hash: n.Hash, Name: n.Name, FilePath: n.FilePath,
			Kind: n.Kind, Complexity: n.Complexity, Tier: tier, Reason: reason,
		}
		byFile[n.FilePath] = append(byFile[n.FilePath], dn)
		switch tier {
		case TierSafe:
			safeCount++
		case TierReview:
			reviewCount++
		case TierCaution:
			cautionCount++
		}
	}

	var groups []DeadCodeFileGroup
	for fp, nodes := range byFile {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
		groups = append(groups, DeadCodeFileGroup{FilePath: fp, Nodes: nodes})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Nodes) != len(groups[j].Nodes) {
			return len(groups[i].Nodes) > len(groups[j].Nodes)
		}
		return groups[i].FilePath < groups[j].FilePath
	})

	total := safeCount + reviewCount + cautionCount
	ratio := 0.0
	if totalInternal > 0 {
		ratio = float64(total) / float64(totalInternal)
	}

	return DeadCodeReport{
		Groups: groups, SafeCount: safeCount, ReviewCount: reviewCount,
		CautionCount: cautionCount, TotalDead: total, DeadRatio: ratio,
	}
}

// classifyDeadNode applies the §4.4 rule set. "caution" wins if any of:
// entrypoint name, framework name pattern, framework file segment, or
// kind == class. Otherwise "safe" iff private (leading underscore) and
// complexity <= 8; else "review".
func classifyDeadNode(n snapshot.Node) (DeadCodeTier, string) {
	lowerName := strings.ToLower(n.Name)
	if entrypointNames[lowerName] {
		return TierCaution, "matches a known entrypoint name"
	}
	for _, p := range frameworkNamePatterns {
		if strings.HasPrefix(n.Name, p) || strings.HasSuffix(n.Name, p) {
			return TierCaution, "matches a framework naming pattern"
		}
	}
	lowerPath := strings.ToLower(n.FilePath)
	for _, seg := range frameworkFileSegments {
		if strings.Contains(lowerPath, seg) {
			return TierCaution, "file path contains a framework segment"
		}
	}
	if n.Kind == "class" {
		return TierCaution, "class symbols require manual review"
	}

	isPrivate := strings.HasPrefix(n.Name, "_")
	if isPrivate && n.Complexity <= 8 {
		return TierSafe, "private symbol with low complexity"
	}
	return TierReview, "exported or complex symbol with no callers"
}
