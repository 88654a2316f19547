package analytics

import (
	"fmt"
	"sort"
	"strings"

	"symgraph/internal/snapshot"
)

// HighCentralityNode is a load-bearing candidate as triage sees it: the
// unexpected-coupling check needs the caller's name and its cross-module
// fan-in count alongside the hash/module pair LoadBearingCandidates
// already returns.
type HighCentralityNode struct {
	Hash           string
	Name           string
	Module         string
	CallingModules int
}

// DeadFileStat is one file's dead-code concentration, pre-filtered to
// total >= 5 and dead/total >= 0.6 (the same threshold the original
// source's SQL applies before triage ever sees the rows).
type DeadFileStat struct {
	FilePath string
	Total    int
	Dead     int
}

// TriageInputs bundles the four independent fetches triage needs: the
// unexpected-coupling, unstable-module, cross-module-cycle and
// dead-code-concentration checks each read one of these and nothing else.
type TriageInputs struct {
	HighCentralityNodes []HighCentralityNode
	ModuleEdges         []snapshot.ModuleEdge
	Nodes               []snapshot.Node
	Edges               []snapshot.Edge
	DeadFileStats       []DeadFileStat
}

// TriageIssue is one synthesized finding, severity-ranked.
type TriageIssue struct {
	Type     string
	Severity string
	Title    string
	Detail   string
	Action   string
	Hash     string
	Name     string
	Module   string
	Modules  []string
	File     string
}

// TriageReport is the capped, severity-sorted issue list §4.6 names as
// the triage kernel's result.
type TriageReport struct {
	Issues []TriageIssue
}

var triageSeverityOrder = map[string]int{"high": 0, "medium": 1, "low": 2}

const triageIssueCap = 5

// Triage synthesizes a severity-ranked issue list from load-bearing,
// coupling, cycles and dead-code data in one pass (§4.6 "triage kernel").
// Each check is independent and order-stable; a check that finds nothing
// contributes no issue rather than failing the whole run.
func Triage(inputs TriageInputs, cfg LoadBearingConfig) TriageReport {
	var issues []TriageIssue
	issues = append(issues, triageUnexpectedCoupling(inputs, cfg)...)
	if issue := triageUnstableModule(inputs); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := triageCrossModuleCycle(inputs); issue != nil {
		issues = append(issues, *issue)
	}
	if issue := triageDeadCodeConcentration(inputs); issue != nil {
		issues = append(issues, *issue)
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return triageSeverityOrder[issues[i].Severity] < triageSeverityOrder[issues[j].Severity]
	})
	if len(issues) > triageIssueCap {
		issues = issues[:triageIssueCap]
	}
	return TriageReport{Issues: issues}
}

// triageUnexpectedCoupling flags load-bearing candidates that are not
// declared, up to 3 of them, matching the original's `candidates[:3]`.
func triageUnexpectedCoupling(inputs TriageInputs, cfg LoadBearingConfig) []TriageIssue {
	declaredHashes := make(map[string]bool, len(cfg.DeclaredNodes))
	for _, h := range cfg.DeclaredNodes {
		declaredHashes[h] = true
	}
	declaredModules := make(map[string]bool, len(cfg.DeclaredModules))
	for _, m := range cfg.DeclaredModules {
		declaredModules[m] = true
	}

	var candidates []HighCentralityNode
	for _, n := range inputs.HighCentralityNodes {
		if declaredHashes[n.Hash] || declaredModules[n.Module] {
			continue
		}
		candidates = append(candidates, n)
	}

	var issues []TriageIssue
	for i, row := range candidates {
		if i >= 3 {
			break
		}
		severity := "medium"
		if row.CallingModules >= 8 {
			severity = "high"
		}
		issues = append(issues, TriageIssue{
			Type:     "unexpected_coupling",
			Severity: severity,
			Title:    fmt.Sprintf("`%s` is load-bearing without declaration", row.Name),
			Detail: fmt.Sprintf(
				"Called from %d modules but not declared as load-bearing. Module: %s. "+
					"This node will resist refactoring.", row.CallingModules, row.Module),
			Action: "Open Building View -> click this node -> Declare load-bearing (if intentional) " +
				"or plan to reduce its callers.",
			Hash: row.Hash, Name: row.Name, Module: row.Module,
		})
	}
	return issues
}

// triageUnstableModule flags the highest-traffic module whose efferent
// share of total edges exceeds 0.65, matching the original's
// `efferent / (afferent + efferent) > 0.65` instability formula.
func triageUnstableModule(inputs TriageInputs) *TriageIssue {
	afferent := make(map[string]int)
	efferent := make(map[string]int)
	for _, e := range inputs.ModuleEdges {
		afferent[e.CalleeModule] += e.EdgeCount
		efferent[e.CallerModule] += e.EdgeCount
	}

	var modules []string
	for m := range afferent {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	var unstable []string
	for _, m := range modules {
		ca, ce := afferent[m], efferent[m]
		if ca > 5 && float64(ce)/float64(ca+ce) > 0.65 {
			unstable = append(unstable, m)
		}
	}
	if len(unstable) == 0 {
		return nil
	}

	best := unstable[0]
	bestTotal := afferent[best] + efferent[best]
	for _, m := range unstable[1:] {
		if total := afferent[m] + efferent[m]; total > bestTotal {
			best, bestTotal = m, total
		}
	}

	ca, ce := afferent[best], efferent[best]
	instability := float64(ce) / float64(ca+ce)
	instability = float64(int(instability*100+0.5)) / 100
	return &TriageIssue{
		Type:     "unstable_module",
		Severity: "medium",
		Title:    fmt.Sprintf("`%s` is high-traffic and unstable (I=%.2f)", best, instability),
		Detail: fmt.Sprintf("Called from %d edges in, %d edges out. Instability %.2f means "+
			"changes here ripple widely.", ca, ce, instability),
		Action: "Open Module Coupling -> review this module's callers. " +
			"Consider extracting stable core interfaces from this module.",
		Module: best,
	}
}

// triageCrossModuleCycle picks the largest cross-module cycle, if any,
// reusing FindCycles rather than re-deriving SCCs.
func triageCrossModuleCycle(inputs TriageInputs) *TriageIssue {
	if len(inputs.Nodes) == 0 || len(inputs.Edges) == 0 {
		return nil
	}
	cycles := FindCycles(inputs.Nodes, inputs.Edges, len(inputs.Nodes))
	var biggest *Cycle
	for i := range cycles {
		if !cycles[i].CrossModule {
			continue
		}
		if biggest == nil || len(cycles[i].Members) > len(biggest.Members) {
			biggest = &cycles[i]
		}
	}
	if biggest == nil {
		return nil
	}

	mods := biggest.Modules
	shown := mods
	suffix := ""
	if len(mods) > 4 {
		shown = mods[:4]
		suffix = "..."
	}

	action := "Open Cycles view to identify the weakest edge to cut."
	if biggest.BreakSuggestion.CallerHash != "" {
		callerName, calleeName := nameOf(inputs.Nodes, biggest.BreakSuggestion.CallerHash),
			nameOf(inputs.Nodes, biggest.BreakSuggestion.CalleeHash)
		action = fmt.Sprintf("Open Cycles -> cut the call `%s` -> `%s` (lowest call count in the "+
			"cycle) to break it.", callerName, calleeName)
	}

	return &TriageIssue{
		Type:     "cross_module_cycle",
		Severity: "high",
		Title:    fmt.Sprintf("Cross-module cycle across %d modules (%d symbols)", len(mods), len(biggest.Members)),
		Detail: fmt.Sprintf("Modules involved: %s%s. Circular dependencies prevent clean module "+
			"extraction.", strings.Join(shown, ", "), suffix),
		Action:  action,
		Modules: mods,
	}
}

func nameOf(nodes []snapshot.Node, hash string) string {
	for _, n := range nodes {
		if n.Hash == hash {
			return n.Name
		}
	}
	return "?"
}

// triageDeadCodeConcentration picks the file with the most dead symbols
// among those already filtered to total>=5 and dead/total>=0.6.
func triageDeadCodeConcentration(inputs TriageInputs) *TriageIssue {
	if len(inputs.DeadFileStats) == 0 {
		return nil
	}
	worst := inputs.DeadFileStats[0]
	for _, r := range inputs.DeadFileStats[1:] {
		if r.Dead > worst.Dead {
			worst = r
		}
	}
	if worst.Dead < 5 {
		return nil
	}

	pct := int(float64(worst.Dead)/float64(worst.Total)*100 + 0.5)
	fileName := worst.FilePath
	if idx := strings.LastIndex(fileName, "/"); idx >= 0 {
		fileName = fileName[idx+1:]
	}
	return &TriageIssue{
		Type:     "dead_code_concentration",
		Severity: "low",
		Title:    fmt.Sprintf("%d%% of `%s` is unreachable", pct, fileName),
		Detail: fmt.Sprintf("%d of %d symbols have zero callers. This file may be legacy code.",
			worst.Dead, worst.Total),
		Action: "Open Dead Code -> review this file's symbols. " +
			"Private functions with low complexity are safest to delete first.",
		File: worst.FilePath,
	}
}
