package analytics

import (
	"sort"
	"strings"

	"symgraph/internal/snapshot"
)

// DeclarationKind records why a load-bearing node is considered declared.
type DeclarationKind string

const (
	DeclaredExplicit DeclarationKind = "explicit"
	DeclaredAuto     DeclarationKind = "auto"
	DeclaredNone     DeclarationKind = ""
)

// loadBearingKeywords are module-path segments that imply foundational
// status even without an explicit declaration (§4.4 "Load-bearing").
var loadBearingKeywords = map[string]bool{
	"core": true, "platform": true, "base": true, "shared": true,
	"common": true, "infra": true, "lib": true, "utils": true,
	"foundation": true, "primitives": true, "runtime": true,
	"framework": true, "kernel": true,
}

// LoadBearingConfig carries the declared inventory a repo owner has
// recorded, per §4.6 config sidecar.
type LoadBearingConfig struct {
	DeclaredNodes   []string
	DeclaredModules []string
}

// LoadBearingNode is a candidate plus its declaration verdict.
type LoadBearingNode struct {
	Hash   string
	Module string
	Kind   DeclarationKind
}

// LoadBearingReport splits candidates into declared and unexpected sets.
type LoadBearingReport struct {
	Declared   []LoadBearingNode
	Unexpected []LoadBearingNode
}

// LoadBearing implements §4.4 "Load-bearing". candidates must already be
// filtered to "called from >= threshold distinct external modules".
func LoadBearing(candidates []snapshot.Node, cfg LoadBearingConfig) LoadBearingReport {
	declaredHashes := make(map[string]bool, len(cfg.DeclaredNodes))
	for _, h := range cfg.DeclaredNodes {
		declaredHashes[h] = true
	}

	var report LoadBearingReport
	for _, n := range candidates {
		kind := declarationKind(n, declaredHashes, cfg.DeclaredModules)
		ln := LoadBearingNode{Hash: n.Hash, Module: n.Module, Kind: kind}
		if kind == DeclaredNone {
			report.Unexpected = append(report.Unexpected, ln)
		} else {
			report.Declared = append(report.Declared, ln)
		}
	}

	sort.Slice(report.Declared, func(i, j int) bool { return report.Declared[i].Hash < report.Declared[j].Hash })
	sort.Slice(report.Unexpected, func(i, j int) bool { return report.Unexpected[i].Hash < report.Unexpected[j].Hash })
	return report
}

func declarationKind(n snapshot.Node, declaredHashes map[string]bool, declaredModules []string) DeclarationKind {
	if declaredHashes[n.Hash] {
		return DeclaredExplicit
	}
	for _, sub := range declaredModules {
		if sub != "" && strings.Contains(n.Module, sub) {
			return DeclaredExplicit
		}
	}
	for _, part := range strings.Split(n.Module, ".") {
		if loadBearingKeywords[strings.ToLower(part)] {
			return DeclaredAuto
		}
	}
	for _, part := range strings.Split(n.Module, "/") {
		if loadBearingKeywords[strings.ToLower(part)] {
			return DeclaredAuto
		}
	}
	return DeclaredNone
}
