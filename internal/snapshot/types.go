// Package snapshot implements the Snapshot Store: a read/write interface
// over a relational snapshot of nodes, edges, module_edges and, once
// enrichment has run, node_features. The raw snapshot is immutable;
// enrichment always writes a disjoint derived snapshot (§3.2).
package snapshot

// Node is a symbol (function, method, class, module, ...).
type Node struct {
	Hash         string
	Name         string
	Module       string
	FilePath     string
	LineStart    int
	LineEnd      int
	Kind         string
	Risk         string
	Complexity   int
	CallerCount  int
	CalleeCount  int
}

// IsExternal reports whether this node is an external symbol, identified
// by the "ext:" hash prefix (§3.1).
func (n Node) IsExternal() bool {
	return len(n.Hash) >= 4 && n.Hash[:4] == "ext:"
}

// Edge is a caller -> callee relationship with call multiplicity.
type Edge struct {
	CallerHash string
	CalleeHash string
	CallCount  int
}

// ModuleEdge aggregates edges at module granularity.
type ModuleEdge struct {
	CallerModule string
	CalleeModule string
	EdgeCount    int
}

// ExternalModuleSentinel marks module-level edges to/from code outside the
// indexed repository.
const ExternalModuleSentinel = "__external__"

// NodeFeatures is one enriched record per internal node (§4.3).
type NodeFeatures struct {
	Hash string

	SCCID           int
	SCCSize         int
	SCCCrossModule  bool

	TopologicalDepth        int
	ReverseTopologicalDepth int

	TransitiveCallers int
	TransitiveCallees int

	BetweennessCentrality float64
	PageRank              float64
	HubScore              float64
	AuthorityScore        float64
	ClusteringCoeff       float64

	XModFanIn         int
	XModFanOut        int
	XModCallRatio     float64
	DominantCalleeMod string
	DominantCalleeFrac float64

	UtilityScore  float64
	StabilityRank float64
	ComplexityPct float64
	MiddlemanScore float64

	CommunityID           int
	CommunityDominantMod  string
	CommunityAlignment    bool
}

// Filters narrows a Nodes query (Edges honours only IncludeExternal;
// ModuleEdges takes no filters). Empty/zero fields are unconstrained.
type Filters struct {
	Kinds            []string
	Module           string
	IncludeExternal  bool
	Hashes           []string
}
