package analytics

import (
	"sort"
	"strconv"
	"strings"

	"symgraph/internal/snapshot"
)

const patternConfidenceFloor = 0.5

// PatternInstance is one detector hit: the nodes involved, a human
// description, and a confidence in [0, 1].
type PatternInstance struct {
	Pattern     string
	Nodes       []string
	Description string
	Confidence  float64
}

type patternDetector struct {
	name string
	run  func(g *patternGraph) []PatternInstance
}

// patternGraph is the view structural detectors operate over: per-node
// metadata plus caller/callee adjacency by name, grounded on the node
// records rather than a graphalg.Graph since detectors mostly reason
// about names, kinds and fan-out rather than path algebra.
type patternGraph struct {
	nodes    map[string]snapshot.Node
	callees  map[string][]string
	callers  map[string][]string
	byModule map[string][]string
}

func newPatternGraph(nodes []snapshot.Node, edges []snapshot.Edge) *patternGraph {
	g := &patternGraph{
		nodes:    make(map[string]snapshot.Node, len(nodes)),
		callees:  make(map[string][]string),
		callers:  make(map[string][]string),
		byModule: make(map[string][]string),
	}
	for _, n := range nodes {
		if n.IsExternal() {
			continue
		}
		g.nodes[n.Hash] = n
		g.byModule[n.Module] = append(g.byModule[n.Module], n.Hash)
	}
	for _, e := range edges {
		if _, ok := g.nodes[e.CallerHash]; !ok {
			continue
		}
		if _, ok := g.nodes[e.CalleeHash]; !ok {
			continue
		}
		g.callees[e.CallerHash] = append(g.callees[e.CallerHash], e.CalleeHash)
		g.callers[e.CalleeHash] = append(g.callers[e.CalleeHash], e.CallerHash)
	}
	return g
}

// DetectPatterns implements §4.4 "Pattern detection": an enumerated set
// of structural detectors, each yielding instances above a confidence
// floor. A detector panic is caught and contributes nothing, rather than
// aborting the whole run.
func DetectPatterns(nodes []snapshot.Node, edges []snapshot.Edge) []PatternInstance {
	g := newPatternGraph(nodes, edges)

	detectors := []patternDetector{
		{"singleton", detectSingleton},
		{"factory", detectFactory},
		{"observer", detectObserver},
		{"decorator_chain", detectDecoratorChain},
		{"facade", detectFacade},
		{"composite", detectComposite},
		{"strategy", detectStrategy},
		{"chain_of_responsibility", detectChainOfResponsibility},
		{"template", detectTemplate},
		{"command", detectCommand},
		{"map_reduce", detectMapReduce},
		{"mediator", detectMediator},
		{"mutual_recursion", detectMutualRecursion},
		{"layered_architecture", detectLayeredArchitecture},
		{"proxy", detectProxy},
		{"pipeline", detectPipeline},
	}

	var out []PatternInstance
	for _, d := range detectors {
		out = append(out, runDetectorSafely(d, g)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

func runDetectorSafely(d patternDetector, g *patternGraph) (instances []PatternInstance) {
	defer func() {
		if recover() != nil {
			instances = nil
		}
	}()
	var kept []PatternInstance
	for _, inst := range d.run(g) {
		if inst.Confidence >= patternConfidenceFloor {
			kept = append(kept, inst)
		}
	}
	return kept
}

func hasAnySuffix(name string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(name string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// detectSingleton reports every node whose lowercased name contains
// "instance" (get_instance/getInstance and the like) as a shared-instance
// accessor, with higher confidence when it has 2+ callers.
func detectSingleton(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		lower := strings.ToLower(n.Name)
		if !strings.Contains(lower, "getinstance") && !strings.Contains(lower, "get_instance") && !strings.Contains(lower, "instance") {
			continue
		}
		callers := len(g.callers[hash])
		confidence := 0.6
		if callers >= 2 {
			confidence = 0.75
		}
		out = append(out, PatternInstance{
			Nodes: []string{hash}, Pattern: "singleton",
			Description: "single shared-instance accessor " + n.Name,
			Confidence:  confidence,
		})
	}
	return out
}

// detectFactory finds functions whose name contains "factory" or starts
// with create/new/make/build and that have 2+ outgoing calls, typically
// the construction call to each concrete product. Callees are not
// deduplicated and may be in any module.
func detectFactory(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		lower := strings.ToLower(n.Name)
		named := strings.Contains(lower, "factory") || hasAnyPrefix(lower, "create", "new", "make", "build")
		if !named {
			continue
		}
		callees := g.callees[hash]
		if len(callees) < 2 {
			continue
		}
		confidence := 0.55
		if strings.Contains(lower, "factory") {
			confidence = 0.8
		}
		out = append(out, PatternInstance{
			Nodes: append([]string{hash}, callees...), Pattern: "factory",
			Description: "construction dispatcher " + n.Name,
			Confidence:  confidence,
		})
	}
	return out
}

// detectObserver looks for a notify/publish/emit/broadcast/dispatch node
// that calls 3+ distinct callees, the structural signature of a subject
// fanning out to observers.
func detectObserver(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		lower := strings.ToLower(n.Name)
		if !hasAnyPrefix(lower, "notify", "publish", "emit", "broadcast", "dispatch") {
			continue
		}
		callees := dedupe(g.callees[hash])
		if len(callees) < 3 {
			continue
		}
		out = append(out, PatternInstance{
			Nodes: append([]string{hash}, callees...), Pattern: "observer",
			Description: "event subject " + n.Name + " fanning out to observers",
			Confidence:  0.6,
		})
	}
	return out
}

// detectDecoratorChain finds a wrapper pair: A has exactly one distinct
// callee B, and both names end in Wrapper/Decorator/Middleware. Each hit
// is one A -> B link; longer chains are not assembled.
func detectDecoratorChain(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		if !hasAnySuffix(n.Name, "Wrapper", "Decorator", "Middleware") {
			continue
		}
		callees := dedupe(g.callees[hash])
		if len(callees) != 1 {
			continue
		}
		next := g.nodes[callees[0]]
		if !hasAnySuffix(next.Name, "Wrapper", "Decorator", "Middleware") {
			continue
		}
		out = append(out, PatternInstance{
			Nodes: []string{hash, callees[0]}, Pattern: "decorator_chain",
			Description: "wrapper chain " + n.Name + " -> " + next.Name,
			Confidence:  0.65,
		})
	}
	return out
}

// detectFacade finds a node in one module calling 5+ distinct callees
// spread across at least 3 other modules, hiding subsystem complexity
// behind a single entry point.
func detectFacade(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		callees := dedupe(g.callees[hash])
		if len(callees) < 5 {
			continue
		}
		mods := make(map[string]bool)
		for _, c := range callees {
			if cn, ok := g.nodes[c]; ok && cn.Module != n.Module {
				mods[cn.Module] = true
			}
		}
		if len(mods) < 3 {
			continue
		}
		out = append(out, PatternInstance{
			Nodes: append([]string{hash}, callees...), Pattern: "facade",
			Description: "facade " + n.Name + " fronting " + strconv.Itoa(len(mods)) + " subsystems",
			Confidence:  0.6,
		})
	}
	return out
}

// detectComposite looks for a node that calls another node sharing its
// own name (recursive tree traversal over itself), the common shape of a
// composite's operate-on-children method.
func detectComposite(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		for _, c := range g.callees[hash] {
			if c == hash {
				continue
			}
			if cn, ok := g.nodes[c]; ok && cn.Name == n.Name && cn.Module == n.Module {
				out = append(out, PatternInstance{
					Nodes: []string{hash}, Pattern: "composite",
					Description: "self-recursive composite operation " + n.Name,
					Confidence:  0.55,
				})
				break
			}
		}
	}
	return out
}

// detectStrategy finds a module with 3+ nodes sharing an identical callee
// set of size 1 (same single downstream call), i.e. interchangeable
// implementations plugged into one consumer.
func detectStrategy(g *patternGraph) []PatternInstance {
	bySignature := make(map[string][]string)
	for hash, n := range g.nodes {
		callees := dedupe(g.callees[hash])
		if len(callees) != 1 {
			continue
		}
		bySignature[n.Module+"|"+callees[0]] = append(bySignature[n.Module+"|"+callees[0]], hash)
	}
	var out []PatternInstance
	for sig, hashes := range bySignature {
		if len(hashes) < 3 {
			continue
		}
		sort.Strings(hashes)
		out = append(out, PatternInstance{
			Nodes: hashes, Pattern: "strategy",
			Description: "interchangeable strategies converging on " + strings.Split(sig, "|")[1],
			Confidence:  0.55,
		})
	}
	return out
}

// detectChainOfResponsibility finds a linear handler chain of length >= 3
// where each node's name contains "handle" and calls exactly one next
// handler.
func detectChainOfResponsibility(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	visited := make(map[string]bool)
	for hash, n := range g.nodes {
		if visited[hash] || !strings.Contains(strings.ToLower(n.Name), "handle") {
			continue
		}
		chain := []string{hash}
		cur := hash
		for len(chain) < 10 {
			callees := dedupe(g.callees[cur])
			if len(callees) != 1 {
				break
			}
			next := callees[0]
			nn, ok := g.nodes[next]
			if !ok || !strings.Contains(strings.ToLower(nn.Name), "handle") {
				break
			}
			chain = append(chain, next)
			cur = next
		}
		if len(chain) >= 3 {
			for _, h := range chain {
				visited[h] = true
			}
			out = append(out, PatternInstance{
				Nodes: chain, Pattern: "chain_of_responsibility",
				Description: "handler chain of length " + strconv.Itoa(len(chain)),
				Confidence:  0.6,
			})
		}
	}
	return out
}

// detectTemplate finds nodes named *Template/*Base that call 2+ distinct
// callees, the shape of a template method delegating to hook steps.
func detectTemplate(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for mod, hashes := range g.byModule {
		for _, hash := range hashes {
			n := g.nodes[hash]
			if !hasAnySuffix(n.Name, "Template", "Base") {
				continue
			}
			callees := dedupe(g.callees[hash])
			if len(callees) < 2 {
				continue
			}
			out = append(out, PatternInstance{
				Nodes: append([]string{hash}, callees...), Pattern: "template",
				Description: "template method " + n.Name + " in " + mod,
				Confidence:  0.5,
			})
		}
	}
	return out
}

// detectCommand reports all nodes named *Command/*Cmd as one instance when
// there are at least two of them; their callees are not inspected.
func detectCommand(g *patternGraph) []PatternInstance {
	var commands []string
	for hash, n := range g.nodes {
		if hasAnySuffix(n.Name, "Command", "Cmd") {
			commands = append(commands, hash)
		}
	}
	if len(commands) < 2 {
		return nil
	}
	sort.Strings(commands)
	return []PatternInstance{{
		Nodes: commands, Pattern: "command",
		Description: "command objects: " + strconv.Itoa(len(commands)) + " encapsulated requests",
		Confidence:  0.5,
	}}
}

// detectMapReduce finds a node calling a "map"-named callee and a
// "reduce"-named callee, the two-phase shape of a map-reduce pipeline.
func detectMapReduce(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		var mapNode, reduceNode string
		for _, c := range g.callees[hash] {
			cn, ok := g.nodes[c]
			if !ok {
				continue
			}
			lower := strings.ToLower(cn.Name)
			if strings.Contains(lower, "map") && mapNode == "" {
				mapNode = c
			}
			if strings.Contains(lower, "reduce") && reduceNode == "" {
				reduceNode = c
			}
		}
		if mapNode != "" && reduceNode != "" {
			out = append(out, PatternInstance{
				Nodes: []string{hash, mapNode, reduceNode}, Pattern: "map_reduce",
				Description: "map/reduce pipeline orchestrated by " + n.Name,
				Confidence:  0.6,
			})
		}
	}
	return out
}

// detectMediator finds a hub node called by 4+ distinct callers, none of
// whom call each other directly, centralizing their interaction.
func detectMediator(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash := range g.nodes {
		callers := dedupe(g.callers[hash])
		if len(callers) < 4 {
			continue
		}
		callerSet := make(map[string]bool, len(callers))
		for _, c := range callers {
			callerSet[c] = true
		}
		crossTalk := false
		for _, c := range callers {
			for _, cc := range g.callees[c] {
				if callerSet[cc] {
					crossTalk = true
					break
				}
			}
			if crossTalk {
				break
			}
		}
		if crossTalk {
			continue
		}
		n := g.nodes[hash]
		out = append(out, PatternInstance{
			Nodes: append([]string{hash}, callers...), Pattern: "mediator",
			Description: "mediator " + n.Name + " decoupling " + strconv.Itoa(len(callers)) + " peers",
			Confidence:  0.55,
		})
	}
	return out
}

// detectMutualRecursion reports pairs of nodes that directly call each
// other.
func detectMutualRecursion(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	seen := make(map[[2]string]bool)
	for hash := range g.nodes {
		for _, c := range g.callees[hash] {
			if c == hash {
				continue
			}
			for _, cc := range g.callees[c] {
				if cc == hash {
					key := [2]string{hash, c}
					if hash > c {
						key = [2]string{c, hash}
					}
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, PatternInstance{
						Nodes: []string{key[0], key[1]}, Pattern: "mutual_recursion",
						Description: "mutual recursion between two nodes",
						Confidence:  0.7,
					})
				}
			}
		}
	}
	return out
}

// detectLayeredArchitecture buckets modules into layers by common
// naming conventions (api/handler, service/logic, repository/store/dao)
// and checks calls flow downward only.
func detectLayeredArchitecture(g *patternGraph) []PatternInstance {
	layerOf := func(mod string) int {
		lower := strings.ToLower(mod)
		switch {
		case strings.Contains(lower, "api") || strings.Contains(lower, "handler") || strings.Contains(lower, "controller"):
			return 0
		case strings.Contains(lower, "service") || strings.Contains(lower, "logic") || strings.Contains(lower, "usecase"):
			return 1
		case strings.Contains(lower, "repo") || strings.Contains(lower, "store") || strings.Contains(lower, "dao"):
			return 2
		default:
			return -1
		}
	}
	violations := 0
	total := 0
	var sampleNodes []string
	for hash, n := range g.nodes {
		srcLayer := layerOf(n.Module)
		if srcLayer < 0 {
			continue
		}
		for _, c := range g.callees[hash] {
			cn, ok := g.nodes[c]
			if !ok {
				continue
			}
			dstLayer := layerOf(cn.Module)
			if dstLayer < 0 {
				continue
			}
			total++
			if dstLayer < srcLayer {
				violations++
			} else if len(sampleNodes) < 20 {
				sampleNodes = append(sampleNodes, hash, c)
			}
		}
	}
	if total < 5 {
		return nil
	}
	confidence := 1.0 - float64(violations)/float64(total)
	return []PatternInstance{{
		Nodes: dedupe(sampleNodes), Pattern: "layered_architecture",
		Description: "api/service/repository layering with downward-only calls",
		Confidence:  confidence,
	}}
}

// detectProxy finds a node named *Proxy forwarding to exactly one callee
// that shares its base name.
func detectProxy(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	for hash, n := range g.nodes {
		if !hasAnySuffix(n.Name, "Proxy") {
			continue
		}
		callees := dedupe(g.callees[hash])
		if len(callees) != 1 {
			continue
		}
		target := g.nodes[callees[0]]
		base := strings.TrimSuffix(n.Name, "Proxy")
		if base == "" || !strings.Contains(target.Name, base) {
			continue
		}
		out = append(out, PatternInstance{
			Nodes: []string{hash, callees[0]}, Pattern: "proxy",
			Description: "proxy " + n.Name + " forwarding to " + target.Name,
			Confidence:  0.65,
		})
	}
	return out
}

// detectPipeline finds a linear chain of 3+ nodes each with exactly one
// caller and one callee, a straight-through processing pipeline.
func detectPipeline(g *patternGraph) []PatternInstance {
	var out []PatternInstance
	visited := make(map[string]bool)
	for hash := range g.nodes {
		if visited[hash] {
			continue
		}
		if len(dedupe(g.callers[hash])) > 1 {
			continue
		}
		chain := []string{hash}
		cur := hash
		for len(chain) < 20 {
			callees := dedupe(g.callees[cur])
			if len(callees) != 1 {
				break
			}
			next := callees[0]
			if len(dedupe(g.callers[next])) != 1 {
				break
			}
			chain = append(chain, next)
			cur = next
		}
		if len(chain) >= 3 {
			for _, h := range chain {
				visited[h] = true
			}
			out = append(out, PatternInstance{
				Nodes: chain, Pattern: "pipeline",
				Description: "single-path pipeline of " + strconv.Itoa(len(chain)) + " stages",
				Confidence:  0.6,
			})
		}
	}
	return out
}

func dedupe(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

