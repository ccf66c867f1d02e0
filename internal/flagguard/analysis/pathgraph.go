package analysis

import (
	"sort"

	"go.uber.org/zap"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// coOccurrenceThreshold is the "frequently together" cutoff from the
// reference's PathAnalyzer._infer_dependencies: two flags checked
// together in at least this many distinct code paths get an inferred
// "implies" edge.
const coOccurrenceThreshold = 3

// CodePath is a block of code that executes under a specific
// combination of flag requirements, grounded on the reference's
// CodePath dataclass.
type CodePath struct {
	File                string
	StartLine           int
	EndLine             int
	ContainingFunction  string
	RequiredFlags       map[string]bool
}

// PathAnalyzer builds code paths from check sites, infers dependency
// edges (declared + co-occurrence), and finds cycles in the resulting
// graph — grounded on the reference's PathAnalyzer (path_analyzer.py).
// Cycle detection is implemented from scratch via DFS: no graph
// library (networkx's Go equivalent) appears anywhere in the example
// pack, so this is the one corner of the analysis built on the
// standard library alone.
type PathAnalyzer struct {
	log   *zap.SugaredLogger
	flags flagguard.FlagSet
	sites flagguard.CheckSiteSet
}

// NewPathAnalyzer builds an analyzer over a flag set and its scanned
// check sites.
func NewPathAnalyzer(log *zap.SugaredLogger, flags flagguard.FlagSet, sites flagguard.CheckSiteSet) *PathAnalyzer {
	return &PathAnalyzer{log: log, flags: flags, sites: sites}
}

// Analyze runs the full path analysis and returns the resulting
// dependency Graph, including any cycles found.
func (a *PathAnalyzer) Analyze() flagguard.Graph {
	paths := a.buildPaths()
	edges := a.inferDependencies(paths)
	graph := flagguard.Graph{Nodes: a.flags.Names(), Edges: edges}
	graph.Cycles = findCycles(a.flags.Names(), edges)

	a.log.Infow("path analysis complete", "paths", len(paths), "edges", len(edges), "cycles", len(graph.Cycles))
	return graph
}

// buildPaths groups check sites by (file, enclosing function) and
// records, for each group, the polarity every contained flag must hold
// for that block to run — the same grouping
// PathAnalyzer._build_paths performs.
func (a *PathAnalyzer) buildPaths() []CodePath {
	byLocation := a.sites.ByLocation()

	keys := make([][2]string, 0, len(byLocation))
	for k := range byLocation {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	paths := make([]CodePath, 0, len(keys))
	for _, key := range keys {
		sites := byLocation[key]
		if len(sites) == 0 {
			continue
		}
		required := make(map[string]bool, len(sites))
		start, end := sites[0].Line, sites[0].Line
		for _, s := range sites {
			required[s.Flag] = s.Polarity != flagguard.PolarityNegative
			if s.Line < start {
				start = s.Line
			}
			if s.Line > end {
				end = s.Line
			}
		}
		paths = append(paths, CodePath{
			File:               key[0],
			ContainingFunction: key[1],
			StartLine:          start,
			EndLine:            end,
			RequiredFlags:      required,
		})
	}
	return paths
}

// inferDependencies combines declared dependencies from the flag
// definitions with co-occurrence-based "implies" edges from the
// built paths.
func (a *PathAnalyzer) inferDependencies(paths []CodePath) []flagguard.DependencyEdge {
	var edges []flagguard.DependencyEdge

	for _, f := range a.flags.Flags() {
		for _, dep := range f.Dependencies {
			edges = append(edges, flagguard.DependencyEdge{
				From: f.Name, To: dep,
				Kind: flagguard.EdgeRequires, Origin: flagguard.OriginExplicit,
				Weight: 1,
			})
		}
	}

	cooccurrence := make(map[[2]string]int)
	for _, p := range paths {
		names := make([]string, 0, len(p.RequiredFlags))
		for name := range p.RequiredFlags {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, f1 := range names {
			for _, f2 := range names[i+1:] {
				cooccurrence[[2]string{f1, f2}]++
			}
		}
	}

	pairs := make([][2]string, 0, len(cooccurrence))
	for pair := range cooccurrence {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	for _, pair := range pairs {
		count := cooccurrence[pair]
		if count >= coOccurrenceThreshold {
			edges = append(edges, flagguard.DependencyEdge{
				From: pair[0], To: pair[1],
				Kind: flagguard.EdgeImplies, Origin: flagguard.OriginInferred,
				Weight: count,
			})
		}
	}

	return edges
}

// findCycles runs a from-scratch DFS-based simple-cycle search over
// the dependency graph, the Go equivalent of the reference's
// nx.simple_cycles(self._graph). It only reports each distinct cycle
// once, by its lexicographically smallest rotation.
func findCycles(nodes []string, edges []flagguard.DependencyEdge) [][]string {
	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	for node := range adjacency {
		sort.Strings(adjacency[node])
	}

	seen := make(map[string]struct{})
	var cycles [][]string

	var visit func(start, current string, path []string, onPath map[string]int)
	visit = func(start, current string, path []string, onPath map[string]int) {
		for _, next := range adjacency[current] {
			if next == start {
				cycle := append(append([]string{}, path...), start)
				key := canonicalCycle(cycle[:len(cycle)-1])
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					cycles = append(cycles, cycle[:len(cycle)-1])
				}
				continue
			}
			if _, inPath := onPath[next]; inPath {
				continue
			}
			onPath[next] = len(path)
			visit(start, next, append(path, next), onPath)
			delete(onPath, next)
		}
	}

	for _, start := range nodes {
		onPath := map[string]int{start: 0}
		visit(start, start, []string{start}, onPath)
	}

	return cycles
}

// FlagsAffectingFile returns the distinct flags checked anywhere in
// file, grounded on PathAnalyzer.get_flags_affecting_file.
func (a *PathAnalyzer) FlagsAffectingFile(file string) []string {
	seen := make(map[string]struct{})
	for _, s := range a.sites.Sites {
		if s.File == file {
			seen[s.Flag] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// FilesAffectedByFlag returns the distinct files that check flag,
// grounded on PathAnalyzer.get_files_affected_by_flag.
func (a *PathAnalyzer) FilesAffectedByFlag(flag string) []string {
	seen := make(map[string]struct{})
	for _, s := range a.sites.Sites {
		if s.Flag == flag {
			seen[s.File] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// canonicalCycle rotates a cycle to start at its lexicographically
// smallest node so the same cycle found from different start nodes
// dedupes to one entry.
func canonicalCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	minIdx := 0
	for i, n := range cycle {
		if n < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := append(append([]string{}, cycle[minIdx:]...), cycle[:minIdx]...)
	key := ""
	for _, n := range rotated {
		key += n + ">"
	}
	return key
}
