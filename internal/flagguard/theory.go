package flagguard

import (
	"sort"
	"time"
)

// Severity ranks a Conflict or DeadRegion. For conflicts it follows the
// severity law in spec §4.F: an impossible assignment that sets every
// involved flag true is critical, a mixed true/false assignment is
// high, and an all-false assignment is medium. Dead regions from single
// check sites are high; dead regions from CheckPath are medium.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Theory is the propositional encoding of a FlagSet: one boolean
// variable per flag, plus unit clauses for disabled and required flags,
// implication clauses for declared dependencies, and exclusion clauses
// for caller-supplied groups (spec §4.D). Targeting rules are not
// encoded. It is a record of what constraint.Encode asserted; the SAT
// core receives the same clauses directly from the encoder.
type Theory struct {
	Variables []string
	Clauses   [][]Literal
	// VariableOf maps a flag name to its interned SAT variable index.
	VariableOf map[string]int
}

// EncodeConfig carries the constraints the encoder cannot derive from a
// FlagSet alone (spec §4.D step 4 / §3's Theory definition): mutual-
// exclusion groups and flags forced to active=true, both supplied by
// the caller rather than declared in the flag configuration.
type EncodeConfig struct {
	// ExclusionGroups is a list of flag-name sets that can never all be
	// active simultaneously.
	ExclusionGroups [][]string
	// Required is the list of flags forced to active=true regardless
	// of their declared enabled bit.
	Required []string
}

// EncodeOption configures an EncodeConfig.
type EncodeOption func(*EncodeConfig)

// WithExclusionGroup adds a set of mutually exclusive flags: the
// encoder asserts that no two of them can be active at once (spec §3:
// "optional mutual-exclusion clauses ... for groups supplied
// externally").
func WithExclusionGroup(flags ...string) EncodeOption {
	return func(c *EncodeConfig) { c.ExclusionGroups = append(c.ExclusionGroups, flags) }
}

// WithRequired forces the listed flags to active=true (spec §3:
// "optional active(f)=true clauses for required flags").
func WithRequired(flags ...string) EncodeOption {
	return func(c *EncodeConfig) { c.Required = append(c.Required, flags...) }
}

// Literal is a signed reference to a Theory variable: positive for the
// unnegated form, negative for its negation, 1-indexed per the DIMACS
// convention gophersat expects.
type Literal int

// Var returns the unsigned variable index of the literal.
func (l Literal) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Negated reports whether the literal is the negated form.
func (l Literal) Negated() bool { return l < 0 }

// Conflict is a set of flag states that can never simultaneously hold
// (spec §4.F): the flags and the polarity each must take for the
// contradiction to manifest.
type Conflict struct {
	ID          string
	Flags       []string
	Assignment  map[string]bool
	Severity    Severity
	Explanation string
	Sites       []CheckSite
}

// DeadRegion is a check site (or, from CheckPath, a whole code path)
// whose guarding condition is unreachable given the current flag
// configuration (spec §4.G). StartLine/EndLine span the whole
// dead region rather than a single point, per spec §3's DeadRegion
// definition ("file, start and end line...").
type DeadRegion struct {
	Flag      string
	File      string
	StartLine int
	EndLine   int
	Reason    string
	Severity  Severity
	Sites     []CheckSite
}

// DependencyEdge is one edge of the flag dependency graph (spec §4.H/
// §6): Kind is the semantic relationship (requires/conflicts_with/
// implies), Origin distinguishes a config-declared edge from one the
// path analyzer inferred from check-site co-occurrence.
type DependencyEdge struct {
	From   string
	To     string
	Kind   EdgeKind
	Origin EdgeOrigin
	Weight int
}

// EdgeKind is the semantic relationship an edge asserts between two
// flags (spec §3/§6).
type EdgeKind string

const (
	EdgeRequires      EdgeKind = "requires"
	EdgeConflictsWith EdgeKind = "conflicts_with"
	EdgeImplies       EdgeKind = "implies"
)

// EdgeOrigin distinguishes a config-declared edge from one the path
// analyzer inferred from check-site co-occurrence (spec §3/§6).
type EdgeOrigin string

const (
	OriginExplicit EdgeOrigin = "explicit"
	OriginInferred EdgeOrigin = "inferred"
)

// Graph is the full dependency graph plus any cycles the path analyzer
// found in it. Nodes carries every declared flag name, including flags
// with no edges at all, so a healthy flag set with no dependencies
// still reports one node per flag (spec §8 scenario 3).
type Graph struct {
	Nodes  []string
	Edges  []DependencyEdge
	Cycles [][]string
}

// NodeEdgeList returns the language-neutral node/edge representation
// reporters build on (spec §4.H/§6): a flat map of edges plus the
// distinct node set, rather than a committed graph-library type. The
// node set is Nodes unioned with every edge endpoint, so a Graph built
// without populating Nodes still reports the flags its edges reference.
func (g Graph) NodeEdgeList() map[string]any {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		seen[n] = struct{}{}
	}
	edges := make([]map[string]any, len(g.Edges))
	for i, e := range g.Edges {
		seen[e.From] = struct{}{}
		seen[e.To] = struct{}{}
		edges[i] = map[string]any{
			"from":   e.From,
			"to":     e.To,
			"kind":   string(e.Kind),
			"origin": string(e.Origin),
			"weight": e.Weight,
		}
	}
	nodes := make([]string, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return map[string]any{"nodes": nodes, "edges": edges, "cycles": g.Cycles}
}

// Report is the final output of a full analysis run (spec §6): every
// artifact a reporter needs to render a human- or machine-readable
// result, without committing to any particular rendering.
type Report struct {
	FlagsAnalyzed    int
	FilesScanned     int
	Conflicts        []Conflict
	DeadRegions      []DeadRegion
	DependencyGraph  Graph
	ExecutiveSummary string
	Timestamp        time.Time
	Warnings         []ExtractionWarning
}

// Tree returns the same neutral map/slice shape Flag.Tree uses, so a
// reporter (out of scope for this core) can walk one representation
// for both flags and the final report.
func (r Report) Tree() map[string]any {
	conflicts := make([]map[string]any, len(r.Conflicts))
	for i, c := range r.Conflicts {
		conflicts[i] = map[string]any{
			"id":          c.ID,
			"flags":       c.Flags,
			"assignment":  c.Assignment,
			"severity":    string(c.Severity),
			"explanation": c.Explanation,
		}
	}
	dead := make([]map[string]any, len(r.DeadRegions))
	for i, d := range r.DeadRegions {
		dead[i] = map[string]any{
			"flag":       d.Flag,
			"file":       d.File,
			"start_line": d.StartLine,
			"end_line":   d.EndLine,
			"reason":     d.Reason,
			"severity":   string(d.Severity),
		}
	}
	return map[string]any{
		"flags_analyzed":    r.FlagsAnalyzed,
		"files_scanned":     r.FilesScanned,
		"conflicts":         conflicts,
		"dead_regions":      dead,
		"dependency_graph":  r.DependencyGraph.NodeEdgeList(),
		"executive_summary": r.ExecutiveSummary,
		"timestamp":         r.Timestamp,
	}
}
