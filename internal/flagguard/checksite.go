package flagguard

import "sort"

// CheckPolarity records whether a check site gates the "flag on" branch,
// the "flag off" branch, or reads a non-boolean variation directly.
type CheckPolarity string

const (
	PolarityPositive CheckPolarity = "positive"
	PolarityNegative CheckPolarity = "negative"
	PolarityValue    CheckPolarity = "value"
)

// CheckKind distinguishes how confidently a check site's polarity and
// enclosing scope were resolved (spec Open Question #1): AST-resolved
// sites carry exact ancestor information, regex-resolved sites are a
// best-effort approximation, and their file gets an ExtractionWarning.
type CheckKind string

const (
	CheckKindAST   CheckKind = "ast"
	CheckKindRegex CheckKind = "regex"
)

// CheckConstruct is the syntactic construct that encloses a check site
// (spec §3/§4.C): the nearest enclosing if, ternary, switch/match, or
// assignment, falling back to a bare expression when none of those
// enclose it.
type CheckConstruct string

const (
	ConstructIf         CheckConstruct = "if"
	ConstructTernary     CheckConstruct = "ternary"
	ConstructSwitch      CheckConstruct = "switch"
	ConstructAssignment  CheckConstruct = "assignment"
	ConstructExpression  CheckConstruct = "expression"
	ConstructMatch       CheckConstruct = "match"
)

// CheckSite is one place in source where a flag's value is consulted.
type CheckSite struct {
	Flag              string
	File              string
	Line              int
	Column            int
	EndLine           int
	EndColumn         int
	Polarity          CheckPolarity
	Kind              CheckKind
	Construct         CheckConstruct
	EnclosingFunction string
	EnclosingClass    string
	VariationCompared string
	Snippet           string
}

// CheckSiteSet is the normalized output of the source scanner: every
// check site found across the scanned tree, plus accumulated warnings
// from ambiguous extractions.
type CheckSiteSet struct {
	Sites    []CheckSite
	Warnings []ExtractionWarning
}

// ByFlag groups check sites by flag name, each group sorted by
// (file, line) for deterministic downstream iteration.
func (s CheckSiteSet) ByFlag() map[string][]CheckSite {
	out := make(map[string][]CheckSite)
	for _, site := range s.Sites {
		out[site.Flag] = append(out[site.Flag], site)
	}
	for flag := range out {
		sortSites(out[flag])
	}
	return out
}

// ByFile groups check sites by source file, each group sorted by line.
func (s CheckSiteSet) ByFile() map[string][]CheckSite {
	out := make(map[string][]CheckSite)
	for _, site := range s.Sites {
		out[site.File] = append(out[site.File], site)
	}
	for file := range out {
		sortSites(out[file])
	}
	return out
}

// ByLocation groups check sites by (file, enclosing function), the
// grouping PathAnalyzer uses to find flags that only make sense
// together (spec §4.H).
func (s CheckSiteSet) ByLocation() map[[2]string][]CheckSite {
	out := make(map[[2]string][]CheckSite)
	for _, site := range s.Sites {
		key := [2]string{site.File, site.EnclosingFunction}
		out[key] = append(out[key], site)
	}
	for key := range out {
		sortSites(out[key])
	}
	return out
}

// Flags returns the distinct flag names referenced across all sites,
// sorted for determinism.
func (s CheckSiteSet) Flags() []string {
	seen := make(map[string]struct{})
	for _, site := range s.Sites {
		seen[site.Flag] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortSites(sites []CheckSite) {
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].File != sites[j].File {
			return sites[i].File < sites[j].File
		}
		if sites[i].Line != sites[j].Line {
			return sites[i].Line < sites[j].Line
		}
		return sites[i].Column < sites[j].Column
	})
}
