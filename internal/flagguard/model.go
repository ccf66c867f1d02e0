// Package flagguard holds the flag model and result types shared by every
// analysis phase: parsers produce a FlagSet, the scanner produces a
// CheckSiteSet, the encoder turns a FlagSet into a Theory, and the
// analysis phases turn a Theory into Conflicts, DeadRegions and a
// dependency Graph.
package flagguard

import (
	"fmt"
	"sort"
)

// FlagType is the declared value domain of a Flag.
type FlagType string

const (
	FlagTypeBoolean FlagType = "boolean"
	FlagTypeString  FlagType = "string"
	FlagTypeNumber  FlagType = "number"
	FlagTypeJSON    FlagType = "json"
)

// Variation is one possible value a flag can be served as.
type Variation struct {
	Name  string
	Value any
}

// TargetingRule is an ordered rule mapping an evaluation context to a
// chosen variation. Conditions are opaque to the core: they are carried
// through for downstream reporters but never interpreted here.
type TargetingRule struct {
	Name       string
	Conditions []map[string]any
	Variation  string
	// RolloutPercentage is in [0, 100].
	RolloutPercentage float64
}

// Flag is a uniquely named, declaratively configured feature flag.
//
// Flags are immutable once constructed: NewFlag validates the invariants
// from spec §3 (default variation resolves, variations well-formed) and
// returns a value that every downstream phase treats as read-only.
type Flag struct {
	Name         string
	Type         FlagType
	Enabled      bool
	Default      string
	Variations   []Variation
	Rules        []TargetingRule
	Dependencies []string
	Description  string
	Tags         []string
}

// NewFlag constructs a Flag, enforcing the invariants of spec §3: the
// name must be non-empty, and a non-empty default variation must name a
// declared variation.
func NewFlag(name string, typ FlagType, enabled bool, variations []Variation, opts ...FlagOption) (Flag, error) {
	if name == "" {
		return Flag{}, errf(ErrMissingName, "flag name cannot be empty")
	}
	f := Flag{
		Name:       name,
		Type:       typ,
		Enabled:    enabled,
		Variations: variations,
	}
	for _, opt := range opts {
		opt(&f)
	}
	if f.Default != "" && !f.hasVariation(f.Default) {
		return Flag{}, errf(ErrBadDefault, "flag %q: default variation %q not found among declared variations", name, f.Default)
	}
	return f, nil
}

// FlagOption configures optional Flag fields at construction time.
type FlagOption func(*Flag)

func WithDefault(name string) FlagOption          { return func(f *Flag) { f.Default = name } }
func WithRules(rules []TargetingRule) FlagOption  { return func(f *Flag) { f.Rules = rules } }
func WithDependencies(deps []string) FlagOption    { return func(f *Flag) { f.Dependencies = deps } }
func WithDescription(desc string) FlagOption       { return func(f *Flag) { f.Description = desc } }
func WithTags(tags []string) FlagOption            { return func(f *Flag) { f.Tags = tags } }

func (f Flag) hasVariation(name string) bool {
	for _, v := range f.Variations {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Tree returns a neutral, serialization-friendly representation of the
// flag for downstream reporters (spec §4.A/§6). It deliberately uses
// plain maps and slices rather than a bespoke struct so callers can
// re-marshal to YAML or JSON without a second schema.
func (f Flag) Tree() map[string]any {
	variations := make([]map[string]any, len(f.Variations))
	for i, v := range f.Variations {
		variations[i] = map[string]any{"name": v.Name, "value": v.Value}
	}
	rules := make([]map[string]any, len(f.Rules))
	for i, r := range f.Rules {
		rules[i] = map[string]any{
			"name":               r.Name,
			"conditions":         r.Conditions,
			"variation":          r.Variation,
			"rollout_percentage": r.RolloutPercentage,
		}
	}
	return map[string]any{
		"name":         f.Name,
		"type":         string(f.Type),
		"enabled":      f.Enabled,
		"default":      f.Default,
		"variations":   variations,
		"rules":        rules,
		"dependencies": append([]string(nil), f.Dependencies...),
		"description":  f.Description,
		"tags":         append([]string(nil), f.Tags...),
	}
}

// FlagSet is the normalized output of a config parser: an ordered
// collection of Flags plus O(1) lookup by name.
type FlagSet struct {
	flags []Flag
	index map[string]int
}

// NewFlagSet builds a FlagSet from parsed flags, rejecting duplicate
// names up front (spec §7 FlagValidationError: duplicate flag name).
func NewFlagSet(flags []Flag) (FlagSet, error) {
	fs := FlagSet{flags: flags, index: make(map[string]int, len(flags))}
	for i, f := range flags {
		if _, dup := fs.index[f.Name]; dup {
			return FlagSet{}, &FlagValidationError{Flag: f.Name, Reason: "duplicate flag name"}
		}
		fs.index[f.Name] = i
	}
	return fs, nil
}

// Flags returns the flags in declaration order.
func (fs FlagSet) Flags() []Flag { return fs.flags }

// Len returns the number of declared flags.
func (fs FlagSet) Len() int { return len(fs.flags) }

// Get looks up a flag by name.
func (fs FlagSet) Get(name string) (Flag, bool) {
	i, ok := fs.index[name]
	if !ok {
		return Flag{}, false
	}
	return fs.flags[i], true
}

// Names returns the declared flag names in sorted order.
func (fs FlagSet) Names() []string {
	names := make([]string, 0, len(fs.flags))
	for _, f := range fs.flags {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Tree mirrors Flag.Tree for a whole FlagSet.
func (fs FlagSet) Tree() map[string]any {
	flags := make([]map[string]any, len(fs.flags))
	for i, f := range fs.flags {
		flags[i] = f.Tree()
	}
	return map[string]any{"flags": flags}
}

func (f FlagValidationError) Error() string {
	return fmt.Sprintf("flag validation failed for %q: %s", f.Flag, f.Reason)
}

// FlagValidationError reports a structural problem with a FlagSet.
// NewFlagSet returns it for a duplicate flag name. A default variation
// that is not declared is reported by NewFlag as ErrBadDefault instead,
// and encoding does not check for dependency cycles (the path analyzer
// reports cycles in Graph.Cycles).
type FlagValidationError struct {
	Flag   string
	Reason string
}
