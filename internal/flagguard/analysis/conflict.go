// Package analysis implements the three SAT-consuming phases from spec
// §4.F/G/H: conflict detection, dead-code detection, and path/
// dependency-graph analysis. Each is grounded on its Python counterpart
// in the reference's analysis/ package, adapted onto satcore.Solver.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/satcore"
)

// ConflictDetector finds flag combinations that can never hold
// simultaneously, grounded on the reference's ConflictDetector
// (conflict_detector.py).
type ConflictDetector struct {
	log    *zap.SugaredLogger
	solver satcore.Solver
}

// NewConflictDetector builds a detector against an already-encoded
// solver (see constraint.Encode).
func NewConflictDetector(log *zap.SugaredLogger, solver satcore.Solver) *ConflictDetector {
	return &ConflictDetector{log: log, solver: solver}
}

// DetectAll enumerates pairwise-impossible flag states (spec §4.F) and
// turns each into a Conflict, attaching any check sites that reference
// the involved flags so reporters can point at real code.
func (d *ConflictDetector) DetectAll(flags []string, checkSitesByFlag map[string][]flagguard.CheckSite) ([]flagguard.Conflict, error) {
	states, err := satcore.EnumerateImpossible(d.solver, flags)
	if err != nil {
		return nil, err
	}

	conflicts := make([]flagguard.Conflict, 0, len(states))
	for _, state := range states {
		conflicts = append(conflicts, d.buildConflict(state, checkSitesByFlag))
	}
	d.log.Infow("conflict detection complete", "conflicts", len(conflicts))
	return conflicts, nil
}

// CheckState reports a Conflict if the given assignment is impossible,
// or nil if it is satisfiable — the single-state counterpart to
// DetectAll, grounded on ConflictDetector.check_state.
func (d *ConflictDetector) CheckState(assignment map[string]bool, checkSitesByFlag map[string][]flagguard.CheckSite) (*flagguard.Conflict, error) {
	ok, err := d.solver.CheckAssignment(assignment)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	c := d.buildConflict(assignment, checkSitesByFlag)
	return &c, nil
}

func (d *ConflictDetector) buildConflict(state map[string]bool, checkSitesByFlag map[string][]flagguard.CheckSite) flagguard.Conflict {
	flags := make([]string, 0, len(state))
	for f := range state {
		flags = append(flags, f)
	}
	sort.Strings(flags)

	var enabledFlags, disabledFlags []string
	for _, f := range flags {
		if state[f] {
			enabledFlags = append(enabledFlags, f)
		} else {
			disabledFlags = append(disabledFlags, f)
		}
	}

	severity := severityFor(state)

	var reason string
	if len(enabledFlags) > 0 && len(disabledFlags) > 0 {
		reason = fmt.Sprintf("enabling %s requires %s to be enabled",
			strings.Join(enabledFlags, ", "), strings.Join(disabledFlags, ", "))
	} else {
		reason = fmt.Sprintf("flags %s cannot be in this state together", strings.Join(flags, ", "))
	}

	var sites []flagguard.CheckSite
	for _, f := range flags {
		sites = append(sites, checkSitesByFlag[f]...)
	}

	return flagguard.Conflict{
		ID:          "C" + strings.ToUpper(uuid.NewString()[:6]),
		Flags:       flags,
		Assignment:  state,
		Severity:    severity,
		Explanation: reason,
		Sites:       sites,
	}
}

// severityFor applies the severity law from spec §4.F: a state that
// tries to enable every involved flag is critical, a mixed state is
// high, and a state that only disables flags is medium.
func severityFor(state map[string]bool) flagguard.Severity {
	allTrue, anyTrue := true, false
	for _, v := range state {
		if v {
			anyTrue = true
		} else {
			allTrue = false
		}
	}
	switch {
	case allTrue:
		return flagguard.SeverityCritical
	case anyTrue:
		return flagguard.SeverityHigh
	default:
		return flagguard.SeverityMedium
	}
}
