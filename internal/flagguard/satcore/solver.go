// Package satcore wraps a boolean SAT engine behind a small push/
// assume/check/pop interface, grounded on the reference's
// FlagSATSolver (z3_wrapper.py): register one variable per flag, add
// implication/exclusion/fixed-value clauses, then repeatedly push a
// tentative assignment, check satisfiability, and pop it back off.
//
// Two Solver implementations exist, per the spec's closed-registry
// design note: gophersatSolver, backed by github.com/crillab/gophersat
// (the real third-party SAT engine substituting for the reference's
// Z3 binding — no SAT solver appears natively anywhere in the example
// pack), and unavailableSolver, a legitimate sentinel implementation
// that treats every state as satisfiable, mirroring the reference's
// own "Z3 not available" degraded mode rather than erroring out.
package satcore

import (
	"go.uber.org/zap"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// Solver models a growing set of boolean clauses over named flag
// variables and answers satisfiability queries against it.
type Solver interface {
	// Var interns a flag name as a boolean variable, returning its
	// literal form for use for clause construction.
	Var(flag string) flagguard.Literal
	// AddClause asserts a permanent clause (a disjunction of literals).
	AddClause(lits []flagguard.Literal)
	// CheckAssignment reports whether the given flag=value assignment
	// is satisfiable against every clause asserted so far.
	CheckAssignment(assignment map[string]bool) (bool, error)
	// Available reports whether this Solver is backed by a real
	// decision procedure (false for the sentinel fallback).
	Available() bool
}

// New picks gophersatSolver when the engine initializes cleanly, and
// falls back to unavailableSolver if newGophersatSolver returns an
// error — the reference's behavior when Z3 fails to import. Panics
// are not recovered here.
func New(log *zap.SugaredLogger) Solver {
	s, err := newGophersatSolver()
	if err != nil {
		log.Warnw("SAT solver unavailable, falling back to always-satisfiable sentinel", "error", err)
		return &unavailableSolver{}
	}
	return s
}

// unavailableSolver is the degraded-mode Solver: every assignment is
// reported satisfiable, so conflict/dead-code detection simply finds
// nothing rather than failing the whole analysis run.
type unavailableSolver struct {
	vars map[string]int
	next int
}

func (u *unavailableSolver) Var(flag string) flagguard.Literal {
	if u.vars == nil {
		u.vars = make(map[string]int)
	}
	if _, ok := u.vars[flag]; !ok {
		u.next++
		u.vars[flag] = u.next
	}
	return flagguard.Literal(u.vars[flag])
}

func (u *unavailableSolver) AddClause(lits []flagguard.Literal) {}

func (u *unavailableSolver) CheckAssignment(assignment map[string]bool) (bool, error) {
	return true, nil
}

func (u *unavailableSolver) Available() bool { return false }
