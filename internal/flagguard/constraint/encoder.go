// Package constraint turns a flagguard.FlagSet into the clauses a
// satcore.Solver understands: one variable per flag, a unit clause
// fixing any flag with enabled=false to false regardless of its
// targeting rules (per spec Open Question #2, preserved exactly as the
// reference treats it), an implication clause per declared dependency,
// and — when the caller supplies them — mutual-exclusion clauses for
// externally declared exclusion groups and unit clauses forcing
// required flags to active=true (spec §4.D step 4). Grounded on
// FlagSATSolver.add_requires/add_always_off/add_exclusive/add_required
// in the reference's z3_wrapper.py.
package constraint

import (
	"github.com/flagguardhq/flagguard/internal/flagguard"
	"github.com/flagguardhq/flagguard/internal/flagguard/satcore"
)

// Encode asserts every flag in fs as a clause set against solver,
// applies any caller-supplied exclusion groups and required-flag lists
// from opts, and returns the resulting Theory, which callers use
// purely for reporting (variable/clause counts); the live constraints
// live inside solver.
func Encode(solver satcore.Solver, fs flagguard.FlagSet, opts ...flagguard.EncodeOption) flagguard.Theory {
	theory := flagguard.Theory{VariableOf: make(map[string]int)}

	intern := func(name string) flagguard.Literal {
		v := solver.Var(name)
		if _, seen := theory.VariableOf[name]; !seen {
			theory.Variables = append(theory.Variables, name)
			theory.VariableOf[name] = v.Var()
		}
		return v
	}

	for _, f := range fs.Flags() {
		v := intern(f.Name)

		if !f.Enabled {
			clause := []flagguard.Literal{-v}
			solver.AddClause(clause)
			theory.Clauses = append(theory.Clauses, clause)
		}

		for _, dep := range f.Dependencies {
			depVar := intern(dep)
			// flag => dep, i.e. (not flag) or dep
			clause := []flagguard.Literal{-v, depVar}
			solver.AddClause(clause)
			theory.Clauses = append(theory.Clauses, clause)
		}
	}

	var cfg flagguard.EncodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, group := range cfg.ExclusionGroups {
		vars := make([]flagguard.Literal, len(group))
		for i, name := range group {
			vars[i] = intern(name)
		}
		for i := range vars {
			for j := i + 1; j < len(vars); j++ {
				// not(vars[i] and vars[j])
				clause := []flagguard.Literal{-vars[i], -vars[j]}
				solver.AddClause(clause)
				theory.Clauses = append(theory.Clauses, clause)
			}
		}
	}

	for _, name := range cfg.Required {
		v := intern(name)
		clause := []flagguard.Literal{v}
		solver.AddClause(clause)
		theory.Clauses = append(theory.Clauses, clause)
	}

	return theory
}
