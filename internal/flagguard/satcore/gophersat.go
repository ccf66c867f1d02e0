package satcore

import (
	"fmt"

	gophersat "github.com/crillab/gophersat/solver"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// gophersatSolver re-solves from scratch on every CheckAssignment
// rather than relying on gophersat's own incremental assumption stack:
// base clauses plus the tentative assignment are handed to a fresh
// Problem each call. This trades some solve-time performance for a
// narrow, easy-to-audit surface against the library, at the flag-count
// scale this analyzer operates at (tens to low hundreds of flags) that
// trade is the right one.
type gophersatSolver struct {
	vars   map[string]int
	next   int
	clauses [][]int
}

func newGophersatSolver() (*gophersatSolver, error) {
	return &gophersatSolver{vars: make(map[string]int)}, nil
}

func (g *gophersatSolver) Var(flag string) flagguard.Literal {
	if _, ok := g.vars[flag]; !ok {
		g.next++
		g.vars[flag] = g.next
	}
	return flagguard.Literal(g.vars[flag])
}

func (g *gophersatSolver) AddClause(lits []flagguard.Literal) {
	clause := make([]int, len(lits))
	for i, l := range lits {
		clause[i] = int(l)
	}
	g.clauses = append(g.clauses, clause)
}

// CheckAssignment asks whether flag=value for every entry in
// assignment can hold simultaneously with the base theory, by adding
// one unit clause per entry and solving the combined CNF.
func (g *gophersatSolver) CheckAssignment(assignment map[string]bool) (bool, error) {
	clauses := make([][]int, 0, len(g.clauses)+len(assignment))
	clauses = append(clauses, g.clauses...)

	for flag, value := range assignment {
		v := g.Var(flag)
		lit := int(v)
		if !value {
			lit = -lit
		}
		clauses = append(clauses, []int{lit})
	}

	if len(clauses) == 0 {
		return true, nil
	}

	pb := gophersat.ParseSlice(clauses)
	if pb == nil {
		return false, fmt.Errorf("satcore: gophersat failed to build problem from %d clauses", len(clauses))
	}
	status := gophersat.New(pb).Solve()
	return status == gophersat.Sat, nil
}

func (g *gophersatSolver) Available() bool { return true }
