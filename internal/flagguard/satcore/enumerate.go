package satcore

// DefaultMaxFlagsPerConflict is the k in the O(4·C(|V|,2)) pairwise
// enumeration below: the reference's get_impossible_states defaults to
// combining at most 2 flags per candidate impossible state.
const DefaultMaxFlagsPerConflict = 2

// EnumerateImpossible checks every pairwise combination of the given
// flags against all four boolean assignments and returns each one the
// Solver reports unsatisfiable, mirroring
// FlagSATSolver.get_impossible_states. Only k=2 is implemented: the
// reference's max_flags_per_state parameter exists for future
// extension but every caller in the original codebase passes 2, so
// higher k is left as an open question rather than built speculatively.
func EnumerateImpossible(s Solver, flags []string) ([]map[string]bool, error) {
	var impossible []map[string]bool

	for i, f1 := range flags {
		for _, f2 := range flags[i+1:] {
			for _, v1 := range []bool{true, false} {
				for _, v2 := range []bool{true, false} {
					state := map[string]bool{f1: v1, f2: v2}
					ok, err := s.CheckAssignment(state)
					if err != nil {
						return nil, err
					}
					if !ok {
						impossible = append(impossible, state)
					}
				}
			}
		}
	}
	return impossible, nil
}
