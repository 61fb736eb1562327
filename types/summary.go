package types

// SolverSummary aggregates one solver's records. Used by inspect and the
// end-of-run printout; it is derived data and is not persisted.
type SolverSummary struct {
	SolverID            string  `json:"solver_id" yaml:"solver_id"`
	Role                string  `json:"role" yaml:"role"`
	Queries             int     `json:"queries" yaml:"queries"`
	OK                  int     `json:"ok" yaml:"ok"`
	Timeouts            int     `json:"timeouts" yaml:"timeouts"`
	Failures            int     `json:"failures" yaml:"failures"`
	Unreachable         int     `json:"unreachable" yaml:"unreachable"`
	Matches             int     `json:"matches" yaml:"matches"`
	Mismatches          int     `json:"mismatches" yaml:"mismatches"`
	TotalElapsedSeconds float64 `json:"total_elapsed_seconds" yaml:"total_elapsed_seconds"`
}

// Roles reported in SolverSummary.Role.
const (
	RoleSolver    = "solver"
	RoleReference = "reference"
	RoleCandidate = "candidate"
)

func (s *SolverSummary) count(status Status, d Distance, wall float64) {
	s.Queries++
	s.TotalElapsedSeconds += wall
	switch status {
	case StatusOK:
		s.OK++
		if !d.Reachable() {
			s.Unreachable++
		}
	case StatusTimeout:
		s.Timeouts++
	default:
		s.Failures++
	}
}

// Summaries derives per-solver aggregates from the report records.
// Benchmark solvers come out in configured order; for validation runs the
// reference comes first, followed by candidates in configured order.
func (r *Report) Summaries() []SolverSummary {
	switch {
	case r.Benchmark != nil:
		out := make([]SolverSummary, 0, len(r.Benchmark.Solvers))
		for _, sr := range r.Benchmark.Solvers {
			s := SolverSummary{SolverID: sr.SolverID, Role: RoleSolver}
			for _, rec := range sr.Records {
				s.count(rec.Status, rec.Distance, rec.WallSeconds)
			}
			out = append(out, s)
		}
		return out

	case r.Validation != nil:
		v := r.Validation
		ref := SolverSummary{SolverID: v.ReferenceID, Role: RoleReference}
		cands := make([]SolverSummary, len(v.CandidateIDs))
		for i, id := range v.CandidateIDs {
			cands[i] = SolverSummary{SolverID: id, Role: RoleCandidate}
		}
		for _, rec := range v.Records {
			ref.count(rec.ReferenceStatus, rec.ReferenceDistance, rec.ReferenceWallSeconds)
			for i, id := range v.CandidateIDs {
				check, ok := rec.PerSolver[id]
				if !ok {
					continue
				}
				cands[i].count(check.Status, check.Distance, check.WallSeconds)
				if check.MatchesReference {
					cands[i].Matches++
				} else {
					cands[i].Mismatches++
				}
			}
		}
		return append([]SolverSummary{ref}, cands...)

	default:
		return nil
	}
}
