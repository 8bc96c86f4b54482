package fftw3

import "github.com/qhuang00/fftw3/internal/registry"

// StandardInferiorMkPlan is a reusable InferiorMkPlan: it tries the hint's
// solver first (if any), then every other registered solver, newest
// registration first, returning the first plan that succeeds. It is
// independent of any particular problem/solver family and is a reasonable
// default for callers that don't need custom solver-selection order.
func StandardInferiorMkPlan(pl *Planner, problem Problem, hint *SolverDesc) (Plan, *SolverDesc) {
	if hint != nil {
		if s := hint.Solver(); s != nil {
			if plan, ok := pl.SlvMkPlan(s, problem); ok {
				return plan, hint
			}
		}
	}

	var (
		result  Plan
		chosen  *SolverDesc
		skipped *registry.Desc
	)
	if hint != nil {
		skipped = hint.desc
	}

	pl.registry.Each(func(d *registry.Desc) {
		if result != nil || d == skipped {
			return
		}
		s, ok := d.Solver.(Solver)
		if !ok {
			return
		}
		if plan, ok := pl.SlvMkPlan(s, problem); ok {
			result, chosen = plan, wrapDesc(d)
		}
	})
	return result, chosen
}
