package transform

import "github.com/qhuang00/fftw3"

// DirectSolver plans any length-N transform as a direct O(N^2)
// summation. It always applies, serving as the fallback solver in the
// registry.
type DirectSolver struct{}

// MkPlan implements fftw3.Solver.
func (DirectSolver) MkPlan(problem fftw3.Problem, pl *fftw3.Planner) (fftw3.Plan, bool) {
	p, ok := problem.(Problem)
	if !ok || p.N < 1 {
		return nil, false
	}

	n := int64(p.N)
	return &Plan{
		Describe: "direct",
		ops: fftw3.OpCounts{
			Adds: n * (n - 1) * 2,
			Muls: n * n * 4,
		},
	}, true
}

var _ fftw3.Solver = DirectSolver{}
