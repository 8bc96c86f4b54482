package transform

import "github.com/qhuang00/fftw3"

// Radix2Solver plans a power-of-two length transform by decomposing it
// into two half-length transforms (even/odd interleaved via the doubled
// stride) and combining them with N/2 butterflies. It declines problems
// whose length isn't a power of two >= 2, leaving DirectSolver to handle
// the base case and any length that is not a power of two.
//
// The two half-length subproblems are identical (same N, doubled stride,
// same sign), so the second call to Planner.MkPlan is a guaranteed cache
// hit, this is the solver family that most directly exercises the
// planner's memoization.
type Radix2Solver struct{}

// MkPlan implements fftw3.Solver.
func (Radix2Solver) MkPlan(problem fftw3.Problem, pl *fftw3.Planner) (fftw3.Plan, bool) {
	p, ok := problem.(Problem)
	if !ok || p.N < 2 || p.N&(p.N-1) != 0 {
		return nil, false
	}

	half := Problem{N: p.N / 2, Stride: p.Stride * 2, Sign: p.Sign}

	left, ok := pl.MkPlan(half)
	if !ok {
		return nil, false
	}
	right, ok := pl.MkPlan(half)
	if !ok {
		return nil, false
	}

	n := int64(p.N)
	return &Plan{
		Describe: "radix2",
		ops: fftw3.OpCounts{
			Adds: left.Ops().Adds + right.Ops().Adds + n,
			Muls: left.Ops().Muls + right.Ops().Muls + (n/2)*4,
		},
		Children: []*Plan{planOf(left), planOf(right)},
	}, true
}

func planOf(p fftw3.Plan) *Plan {
	tp, _ := p.(*Plan)
	return tp
}

var _ fftw3.Solver = Radix2Solver{}
