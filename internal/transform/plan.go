package transform

import "github.com/qhuang00/fftw3"

// Plan is the executable artifact a transform solver produces: a
// description of how the transform decomposes, its operation counts, and
// a cost assigned later by Planner.EvaluatePlan.
type Plan struct {
	Describe string
	ops      fftw3.OpCounts
	cost     float64
	Children []*Plan
}

func (p *Plan) Cost() float64       { return p.cost }
func (p *Plan) SetCost(c float64)   { p.cost = c }
func (p *Plan) Ops() fftw3.OpCounts { return p.ops }

var _ fftw3.Plan = (*Plan)(nil)
