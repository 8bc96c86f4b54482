package fftw3

import "github.com/qhuang00/fftw3/internal/registry"

// SolverDesc identifies one registered Solver: its registrar name (the
// family that registered it), the monotonically increasing id assigned at
// registration, and a reference back to the Solver itself. Identity is
// (Name, ID); descriptors are append-only for the planner's lifetime.
type SolverDesc struct {
	desc *registry.Desc
}

// Solver returns the registered solver this descriptor identifies.
func (d *SolverDesc) Solver() Solver {
	if d == nil || d.desc == nil {
		return nil
	}
	s, _ := d.desc.Solver.(Solver)
	return s
}

// Name returns the registrar family name.
func (d *SolverDesc) Name() string {
	if d == nil || d.desc == nil {
		return ""
	}
	return d.desc.Name
}

// ID returns the registration id.
func (d *SolverDesc) ID() int {
	if d == nil || d.desc == nil {
		return 0
	}
	return d.desc.ID
}

func wrapDesc(d *registry.Desc) *SolverDesc {
	if d == nil {
		return nil
	}
	return &SolverDesc{desc: d}
}

// RegisterSolver appends s to the registry under the registrar name
// installed by the most recent WithRegistrar call. A nil s is a no-op.
func (pl *Planner) RegisterSolver(s Solver) {
	if s == nil {
		return
	}
	id := pl.curRegID
	pl.curRegID++
	pl.registry.Register(s, pl.curRegNam, id)
}

// WithRegistrar threads a registrar name through every RegisterSolver call
// made by fn, then restores whatever name was in force before. A solver
// family's registration routine still only calls RegisterSolver(s); the
// caller supplies the family name once, at the call site, instead of
// threading it through every registration call by hand.
//
//	pl.WithRegistrar("radix2", func() {
//	    pl.RegisterSolver(radix2.New())
//	})
func (pl *Planner) WithRegistrar(name string, fn func()) {
	prev := pl.curRegNam
	pl.curRegNam = name
	defer func() { pl.curRegNam = prev }()
	fn()
}
