package main

import (
	"log/slog"

	"github.com/qhuang00/fftw3"
	"github.com/qhuang00/fftw3/internal/transform"
)

// newDemoPlanner builds a planner with the transform family's two demo
// solvers registered: DirectSolver (always applies) and Radix2Solver
// (applies to power-of-two lengths). The registry is newest-first, and
// Radix2 is registered after Direct, so StandardInferiorMkPlan's
// first-applicable scan tries Radix2 first. It only falls through to
// Direct for a length that is not a power of two or the N=1 base case.
func newDemoPlanner(impatience uint32, threads int, log *slog.Logger) *fftw3.Planner {
	pl := fftw3.NewPlanner(fftw3.Config{
		InferiorMkPlan: fftw3.StandardInferiorMkPlan,
		Flags:          fftw3.WithImpatience(0, impatience),
		Logger:         log,
	})
	pl.SetThreadCount(threads)

	pl.WithRegistrar("direct", func() {
		pl.RegisterSolver(transform.DirectSolver{})
	})
	pl.WithRegistrar("radix2", func() {
		pl.RegisterSolver(transform.Radix2Solver{})
	})

	return pl
}
