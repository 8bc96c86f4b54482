package fftw3_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qhuang00/fftw3"
	"github.com/qhuang00/fftw3/internal/transform"
)

func newPlanner(t *testing.T) *fftw3.Planner {
	t.Helper()
	pl := fftw3.NewPlanner(fftw3.Config{
		InferiorMkPlan: fftw3.StandardInferiorMkPlan,
	})
	pl.WithRegistrar("direct", func() {
		pl.RegisterSolver(transform.DirectSolver{})
	})
	pl.WithRegistrar("radix2", func() {
		pl.RegisterSolver(transform.Radix2Solver{})
	})
	return pl
}

func TestMkPlanMemoizesIdenticalProblems(t *testing.T) {
	pl := newPlanner(t)
	// N=3 is not a power of two, so Radix2Solver declines it and
	// DirectSolver handles it directly with no recursive sub-MkPlan calls.
	// That keeps the hit count attributable to exactly this test's two
	// top-level MkPlan calls instead of a whole decomposition tree.
	p := transform.Problem{N: 3, Stride: 1, Sign: -1}

	_, ok := pl.MkPlan(p)
	require.True(t, ok)
	statsAfterFirst := pl.Stats()

	_, ok = pl.MkPlan(p)
	require.True(t, ok)
	statsAfterSecond := pl.Stats()

	// The second call hits twice against the table: once in the planner's
	// own lookup, and once more inside Hinsert, which probes for an
	// existing entry before deciding whether to overwrite it.
	require.Equal(t, statsAfterFirst.Hit+2, statsAfterSecond.Hit)
	require.Equal(t, statsAfterFirst.Count, statsAfterSecond.Count, "repeat lookup must not grow the cache")
}

func TestMkPlanRadix2DecomposesAndReusesHalves(t *testing.T) {
	pl := newPlanner(t)
	p := transform.Problem{N: 8, Stride: 1, Sign: -1}

	_, ok := pl.MkPlan(p)
	require.True(t, ok)

	// Planning N=8 recurses into N=4 twice with an identical half-problem;
	// the second of those two calls is a cache hit, so the hit counter is
	// positive, while access (which also counts every miss) exceeds it.
	stats := pl.Stats()
	require.Greater(t, stats.Access, stats.Hit)
	require.Greater(t, stats.Hit, uint64(0))
}

func TestEvaluatePlanEstimateHeuristic(t *testing.T) {
	pl := fftw3.NewPlanner(fftw3.Config{
		InferiorMkPlan: fftw3.StandardInferiorMkPlan,
		Flags:          fftw3.Estimate,
	})
	pl.WithRegistrar("direct", func() {
		pl.RegisterSolver(transform.DirectSolver{})
	})

	p := transform.Problem{N: 4, Stride: 1, Sign: 1}
	plan, ok := pl.MkPlan(p)
	require.True(t, ok)
	require.Zero(t, plan.Cost())

	pl.EvaluatePlan(plan, p)
	ops := plan.Ops()
	want := float64(ops.Adds) + float64(ops.Muls) + 2*float64(ops.FMAs) + float64(ops.Other)
	require.Equal(t, want, plan.Cost())
}

func TestEvaluatePlanSkipsAlreadyCostedUnderImpatient(t *testing.T) {
	pl := fftw3.NewPlanner(fftw3.Config{
		InferiorMkPlan: fftw3.StandardInferiorMkPlan,
		Flags:          fftw3.Estimate | fftw3.Impatient,
	})
	pl.WithRegistrar("direct", func() {
		pl.RegisterSolver(transform.DirectSolver{})
	})

	p := transform.Problem{N: 4, Stride: 1, Sign: 1}
	plan, ok := pl.MkPlan(p)
	require.True(t, ok)

	pl.EvaluatePlan(plan, p)
	first := plan.Cost()
	plan.SetCost(first + 1000) // simulate a cost an earlier recompute left behind
	pl.EvaluatePlan(plan, p)
	require.Equal(t, first+1000, plan.Cost(), "IMPATIENT must skip recompute once a cost is recorded")
}

func TestForgetEverythingClearsCache(t *testing.T) {
	pl := newPlanner(t)
	_, ok := pl.MkPlan(transform.Problem{N: 4, Stride: 1, Sign: 1})
	require.True(t, ok)
	require.NotZero(t, pl.Stats().Count)

	pl.Forget(fftw3.ForgetEverything)
	require.Zero(t, pl.Stats().Count)
}

func TestForgetAccursedKeepsBlessedOnly(t *testing.T) {
	pl := newPlanner(t)
	a := transform.Problem{N: 4, Stride: 1, Sign: 1}
	b := transform.Problem{N: 3, Stride: 1, Sign: 1}
	_, ok := pl.MkPlan(a)
	require.True(t, ok)
	_, ok = pl.MkPlan(b)
	require.True(t, ok)
	// a (N=4) is planned by Radix2Solver, whose nested MkPlan calls also
	// cache the N=2 and N=1 subproblems: 3 entries for a, 1 for b.
	require.Equal(t, 4, pl.Stats().Count)

	var buf bytes.Buffer
	// Nothing is blessed by default, so ForgetAccursed discards both
	// entries and export afterward emits only the preamble.
	pl.Forget(fftw3.ForgetAccursed)
	require.Zero(t, pl.Stats().Count)
	require.NoError(t, pl.ExportWisdom(&buf))
	require.Contains(t, buf.String(), fftw3.WisdomPreamble())
}

func TestExportWisdomThroughPlannerWritesPreamble(t *testing.T) {
	pl := newPlanner(t)
	p := transform.Problem{N: 4, Stride: 1, Sign: 1}
	_, ok := pl.MkPlan(p)
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, pl.ExportWisdom(&buf))
	require.Contains(t, buf.String(), fftw3.WisdomPreamble())
}

func TestImportWisdomUnresolvedSolverReturnsError(t *testing.T) {
	pl := newPlanner(t)
	text := "(" + fftw3.WisdomPreamble() + " \n(nonexistent 0 #x401 #x1 #x2 #x3 #x4)\n))\n"
	ok, err := pl.ImportWisdom(bytes.NewBufferString(text))
	require.False(t, ok)
	require.Error(t, err)

	var importErr *fftw3.ImportError
	require.ErrorAs(t, err, &importErr)
}

func TestRegisterSolverRejectsNil(t *testing.T) {
	pl := newPlanner(t)
	countBefore := pl.Stats().Count
	pl.WithRegistrar("noop", func() {
		pl.RegisterSolver(nil)
	})
	require.Equal(t, countBefore, pl.Stats().Count, "registering nil must not touch the cache or registry")
}

func TestSetThreadCountRejectsNonPositive(t *testing.T) {
	pl := newPlanner(t)
	require.Panics(t, func() { pl.SetThreadCount(0) })
}
