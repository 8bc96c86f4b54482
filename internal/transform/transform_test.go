package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qhuang00/fftw3"
	"github.com/qhuang00/fftw3/internal/transform"
)

func newPlanner(t *testing.T) *fftw3.Planner {
	t.Helper()
	pl := fftw3.NewPlanner(fftw3.Config{InferiorMkPlan: fftw3.StandardInferiorMkPlan})
	pl.WithRegistrar("direct", func() { pl.RegisterSolver(transform.DirectSolver{}) })
	pl.WithRegistrar("radix2", func() { pl.RegisterSolver(transform.Radix2Solver{}) })
	return pl
}

func TestDirectSolverAppliesToAnyPositiveLength(t *testing.T) {
	plan, ok := transform.DirectSolver{}.MkPlan(transform.Problem{N: 5, Stride: 1, Sign: 1}, newPlanner(t))
	require.True(t, ok)
	ops := plan.Ops()
	require.EqualValues(t, 5*4*2, ops.Adds)
	require.EqualValues(t, 5*5*4, ops.Muls)
}

func TestDirectSolverDeclinesNonPositiveLength(t *testing.T) {
	_, ok := transform.DirectSolver{}.MkPlan(transform.Problem{N: 0, Stride: 1, Sign: 1}, newPlanner(t))
	require.False(t, ok)
}

func TestRadix2SolverDeclinesNonPowerOfTwo(t *testing.T) {
	_, ok := transform.Radix2Solver{}.MkPlan(transform.Problem{N: 6, Stride: 1, Sign: 1}, newPlanner(t))
	require.False(t, ok)
}

func TestRadix2SolverDecomposesPowerOfTwo(t *testing.T) {
	pl := newPlanner(t)
	plan, ok := transform.Radix2Solver{}.MkPlan(transform.Problem{N: 8, Stride: 1, Sign: 1}, pl)
	require.True(t, ok)
	ops := plan.Ops()
	require.Positive(t, ops.Adds)
	require.Positive(t, ops.Muls)

	// Radix2Solver recurses down to N=1 on both halves of every level, and
	// the second MkPlan call at each level is a guaranteed cache hit.
	stats := pl.Stats()
	require.Positive(t, stats.Hit)
	require.Greater(t, stats.Access, stats.Hit)
}

func TestProblemHashDistinguishesFields(t *testing.T) {
	base := transform.Problem{N: 4, Stride: 1, Sign: 1}
	variants := []transform.Problem{
		{N: 5, Stride: 1, Sign: 1},
		{N: 4, Stride: 2, Sign: 1},
		{N: 4, Stride: 1, Sign: -1},
	}

	hashOf := func(p transform.Problem) string {
		var buf [24]byte
		w := &sliceWriter{buf: buf[:0]}
		p.Hash(w)
		return string(w.buf)
	}

	baseHash := hashOf(base)
	for _, v := range variants {
		require.NotEqual(t, baseHash, hashOf(v))
	}
}

type sliceWriter struct{ buf []byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
