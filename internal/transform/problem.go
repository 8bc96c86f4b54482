// Package transform is a minimal complex-DFT problem/solver/plan family
// used to exercise the planner core end to end: a length-N transform with
// a given stride and sign, planned either by a direct O(N^2) solver or,
// when N is a power of two, a recursive radix-2 solver that decomposes the
// problem and calls back into the planner for each half, demonstrating
// memoized recursive planning and flag preservation across that recursion.
//
// This package is a stand-in for a real solver family; the planner core
// treats Problem, Solver, and Plan as opaque collaborators.
package transform

import (
	"encoding/binary"
	"io"

	"github.com/qhuang00/fftw3"
)

// Problem describes a length-N, stride-S, sign-s complex DFT.
type Problem struct {
	N      int
	Stride int
	Sign   int // +1 or -1
}

// Hash feeds every field that distinguishes non-equivalent problems.
func (p Problem) Hash(w io.Writer) {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(p.N))
	binary.BigEndian.PutUint64(buf[8:16], uint64(p.Stride))
	binary.BigEndian.PutUint64(buf[16:24], uint64(int64(p.Sign)))
	w.Write(buf[:])
}

var _ fftw3.Problem = Problem{}
