package fftw3

import (
	"io"

	"github.com/qhuang00/fftw3/internal/snapshot"
)

// SaveSnapshot dumps every cache entry with a solver descriptor (blessed or
// not; negative entries are left out) to w in a fast, non-portable binary
// format, tagged with this planner's session tag.
// Meant for checkpointing this planner instance's cache, for example before
// an exploratory batch of MkPlan calls that might need to be rolled back
// with LoadSnapshot; unlike wisdom, it is not safe to share across planner
// instances, processes, or builds.
func (pl *Planner) SaveSnapshot(w io.Writer) error {
	return snapshot.Save(w, pl.cache, pl.sessionTag)
}

// LoadSnapshot restores a snapshot written by SaveSnapshot, provided its
// session tag matches this planner's and every entry resolves against the
// registry. A mismatched tag, which includes any snapshot taken by a
// different planner instance or from a previous process, aborts the load,
// as does an unresolved solver.
func (pl *Planner) LoadSnapshot(r io.Reader) error {
	return snapshot.Load(r, pl.cache, pl.registry, pl.sessionTag)
}

// SessionTag returns the random tag stamped at planner construction that
// guards snapshot compatibility. Exposed primarily for tests.
func (pl *Planner) SessionTag() uint64 { return pl.sessionTag }
