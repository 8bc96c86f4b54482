// Package fftw3 is a memoizing plan-selection engine for a self-tuning
// numerical transform library.
//
// Given a Problem (an opaque description of a computation, "a length-N
// complex transform with stride S over a buffer of precision P"), a
// Planner consults its registry of Solvers and caches the chosen plan in a
// content-addressed table keyed by a 128-bit digest of the problem, the
// equivalence-relevant flags, the thread count, and the precision, so that
// equivalent future problems are answered without re-search.
//
// The hard engineering lives in four places: the signature-indexed cache
// table (open-addressed, linear probing, tombstone deletion, dynamic
// resizing, internal/cache), the impatience/blessing policy that governs
// when a cached entry may be replaced or must survive selective forgetting
// (also internal/cache), the wisdom import/export protocol that makes
// blessed cache entries portable across runs (internal/wisdom), and the
// plan-construction driver that preserves planner flags around recursive
// solver calls (this package's MkPlan/SlvMkPlan).
//
// Planner is not safe for concurrent use: every entry point is expected to
// be called serially on one Planner instance. The planner's thread count
// (Planner.ThreadCount/SetThreadCount) records the parallelism of the plans
// being produced, not of the planner itself.
package fftw3
