package fftw3

import "log/slog"

// Config configures a new Planner.
type Config struct {
	// InferiorMkPlan enumerates applicable solvers for a problem. Required.
	InferiorMkPlan InferiorMkPlan

	// Destroy, if set, is called once at the start of Planner.Destroy,
	// before the cache table and registry are torn down, so a subclass of
	// planner can free auxiliary state it owns.
	Destroy func(pl *Planner)

	// Flags is the initial flags word in force (impatience, EQV bits,
	// ESTIMATE/IMPATIENT). ThreadCount defaults to 1 regardless of Flags.
	Flags Flags

	// Measurer measures actual plan execution cost when Estimate is not
	// set. If nil, EvaluatePlan falls back to the arithmetic-op heuristic.
	Measurer Measurer

	// Precision is fed into every signature ahead of the problem's own
	// bytes. Defaults to PrecisionDouble.
	Precision Precision

	// Logger receives structured lifecycle and cache-policy diagnostics.
	// Defaults to a discarding logger.
	Logger *slog.Logger
}
