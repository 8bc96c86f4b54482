package fftw3

import "io"

// Problem is an abstract description of a computation to be planned. The
// planner core never inspects a Problem's fields directly; it only calls
// Hash to fold the problem's identity into the cache signature.
type Problem interface {
	// Hash feeds every byte that distinguishes this problem from a
	// non-equivalent one into w. It must be deterministic.
	Hash(w io.Writer)
}

// Solver is a family-specific strategy that can attempt to build a Plan
// for certain problems. A Planner owns a Solver via a registry descriptor
// once registered and never calls its methods directly outside of
// MkPlan/SlvMkPlan.
type Solver interface {
	// MkPlan attempts to build a plan for problem. ok is false if this
	// solver does not apply to problem. A solver either declines (ok=false,
	// nil plan) or succeeds (ok=true, a plan ready for EvaluatePlan); there
	// is no applicable-but-failed state in between.
	MkPlan(problem Problem, pl *Planner) (plan Plan, ok bool)
}

// OpCounts are the immutable arithmetic operation counts of a Plan, used
// by the ESTIMATE cost heuristic.
type OpCounts struct {
	Adds, Muls, FMAs, Other int64
}

// Plan is the concrete, executable artifact a Solver produces for a
// Problem.
type Plan interface {
	// Cost returns the plan's recorded cost, or 0 if not yet evaluated.
	Cost() float64
	// SetCost records the plan's cost.
	SetCost(float64)
	// Ops returns the plan's arithmetic operation counts.
	Ops() OpCounts
}

// Hook is the observer callback invoked after each plan construction
// (optimal=true, from MkPlan) and each cost evaluation (optimal=false,
// from EvaluatePlan).
type Hook func(plan Plan, problem Problem, optimal bool)

// Measurer measures a plan's actual execution cost. Used by EvaluatePlan
// when the planner is not running under the Estimate flag. A nil Measurer
// falls back to the arithmetic-op heuristic regardless of flags, logging a
// warning the first time this happens.
type Measurer func(plan Plan, problem Problem) float64

// InferiorMkPlan enumerates applicable solvers for problem, honoring hint
// (the descriptor that built the cached plan, if any, or nil) and the
// planner's current flags, and returns the plan it built along with the
// descriptor of the solver that built it (nil descriptor on failure). Any
// mkplan calls it performs recursively may mutate the planner's flags and
// thread count; MkPlan and SlvMkPlan save and restore them around every
// call into this function and into Solver.MkPlan respectively.
type InferiorMkPlan func(pl *Planner, problem Problem, hint *SolverDesc) (plan Plan, chosen *SolverDesc)
