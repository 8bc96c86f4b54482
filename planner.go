package fftw3

import (
	"log/slog"
	"math/rand/v2"

	"github.com/qhuang00/fftw3/internal/cache"
	"github.com/qhuang00/fftw3/internal/digest"
	"github.com/qhuang00/fftw3/internal/invariant"
	"github.com/qhuang00/fftw3/internal/registry"
)

// Planner is the memoizing plan-selection engine. It is not safe for
// concurrent use; every entry point is expected to run serially on one
// instance.
type Planner struct {
	registry *registry.Registry
	cache    *cache.Policy

	flags       Flags
	threadCount int
	precision   Precision

	curRegNam string
	curRegID  int

	inferiorMkPlan InferiorMkPlan
	destroyFn      func(pl *Planner)
	measurer       Measurer
	hook           Hook

	// sessionTag distinguishes this planner instance for the local
	// snapshot format (internal/snapshot), so a snapshot can only be
	// loaded back into the instance that produced it; it has no bearing
	// on the portable wisdom format.
	sessionTag uint64

	nplan uint64
	nprob uint64

	log *slog.Logger

	warnedNoMeasurer bool
}

// NewPlanner constructs a planner with an initial table sized for zero
// entries, thread count 1, and a no-op hook, then calls rehash once so the
// table has a nonzero minimum size before first use.
func NewPlanner(cfg Config) *Planner {
	invariant.NotNil(cfg.InferiorMkPlan, "Config.InferiorMkPlan")

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	precision := cfg.Precision
	if precision == 0 {
		precision = PrecisionDouble
	}

	pl := &Planner{
		registry:       registry.New(),
		cache:          cache.NewPolicy(log),
		flags:          cfg.Flags,
		threadCount:    1,
		precision:      precision,
		inferiorMkPlan: cfg.InferiorMkPlan,
		destroyFn:      cfg.Destroy,
		measurer:       cfg.Measurer,
		hook:           func(Plan, Problem, bool) {},
		sessionTag:     rand.Uint64(),
		log:            log,
	}
	pl.cache.Table().Rehash()
	log.Info("planner constructed", "flags", uint64(pl.flags), "precision", precision, "session_tag", pl.sessionTag)
	return pl
}

// SetHook installs the observer called after each plan construction
// (optimal=true) and each cost evaluation (optimal=false).
func (pl *Planner) SetHook(hook Hook) {
	invariant.NotNil(hook, "hook")
	pl.hook = hook
}

// Flags returns the flags currently in force.
func (pl *Planner) Flags() Flags { return pl.flags }

// SetFlags replaces the flags currently in force.
func (pl *Planner) SetFlags(f Flags) { pl.flags = f }

// ThreadCount returns the thread count currently in force, the
// parallelism of the plans being produced, not of the planner itself.
func (pl *Planner) ThreadCount() int { return pl.threadCount }

// SetThreadCount replaces the thread count currently in force.
func (pl *Planner) SetThreadCount(n int) {
	invariant.Positive(n, "thread count")
	pl.threadCount = n
}

// Stats is a snapshot of the planner's running counters.
type Stats struct {
	NPlan, NProb           uint64
	Access, Hit, NRehash   uint64
	Count, Size            int
}

// Stats returns a snapshot of the planner's running counters.
func (pl *Planner) Stats() Stats {
	ts := pl.cache.Table().Stats()
	return Stats{
		NPlan:   pl.nplan,
		NProb:   pl.nprob,
		Access:  ts.Access,
		Hit:     ts.Hit,
		NRehash: ts.NRehash,
		Count:   pl.cache.Table().Count(),
		Size:    pl.cache.Table().Size(),
	}
}

// computeSignature composes the current (precision, EQV flags, thread
// count) with problem's own hash contribution.
func (pl *Planner) computeSignature(problem Problem) cache.Signature {
	return digest.ComputeSignature(int(pl.precision), uint64(pl.flags&EqvMask), pl.threadCount, problem)
}

// lookup returns the cached descriptor for problem, honoring the
// impatience partial order: a hit requires the current impatience to be
// at least as generous as the cached entry's.
func (pl *Planner) lookup(problem Problem) *SolverDesc {
	sig := pl.computeSignature(problem)
	slot, ok := pl.cache.Lookup(sig, Impatience(pl.flags))
	if !ok {
		return nil
	}
	return wrapDesc(slot.Desc)
}

// insert caches desc (possibly nil, recording a negative result) under
// problem's current signature.
func (pl *Planner) insert(problem Problem, desc *SolverDesc) {
	sig := pl.computeSignature(problem)
	var rd *registry.Desc
	if desc != nil {
		rd = desc.desc
	}
	pl.cache.Hinsert(sig, pl.flags, rd)
}

// MkPlan is the memoizing entry point: it looks up a cached hint, delegates
// to InferiorMkPlan (which may recurse, mutating flags/thread count, any
// mutation is contained to that call), caches the resulting descriptor
// (even on failure, so repeated failing queries are cheap), and notifies
// the hook on success.
func (pl *Planner) MkPlan(problem Problem) (Plan, bool) {
	invariant.NotNil(problem, "problem")
	pl.nprob++

	hint := pl.lookup(problem)

	savedFlags, savedThreads := pl.flags, pl.threadCount
	plan, chosen := pl.inferiorMkPlan(pl, problem, hint)
	pl.flags, pl.threadCount = savedFlags, savedThreads

	pl.insert(problem, chosen)

	ok := plan != nil
	if ok {
		pl.hook(plan, problem, true)
	}
	pl.log.Debug("mkplan", "ok", ok, "hint", hint != nil, "nprob", pl.nprob)
	return plan, ok
}

// MkPlanDestroy plans problem and then calls destroy regardless of the
// outcome, a convenience for callers that only ever measure a problem once
// and want the scratch problem released immediately afterward.
func (pl *Planner) MkPlanDestroy(problem Problem, destroy func()) (Plan, bool) {
	plan, ok := pl.MkPlan(problem)
	if destroy != nil {
		destroy()
	}
	return plan, ok
}

// SlvMkPlan is the re-entrant helper solvers use to decompose a problem
// and call back into a specific solver: it saves flags/thread count,
// delegates to solver.MkPlan, and restores them, so no nested mkplan call
// can leak flag mutations back into the caller's frame.
func (pl *Planner) SlvMkPlan(solver Solver, problem Problem) (Plan, bool) {
	invariant.NotNil(solver, "solver")
	invariant.NotNil(problem, "problem")

	savedFlags, savedThreads := pl.flags, pl.threadCount
	plan, ok := solver.MkPlan(problem, pl)
	pl.flags, pl.threadCount = savedFlags, savedThreads
	return plan, ok
}

// EvaluatePlan assigns plan a cost if it is not IMPATIENT or the plan has
// no recorded cost yet: under Estimate, the arithmetic-op heuristic
// adds+muls+2*fmas+other; otherwise the configured Measurer (or the same
// heuristic, with a one-time warning, if no Measurer was configured).
func (pl *Planner) EvaluatePlan(plan Plan, problem Problem) {
	invariant.NotNil(plan, "plan")

	if pl.flags&Impatient != 0 && plan.Cost() != 0 {
		pl.hook(plan, problem, false)
		return
	}

	pl.nplan++
	if pl.flags&Estimate != 0 {
		ops := plan.Ops()
		plan.SetCost(float64(ops.Adds) + float64(ops.Muls) + 2*float64(ops.FMAs) + float64(ops.Other))
	} else if pl.measurer != nil {
		plan.SetCost(pl.measurer(plan, problem))
	} else {
		if !pl.warnedNoMeasurer {
			pl.log.Warn("no Measurer configured; falling back to the arithmetic-op heuristic for a non-ESTIMATE plan")
			pl.warnedNoMeasurer = true
		}
		ops := plan.Ops()
		plan.SetCost(float64(ops.Adds) + float64(ops.Muls) + 2*float64(ops.FMAs) + float64(ops.Other))
	}
	pl.hook(plan, problem, false)
}

// Forget discards cache entries per mode and reclaims tombstones.
func (pl *Planner) Forget(mode ForgetMode) {
	pl.cache.Forget(mode)
}

// Destroy tears the planner down: the configured Destroy callback first
// (to free auxiliary state), then the cache table, then every registered
// solver reference, then the planner itself becomes unusable.
func (pl *Planner) Destroy() {
	if pl.destroyFn != nil {
		pl.destroyFn(pl)
	}
	pl.cache.Forget(ForgetEverything)

	// Go's GC makes manual refcounting of registered solvers unnecessary,
	// but a solver that owns non-GC'd resources (file handles, native
	// buffers) can still opt into teardown by implementing io.Closer.
	pl.registry.Each(func(d *registry.Desc) {
		if closer, ok := d.Solver.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				pl.log.Warn("solver close failed", "registrar", d.Name, "id", d.ID, "err", err)
			}
		}
	})

	pl.log.Info("planner destroyed", "nplan", pl.nplan, "nprob", pl.nprob)
}
