package fftw3

import (
	"github.com/qhuang00/fftw3/internal/cache"
	"github.com/qhuang00/fftw3/internal/flags"
)

// Flags is the planner configuration bitfield: an IMPATIENCE ordinal, the
// EQV subset that participates in the cache signature, a sticky BLESSING
// bit, and the ESTIMATE/IMPATIENT evaluation-behavior bits.
type Flags = flags.Flags

const (
	// ImpatienceMask is the low bits holding the impatience ordinal:
	// higher means more impatient, i.e. willing to accept a weaker plan
	// for less search effort.
	ImpatienceMask = flags.ImpatienceMask

	// Estimate selects the arithmetic-op cost heuristic over measured
	// execution time.
	Estimate = flags.Estimate

	// Impatient gates whether EvaluatePlan recomputes an already-costed
	// plan.
	Impatient = flags.Impatient

	// Blessing marks a cache entry as a survivor of ForgetAccursed and as
	// export-worthy to wisdom. It is sticky: once set on a signature, it
	// is inherited by every later Hinsert of that signature regardless of
	// the new flags passed in.
	Blessing = flags.Blessing

	// EqvMask is the set of flag bits that change problem meaning and so
	// participate in the cache signature.
	EqvMask = flags.EqvMask
)

// Impatience extracts the IMPATIENCE ordinal from a flags word.
func Impatience(f Flags) uint32 { return flags.Impatience(f) }

// WithImpatience returns f with the impatience ordinal replaced.
func WithImpatience(f Flags, level uint32) Flags { return flags.WithImpatience(f, level) }

// Bless returns f with the sticky blessing bit set.
func Bless(f Flags) Flags { return flags.Bless(f) }

// ForgetMode selects which cache entries Planner.Forget discards.
type ForgetMode = cache.ForgetMode

const (
	// ForgetEverything discards every entry, blessed or not.
	ForgetEverything = cache.ForgetEverything
	// ForgetAccursed discards every entry that is not blessed.
	ForgetAccursed = cache.ForgetAccursed
)

// Precision identifies the floating-point width a problem/plan pair is
// built for; it is fed into the signature ahead of the problem's own
// bytes so plans for incompatible precisions never alias in the cache.
type Precision int

const (
	PrecisionSingle Precision = 4
	PrecisionDouble Precision = 8
	PrecisionLongDouble Precision = 16
)
