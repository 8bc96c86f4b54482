// Package flags defines the planner flags bitfield.
//
// Flags partitions into an IMPATIENCE ordinal, an EQV subset that
// participates in the cache signature, a sticky BLESSING bit, and two
// behavior bits (ESTIMATE, IMPATIENT) that affect evaluation but are not
// cache keys. IMPATIENCE and EQV are disjoint: impatience governs how
// thoroughly a plan was searched for, not what the plan computes, so it
// must never change a problem's signature. Bit positions are an
// implementation choice; only the partitioning matters.
package flags

// Flags is the planner configuration bitfield.
type Flags uint64

const (
	// ImpatienceMask covers the low 8 bits: an ordinal 0 (most patient) to
	// 255 (most impatient). Higher tolerates less search effort. It does
	// not participate in the cache signature.
	ImpatienceMask Flags = 0xFF

	// Estimate selects the arithmetic-op cost heuristic over measured
	// execution time in EvaluatePlan.
	Estimate Flags = 1 << 8

	// Impatient gates whether EvaluatePlan recomputes an already-costed
	// plan's cost.
	Impatient Flags = 1 << 9

	// Blessing is the sticky bit: blessed entries survive ForgetAccursed
	// and are the only entries wisdom export emits.
	Blessing Flags = 1 << 10

	// EqvMask is the set of flag bits that change problem meaning and so
	// must participate in the cache signature. It is disjoint from
	// ImpatienceMask and from the Estimate/Impatient/Blessing bits, none of
	// which affect what a plan computes. No equivalence-relevant flag bits
	// are defined yet, so EqvMask is 0; a richer flag set (e.g. a
	// no-SIMD or destroy-input bit) would reserve bits above Blessing and
	// fold them in here.
	EqvMask Flags = 0
)

// Impatience extracts the IMPATIENCE ordinal from a flags word.
func Impatience(f Flags) uint32 {
	return uint32(f & ImpatienceMask)
}

// Eqv extracts the flag bits that participate in the cache signature,
// excluding impatience: two requests that differ only in how hard the
// planner searched must compute the same signature.
func Eqv(f Flags) Flags {
	return f & EqvMask
}

// Blessed reports whether the sticky blessing bit is set.
func Blessed(f Flags) bool {
	return f&Blessing != 0
}

// Bless returns f with the blessing bit set.
func Bless(f Flags) Flags {
	return f | Blessing
}

// InheritBlessing ORs the blessing bit of old into new, implementing the
// "blessing is sticky across updates" rule.
func InheritBlessing(newFlags, old Flags) Flags {
	return newFlags | (old & Blessing)
}

// WithImpatience returns f with the impatience ordinal replaced.
func WithImpatience(f Flags, level uint32) Flags {
	return (f &^ ImpatienceMask) | Flags(level)&ImpatienceMask
}
