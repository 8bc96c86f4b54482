// Package cache implements the planner's content-addressed hash table
// (open-addressed, linear probing, tombstone deletion, dynamic resizing)
// and the impatience/blessing policy layered on top of it.
package cache

import (
	"log/slog"

	"github.com/qhuang00/fftw3/internal/flags"
	"github.com/qhuang00/fftw3/internal/invariant"
	"github.com/qhuang00/fftw3/internal/registry"
)

// Signature is the four-word digest of (problem, eqv-flags, thread count,
// precision). Two signatures are equal iff all four words match.
type Signature [4]uint32

// index returns the probe start for a table of the given size.
func (s Signature) index(size int) int {
	return int(s[0] % uint32(size))
}

// state is the tri-state of a table slot.
type state uint8

const (
	stateEmpty state = iota
	stateValid
	stateDeleted
)

// Slot is one entry of the hash table.
type Slot struct {
	state     state
	Signature Signature
	Flags     flags.Flags
	Desc      *registry.Desc // nil means "known to have no solver" (negative memoization)
}

// Valid reports whether the slot currently holds a live entry.
func (s *Slot) Valid() bool { return s.state == stateValid }

// Table is the open-addressed, linearly probed slot array backing the
// content-addressed plan cache.
//
// Invariant: lb(cnt) <= len(slots) < ub(cnt), i.e. the load factor stays in
// [1/3, 2/3) and there is always at least one non-valid slot, which
// guarantees every probe sequence terminates.
type Table struct {
	slots []Slot
	cnt   int

	access   uint64
	hit      uint64
	nrehash  uint64

	log *slog.Logger
}

// ub is the upper bound on table size for a given valid-slot count: fresh
// tables get headroom of at least 30 slots.
func ub(cnt int) int { return 3 * (cnt + 10) }

// lb is the lower bound on table size for a given valid-slot count.
func lb(cnt int) int { return ub(cnt) / 2 }

// New allocates a table sized for zero entries (ub(0) = 30 slots) and
// wires the given logger for rehash/probe diagnostics.
func New(log *slog.Logger) *Table {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	t := &Table{log: log}
	t.slots = make([]Slot, ub(0))
	return t
}

// Size returns the current slot array length.
func (t *Table) Size() int { return len(t.slots) }

// Count returns the number of valid (non-empty, non-tombstone) slots.
func (t *Table) Count() int { return t.cnt }

// Stats exposes the table's running counters.
type Stats struct {
	Access  uint64
	Hit     uint64
	NRehash uint64
}

// Stats returns a snapshot of the table's running counters.
func (t *Table) Stats() Stats {
	return Stats{Access: t.access, Hit: t.hit, NRehash: t.nrehash}
}

// Lookup probes the table for sig, returning the matching valid slot if
// present. Every call, hit or miss, increments the access counter; a hit
// also increments the hit counter.
func (t *Table) Lookup(sig Signature) (*Slot, bool) {
	t.access++
	size := len(t.slots)
	h := sig.index(size)
	for g := h; ; g = (g + 1) % size {
		l := &t.slots[g]
		switch l.state {
		case stateEmpty:
			return nil, false
		case stateValid:
			if l.Signature == sig {
				t.hit++
				return l, true
			}
		}
		invariant.Invariant((g+1)%size != h, "probe sequence wrapped without finding an empty slot (size=%d cnt=%d)", size, t.cnt)
	}
}

// InsertRaw writes (sig, fl, desc) into known if non-nil, otherwise probes
// forward from sig's hash bucket for the first non-valid slot (empty or
// tombstone) and writes there.
func (t *Table) InsertRaw(sig Signature, fl flags.Flags, desc *registry.Desc, known *Slot) {
	l := known
	if l == nil {
		size := len(t.slots)
		h := sig.index(size)
		for g := h; ; g = (g + 1) % size {
			cand := &t.slots[g]
			if cand.state != stateValid {
				l = cand
				break
			}
			invariant.Invariant((g+1)%size != h, "probe sequence wrapped while inserting (size=%d cnt=%d)", size, t.cnt)
		}
	}
	l.state = stateValid
	l.Signature = sig
	l.Flags = fl
	l.Desc = desc
}

// grow increments the valid-slot counter before a fresh insertion; callers
// follow with Rehash to keep the load factor in bounds.
func (t *Table) grow() { t.cnt++ }

// shrink decrements the valid-slot counter, e.g. for a forgotten entry.
func (t *Table) shrink() { t.cnt-- }

// Rehash rebuilds the table if the load-factor invariant is violated,
// reinserting every valid slot and discarding tombstones, the sole
// tombstone-reclamation path.
func (t *Table) Rehash() {
	osiz := len(t.slots)
	bl, bu := lb(t.cnt), ub(t.cnt)
	if bl <= osiz && osiz < bu {
		return
	}

	nsiz := (bl + bu + 1) / 2
	if nsiz == osiz {
		return
	}

	t.nrehash++
	old := t.slots
	t.slots = make([]Slot, nsiz)

	for h := range old {
		l := &old[h]
		if l.state == stateValid {
			t.InsertRaw(l.Signature, l.Flags, l.Desc, nil)
		}
	}

	t.log.Debug("table rehashed", "old_size", osiz, "new_size", nsiz, "cnt", t.cnt, "nrehash", t.nrehash)
	invariant.Invariant(lb(t.cnt) <= len(t.slots) && len(t.slots) < ub(t.cnt), "rehash left load factor out of bounds")
}

// forEachValid calls fn for every currently valid slot, in table order.
func (t *Table) forEachValid(fn func(*Slot)) {
	for h := range t.slots {
		if t.slots[h].state == stateValid {
			fn(&t.slots[h])
		}
	}
}

// ForEachValid calls fn for every currently valid slot (blessed or not),
// in table order. Used by the local binary snapshot, which unlike wisdom
// export is not limited to blessed entries.
func (t *Table) ForEachValid(fn func(*Slot)) {
	t.forEachValid(fn)
}
