package cache

import (
	"log/slog"

	"github.com/qhuang00/fftw3/internal/flags"
	"github.com/qhuang00/fftw3/internal/registry"
)

// ForgetMode selects which entries Forget discards.
type ForgetMode int

const (
	// ForgetEverything discards every entry, blessed or not.
	ForgetEverything ForgetMode = iota
	// ForgetAccursed discards every entry that is not blessed.
	ForgetAccursed
)

// Policy layers the impatience/blessing cache policy on top of a raw Table.
type Policy struct {
	table *Table
	log   *slog.Logger
}

// NewPolicy wraps a freshly allocated table in the impatience/blessing
// policy.
func NewPolicy(log *slog.Logger) *Policy {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Policy{table: New(log), log: log}
}

// Table exposes the underlying table for wisdom export iteration and stats.
func (p *Policy) Table() *Table { return p.table }

// Hinsert inserts or updates the entry for sig under the impatience and
// blessing rules:
//
//   - if an entry already exists and the new flags are strictly more
//     impatient, the existing (presumably better) entry is kept untouched;
//   - otherwise the existing entry's blessing bit is inherited into the
//     new flags (blessing is sticky) and the slot is overwritten in place;
//   - if no entry exists, the table grows and is rehashed before the fresh
//     slot is written.
func (p *Policy) Hinsert(sig Signature, fl flags.Flags, desc *registry.Desc) {
	if l, ok := p.table.Lookup(sig); ok {
		if flags.Impatience(fl) > flags.Impatience(l.Flags) {
			return
		}
		fl = flags.InheritBlessing(fl, l.Flags)
		p.table.InsertRaw(sig, fl, desc, l)
		return
	}

	p.table.grow()
	p.table.Rehash()
	p.table.InsertRaw(sig, fl, desc, nil)
}

// Lookup returns the cached entry for sig, but only if it was built under
// a search effort at least as generous as currentImpatience demands, i.e.
// the cached entry's impatience is <= currentImpatience.
func (p *Policy) Lookup(sig Signature, currentImpatience uint32) (*Slot, bool) {
	l, ok := p.table.Lookup(sig)
	if !ok {
		return nil, false
	}
	if currentImpatience < flags.Impatience(l.Flags) {
		return nil, false
	}
	return l, true
}

// Forget discards entries per mode and reclaims tombstones via rehash.
func (p *Policy) Forget(mode ForgetMode) {
	removed := 0
	p.table.forEachValid(func(l *Slot) {
		if mode == ForgetEverything || (mode == ForgetAccursed && !flags.Blessed(l.Flags)) {
			l.state = stateDeleted
			p.table.shrink()
			removed++
		}
	})
	p.table.Rehash()
	p.log.Debug("forgot cache entries", "mode", mode, "removed", removed, "remaining", p.table.Count())
}

// ForEachBlessed calls fn for every valid, blessed, non-nil-descriptor
// slot, in table order, the wisdom export subset.
func (p *Policy) ForEachBlessed(fn func(*Slot)) {
	p.table.forEachValid(func(l *Slot) {
		if flags.Blessed(l.Flags) && l.Desc != nil {
			fn(l)
		}
	})
}
