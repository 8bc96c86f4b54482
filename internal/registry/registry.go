// Package registry implements the planner's append-only solver registry:
// descriptors keyed by (registrar name, registration id), looked up during
// wisdom import to re-bind a serialized solver reference.
package registry

import "github.com/qhuang00/fftw3/internal/invariant"

// maxNameLen bounds a registrar name, matching the wisdom file grammar's
// "up to 63 non-whitespace bytes" name field.
const maxNameLen = 64

// Desc identifies one registered solver. Solver is stored as `any` so this
// package has no dependency on the public Solver interface.
type Desc struct {
	Solver   any
	Name     string
	ID       int
	nameHash uint32

	next *Desc
}

// Registry is a singly linked, append-only list of descriptors, prepended
// on registration (newest first), there is no reason to preserve
// registration order for lookup, and prepending keeps Register O(1).
type Registry struct {
	head *Desc
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// hashName is a cheap 32-bit hash used to short-circuit string comparisons
// during lookup, ported from the FFTW planner's hash_regnam: a DJB-style
// multiplicative hash seeded to 0xDEADBEEF and folded over the name bytes
// plus an implicit NUL terminator.
func hashName(name string) uint32 {
	h := uint32(0xDEADBEEF)
	for i := 0; i <= len(name); i++ {
		var c byte
		if i < len(name) {
			c = name[i]
		}
		h = h*17 + uint32(c)
	}
	return h
}

// Register appends a descriptor for s under name/id. A nil solver is a
// no-op.
func (r *Registry) Register(s any, name string, id int) *Desc {
	if s == nil {
		return nil
	}
	invariant.Precondition(len(name) < maxNameLen, "registrar name %q must be shorter than %d bytes", name, maxNameLen)

	d := &Desc{
		Solver:   s,
		Name:     name,
		ID:       id,
		nameHash: hashName(name),
		next:     r.head,
	}
	r.head = d
	return d
}

// Lookup scans the list for (name, id), comparing id first (cheapest),
// then the name hash, then the full string, in that order, matching the
// source's slvdesc_lookup short-circuit chain.
func (r *Registry) Lookup(name string, id int) *Desc {
	h := hashName(name)
	for d := r.head; d != nil; d = d.next {
		if d.ID == id && d.nameHash == h && d.Name == name {
			return d
		}
	}
	return nil
}

// Each calls fn for every descriptor, newest first (the reverse of
// registration order), e.g. so a planner can release solver references on
// teardown.
func (r *Registry) Each(fn func(*Desc)) {
	for d := r.head; d != nil; d = d.next {
		fn(d)
	}
}
