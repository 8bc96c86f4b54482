// Package snapshot implements a fast, non-portable point-in-time dump of
// the planner's slot table (blessed or not; negative entries with no solver
// descriptor are left out), using CBOR, meant for
// checkpointing and restoring the cache of a single long-lived planner
// instance, for example around an exploratory batch of MkPlan calls that
// might need to be rolled back.
//
// Unlike wisdom (internal/wisdom), a snapshot does not re-resolve solver
// references through the registry at save time, it stores raw (name, id)
// pairs and trusts that the registry it is loaded back into resolves them
// the same way. That trust is checked with a session tag: a random value
// stamped at planner construction and written into every snapshot, so a
// snapshot is rejected outright if loaded into any planner instance other
// than the one that produced it, rather than silently mis-binding solver
// descriptors. The tag is per-instance, not per-binary: it does not survive
// a process restart, so a snapshot cannot be used to warm-start a freshly
// started process.
package snapshot

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/qhuang00/fftw3/internal/cache"
	"github.com/qhuang00/fftw3/internal/flags"
	"github.com/qhuang00/fftw3/internal/registry"
)

// entry is the CBOR-serializable form of one table slot.
type entry struct {
	Name  string
	ID    int
	Flags uint64
	Sig   [4]uint32
}

// document is the top-level CBOR snapshot payload.
type document struct {
	SessionTag uint64
	Entries    []entry
}

// Save writes every valid slot (blessed or not) that has a solver
// descriptor to w, tagged with sessionTag. Negative entries (nil
// descriptor) are not saved.
func Save(w io.Writer, policy *cache.Policy, sessionTag uint64) error {
	doc := document{SessionTag: sessionTag}
	policy.Table().ForEachValid(func(s *cache.Slot) {
		if s.Desc == nil {
			return
		}
		doc.Entries = append(doc.Entries, entry{
			Name:  s.Desc.Name,
			ID:    s.Desc.ID,
			Flags: uint64(s.Flags),
			Sig:   s.Signature,
		})
	})

	enc := cbor.NewEncoder(w)
	return enc.Encode(doc)
}

// Load restores a snapshot written by Save into policy, provided its
// session tag matches and every (name, id) pair resolves against reg.
// Resolution failures abort the whole load (snapshots are an all-or-nothing
// local cache, not portable wisdom, there is no useful "some solvers
// missing" partial state to keep).
func Load(r io.Reader, policy *cache.Policy, reg *registry.Registry, sessionTag uint64) error {
	var doc document
	dec := cbor.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if doc.SessionTag != sessionTag {
		return fmt.Errorf("snapshot: session tag mismatch (snapshot=%d current=%d), refusing to load", doc.SessionTag, sessionTag)
	}

	descs := make([]*registry.Desc, len(doc.Entries))
	for i, e := range doc.Entries {
		descs[i] = reg.Lookup(e.Name, e.ID)
		if descs[i] == nil {
			return fmt.Errorf("snapshot: unresolved solver %q id=%d", e.Name, e.ID)
		}
	}
	for i, e := range doc.Entries {
		policy.Hinsert(e.Sig, flags.Flags(e.Flags), descs[i])
	}
	return nil
}
