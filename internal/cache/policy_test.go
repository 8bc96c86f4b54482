package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qhuang00/fftw3/internal/cache"
	"github.com/qhuang00/fftw3/internal/flags"
	"github.com/qhuang00/fftw3/internal/registry"
)

func sig(a uint32) cache.Signature { return cache.Signature{a, a + 1, a + 2, a + 3} }

func newTestRegistry(t *testing.T, names ...string) (*registry.Registry, []*registry.Desc) {
	t.Helper()
	reg := registry.New()
	var descs []*registry.Desc
	for i, n := range names {
		descs = append(descs, reg.Register(struct{}{}, n, i))
	}
	return reg, descs
}

func TestHinsertImpatienceMonotonicity(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)

	s := sig(1)
	p.Hinsert(s, flags.WithImpatience(0, 5), descs[0])
	slot, ok := p.Table().Lookup(s)
	require.True(t, ok)
	require.EqualValues(t, 5, flags.Impatience(slot.Flags))

	// More impatient (10 > 5): must not overwrite.
	p.Hinsert(s, flags.WithImpatience(0, 10), descs[0])
	slot, ok = p.Table().Lookup(s)
	require.True(t, ok)
	require.EqualValues(t, 5, flags.Impatience(slot.Flags))

	// Equal or more patient (1 <= 5): overwrites.
	p.Hinsert(s, flags.WithImpatience(0, 1), descs[0])
	slot, ok = p.Table().Lookup(s)
	require.True(t, ok)
	require.EqualValues(t, 1, flags.Impatience(slot.Flags))
}

func TestBlessingStickiness(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)
	s := sig(2)

	p.Hinsert(s, flags.Bless(flags.WithImpatience(0, 3)), descs[0])
	p.Hinsert(s, flags.WithImpatience(0, 3), descs[0]) // unblessed flags, same impatience

	slot, ok := p.Table().Lookup(s)
	require.True(t, ok)
	require.True(t, flags.Blessed(slot.Flags), "blessing must survive an unblessed overwrite")
}

func TestLookupRespectsImpatiencePartialOrder(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)
	s := sig(3)

	p.Hinsert(s, flags.WithImpatience(0, 5), descs[0])

	// A hit needs the caller's impatience >= the cached entry's impatience.
	// Here the caller is more patient (impatience 1 < cached 5) => miss.
	_, ok := p.Lookup(s, 1)
	require.False(t, ok)

	// Caller at least as impatient as the cached entry => hit.
	_, ok = p.Lookup(s, 5)
	require.True(t, ok)
	_, ok = p.Lookup(s, 9)
	require.True(t, ok)
}

func TestForgetEverything(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)

	for i := uint32(0); i < 5; i++ {
		p.Hinsert(sig(i*4), flags.WithImpatience(0, 0), descs[0])
	}
	require.Equal(t, 5, p.Table().Count())

	p.Forget(cache.ForgetEverything)
	require.Equal(t, 0, p.Table().Count())

	p.Table().ForEachValid(func(*cache.Slot) {
		t.Fatal("no slot should be valid after ForgetEverything")
	})
}

func TestForgetAccursedKeepsOnlyBlessed(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)

	p.Hinsert(sig(0), flags.WithImpatience(0, 0), descs[0])
	p.Hinsert(sig(4), flags.Bless(flags.WithImpatience(0, 0)), descs[0])
	p.Hinsert(sig(8), flags.WithImpatience(0, 0), descs[0])

	p.Forget(cache.ForgetAccursed)

	require.Equal(t, 1, p.Table().Count())
	p.Table().ForEachValid(func(s *cache.Slot) {
		require.True(t, flags.Blessed(s.Flags))
	})
}

// TestLoadFactorInvariant checks that after every insert and forget, the
// table size stays within its load-factor bounds: lb(cnt) <= size < ub(cnt).
func TestLoadFactorInvariant(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)

	for i := uint32(0); i < 1000; i++ {
		p.Hinsert(sig(i*4), flags.WithImpatience(0, 0), descs[0])
		checkLoadFactor(t, p.Table())
	}

	for i := uint32(0); i < 950; i++ {
		l, ok := p.Table().Lookup(sig(i * 4))
		require.True(t, ok)
		_ = l
	}

	// Delete 950 of the 1000 via a bless-aware forget: bless the last 50,
	// forget the rest.
	for i := uint32(950); i < 1000; i++ {
		p.Hinsert(sig(i*4), flags.Bless(flags.WithImpatience(0, 0)), descs[0])
	}
	p.Forget(cache.ForgetAccursed)
	checkLoadFactor(t, p.Table())
	require.Equal(t, 50, p.Table().Count())
}

func checkLoadFactor(t *testing.T, table *cache.Table) {
	t.Helper()
	cnt := table.Count()
	size := table.Size()
	require.GreaterOrEqualf(t, size, lbFor(cnt), "size below lower bound: cnt=%d size=%d", cnt, size)
	require.Lessf(t, size, ubFor(cnt), "size at/above upper bound: cnt=%d size=%d", cnt, size)
}

func ubFor(cnt int) int { return 3 * (cnt + 10) }
func lbFor(cnt int) int { return ubFor(cnt) / 2 }

// TestLookupFindsBlessedEntryAfterForgetAccursed checks that a lookup for
// the one blessed signature still succeeds after ForgetAccursed has
// tombstoned the 39 other entries and its closing rehash has rebuilt the
// table. Probing past tombstones left in place is covered by
// TestLookupTerminatesPastTombstonesWithoutRehash in table_test.go.
func TestLookupFindsBlessedEntryAfterForgetAccursed(t *testing.T) {
	_, descs := newTestRegistry(t, "a")
	p := cache.NewPolicy(nil)

	for i := uint32(0); i < 40; i++ {
		p.Hinsert(sig(i*4), flags.WithImpatience(0, 0), descs[0])
	}
	target := sig(4 * 4)

	// Forget everything except the target (bless it first).
	p.Hinsert(target, flags.Bless(flags.WithImpatience(0, 0)), descs[0])
	p.Forget(cache.ForgetAccursed)

	_, ok := p.Table().Lookup(target)
	require.True(t, ok)
}
