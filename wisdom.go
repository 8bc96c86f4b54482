package fftw3

import (
	"io"

	"github.com/qhuang00/fftw3/internal/wisdom"
)

// ImportError reports a malformed wisdom entry or an unresolved solver
// reference, with a fuzzy-matched suggestion when available. Entries
// successfully committed before the failure remain in the cache (import is
// not transactional); a caller wanting atomicity should Forget(ForgetEverything)
// or otherwise snapshot state before calling ImportWisdom.
type ImportError = wisdom.ImportError

// ExportWisdom writes every valid, blessed, resolved cache entry to w in
// the portable wisdom grammar.
func (pl *Planner) ExportWisdom(w io.Writer) error {
	return wisdom.Export(w, pl.cache, WisdomPreamble())
}

// ImportWisdom parses wisdom text from r, resolving each entry through the
// planner's registry and committing it via the same impatience/blessing
// policy as freshly-computed entries. It returns false (with a non-nil
// error) on the first malformed entry or unresolved solver reference.
func (pl *Planner) ImportWisdom(r io.Reader) (bool, error) {
	ok, err := wisdom.Import(r, pl.cache, pl.registry, WisdomPreamble())
	if err != nil {
		pl.log.Warn("wisdom import failed", "err", err)
	}
	return ok, err
}
