// Package wisdom implements the textual wisdom export/import protocol: a
// portable serialization of blessed cache entries, re-bound through the
// solver registry on import.
//
// The grammar is compatibility-critical and bit-preserved:
//
//	wisdom   := "(" preamble entries ")"
//	preamble := "<PACKAGE>-<VERSION>-wisdom "
//	entries  := entry*
//	entry    := "(" name " " id " #x" flags_hex
//	                " #x" w0_hex " #x" w1_hex " #x" w2_hex " #x" w3_hex ")"
package wisdom

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/qhuang00/fftw3/internal/cache"
	"github.com/qhuang00/fftw3/internal/flags"
	"github.com/qhuang00/fftw3/internal/registry"
)

// entryPattern matches one wisdom entry. Names are bounded to 63
// non-whitespace bytes per the grammar.
var entryPattern = regexp.MustCompile(`^\(([^\s()]{1,63}) (\d+) #x([0-9a-fA-F]+) #x([0-9a-fA-F]+) #x([0-9a-fA-F]+) #x([0-9a-fA-F]+) #x([0-9a-fA-F]+)\)$`)

// Export emits "(" + preamble + one entry per valid, blessed, resolved
// slot + "))" to w. Slot emission order is table order, which is not
// semantically meaningful, importers must not rely on it.
func Export(w io.Writer, policy *cache.Policy, preamble string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "(%s \n", preamble); err != nil {
		return err
	}

	var werr error
	policy.ForEachBlessed(func(s *cache.Slot) {
		if werr != nil {
			return
		}
		d := s.Desc
		_, werr = fmt.Fprintf(bw, "(%s %d #x%x #x%x #x%x #x%x #x%x)\n",
			d.Name, d.ID, uint64(s.Flags),
			s.Signature[0], s.Signature[1], s.Signature[2], s.Signature[3])
	})
	if werr != nil {
		return werr
	}

	if _, err := fmt.Fprint(bw, "))\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// ImportError reports a malformed entry or an unresolved solver reference.
// Entries successfully committed before the failure remain in the cache;
// import is not transactional. Callers wanting atomicity must snapshot or
// Forget beforehand.
type ImportError struct {
	Line       string
	Reason     string
	Suggestion string
}

func (e *ImportError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("import wisdom: %s: %q (%s)", e.Reason, e.Line, e.Suggestion)
	}
	return fmt.Sprintf("import wisdom: %s: %q", e.Reason, e.Line)
}

// Import parses wisdom text from r, resolving each entry's (name, id)
// through reg and committing it via policy.Hinsert so the impatience and
// blessing rules apply uniformly to imported and freshly-computed entries.
//
// The preamble's PACKAGE-VERSION must match preamble exactly (a textual
// marker only, the core does not otherwise verify build compatibility).
// A preamble carrying a different version fails the import like any other
// preamble mismatch; Import does not call WarnVersionSkew.
func Import(r io.Reader, policy *cache.Policy, reg *registry.Registry, preamble string) (bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if first {
			first = false
			want := "(" + preamble
			if !strings.HasPrefix(line, strings.TrimSuffix(want, " ")) {
				return false, &ImportError{Line: line, Reason: "missing or mismatched wisdom preamble"}
			}
			continue
		}

		if line == "))" || line == ")" {
			return true, nil
		}

		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			return false, &ImportError{Line: line, Reason: "malformed entry"}
		}

		name := m[1]
		id, _ := strconv.Atoi(m[2])
		flagsVal, err := strconv.ParseUint(m[3], 16, 64)
		if err != nil {
			return false, &ImportError{Line: line, Reason: "malformed flags"}
		}
		var sig cache.Signature
		for i := 0; i < 4; i++ {
			w, werr := strconv.ParseUint(m[4+i], 16, 32)
			if werr != nil {
				return false, &ImportError{Line: line, Reason: "malformed signature word"}
			}
			sig[i] = uint32(w)
		}

		desc := reg.Lookup(name, id)
		if desc == nil {
			return false, &ImportError{
				Line:       line,
				Reason:     "unresolved solver reference",
				Suggestion: suggestNearest(reg, name),
			}
		}

		policy.Hinsert(sig, flags.Flags(flagsVal), desc)
	}
	if err := scanner.Err(); err != nil {
		return false, err
	}
	// Ran out of input before seeing the closing ")".
	return false, &ImportError{Reason: "truncated wisdom: missing closing paren"}
}

// suggestNearest fuzzy-matches name against every currently registered
// registrar name, returning a human-facing "did you mean" hint, or "" if
// the registry is empty.
func suggestNearest(reg *registry.Registry, name string) string {
	var names []string
	reg.Each(func(d *registry.Desc) { names = append(names, d.Name) })
	if len(names) == 0 {
		return ""
	}
	ranked := fuzzy.RankFindFold(name, names)
	if len(ranked) == 0 {
		return ""
	}
	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return fmt.Sprintf("did you mean %q?", best.Target)
}

// ParsePreambleVersion extracts the VERSION segment of a
// "PACKAGE-VERSION-wisdom" preamble string, or "" if it isn't shaped like
// one.
func ParsePreambleVersion(preamble string) string {
	const suffix = "-wisdom"
	p := strings.TrimSpace(preamble)
	if !strings.HasSuffix(p, suffix) {
		return ""
	}
	p = strings.TrimSuffix(p, suffix)
	idx := strings.LastIndex(p, "-")
	if idx < 0 {
		return ""
	}
	return p[idx+1:]
}

// WarnVersionSkew reports whether the wisdom file's version differs from
// the running build's version, for an advisory (non-blocking) log message.
// Both versions are coerced to a "vX.Y.Z" shape for semver.Compare; a
// non-semver version string (e.g. a dev build tag) is treated as a skew.
func WarnVersionSkew(fileVersion, buildVersion string) bool {
	fv, bv := canonicalSemver(fileVersion), canonicalSemver(buildVersion)
	if !semver.IsValid(fv) || !semver.IsValid(bv) {
		return fileVersion != buildVersion
	}
	return semver.Compare(fv, bv) != 0
}

func canonicalSemver(v string) string {
	if v == "" {
		return v
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	return v
}
