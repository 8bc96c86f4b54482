// Package digest wraps a 128-bit cryptographic digest (blake2b configured
// for a 16-byte output) behind the begin/feed/end shape the planner core expects,
// and composes a problem's own hash contribution into the four-word cache
// signature.
package digest

import (
	"encoding/binary"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/qhuang00/fftw3/internal/cache"
)

// Hasher is the contribution a problem makes to its own signature: it must
// write every byte that distinguishes it from a non-equivalent problem.
type Hasher interface {
	Hash(w io.Writer)
}

// digest128Size is the output size in bytes for a 128-bit signature.
const digest128Size = 16

// Sink accumulates bytes for one signature computation. It satisfies
// io.Writer so a Hasher can feed it directly.
type Sink struct {
	h hash.Hash
}

// begin starts a fresh digest.
func begin() *Sink {
	h, err := blake2b.New(digest128Size, nil)
	if err != nil {
		// blake2b.New only fails for a bad key or out-of-range size;
		// digest128Size is a compile-time constant within range.
		panic(err)
	}
	return &Sink{h: h}
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) { return s.h.Write(p) }

// FeedUint64 feeds a single integer in a fixed-width, architecture
// independent encoding.
func (s *Sink) FeedUint64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	s.h.Write(buf[:])
}

// end finalizes the digest into four 32-bit words, big-endian over the
// 16-byte blake2b output.
func (s *Sink) end() cache.Signature {
	sum := s.h.Sum(nil)
	var sig cache.Signature
	for i := range sig {
		sig[i] = binary.BigEndian.Uint32(sum[i*4 : i*4+4])
	}
	return sig
}

// ComputeSignature feeds the precision byte width, the EQV-relevant flag
// bits, the thread count, and finally the problem's own hash contribution,
// then finalizes into a four-word signature. Different precisions and
// different thread partitionings must never alias in the cache.
func ComputeSignature(precisionBytes int, eqvFlags uint64, threadCount int, problem Hasher) cache.Signature {
	s := begin()
	s.FeedUint64(uint64(precisionBytes))
	s.FeedUint64(eqvFlags)
	s.FeedUint64(uint64(threadCount))
	problem.Hash(s)
	return s.end()
}
