// Copyright 2025 Certen Protocol
//
// Digest is the fixed-width cryptographic hash output used throughout the
// vchain+ authenticated-data-structure core. Every composite commitment in
// this module — accumulator digests, per-block ADS roots, MMR leaves — is
// built by hashing a concatenation of child digests, never by nesting hash
// wrappers.

package digest

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the byte width of a Digest.
const Size = 32

// Digest is a fixed 32-byte value with constant-time equality and a
// canonical zero Default.
type Digest [Size]byte

// Digestible is implemented by any value with a deterministic byte
// encoding that participates in a composite hash.
type Digestible interface {
	ToDigest() Digest
}

// ToDigest implements Digestible for Digest itself (identity).
func (d Digest) ToDigest() Digest { return d }

// Bytes returns the raw 32 bytes.
func (d Digest) Bytes() []byte { return d[:] }

// Hex returns the lower-case hex encoding.
func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }

func (d Digest) String() string { return d.Hex() }

// Equal compares two digests in constant time.
func (d Digest) Equal(other Digest) bool {
	return subtle.ConstantTimeCompare(d[:], other[:]) == 1
}

// IsZero reports whether d is the all-zero digest.
func (d Digest) IsZero() bool {
	var zero Digest
	return d.Equal(zero)
}

// FromBytes builds a Digest from an exactly-32-byte slice.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("digest: expected %d bytes, got %d", Size, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// FromHex decodes a hex-encoded digest.
func FromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("digest: invalid hex: %w", err)
	}
	return FromBytes(b)
}

// State is a streaming Blake2b-512 hash truncated to 32 bytes on Finalize.
// All multi-field hashes in this module are built by sequential Update
// calls in a fixed field order, without length prefixes or separators —
// this is normative per the wire-format contract this package implements.
type State struct {
	inner interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

// NewState returns a fresh hash state.
func NewState() *State {
	h, err := blake2b.New512(nil)
	if err != nil {
		// blake2b.New512 only fails for an invalid key length; we pass no key.
		panic(fmt.Sprintf("digest: blake2b init: %v", err))
	}
	return &State{inner: h}
}

// Update feeds more bytes into the hash state.
func (s *State) Update(b []byte) *State {
	_, _ = s.inner.Write(b)
	return s
}

// Finalize returns the first 32 bytes of the Blake2b-512 output.
func (s *State) Finalize() Digest {
	sum := s.inner.Sum(nil)
	var d Digest
	copy(d[:], sum[:Size])
	return d
}

// Sum is a convenience wrapper hashing the concatenation of parts in order.
func Sum(parts ...[]byte) Digest {
	s := NewState()
	for _, p := range parts {
		s.Update(p)
	}
	return s.Finalize()
}

// SumDigestible hashes the concatenation of several Digestible values'
// encodings, in order.
func SumDigestible(items ...Digestible) Digest {
	s := NewState()
	for _, it := range items {
		d := it.ToDigest()
		s.Update(d.Bytes())
	}
	return s.Finalize()
}
