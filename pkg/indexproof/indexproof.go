// Copyright 2025 Certen Protocol
//
// Package indexproof defines the contracts a B+-tree range index, a trie
// keyword index, and an ID tree must satisfy to plug into the verifier.
// No concrete index structure lives here; that is an external
// collaborator's responsibility (see DESIGN.md).

package indexproof

import (
	"encoding/binary"
	"fmt"

	"github.com/certen/vchainplus/pkg/accumulator"
	"github.com/certen/vchainplus/pkg/digest"
)

// ObjID is an object's internal identifier: a dense, small, ordinal index
// assigned at block-build time, distinct from its application-level key.
type ObjID uint64

// LEBytes returns the little-endian 8-byte encoding used by ObjHash.
func (id ObjID) LEBytes() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// ToDigest implements digest.Digestible: the id_tree_root_hash fallback
// hashes an ObjID's digest, not its raw LEBytes (that encoding is specific
// to ObjHash).
func (id ObjID) ToDigest() digest.Digest {
	return digest.Sum(id.LEBytes())
}

// ObjHash is the target leaf hash an ID-tree proof authenticates:
//
//	Blake2( id.le_bytes ∥ obj.to_digest() )
func ObjHash(obj digest.Digestible, id ObjID) digest.Digest {
	d := obj.ToDigest()
	return digest.Sum(id.LEBytes(), d.Bytes())
}

// FailureKind enumerates the ways an index proof can fail verification.
type FailureKind int

const (
	// StructureMismatch: the proof's internal structure (path length,
	// node arity, sibling count) does not match what the claimed
	// parameters require.
	StructureMismatch FailureKind = iota
	// RangeNotCovered: the proof's covered range does not encompass the
	// query range.
	RangeNotCovered
	// AccMismatch: the reconstructed accumulator does not equal the one
	// the proof was asked to witness.
	AccMismatch
)

func (k FailureKind) String() string {
	switch k {
	case StructureMismatch:
		return "StructureMismatch"
	case RangeNotCovered:
		return "RangeNotCovered"
	case AccMismatch:
		return "AccMismatch"
	default:
		return "Unknown"
	}
}

// Error is an index-proof verification failure tagged with its
// FailureKind. The in-memory fakes in pkg/indexproof/testutil do not
// return it; they name the kind in a wrapped error's message instead.
type Error struct {
	Kind FailureKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("indexproof: %s: %s", e.Kind, e.Msg) }

func fail(kind FailureKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Range is a closed query range over one B+-tree dimension, at a given
// block height.
type Range struct {
	Dim       uint32
	Lo, Hi    int64
	BlkHeight uint32
}

// RangeProof is satisfied by a B+-tree range-query witness: the
// accumulator of every object whose dim-value lies in rng equals acc, and
// the proof authenticates that claim against some root hash.
type RangeProof interface {
	// Verify returns the dimension's B+-tree root hash bound to acc, iff
	// for every leaf the proof covers, the accumulator of the set of
	// object IDs whose dim-value lies in rng equals acc.
	Verify(rng Range, acc accumulator.AccValue, pk *accumulator.AccPublicKey) (digest.Digest, error)
}

// KeywordProof is satisfied by a trie keyword-query witness: the
// accumulator of every object carrying keyword equals acc.
type KeywordProof interface {
	VerifyAcc(acc accumulator.AccValue, keyword string, pk *accumulator.AccPublicKey) error
	RootHash() digest.Digest
}

// IDTreeProof is satisfied by a fanout-ary Merkle authentication path over
// the dense object-ID space.
type IDTreeProof interface {
	// VerifyValue succeeds iff the Merkle path under a fanout-ary tree of
	// height ceil(log_fanout(maxIDNum)) authenticates targetHash at leaf
	// position id.
	VerifyValue(targetHash digest.Digest, id ObjID, maxIDNum uint64, fanout uint32) error
	RootHash() digest.Digest
}
