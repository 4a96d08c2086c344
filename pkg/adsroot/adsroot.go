// Copyright 2025 Certen Protocol
//
// Package adsroot composes a block's three committed hash components into
// its single BlockADSRoot, and rebuilds the multi-window ADS hash from
// per-window B+-tree and trie roots.

package adsroot

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/certen/vchainplus/pkg/digest"
)

// BlockADSComponents are the three independently-reconstructed hashes a
// block's ADS root is built from.
type BlockADSComponents struct {
	IDSetRootHash  digest.Digest
	IDTreeRootHash digest.Digest
	MultiADSHash   digest.Digest
}

// ComputeRoot is Blake2(id_set_root_hash ∥ id_tree_root_hash ∥ multi_ads_hash).
func (c BlockADSComponents) ComputeRoot() digest.Digest {
	return digest.Sum(c.IDSetRootHash.Bytes(), c.IDTreeRootHash.Bytes(), c.MultiADSHash.Bytes())
}

// BlockADSRoot is a block's unified authenticated-data-structure root,
// opaque beyond its Digest.
type BlockADSRoot struct {
	root digest.Digest
}

// FromComponents derives a BlockADSRoot by hashing its components.
func FromComponents(c BlockADSComponents) BlockADSRoot {
	return BlockADSRoot{root: c.ComputeRoot()}
}

// FromDigest wraps an already-known root digest (e.g. read from a block
// head) without recomputation.
func FromDigest(d digest.Digest) BlockADSRoot {
	return BlockADSRoot{root: d}
}

// Root returns the underlying digest.
func (r BlockADSRoot) Root() digest.Digest { return r.root }

// ToDigest implements digest.Digestible.
func (r BlockADSRoot) ToDigest() digest.Digest { return r.root }

// VerifyComponents reports whether c hashes to r.
func (r BlockADSRoot) VerifyComponents(c BlockADSComponents) error {
	computed := c.ComputeRoot()
	if !computed.Equal(r.root) {
		return fmt.Errorf("adsroot: commitment mismatch: computed %s, want %s", computed, r.root)
	}
	return nil
}

// WindowADSHash is one time-window's single_ads_hash, paired with the
// window size it was computed over.
type WindowADSHash struct {
	Size uint16
	Hash digest.Digest
}

// ComputeMultiADSHash hashes the ascending-size-ordered sequence of
// (window_size, single_ads_hash) pairs:
//
//	Blake2( ⨁_{w asc} ( u16_be(w) ∥ per_window_ads_hash(w) ) )
//
// The window size is encoded as a literal 2-byte big-endian integer, per
// spec.md's explicit wire description (see DESIGN.md for the documented
// deviation from the original implementation's Digestible-of-u16 route).
func ComputeMultiADSHash(windows []WindowADSHash) digest.Digest {
	sorted := append([]WindowADSHash(nil), windows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Size < sorted[j].Size })

	s := digest.NewState()
	for _, w := range sorted {
		var sizeBE [2]byte
		binary.BigEndian.PutUint16(sizeBE[:], w.Size)
		s.Update(sizeBE[:])
		s.Update(w.Hash.Bytes())
	}
	return s.Finalize()
}

// PerWindowADSHash is Blake2(bplus_roots_hash ∥ trie_root_hash).
func PerWindowADSHash(bplusRootsHash, trieRootHash digest.Digest) digest.Digest {
	return digest.Sum(bplusRootsHash.Bytes(), trieRootHash.Bytes())
}

// BplusRootsHash hashes a window's per-dimension B+-tree roots in
// ascending dimension order; the dimension index itself is not hashed,
// only the hash values, in order.
func BplusRootsHash(perDimAsc []digest.Digest) digest.Digest {
	parts := make([][]byte, 0, len(perDimAsc))
	for _, d := range perDimAsc {
		parts = append(parts, d.Bytes())
	}
	return digest.Sum(parts...)
}
