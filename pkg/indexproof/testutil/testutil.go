// Copyright 2025 Certen Protocol
//
// In-memory fakes satisfying pkg/indexproof's contracts, used to exercise
// pkg/verifier without a real B+-tree/trie/ID-tree implementation.

package testutil

import (
	"fmt"

	"github.com/certen/vchainplus/pkg/accumulator"
	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/indexproof"
	"github.com/certen/vchainplus/pkg/intset"
)

// FakeRangeProof answers range queries from a fixed in-memory table of
// (dim, membership set) pairs, bound to a single root hash.
type FakeRangeProof struct {
	Root    digest.Digest
	Members map[uint32]*intset.Set // dim -> object-ID set
}

// NewFakeRangeProof builds a proof whose root is the Blake2 hash of its
// own membership table in ascending dimension order (each dimension
// followed by the digest of its set), so distinct tables authenticate
// distinctly.
func NewFakeRangeProof(members map[uint32]*intset.Set) *FakeRangeProof {
	p := &FakeRangeProof{Members: members}
	p.Root = p.computeRoot()
	return p
}

func (p *FakeRangeProof) computeRoot() digest.Digest {
	dims := make([]uint32, 0, len(p.Members))
	for dim := range p.Members {
		dims = append(dims, dim)
	}
	for i := 1; i < len(dims); i++ {
		for j := i; j > 0 && dims[j-1] > dims[j]; j-- {
			dims[j-1], dims[j] = dims[j], dims[j-1]
		}
	}
	parts := make([][]byte, 0, 2*len(dims))
	for _, dim := range dims {
		d := digest.Sum(uint32Bytes(p.Members[dim].Elements()))
		parts = append(parts, uint32Bytes([]uint32{dim}), d.Bytes())
	}
	return digest.Sum(parts...)
}

func uint32Bytes(elems []uint32) []byte {
	b := make([]byte, 4*len(elems))
	for i, e := range elems {
		b[4*i] = byte(e)
		b[4*i+1] = byte(e >> 8)
		b[4*i+2] = byte(e >> 16)
		b[4*i+3] = byte(e >> 24)
	}
	return b
}

// Verify implements indexproof.RangeProof.
func (p *FakeRangeProof) Verify(rng indexproof.Range, acc accumulator.AccValue, pk *accumulator.AccPublicKey) (digest.Digest, error) {
	set, ok := p.Members[rng.Dim]
	if !ok {
		return digest.Digest{}, fmt.Errorf("indexproof: %w: no data for dimension %d", errStructureMismatch, rng.Dim)
	}
	want, err := accumulator.FromSet(set, pk)
	if err != nil {
		return digest.Digest{}, err
	}
	if !want.Equal(acc) {
		return digest.Digest{}, fmt.Errorf("indexproof: %w: accumulator does not match dimension %d", errAccMismatch, rng.Dim)
	}
	return p.Root, nil
}

// FakeKeywordProof answers a single keyword's membership set.
type FakeKeywordProof struct {
	Keyword string
	Members *intset.Set
	Root    digest.Digest
}

// NewFakeKeywordProof builds a proof for one keyword's posting list.
func NewFakeKeywordProof(keyword string, members *intset.Set) *FakeKeywordProof {
	p := &FakeKeywordProof{Keyword: keyword, Members: members}
	p.Root = digest.Sum([]byte(keyword), uint32Bytes(members.Elements()))
	return p
}

// VerifyAcc implements indexproof.KeywordProof.
func (p *FakeKeywordProof) VerifyAcc(acc accumulator.AccValue, keyword string, pk *accumulator.AccPublicKey) error {
	if keyword != p.Keyword {
		return fmt.Errorf("indexproof: %w: keyword mismatch", errStructureMismatch)
	}
	want, err := accumulator.FromSet(p.Members, pk)
	if err != nil {
		return err
	}
	if !want.Equal(acc) {
		return fmt.Errorf("indexproof: %w: accumulator does not match keyword %q", errAccMismatch, keyword)
	}
	return nil
}

// RootHash implements indexproof.KeywordProof.
func (p *FakeKeywordProof) RootHash() digest.Digest { return p.Root }

// FakeIDTreeProof is a degenerate one-level tree: it simply checks the
// presented hash equals the stored leaf at id.
type FakeIDTreeProof struct {
	Leaves map[indexproof.ObjID]digest.Digest
	Root   digest.Digest
}

// NewFakeIDTreeProof derives a root as the Blake2 hash of the leaf map in
// ascending ID order.
func NewFakeIDTreeProof(leaves map[indexproof.ObjID]digest.Digest) *FakeIDTreeProof {
	p := &FakeIDTreeProof{Leaves: leaves}
	ids := make([]indexproof.ObjID, 0, len(leaves))
	for id := range leaves {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	parts := make([][]byte, 0, len(ids))
	for _, id := range ids {
		d := leaves[id]
		parts = append(parts, id.LEBytes(), d.Bytes())
	}
	p.Root = digest.Sum(parts...)
	return p
}

// VerifyValue implements indexproof.IDTreeProof.
func (p *FakeIDTreeProof) VerifyValue(targetHash digest.Digest, id indexproof.ObjID, maxIDNum uint64, fanout uint32) error {
	leaf, ok := p.Leaves[id]
	if !ok {
		return fmt.Errorf("indexproof: %w: no leaf at id %d", errStructureMismatch, id)
	}
	if !leaf.Equal(targetHash) {
		return fmt.Errorf("indexproof: %w: leaf hash mismatch at id %d", errAccMismatch, id)
	}
	return nil
}

// RootHash implements indexproof.IDTreeProof.
func (p *FakeIDTreeProof) RootHash() digest.Digest { return p.Root }

var (
	errStructureMismatch = fmt.Errorf("%s", indexproof.StructureMismatch)
	errAccMismatch       = fmt.Errorf("%s", indexproof.AccMismatch)
)
