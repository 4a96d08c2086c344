// Copyright 2025 Certen Protocol

package adsroot

import (
	"testing"

	"github.com/certen/vchainplus/pkg/digest"
)

// TestComputeRootWellDefinedAndSensitive covers S-ads-1.
func TestComputeRootWellDefinedAndSensitive(t *testing.T) {
	var zero digest.Digest
	base := BlockADSComponents{IDSetRootHash: zero, IDTreeRootHash: zero, MultiADSHash: zero}
	root1 := base.ComputeRoot()
	root2 := base.ComputeRoot()
	if root1 != root2 {
		t.Fatalf("ComputeRoot is not deterministic")
	}

	var one digest.Digest
	one[0] = 0x01

	swapped := base
	swapped.IDSetRootHash = one
	if swapped.ComputeRoot() == root1 {
		t.Fatalf("swapping IDSetRootHash should change the root")
	}

	swapped = base
	swapped.IDTreeRootHash = one
	if swapped.ComputeRoot() == root1 {
		t.Fatalf("swapping IDTreeRootHash should change the root")
	}

	swapped = base
	swapped.MultiADSHash = one
	if swapped.ComputeRoot() == root1 {
		t.Fatalf("swapping MultiADSHash should change the root")
	}
}

// TestVerifyComponentsRejectsAnyChange covers S-ads-2.
func TestVerifyComponentsRejectsAnyChange(t *testing.T) {
	c := BlockADSComponents{
		IDSetRootHash:  digest.Sum([]byte("id-set")),
		IDTreeRootHash: digest.Sum([]byte("id-tree")),
		MultiADSHash:   digest.Sum([]byte("multi-ads")),
	}
	root := FromComponents(c)

	if err := root.VerifyComponents(c); err != nil {
		t.Fatalf("VerifyComponents(c): %v", err)
	}

	tampered := c
	tampered.IDSetRootHash = digest.Sum([]byte("different"))
	if err := root.VerifyComponents(tampered); err == nil {
		t.Fatalf("expected VerifyComponents to reject a tampered component set")
	}
}

func TestComputeMultiADSHashOrderIndependentOfInputOrder(t *testing.T) {
	w1 := WindowADSHash{Size: 60, Hash: digest.Sum([]byte("w60"))}
	w2 := WindowADSHash{Size: 300, Hash: digest.Sum([]byte("w300"))}
	w3 := WindowADSHash{Size: 3600, Hash: digest.Sum([]byte("w3600"))}

	asc := ComputeMultiADSHash([]WindowADSHash{w1, w2, w3})
	shuffled := ComputeMultiADSHash([]WindowADSHash{w3, w1, w2})
	if asc != shuffled {
		t.Fatalf("ComputeMultiADSHash must sort by window size before hashing")
	}
}

func TestBplusRootsHashOrderSensitive(t *testing.T) {
	a := digest.Sum([]byte("dim0"))
	b := digest.Sum([]byte("dim1"))

	ascending := BplusRootsHash([]digest.Digest{a, b})
	descending := BplusRootsHash([]digest.Digest{b, a})
	if ascending == descending {
		t.Fatalf("BplusRootsHash should be sensitive to the caller-provided dimension order")
	}
}
