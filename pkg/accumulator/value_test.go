// Copyright 2025 Certen Protocol

package accumulator

import (
	"testing"

	"github.com/certen/vchainplus/pkg/intset"
)

func setupTestKey(t *testing.T, q uint32) (*AccSecretKeyWithPowCache, *AccPublicKey) {
	t.Helper()
	sk, err := RandAccSecretKey()
	if err != nil {
		t.Fatalf("RandAccSecretKey: %v", err)
	}
	skc, err := NewAccSecretKeyWithPowCache(sk, q)
	if err != nil {
		t.Fatalf("NewAccSecretKeyWithPowCache: %v", err)
	}
	pk, err := GenKey(skc, q)
	if err != nil {
		t.Fatalf("GenKey: %v", err)
	}
	return skc, pk
}

// TestFromSetPathsAgree covers S-acc-1: with q=5 and S={1,2,3}, the
// public-key path and the secret-key path must agree, and the
// accumulator must be additively homomorphic over a disjoint split.
func TestFromSetPathsAgree(t *testing.T) {
	skc, pk := setupTestKey(t, 5)

	s := intset.New(1, 2, 3)
	viaPK, err := FromSet(s, pk)
	if err != nil {
		t.Fatalf("FromSet: %v", err)
	}
	viaSK, err := FromSetSK(s, skc, 5)
	if err != nil {
		t.Fatalf("FromSetSK: %v", err)
	}
	if !viaPK.Equal(viaSK) {
		t.Fatalf("public-key and secret-key accumulation paths disagree")
	}

	part1, err := FromSet(intset.New(1, 2), pk)
	if err != nil {
		t.Fatalf("FromSet(part1): %v", err)
	}
	part2, err := FromSet(intset.New(3), pk)
	if err != nil {
		t.Fatalf("FromSet(part2): %v", err)
	}
	if sum := part1.Add(part2); !sum.Equal(viaPK) {
		t.Fatalf("additive homomorphism failed: {1,2}+{3} != {1,2,3}")
	}

	diff := viaPK.Sub(part1)
	expected, err := FromSet(intset.New(3), pk)
	if err != nil {
		t.Fatalf("FromSet(expected): %v", err)
	}
	if !diff.Equal(expected) {
		t.Fatalf("Sub did not recover the complementary subset accumulator")
	}
}

func TestEmptySetAccumulatesToIdentity(t *testing.T) {
	_, pk := setupTestKey(t, 5)
	v, err := FromSet(intset.New(), pk)
	if err != nil {
		t.Fatalf("FromSet(empty): %v", err)
	}
	if !v.IsEmpty() {
		t.Fatalf("expected empty-set accumulator to be the identity")
	}
}

func TestFromSetRejectsOutOfBoundElement(t *testing.T) {
	_, pk := setupTestKey(t, 3)
	if _, err := FromSet(intset.New(1, 4), pk); err == nil {
		t.Fatalf("expected an error for an element exceeding bound q")
	}
}

func TestAccValueDigestDeterministic(t *testing.T) {
	_, pk := setupTestKey(t, 4)
	s := intset.New(1, 2)
	v1, err := FromSet(s, pk)
	if err != nil {
		t.Fatalf("FromSet: %v", err)
	}
	v2, err := FromSet(s, pk)
	if err != nil {
		t.Fatalf("FromSet: %v", err)
	}
	if v1.ToDigest() != v2.ToDigest() {
		t.Fatalf("expected identical digests for identical accumulator values")
	}

	other, err := FromSet(intset.New(1, 3), pk)
	if err != nil {
		t.Fatalf("FromSet: %v", err)
	}
	if v1.ToDigest() == other.ToDigest() {
		t.Fatalf("expected distinct sets to digest differently")
	}
}
