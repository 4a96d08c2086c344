// Copyright 2025 Certen Protocol

package accumulator

import (
	"testing"

	"github.com/certen/vchainplus/pkg/intset"
)

func TestUnionProofRoundTrip(t *testing.T) {
	sk, pk := setupTestKey(t, 8)
	a := intset.New(1, 2, 5)
	b := intset.New(2, 3)

	proof, result, err := ProveUnion(sk, pk, 8, a, b)
	if err != nil {
		t.Fatalf("ProveUnion: %v", err)
	}
	accA, _ := FromSet(a, pk)
	accB, _ := FromSet(b, pk)

	if err := VerifyUnionIntermediate(accA, accB, result, proof); err != nil {
		t.Fatalf("VerifyUnionIntermediate: %v", err)
	}

	expected, _ := FromSet(intset.Union(a, b), pk)
	if !result.Equal(expected) {
		t.Fatalf("union proof result does not match direct accumulation")
	}

	if got, _ := FromSet(intset.New(1, 5), pk); got.Equal(result) {
		t.Fatalf("expected a different accumulator for a wrong result")
	}
}

func TestUnionProofRejectsTamperedResult(t *testing.T) {
	sk, pk := setupTestKey(t, 8)
	a := intset.New(1, 2)
	b := intset.New(2, 3)

	proof, _, err := ProveUnion(sk, pk, 8, a, b)
	if err != nil {
		t.Fatalf("ProveUnion: %v", err)
	}
	accA, _ := FromSet(a, pk)
	accB, _ := FromSet(b, pk)
	wrong, _ := FromSet(intset.New(1, 2, 3, 4), pk)

	if err := VerifyUnionIntermediate(accA, accB, wrong, proof); err == nil {
		t.Fatalf("expected additive identity check to reject a tampered result")
	}
}

func TestIntersectionEmptyShortCircuit(t *testing.T) {
	sk, pk := setupTestKey(t, 8)
	a := intset.New()
	b := intset.New(1, 2)

	proof, result, err := ProveIntersection(sk, 8, a, b)
	if err != nil {
		t.Fatalf("ProveIntersection: %v", err)
	}
	if proof != nil {
		t.Fatalf("expected no proof for an empty-operand intersection")
	}
	accA, _ := FromSet(a, pk)
	accB, _ := FromSet(b, pk)
	if err := VerifyIntersectionIntermediate(accA, accB, result, nil); err != nil {
		t.Fatalf("VerifyIntersectionIntermediate (empty short-circuit): %v", err)
	}
}

func TestIntersectionProofRoundTrip(t *testing.T) {
	sk, pk := setupTestKey(t, 8)
	a := intset.New(1, 2, 5)
	b := intset.New(2, 5, 6)

	proof, result, err := ProveIntersection(sk, 8, a, b)
	if err != nil {
		t.Fatalf("ProveIntersection: %v", err)
	}
	accA, _ := FromSet(a, pk)
	accB, _ := FromSet(b, pk)
	if err := VerifyIntersectionIntermediate(accA, accB, result, proof); err != nil {
		t.Fatalf("VerifyIntersectionIntermediate: %v", err)
	}
	expected, _ := FromSet(intset.Intersect(a, b), pk)
	if !result.Equal(expected) {
		t.Fatalf("intersection proof result does not match direct accumulation")
	}
}

func TestDifferenceProofRoundTrip(t *testing.T) {
	sk, pk := setupTestKey(t, 8)
	a := intset.New(1, 2, 3, 5)
	b := intset.New(2, 3)

	proof, result, err := ProveDifference(sk, 8, a, b)
	if err != nil {
		t.Fatalf("ProveDifference: %v", err)
	}
	accA, _ := FromSet(a, pk)
	accB, _ := FromSet(b, pk)
	if err := VerifyDifferenceIntermediate(accA, accB, result, proof); err != nil {
		t.Fatalf("VerifyDifferenceIntermediate: %v", err)
	}
	expected, _ := FromSet(intset.Diff(a, b), pk)
	if !result.Equal(expected) {
		t.Fatalf("difference proof result does not match direct accumulation")
	}
}

func TestDifferenceEmptyDividendShortCircuit(t *testing.T) {
	sk, pk := setupTestKey(t, 8)
	a := intset.New()
	b := intset.New(1, 2)

	proof, result, err := ProveDifference(sk, 8, a, b)
	if err != nil {
		t.Fatalf("ProveDifference: %v", err)
	}
	if proof != nil {
		t.Fatalf("expected no proof for an empty dividend")
	}
	accA, _ := FromSet(a, pk)
	accB, _ := FromSet(b, pk)
	if err := VerifyDifferenceIntermediate(accA, accB, result, nil); err != nil {
		t.Fatalf("VerifyDifferenceIntermediate (empty short-circuit): %v", err)
	}
}
