// Copyright 2025 Certen Protocol
//
// Subset proofs: Union, Intersection, Difference over AccValue, each with
// an intermediate and a final verification entry point.

package accumulator

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/vchainplus/pkg/intset"
)

// Balance is the prover-supplied pair of curve points closing the pairing
// equation of a subset proof. It is not independently bound to the claim
// being proved; see the package-level design note in DESIGN.md.
type Balance struct {
	G1 bn254.G1Affine
	G2 bn254.G2Affine
}

// subsetPairing checks e(sub.GS, super.HRS) = e(super.GR, sub.HSR) · e(bal.G1, bal.G2),
// the pairing equation form spec.md §4.4 gives for a union proof, reused
// here as the shared cross-consistency check between two accumulators.
func subsetPairing(sub, super AccValue, bal Balance) bool {
	var negGR, negBalG1 bn254.G1Affine
	negGR.Neg(&super.GR)
	negBalG1.Neg(&bal.G1)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{sub.GS, negGR, negBalG1},
		[]bn254.G2Affine{super.HRS, sub.HSR, bal.G2},
	)
	return err == nil && ok
}

// computeBalance is the prover-side (trapdoor-holding) computation of the
// Balance term that makes subsetPairing(sub, super, ·) hold exactly. It
// solves for the scalar k with e(g,h)^k equal to the ratio the equation
// needs, then represents it as (g, h^k).
func computeBalance(sk *AccSecretKeyWithPowCache, q uint32, sub, super *intset.Set) (Balance, error) {
	if err := checkBound(sub, q); err != nil {
		return Balance{}, err
	}
	if err := checkBound(super, q); err != nil {
		return Balance{}, err
	}

	var subS, superRS, superR, subSR fr.Element
	for _, i := range sub.Elements() {
		sI := sk.sPow.At(i)
		subS.Add(&subS, &sI)
		var sr fr.Element
		rq := sk.rPow.At(q - i)
		sr.Mul(&sI, &rq)
		subSR.Add(&subSR, &sr)
	}
	for _, j := range super.Elements() {
		rJ := sk.rPow.At(j)
		superR.Add(&superR, &rJ)
		var rs fr.Element
		sq := sk.sPow.At(q - j)
		rs.Mul(&rJ, &sq)
		superRS.Add(&superRS, &rs)
	}

	var lhs, rhs, bal fr.Element
	lhs.Mul(&subS, &superRS)
	rhs.Mul(&superR, &subSR)
	bal.Sub(&lhs, &rhs)

	return Balance{G1: G1Generator(), G2: sk.hPow.Apply(&bal)}, nil
}

// --- Union ---------------------------------------------------------------

// UnionProof witnesses AccValue(A ∪ B) given AccValue(A) and AccValue(B).
type UnionProof struct {
	Mid     AccValue // claimed Acc(A∩B)
	Balance Balance
}

// ProveUnion builds a UnionProof and the resulting accumulator, using
// trapdoor knowledge of a and b's plaintext membership.
func ProveUnion(sk *AccSecretKeyWithPowCache, pk *AccPublicKey, q uint32, a, b *intset.Set) (*UnionProof, AccValue, error) {
	accA, err := FromSetSK(a, sk, q)
	if err != nil {
		return nil, AccValue{}, err
	}
	accB, err := FromSetSK(b, sk, q)
	if err != nil {
		return nil, AccValue{}, err
	}
	mid, err := FromSetSK(intset.Intersect(a, b), sk, q)
	if err != nil {
		return nil, AccValue{}, err
	}
	bal, err := computeBalance(sk, q, a, b)
	if err != nil {
		return nil, AccValue{}, err
	}
	result := accA.Add(accB).Sub(mid)
	return &UnionProof{Mid: mid, Balance: bal}, result, nil
}

// VerifyUnionIntermediate checks that claimed = Acc(A∪B) given accA, accB
// and the proof.
func VerifyUnionIntermediate(accA, accB, claimed AccValue, proof *UnionProof) error {
	if proof == nil {
		return fmt.Errorf("accumulator: %w: union proof is required", ErrProofFailed)
	}
	if !accA.Add(accB).Sub(proof.Mid).Equal(claimed) {
		return fmt.Errorf("accumulator: %w: union additive identity failed", ErrProofFailed)
	}
	if !subsetPairing(accA, accB, proof.Balance) {
		return fmt.Errorf("accumulator: %w: union pairing equation failed", ErrProofFailed)
	}
	return nil
}

// VerifyUnionFinal additionally recomputes claimed from the authoritative
// finalSet and checks it against pk before delegating.
func VerifyUnionFinal(accA, accB AccValue, finalSet *intset.Set, pk *AccPublicKey, proof *UnionProof) (AccValue, error) {
	claimed, err := FromSet(finalSet, pk)
	if err != nil {
		return AccValue{}, err
	}
	if err := VerifyUnionIntermediate(accA, accB, claimed, proof); err != nil {
		return AccValue{}, err
	}
	return claimed, nil
}

// --- Intersection ----------------------------------------------------------

// IntersectionProof witnesses AccValue(A ∩ B) given AccValue(A) and
// AccValue(B). The empty-intersection short-circuit means proof may be
// nil iff accA or accB is the empty accumulator.
type IntersectionProof struct {
	Balance Balance
}

// ProveIntersection builds an IntersectionProof and the resulting
// accumulator.
func ProveIntersection(sk *AccSecretKeyWithPowCache, q uint32, a, b *intset.Set) (*IntersectionProof, AccValue, error) {
	mid, err := FromSetSK(intset.Intersect(a, b), sk, q)
	if err != nil {
		return nil, AccValue{}, err
	}
	if a.Empty() || b.Empty() {
		return nil, mid, nil
	}
	bal, err := computeBalance(sk, q, a, b)
	if err != nil {
		return nil, AccValue{}, err
	}
	return &IntersectionProof{Balance: bal}, mid, nil
}

// VerifyIntersectionIntermediate checks that claimed = Acc(A∩B).
func VerifyIntersectionIntermediate(accA, accB, claimed AccValue, proof *IntersectionProof) error {
	if accA.IsEmpty() || accB.IsEmpty() {
		if !claimed.IsEmpty() {
			return fmt.Errorf("accumulator: %w: intersection of an empty operand must be empty", ErrProofFailed)
		}
		return nil
	}
	if proof == nil {
		return fmt.Errorf("accumulator: %w: intersection proof is required", ErrProofFailed)
	}
	if !subsetPairing(accA, accB, proof.Balance) {
		return fmt.Errorf("accumulator: %w: intersection pairing equation failed", ErrProofFailed)
	}
	return nil
}

// VerifyIntersectionFinal is the final-flavour counterpart.
func VerifyIntersectionFinal(accA, accB AccValue, finalSet *intset.Set, pk *AccPublicKey, proof *IntersectionProof) (AccValue, error) {
	claimed, err := FromSet(finalSet, pk)
	if err != nil {
		return AccValue{}, err
	}
	if err := VerifyIntersectionIntermediate(accA, accB, claimed, proof); err != nil {
		return AccValue{}, err
	}
	return claimed, nil
}

// --- Difference ------------------------------------------------------------

// DifferenceProof witnesses AccValue(A \ B) given AccValue(A) and
// AccValue(B). Empty-dividend short-circuit: proof may be nil iff accA
// is the empty accumulator.
type DifferenceProof struct {
	Mid     AccValue // claimed Acc(A∩B)
	Balance Balance
}

// ProveDifference builds a DifferenceProof and the resulting accumulator.
func ProveDifference(sk *AccSecretKeyWithPowCache, q uint32, a, b *intset.Set) (*DifferenceProof, AccValue, error) {
	accA, err := FromSetSK(a, sk, q)
	if err != nil {
		return nil, AccValue{}, err
	}
	if accA.IsEmpty() {
		return nil, AccValue{}, nil
	}
	midSet := intset.Intersect(a, b)
	mid, err := FromSetSK(midSet, sk, q)
	if err != nil {
		return nil, AccValue{}, err
	}
	bal, err := computeBalance(sk, q, midSet, b)
	if err != nil {
		return nil, AccValue{}, err
	}
	result := accA.Sub(mid)
	return &DifferenceProof{Mid: mid, Balance: bal}, result, nil
}

// VerifyDifferenceIntermediate checks that claimed = Acc(A\B).
func VerifyDifferenceIntermediate(accA, accB, claimed AccValue, proof *DifferenceProof) error {
	if accA.IsEmpty() {
		if !claimed.IsEmpty() {
			return fmt.Errorf("accumulator: %w: difference of an empty dividend must be empty", ErrProofFailed)
		}
		return nil
	}
	if proof == nil {
		return fmt.Errorf("accumulator: %w: difference proof is required", ErrProofFailed)
	}
	if !accA.Sub(proof.Mid).Equal(claimed) {
		return fmt.Errorf("accumulator: %w: difference additive identity failed", ErrProofFailed)
	}
	if !subsetPairing(proof.Mid, accB, proof.Balance) {
		return fmt.Errorf("accumulator: %w: difference sub-accumulator pairing failed", ErrProofFailed)
	}
	return nil
}

// VerifyDifferenceFinal is the final-flavour counterpart.
func VerifyDifferenceFinal(accA, accB AccValue, finalSet *intset.Set, pk *AccPublicKey, proof *DifferenceProof) (AccValue, error) {
	claimed, err := FromSet(finalSet, pk)
	if err != nil {
		return AccValue{}, err
	}
	if err := VerifyDifferenceIntermediate(accA, accB, claimed, proof); err != nil {
		return AccValue{}, err
	}
	return claimed, nil
}
