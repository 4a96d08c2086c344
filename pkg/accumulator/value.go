// Copyright 2025 Certen Protocol
//
// AccValue: the four-group-element accumulator of a Set, with additive
// composition and digesting.

package accumulator

import (
	"fmt"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/intset"
)

// AccValue is the accumulator of a Set S ⊆ {1..q}:
//
//	GS  = g^(Σ_{i∈S} s^i)
//	GR  = g^(Σ_{i∈S} r^i)
//	HSR = h^(Σ_{i∈S} s^i · r^{q−i})
//	HRS = h^(Σ_{i∈S} r^i · s^{q−i})
type AccValue struct {
	GS  bn254.G1Affine
	GR  bn254.G1Affine
	HSR bn254.G2Affine
	HRS bn254.G2Affine
}

// Empty returns the neutral element: the accumulator of the empty set.
func Empty() AccValue { return AccValue{} }

// IsEmpty reports whether v equals the neutral element.
func (v AccValue) IsEmpty() bool { return v.Equal(Empty()) }

func checkBound(set *intset.Set, q uint32) error {
	for _, e := range set.Elements() {
		if e < 1 || e > q {
			return fmt.Errorf("accumulator: %w: element %d outside [1,%d]", ErrSetup, e, q)
		}
	}
	return nil
}

// FromSet computes AccValue(S) via the public-key path: for each of the
// four components, an unordered parallel fold of the corresponding public
// power vector entries with additive identity, converted to affine once
// at the end.
func FromSet(set *intset.Set, pk *AccPublicKey) (AccValue, error) {
	if err := checkBound(set, pk.q); err != nil {
		return AccValue{}, err
	}
	elems := set.Elements()

	gs := foldG1(elems, pk.GetGSI)
	gr := foldG1(elems, pk.GetGRI)
	hsr := foldG2(elems, pk.GetHSRI)
	hrs := foldG2(elems, pk.GetHRSI)

	return AccValue{GS: gs, GR: gr, HSR: hsr, HRS: hrs}, nil
}

// FromSetSK computes AccValue(S) via the secret-key path: sum the
// exponents in Fr first, then apply a single scalar multiplication per
// component. Required to be byte-identical to FromSet for the same
// (S, pk, sk, q).
func FromSetSK(set *intset.Set, sk *AccSecretKeyWithPowCache, q uint32) (AccValue, error) {
	if err := checkBound(set, q); err != nil {
		return AccValue{}, err
	}

	var sSum, rSum, srSum, rsSum fr.Element
	for _, i := range set.Elements() {
		sI := sk.sPow.At(i)
		rI := sk.rPow.At(i)
		qMinusI := q - i

		sSum.Add(&sSum, &sI)
		rSum.Add(&rSum, &rI)

		var sr, rs fr.Element
		rq := sk.rPow.At(qMinusI)
		sr.Mul(&sI, &rq)
		srSum.Add(&srSum, &sr)
		sq := sk.sPow.At(qMinusI)
		rs.Mul(&rI, &sq)
		rsSum.Add(&rsSum, &rs)
	}

	return AccValue{
		GS:  sk.gPow.Apply(&sSum),
		GR:  sk.gPow.Apply(&rSum),
		HSR: sk.hPow.Apply(&srSum),
		HRS: sk.hPow.Apply(&rsSum),
	}, nil
}

// Add is the pointwise affine addition of two accumulators (additive
// homomorphism over disjoint union).
func (v AccValue) Add(other AccValue) AccValue {
	return AccValue{
		GS:  addG1(v.GS, other.GS),
		GR:  addG1(v.GR, other.GR),
		HSR: addG2(v.HSR, other.HSR),
		HRS: addG2(v.HRS, other.HRS),
	}
}

// Sub negates other's components then adds.
func (v AccValue) Sub(other AccValue) AccValue {
	return AccValue{
		GS:  addG1(v.GS, negG1(other.GS)),
		GR:  addG1(v.GR, negG1(other.GR)),
		HSR: addG2(v.HSR, negG2(other.HSR)),
		HRS: addG2(v.HRS, negG2(other.HRS)),
	}
}

// Equal decides equality point-wise on affine coordinates.
func (v AccValue) Equal(other AccValue) bool {
	return v.GS.Equal(&other.GS) && v.GR.Equal(&other.GR) &&
		v.HSR.Equal(&other.HSR) && v.HRS.Equal(&other.HRS)
}

// ToDigest implements digest.Digestible:
//
//	Blake2( enc(g_s) ∥ enc(g_r) ∥ enc(h_s_r) ∥ enc(h_r_s) )
//
// using the field library's canonical (compressed) big-endian point
// encoding.
func (v AccValue) ToDigest() digest.Digest {
	gs := v.GS.Bytes()
	gr := v.GR.Bytes()
	hsr := v.HSR.Bytes()
	hrs := v.HRS.Bytes()
	return digest.Sum(gs[:], gr[:], hsr[:], hrs[:])
}

// EncodedSize is the byte length of v's canonical point encoding, used by
// callers that need a real wire-footprint estimate (e.g. VerifyInfo.VOSize)
// rather than a hardcoded constant.
func (v AccValue) EncodedSize() int {
	gs := v.GS.Bytes()
	gr := v.GR.Bytes()
	hsr := v.HSR.Bytes()
	hrs := v.HRS.Bytes()
	return len(gs) + len(gr) + len(hsr) + len(hrs)
}

func addG1(a, b bn254.G1Affine) bn254.G1Affine {
	var aj, bj bn254.G1Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out bn254.G1Affine
	out.FromJacobian(&aj)
	return out
}

func addG2(a, b bn254.G2Affine) bn254.G2Affine {
	var aj, bj bn254.G2Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out bn254.G2Affine
	out.FromJacobian(&aj)
	return out
}

func negG1(a bn254.G1Affine) bn254.G1Affine {
	var out bn254.G1Affine
	out.Neg(&a)
	return out
}

func negG2(a bn254.G2Affine) bn254.G2Affine {
	var out bn254.G2Affine
	out.Neg(&a)
	return out
}

// foldG1 performs the data-parallel commutative-monoid reduction specified
// for cal_acc_pk: an unordered parallel fold over elems with identity
// G1Jac zero value and the associative, commutative combine step of group
// addition. No hashing or non-commutative step runs inside the fold.
func foldG1(elems []uint32, get func(uint32) bn254.G1Affine) bn254.G1Affine {
	if len(elems) == 0 {
		return bn254.G1Affine{}
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(elems) {
		workers = len(elems)
	}
	partials := make([]bn254.G1Jac, workers)
	chunk := (len(elems) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(elems) {
			break
		}
		hi := lo + chunk
		if hi > len(elems) {
			hi = len(elems)
		}
		w, shard := w, elems[lo:hi]
		g.Go(func() error {
			var acc bn254.G1Jac
			for _, e := range shard {
				p := get(e)
				var pj bn254.G1Jac
				pj.FromAffine(&p)
				acc.AddAssign(&pj)
			}
			partials[w] = acc
			return nil
		})
	}
	_ = g.Wait()

	var total bn254.G1Jac
	for _, p := range partials {
		total.AddAssign(&p)
	}
	var aff bn254.G1Affine
	aff.FromJacobian(&total)
	return aff
}

// foldG2 is the G2 analogue of foldG1.
func foldG2(elems []uint32, get func(uint32) bn254.G2Affine) bn254.G2Affine {
	if len(elems) == 0 {
		return bn254.G2Affine{}
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(elems) {
		workers = len(elems)
	}
	partials := make([]bn254.G2Jac, workers)
	chunk := (len(elems) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(elems) {
			break
		}
		hi := lo + chunk
		if hi > len(elems) {
			hi = len(elems)
		}
		w, shard := w, elems[lo:hi]
		g.Go(func() error {
			var acc bn254.G2Jac
			for _, e := range shard {
				p := get(e)
				var pj bn254.G2Jac
				pj.FromAffine(&p)
				acc.AddAssign(&pj)
			}
			partials[w] = acc
			return nil
		})
	}
	_ = g.Wait()

	var total bn254.G2Jac
	for _, p := range partials {
		total.AddAssign(&p)
	}
	var aff bn254.G2Affine
	aff.FromJacobian(&total)
	return aff
}
