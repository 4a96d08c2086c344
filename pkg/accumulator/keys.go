// Copyright 2025 Certen Protocol
//
// AccSecretKey / AccPublicKey: the trapdoor (s,r) and its derived public
// powers up to bound q, for the pairing-based set accumulator.

package accumulator

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	genOnce sync.Once
	g1Gen   bn254.G1Affine
	g2Gen   bn254.G2Affine
)

func initGenerators() {
	genOnce.Do(func() {
		_, _, g1, g2 := bn254.Generators()
		g1Gen = g1
		g2Gen = g2
	})
}

// fieldPowCache holds the dense power table {base^i}_{i=0..q} of a field
// element, built once by repeated multiplication (cheap: q field mults).
type fieldPowCache struct {
	powers []fr.Element
}

func newFieldPowCache(base fr.Element, q uint32) *fieldPowCache {
	powers := make([]fr.Element, q+1)
	powers[0].SetOne()
	for i := uint32(1); i <= q; i++ {
		powers[i].Mul(&powers[i-1], &base)
	}
	return &fieldPowCache{powers: powers}
}

func (c *fieldPowCache) At(i uint32) fr.Element {
	if i >= uint32(len(c.powers)) {
		panic(fmt.Sprintf("accumulator: power index %d exceeds bound %d", i, len(c.powers)-1))
	}
	return c.powers[i]
}

// pointPowCacheWindow is the size of the small precomputed multiples table
// kept on each secret-key base for O(1) lookup of base^x when x is a small
// non-negative integer (e.g. s^0 = r^0 = 1 during setup); arbitrary
// field scalars fall back to a scalar multiplication.
const pointPowCacheWindow = 64

// g1PowCache caches small multiples of a G1 base point.
type g1PowCache struct {
	base   bn254.G1Affine
	window []bn254.G1Affine // window[i] = base^i, i = 0..pointPowCacheWindow-1
}

func newG1PowCache(base bn254.G1Affine) *g1PowCache {
	c := &g1PowCache{base: base, window: make([]bn254.G1Affine, pointPowCacheWindow)}
	var acc bn254.G1Jac
	acc.FromAffine(&base)
	var cur bn254.G1Jac // identity
	for i := 0; i < pointPowCacheWindow; i++ {
		var aff bn254.G1Affine
		aff.FromJacobian(&cur)
		c.window[i] = aff
		cur.AddAssign(&acc)
	}
	return c
}

// Apply returns base^x as an affine point.
func (c *g1PowCache) Apply(x *fr.Element) bn254.G1Affine {
	var xBig big.Int
	x.BigInt(&xBig)
	if xBig.IsInt64() {
		v := xBig.Int64()
		if v >= 0 && v < pointPowCacheWindow {
			return c.window[v]
		}
	}
	var out bn254.G1Affine
	out.ScalarMultiplication(&c.base, &xBig)
	return out
}

// g2PowCache is the G2 analogue of g1PowCache.
type g2PowCache struct {
	base   bn254.G2Affine
	window []bn254.G2Affine
}

func newG2PowCache(base bn254.G2Affine) *g2PowCache {
	c := &g2PowCache{base: base, window: make([]bn254.G2Affine, pointPowCacheWindow)}
	var acc bn254.G2Jac
	acc.FromAffine(&base)
	var cur bn254.G2Jac
	for i := 0; i < pointPowCacheWindow; i++ {
		var aff bn254.G2Affine
		aff.FromJacobian(&cur)
		c.window[i] = aff
		cur.AddAssign(&acc)
	}
	return c
}

func (c *g2PowCache) Apply(x *fr.Element) bn254.G2Affine {
	var xBig big.Int
	x.BigInt(&xBig)
	if xBig.IsInt64() {
		v := xBig.Int64()
		if v >= 0 && v < pointPowCacheWindow {
			return c.window[v]
		}
	}
	var out bn254.G2Affine
	out.ScalarMultiplication(&c.base, &xBig)
	return out
}

// AccSecretKey is the raw trapdoor (s, r), drawn uniformly at random from
// Fr*. It is never needed at verify time; it exists only to generate
// AccPublicKey (and, optionally, to take the from_set_sk fast path).
type AccSecretKey struct {
	S fr.Element
	R fr.Element
}

// RandAccSecretKey draws nonzero s, r uniformly at random.
func RandAccSecretKey() (*AccSecretKey, error) {
	s, err := randNonZeroScalar()
	if err != nil {
		return nil, fmt.Errorf("accumulator: draw s: %w", err)
	}
	r, err := randNonZeroScalar()
	if err != nil {
		return nil, fmt.Errorf("accumulator: draw r: %w", err)
	}
	return &AccSecretKey{S: s, R: r}, nil
}

func randNonZeroScalar() (fr.Element, error) {
	var x fr.Element
	for {
		if _, err := x.SetRandom(); err != nil {
			return x, err
		}
		if !x.IsZero() {
			return x, nil
		}
	}
}

// AccSecretKeyWithPowCache is the trapdoor immediately wrapped with
// precomputed power tables, enabling apply(x) = base^x in amortized O(1)
// for x in a small window, falling back to a scalar multiplication for
// arbitrary scalars.
type AccSecretKeyWithPowCache struct {
	sk AccSecretKey

	sPow *fieldPowCache
	rPow *fieldPowCache

	gPow *g1PowCache // base g
	hPow *g2PowCache // base h
}

// NewAccSecretKeyWithPowCache builds the power caches for bound q.
func NewAccSecretKeyWithPowCache(sk *AccSecretKey, q uint32) (*AccSecretKeyWithPowCache, error) {
	if q == 0 {
		return nil, fmt.Errorf("accumulator: %w: q must be positive", ErrSetup)
	}
	initGenerators()
	return &AccSecretKeyWithPowCache{
		sk:   *sk,
		sPow: newFieldPowCache(sk.S, q),
		rPow: newFieldPowCache(sk.R, q),
		gPow: newG1PowCache(g1Gen),
		hPow: newG2PowCache(g2Gen),
	}, nil
}

// AccPublicKey holds the four dense power vectors of length q+1, in affine
// form, for O(1) random access by index.
type AccPublicKey struct {
	q uint32

	gS []bn254.G1Affine // g^{s^i}
	gR []bn254.G1Affine // g^{r^i}
	hSR []bn254.G2Affine // h^{s^i r^{q-i}}
	hRS []bn254.G2Affine // h^{r^i s^{q-i}}
}

// Bound returns q.
func (pk *AccPublicKey) Bound() uint32 { return pk.q }

// GenKey materializes the public key from the secret trapdoor. Rejects
// q = 0 (SetupError).
func GenKey(sk *AccSecretKeyWithPowCache, q uint32) (*AccPublicKey, error) {
	if q == 0 {
		return nil, fmt.Errorf("accumulator: %w: q must be positive", ErrSetup)
	}
	initGenerators()

	pk := &AccPublicKey{
		q:   q,
		gS:  make([]bn254.G1Affine, q+1),
		gR:  make([]bn254.G1Affine, q+1),
		hSR: make([]bn254.G2Affine, q+1),
		hRS: make([]bn254.G2Affine, q+1),
	}

	for i := uint32(0); i <= q; i++ {
		sI := sk.sPow.At(i)
		rI := sk.rPow.At(i)
		qMinusI := q - i

		pk.gS[i] = sk.gPow.Apply(&sI)
		pk.gR[i] = sk.gPow.Apply(&rI)

		var sr fr.Element
		rq := sk.rPow.At(qMinusI)
		sr.Mul(&sI, &rq)
		pk.hSR[i] = sk.hPow.Apply(&sr)

		var rs fr.Element
		sq := sk.sPow.At(qMinusI)
		rs.Mul(&rI, &sq)
		pk.hRS[i] = sk.hPow.Apply(&rs)
	}

	return pk, nil
}

// GetGSI returns g^{s^i}. Panics (programmer error, never verifier
// reachable) if i > q.
func (pk *AccPublicKey) GetGSI(i uint32) bn254.G1Affine { return pk.indexed(pk.gS, i) }

// GetGRI returns g^{r^i}.
func (pk *AccPublicKey) GetGRI(i uint32) bn254.G1Affine { return pk.indexed(pk.gR, i) }

// GetHSRI returns h^{s^i r^{q-i}}.
func (pk *AccPublicKey) GetHSRI(i uint32) bn254.G2Affine { return pk.indexedG2(pk.hSR, i) }

// GetHRSI returns h^{r^i s^{q-i}}.
func (pk *AccPublicKey) GetHRSI(i uint32) bn254.G2Affine { return pk.indexedG2(pk.hRS, i) }

func (pk *AccPublicKey) indexed(table []bn254.G1Affine, i uint32) bn254.G1Affine {
	if i > pk.q {
		panic(fmt.Sprintf("accumulator: index %d exceeds bound %d", i, pk.q))
	}
	return table[i]
}

func (pk *AccPublicKey) indexedG2(table []bn254.G2Affine, i uint32) bn254.G2Affine {
	if i > pk.q {
		panic(fmt.Sprintf("accumulator: index %d exceeds bound %d", i, pk.q))
	}
	return table[i]
}

// G1Generator and G2Generator expose the fixed public generators (e.g. for
// index-proof implementations that need to anchor their own commitments).
func G1Generator() bn254.G1Affine {
	initGenerators()
	return g1Gen
}

func G2Generator() bn254.G2Affine {
	initGenerators()
	return g2Gen
}
