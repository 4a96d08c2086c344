// Copyright 2025 Certen Protocol
//
// Wire encodings for AccSecretKey and AccPublicKey, used by the setup CLI
// to persist trapdoor and public material across process restarts.

package accumulator

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// Bytes encodes the raw trapdoor as s ∥ r, 32 bytes each.
func (sk *AccSecretKey) Bytes() []byte {
	sB := sk.S.Bytes()
	rB := sk.R.Bytes()
	out := make([]byte, 0, len(sB)+len(rB))
	out = append(out, sB[:]...)
	out = append(out, rB[:]...)
	return out
}

// SecretKeyFromBytes decodes what Bytes produced.
func SecretKeyFromBytes(b []byte) (*AccSecretKey, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("accumulator: secret key must be 64 bytes, got %d", len(b))
	}
	var sk AccSecretKey
	sk.S.SetBytes(b[:32])
	sk.R.SetBytes(b[32:64])
	return &sk, nil
}

// Marshal encodes the public key as q ∥ gS ∥ gR ∥ hSR ∥ hRS, each point in
// its compressed 32/64-byte affine form.
func (pk *AccPublicKey) Marshal() []byte {
	var qBE [4]byte
	binary.BigEndian.PutUint32(qBE[:], pk.q)

	out := make([]byte, 0, 4+int(pk.q+1)*(2*32+2*64))
	out = append(out, qBE[:]...)
	for _, p := range pk.gS {
		b := p.Bytes()
		out = append(out, b[:]...)
	}
	for _, p := range pk.gR {
		b := p.Bytes()
		out = append(out, b[:]...)
	}
	for _, p := range pk.hSR {
		b := p.Bytes()
		out = append(out, b[:]...)
	}
	for _, p := range pk.hRS {
		b := p.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// UnmarshalPublicKey decodes what Marshal produced.
func UnmarshalPublicKey(b []byte) (*AccPublicKey, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("accumulator: public key blob too short")
	}
	q := binary.BigEndian.Uint32(b[:4])
	b = b[4:]

	const g1Size = 32
	const g2Size = 64
	n := int(q + 1)
	want := n*g1Size*2 + n*g2Size*2
	if len(b) != want {
		return nil, fmt.Errorf("accumulator: public key blob has wrong length: want %d, got %d", want, len(b))
	}

	readG1 := func(buf []byte) ([]bn254.G1Affine, []byte, error) {
		out := make([]bn254.G1Affine, n)
		for i := 0; i < n; i++ {
			var arr [g1Size]byte
			copy(arr[:], buf[:g1Size])
			if _, err := out[i].SetBytes(arr[:]); err != nil {
				return nil, nil, fmt.Errorf("accumulator: decode g1 point %d: %w", i, err)
			}
			buf = buf[g1Size:]
		}
		return out, buf, nil
	}
	readG2 := func(buf []byte) ([]bn254.G2Affine, []byte, error) {
		out := make([]bn254.G2Affine, n)
		for i := 0; i < n; i++ {
			var arr [g2Size]byte
			copy(arr[:], buf[:g2Size])
			if _, err := out[i].SetBytes(arr[:]); err != nil {
				return nil, nil, fmt.Errorf("accumulator: decode g2 point %d: %w", i, err)
			}
			buf = buf[g2Size:]
		}
		return out, buf, nil
	}

	gS, b, err := readG1(b)
	if err != nil {
		return nil, err
	}
	gR, b, err := readG1(b)
	if err != nil {
		return nil, err
	}
	hSR, b, err := readG2(b)
	if err != nil {
		return nil, err
	}
	hRS, _, err := readG2(b)
	if err != nil {
		return nil, err
	}

	return &AccPublicKey{q: q, gS: gS, gR: gR, hSR: hSR, hRS: hRS}, nil
}
