// Copyright 2025 Certen Protocol
//
// JSON encodings for AccValue and Balance, used by wire-format consumers
// (e.g. cmd/vchain-verify's on-disk VO bundle) that need a human-readable
// serialization of curve points alongside the binary Marshal forms.

package accumulator

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

type accValueJSON struct {
	GS  string `json:"gs"`
	GR  string `json:"gr"`
	HSR string `json:"hsr"`
	HRS string `json:"hrs"`
}

// MarshalJSON encodes each component as hex-encoded compressed affine bytes.
func (v AccValue) MarshalJSON() ([]byte, error) {
	gs := v.GS.Bytes()
	gr := v.GR.Bytes()
	hsr := v.HSR.Bytes()
	hrs := v.HRS.Bytes()
	return json.Marshal(accValueJSON{
		GS:  hex.EncodeToString(gs[:]),
		GR:  hex.EncodeToString(gr[:]),
		HSR: hex.EncodeToString(hsr[:]),
		HRS: hex.EncodeToString(hrs[:]),
	})
}

// UnmarshalJSON decodes what MarshalJSON produced.
func (v *AccValue) UnmarshalJSON(b []byte) error {
	var j accValueJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	var err error
	if v.GS, err = decodeG1Hex(j.GS); err != nil {
		return fmt.Errorf("accumulator: acc_value.gs: %w", err)
	}
	if v.GR, err = decodeG1Hex(j.GR); err != nil {
		return fmt.Errorf("accumulator: acc_value.gr: %w", err)
	}
	if v.HSR, err = decodeG2Hex(j.HSR); err != nil {
		return fmt.Errorf("accumulator: acc_value.hsr: %w", err)
	}
	if v.HRS, err = decodeG2Hex(j.HRS); err != nil {
		return fmt.Errorf("accumulator: acc_value.hrs: %w", err)
	}
	return nil
}

func decodeG1Hex(s string) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, err
	}
	if _, err := p.SetBytes(b); err != nil {
		return p, err
	}
	return p, nil
}

func decodeG2Hex(s string) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, err
	}
	if _, err := p.SetBytes(b); err != nil {
		return p, err
	}
	return p, nil
}

type balanceJSON struct {
	G1 string `json:"g1"`
	G2 string `json:"g2"`
}

// MarshalJSON encodes Balance the same way as AccValue's components.
func (b Balance) MarshalJSON() ([]byte, error) {
	g1 := b.G1.Bytes()
	g2 := b.G2.Bytes()
	return json.Marshal(balanceJSON{G1: hex.EncodeToString(g1[:]), G2: hex.EncodeToString(g2[:])})
}

// UnmarshalJSON decodes what MarshalJSON produced.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var j balanceJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	var err error
	if b.G1, err = decodeG1Hex(j.G1); err != nil {
		return fmt.Errorf("accumulator: balance.g1: %w", err)
	}
	if b.G2, err = decodeG2Hex(j.G2); err != nil {
		return fmt.Errorf("accumulator: balance.g2: %w", err)
	}
	return nil
}
