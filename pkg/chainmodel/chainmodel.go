// Copyright 2025 Certen Protocol
//
// Package chainmodel holds the block-level fields the ADS core reads: the
// light-verifier's BlockHead and the full-node's BlockContent. Neither
// type owns consensus, execution, or networking concerns — those live
// entirely with the external chain the core is embedded in.

package chainmodel

import (
	"encoding/binary"

	"github.com/certen/vchainplus/pkg/adsroot"
	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/indexproof"
)

// BlockHead is the light-verifier's view of a block: just enough to bind
// a reconstructed ads_root to a committed value.
type BlockHead struct {
	Height      uint32
	PrevHash    digest.Digest
	AdsRoot     digest.Digest // the unified per-block root
	ObjRootHash digest.Digest
}

// Bytes is the wire image: u32 height ∥ prev_hash ∥ ads_root ∥ obj_root_hash.
func (h BlockHead) Bytes() []byte {
	b := make([]byte, 0, 4+3*digest.Size)
	var heightBE [4]byte
	binary.BigEndian.PutUint32(heightBE[:], h.Height)
	b = append(b, heightBE[:]...)
	b = append(b, h.PrevHash.Bytes()...)
	b = append(b, h.AdsRoot.Bytes()...)
	b = append(b, h.ObjRootHash.Bytes()...)
	return b
}

// BlockContent is the full-node's view: everything BlockHead summarizes,
// plus the internal full structures that back it.
type BlockContent struct {
	Height     uint32
	PrevHash   digest.Digest
	IDTreeRoot digest.Digest
	MultiADS   map[uint16]adsroot.WindowADSHash // per-window structural root

	ObjHashes map[indexproof.ObjID]digest.Digest
	ObjIDNums uint64

	AdsComponents adsroot.BlockADSComponents
}

// AdsRoot recomputes the block's unified root from AdsComponents, the one
// structural link a full node has between its own view and BlockHead.
func (c BlockContent) AdsRoot() digest.Digest {
	return c.AdsComponents.ComputeRoot()
}
