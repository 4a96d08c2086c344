// Copyright 2025 Certen Protocol
//
// Package chainreader provides a minimal verifier.ChainReader backed by an
// in-memory map, the same shape as the teacher's MemoryKV: a map guarded by
// a sync.RWMutex, with no external storage dependency.

package chainreader

import (
	"fmt"
	"sync"

	"github.com/certen/vchainplus/pkg/chainmodel"
	"github.com/certen/vchainplus/pkg/verifier"
)

// MemoryChainReader holds block heads keyed by height, plus the fixed
// chain-wide parameter set a verifier needs alongside them.
type MemoryChainReader struct {
	mu    sync.RWMutex
	heads map[uint32]chainmodel.BlockHead
	param verifier.Parameter
}

// NewMemoryChainReader builds an empty reader for the given parameter set.
func NewMemoryChainReader(param verifier.Parameter) *MemoryChainReader {
	return &MemoryChainReader{
		heads: make(map[uint32]chainmodel.BlockHead),
		param: param,
	}
}

// PutBlockHead records or replaces the head for height. Callers append
// block heads as the underlying chain advances; nothing here enforces
// height monotonicity, since that is the external chain's concern, not
// the verifier's.
func (r *MemoryChainReader) PutBlockHead(height uint32, head chainmodel.BlockHead) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heads[height] = head
}

// ReadBlockHead implements verifier.ChainReader.
func (r *MemoryChainReader) ReadBlockHead(height uint32) (chainmodel.BlockHead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.heads[height]
	if !ok {
		return chainmodel.BlockHead{}, fmt.Errorf("chainreader: no block head at height %d", height)
	}
	return h, nil
}

// GetParameter implements verifier.ChainReader.
func (r *MemoryChainReader) GetParameter() (verifier.Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.param, nil
}

// Len reports the number of block heads currently held.
func (r *MemoryChainReader) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.heads)
}
