// Copyright 2025 Certen Protocol
//
// The on-disk VO bundle format vchain-verify reads: a JSON document
// carrying a query DAG, its Verification Object, the claimed result
// content, and the chain block heads it must be checked against. Range,
// keyword, and ID-tree proofs have no concrete production implementation
// in this module (pkg/indexproof documents them as an external
// collaborator's responsibility), so the bundle format encodes the same
// membership-table shape pkg/indexproof/testutil's fakes verify against;
// a real deployment would swap this decoder for one matching its own
// index implementation.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/certen/vchainplus/pkg/chainmodel"
	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/indexproof"
	"github.com/certen/vchainplus/pkg/indexproof/testutil"
	"github.com/certen/vchainplus/pkg/intset"
	"github.com/certen/vchainplus/pkg/querydag"

	"github.com/certen/vchainplus/pkg/accumulator"
)

type wireNode struct {
	Kind      querydag.NodeKind `json:"kind"`
	Dim       uint32            `json:"dim,omitempty"`
	Lo        int64             `json:"lo,omitempty"`
	Hi        int64             `json:"hi,omitempty"`
	Keyword   string            `json:"keyword,omitempty"`
	BlkHeight uint32            `json:"blk_height"`
	First     *uint32           `json:"first,omitempty"`
	Second    *uint32           `json:"second,omitempty"`
	Final     bool              `json:"final,omitempty"`
}

type wireRangeProof struct {
	Members map[string][]uint32 `json:"members"` // dim (decimal string) -> object IDs
}

type wireKeywordProof struct {
	Keyword string   `json:"keyword"`
	Members []uint32 `json:"members"`
}

type wireIDTreeProof struct {
	Leaves map[string]string `json:"leaves"` // object ID (decimal string) -> hex digest
}

type wireLeaf struct {
	Acc          accumulator.AccValue `json:"acc"`
	WinSize      uint16               `json:"win_size"`
	RangeProof   *wireRangeProof      `json:"range_proof,omitempty"`
	KeywordProof *wireKeywordProof    `json:"keyword_proof,omitempty"`
}

type wireOp struct {
	Acc          accumulator.AccValue           `json:"acc"`
	Union        *accumulator.UnionProof        `json:"union,omitempty"`
	Intersection *accumulator.IntersectionProof `json:"intersection,omitempty"`
	Difference   *accumulator.DifferenceProof   `json:"difference,omitempty"`
}

type wireMerkleRecord struct {
	IDSetRootHash  string `json:"id_set_root_hash"`
	IDTreeRootHash string `json:"id_tree_root_hash,omitempty"`
}

type wireBlockHead struct {
	Height      uint32 `json:"height"`
	PrevHash    string `json:"prev_hash"`
	AdsRoot     string `json:"ads_root"`
	ObjRootHash string `json:"obj_root_hash"`
}

type wireVO struct {
	QueryID       string                      `json:"query_id,omitempty"`
	Leaves        map[string]wireLeaf         `json:"leaves"`
	Ops           map[string]wireOp           `json:"ops"`
	MerkleProofs  map[string]wireMerkleRecord `json:"merkle_proofs"`
	TrieProofs    map[string]wireKeywordProof `json:"trie_proofs"`
	IDTreeProof   wireIDTreeProof             `json:"id_tree_proof"`
	CurObjIDCount uint64                      `json:"cur_obj_id_count"`
	OutputSets    map[string][]uint32         `json:"output_sets"`
}

type bundleFile struct {
	ResultContent map[string]string `json:"result_content"` // object ID (decimal string) -> hex digest
	Dag           []wireNode        `json:"dag"`
	Sink          uint32            `json:"sink"`
	Vo            wireVO            `json:"vo"`
	BlockHeads    []wireBlockHead   `json:"block_heads"`
}

// loadBundle reads and decodes path into working verifier inputs.
func loadBundle(path string) (
	resultContent map[indexproof.ObjID]digest.Digestible,
	vo *querydag.VO,
	dag *querydag.DAG,
	heads []chainmodel.BlockHead,
	err error,
) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("read bundle: %w", err)
	}
	var bf bundleFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("parse bundle: %w", err)
	}

	resultContent, err = decodeResultContent(bf.ResultContent)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	nodes := make([]querydag.DagNode, len(bf.Dag))
	for i, n := range bf.Dag {
		node := querydag.DagNode{
			Kind:      n.Kind,
			BlkHeight: n.BlkHeight,
			Keyword:   n.Keyword,
			Final:     n.Final,
			Range:     indexproof.Range{Dim: n.Dim, Lo: n.Lo, Hi: n.Hi, BlkHeight: n.BlkHeight},
		}
		if n.First != nil && n.Second != nil {
			node.Children = &querydag.BinaryEdge{
				First:  querydag.NodeIndex(*n.First),
				Second: querydag.NodeIndex(*n.Second),
			}
		}
		nodes[i] = node
	}
	dag, err = querydag.NewDAG(nodes, querydag.NodeIndex(bf.Sink))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("build dag: %w", err)
	}

	vo, err = decodeVO(bf.Vo)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	heads = make([]chainmodel.BlockHead, 0, len(bf.BlockHeads))
	for _, h := range bf.BlockHeads {
		bh, err := decodeBlockHeadWire(h)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		heads = append(heads, bh)
	}

	return resultContent, vo, dag, heads, nil
}

func decodeResultContent(in map[string]string) (map[indexproof.ObjID]digest.Digestible, error) {
	out := make(map[indexproof.ObjID]digest.Digestible, len(in))
	for idStr, hexDigest := range in {
		id, err := parseObjID(idStr)
		if err != nil {
			return nil, fmt.Errorf("result_content: %w", err)
		}
		d, err := digest.FromHex(hexDigest)
		if err != nil {
			return nil, fmt.Errorf("result_content[%s]: %w", idStr, err)
		}
		out[id] = d
	}
	return out, nil
}

func decodeVO(w wireVO) (*querydag.VO, error) {
	vo := &querydag.VO{
		Leaves:        make(map[querydag.NodeIndex]querydag.VoLeafEntry, len(w.Leaves)),
		Ops:           make(map[querydag.NodeIndex]querydag.VoOpEntry, len(w.Ops)),
		MerkleProofs:  make(map[uint32]querydag.MerkleProofRecord, len(w.MerkleProofs)),
		TrieProofs:    make(map[uint32]indexproof.KeywordProof, len(w.TrieProofs)),
		CurObjIDCount: w.CurObjIDCount,
		OutputSets:    make(map[querydag.NodeIndex]*intset.Set, len(w.OutputSets)),
	}
	if w.QueryID != "" {
		id, err := uuid.Parse(w.QueryID)
		if err != nil {
			return nil, fmt.Errorf("vo.query_id: %w", err)
		}
		vo.QueryID = id
	} else {
		vo.QueryID = uuid.New()
	}

	for idxStr, leaf := range w.Leaves {
		idx, err := parseIndex(idxStr)
		if err != nil {
			return nil, fmt.Errorf("vo.leaves: %w", err)
		}
		entry := querydag.VoLeafEntry{Acc: leaf.Acc, WinSize: leaf.WinSize}
		if leaf.RangeProof != nil {
			members, err := decodeMembersByDim(leaf.RangeProof.Members)
			if err != nil {
				return nil, fmt.Errorf("vo.leaves[%s].range_proof: %w", idxStr, err)
			}
			entry.RangeProof = testutil.NewFakeRangeProof(members)
		}
		if leaf.KeywordProof != nil {
			entry.KeywordProof = testutil.NewFakeKeywordProof(leaf.KeywordProof.Keyword, intset.New(leaf.KeywordProof.Members...))
		}
		vo.Leaves[idx] = entry
	}

	for idxStr, op := range w.Ops {
		idx, err := parseIndex(idxStr)
		if err != nil {
			return nil, fmt.Errorf("vo.ops: %w", err)
		}
		vo.Ops[idx] = querydag.VoOpEntry{
			Acc:          op.Acc,
			Union:        op.Union,
			Intersection: op.Intersection,
			Difference:   op.Difference,
		}
	}

	for heightStr, rec := range w.MerkleProofs {
		height, err := strconv.ParseUint(heightStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("vo.merkle_proofs: %w", err)
		}
		idSetRoot, err := digest.FromHex(rec.IDSetRootHash)
		if err != nil {
			return nil, fmt.Errorf("vo.merkle_proofs[%s].id_set_root_hash: %w", heightStr, err)
		}
		mr := querydag.MerkleProofRecord{IDSetRootHash: idSetRoot}
		if rec.IDTreeRootHash != "" {
			d, err := digest.FromHex(rec.IDTreeRootHash)
			if err != nil {
				return nil, fmt.Errorf("vo.merkle_proofs[%s].id_tree_root_hash: %w", heightStr, err)
			}
			mr.IDTreeRootHash = &d
		}
		vo.MerkleProofs[uint32(height)] = mr
	}

	for heightStr, kp := range w.TrieProofs {
		height, err := strconv.ParseUint(heightStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("vo.trie_proofs: %w", err)
		}
		vo.TrieProofs[uint32(height)] = testutil.NewFakeKeywordProof(kp.Keyword, intset.New(kp.Members...))
	}

	leaves := make(map[indexproof.ObjID]digest.Digest, len(w.IDTreeProof.Leaves))
	for idStr, hexDigest := range w.IDTreeProof.Leaves {
		id, err := parseObjID(idStr)
		if err != nil {
			return nil, fmt.Errorf("vo.id_tree_proof: %w", err)
		}
		d, err := digest.FromHex(hexDigest)
		if err != nil {
			return nil, fmt.Errorf("vo.id_tree_proof[%s]: %w", idStr, err)
		}
		leaves[id] = d
	}
	vo.IDTreeProof = testutil.NewFakeIDTreeProof(leaves)

	for idxStr, elems := range w.OutputSets {
		idx, err := parseIndex(idxStr)
		if err != nil {
			return nil, fmt.Errorf("vo.output_sets: %w", err)
		}
		vo.OutputSets[idx] = intset.New(elems...)
	}

	return vo, nil
}

func decodeMembersByDim(in map[string][]uint32) (map[uint32]*intset.Set, error) {
	out := make(map[uint32]*intset.Set, len(in))
	for dimStr, elems := range in {
		dim, err := strconv.ParseUint(dimStr, 10, 32)
		if err != nil {
			return nil, err
		}
		out[uint32(dim)] = intset.New(elems...)
	}
	return out, nil
}

func decodeBlockHeadWire(h wireBlockHead) (chainmodel.BlockHead, error) {
	prevHash, err := digest.FromHex(h.PrevHash)
	if err != nil {
		return chainmodel.BlockHead{}, fmt.Errorf("block_heads[%d].prev_hash: %w", h.Height, err)
	}
	adsRoot, err := digest.FromHex(h.AdsRoot)
	if err != nil {
		return chainmodel.BlockHead{}, fmt.Errorf("block_heads[%d].ads_root: %w", h.Height, err)
	}
	objRoot, err := digest.FromHex(h.ObjRootHash)
	if err != nil {
		return chainmodel.BlockHead{}, fmt.Errorf("block_heads[%d].obj_root_hash: %w", h.Height, err)
	}
	return chainmodel.BlockHead{Height: h.Height, PrevHash: prevHash, AdsRoot: adsRoot, ObjRootHash: objRoot}, nil
}

func parseIndex(s string) (querydag.NodeIndex, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid node index %q: %w", s, err)
	}
	return querydag.NodeIndex(v), nil
}

func parseObjID(s string) (indexproof.ObjID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid object id %q: %w", s, err)
	}
	return indexproof.ObjID(v), nil
}
