// Copyright 2025 Certen Protocol
//
// Package verifier implements the query-DAG verifier (C10): it walks a
// DAG alongside its Verification Object, reconstructs each touched
// block's committed ads_root, and checks the claimed result set against
// what the VO actually authorizes.

package verifier

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/certen/vchainplus/pkg/accumulator"
	"github.com/certen/vchainplus/pkg/adsroot"
	"github.com/certen/vchainplus/pkg/chainmodel"
	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/indexproof"
	"github.com/certen/vchainplus/pkg/intset"
	"github.com/certen/vchainplus/pkg/querydag"
)

// Parameter is the chain-wide set of values the verifier needs from the
// external chain's read interface.
type Parameter struct {
	MaxIDNum     uint32
	IDTreeFanout uint8
	Q            uint32
}

// ChainReader is the read-only contract the verifier consumes to bind a
// reconstructed commitment against what the chain actually committed to.
type ChainReader interface {
	ReadBlockHead(height uint32) (chainmodel.BlockHead, error)
	GetParameter() (Parameter, error)
}

// VOSize breaks the Verification Object's estimated wire footprint down by
// component, mirroring verify.rs's VOSize::AddAssign accumulation.
type VOSize struct {
	VODagS     int // leaf accumulators + operator witnesses
	TrieProofS int // per-block trie root material
	IDProofS   int // id-tree authentication paths
	CurIDS     int // cur_obj_id_count encoding
	MerkleS    int // per-block merkle proof records
	TotalS     int
}

// Add accumulates other into v, field by field, including TotalS.
func (v VOSize) Add(other VOSize) VOSize {
	return VOSize{
		VODagS:     v.VODagS + other.VODagS,
		TrieProofS: v.TrieProofS + other.TrieProofS,
		IDProofS:   v.IDProofS + other.IDProofS,
		CurIDS:     v.CurIDS + other.CurIDS,
		MerkleS:    v.MerkleS + other.MerkleS,
		TotalS:     v.TotalS + other.TotalS,
	}
}

// VerifyInfo is returned alongside a successful verification.
type VerifyInfo struct {
	QueryID    uuid.UUID
	VOSize     VOSize
	VerifyTime time.Duration
}

// Verifier ties an accumulator public key to a chain reader.
type Verifier struct {
	pk    *accumulator.AccPublicKey
	chain ChainReader
}

// New builds a Verifier.
func New(pk *accumulator.AccPublicKey, chain ChainReader) *Verifier {
	return &Verifier{pk: pk, chain: chain}
}

type blockAccum struct {
	bplusRoots map[uint32]digest.Digest // dim -> root hash, from verified Range leaves
	winSize    uint16
}

// Verify checks resultContent against vo and dag, per the verifier's
// five-step contract: DAG walk, ID-tree check, per-block reconstruction,
// set equality, and a VerifyInfo summary.
func (v *Verifier) Verify(
	resultContent map[indexproof.ObjID]digest.Digestible,
	vo *querydag.VO,
	dag *querydag.DAG,
) (VerifyInfo, error) {
	start := time.Now()

	param, err := v.chain.GetParameter()
	if err != nil {
		return VerifyInfo{}, &Error{Kind: KindChainReadError, Field: "get_parameter", Msg: err.Error()}
	}

	// --- Step 1: DAG walk ---------------------------------------------
	//
	// Nodes are processed in index order: NewDAG already requires every
	// binary node's children to have a strictly smaller index than the
	// node itself, so by the time a node is reached both its children's
	// accumulators are already in acc.
	perBlock := make(map[uint32]*blockAccum)
	acc := make(map[querydag.NodeIndex]accumulator.AccValue, dag.Len())

	for i := 0; i < dag.Len(); i++ {
		idx := querydag.NodeIndex(i)
		node, err := dag.Node(idx)
		if err != nil {
			return VerifyInfo{}, newErr(KindVoMalformed, "dag", "%v", err)
		}

		var nodeAcc accumulator.AccValue
		switch node.Kind {
		case querydag.KindRange:
			entry, ok := vo.Leaves[idx]
			if !ok || entry.RangeProof == nil {
				return VerifyInfo{}, newErr(KindVoMalformed, "vo.leaves", "missing range proof for node %d", idx)
			}
			rootHash, err := entry.RangeProof.Verify(node.Range, entry.Acc, v.pk)
			if err != nil {
				return VerifyInfo{}, newErr(KindProofFailed, "range_proof", "node %d: %v", idx, err)
			}
			recordBlock(perBlock, node.BlkHeight, entry.WinSize).bplusRoots[node.Range.Dim] = rootHash
			nodeAcc = entry.Acc

		case querydag.KindKeyword:
			entry, ok := vo.Leaves[idx]
			if !ok || entry.KeywordProof == nil {
				return VerifyInfo{}, newErr(KindVoMalformed, "vo.leaves", "missing keyword proof for node %d", idx)
			}
			if err := entry.KeywordProof.VerifyAcc(entry.Acc, node.Keyword, v.pk); err != nil {
				return VerifyInfo{}, newErr(KindProofFailed, "keyword_proof", "node %d: %v", idx, err)
			}
			recordBlock(perBlock, node.BlkHeight, entry.WinSize)
			nodeAcc = entry.Acc

		case querydag.KindBlkRt:
			entry, ok := vo.Leaves[idx]
			if !ok {
				return VerifyInfo{}, newErr(KindVoMalformed, "vo.leaves", "missing entry for node %d", idx)
			}
			recordBlock(perBlock, node.BlkHeight, entry.WinSize)
			nodeAcc = entry.Acc

		case querydag.KindUnion, querydag.KindIntersec, querydag.KindDiff:
			if node.Children == nil {
				return VerifyInfo{}, newErr(KindVoMalformed, "dag", "node %d has no children", idx)
			}
			accFirst, ok := acc[node.Children.First]
			if !ok {
				return VerifyInfo{}, newErr(KindVoMalformed, "dag", "node %d's first child %d not yet computed", idx, node.Children.First)
			}
			accSecond, ok := acc[node.Children.Second]
			if !ok {
				return VerifyInfo{}, newErr(KindVoMalformed, "dag", "node %d's second child %d not yet computed", idx, node.Children.Second)
			}

			op, ok := vo.Ops[idx]
			if !ok {
				return VerifyInfo{}, newErr(KindVoMalformed, "vo.ops", "missing operator entry for node %d", idx)
			}

			var err error
			nodeAcc, err = verifyOp(node, accFirst, accSecond, op, vo, idx, v.pk)
			if err != nil {
				return VerifyInfo{}, err
			}

		default:
			return VerifyInfo{}, newErr(KindVoMalformed, "dag", "unknown node kind at %d", idx)
		}

		acc[idx] = nodeAcc
	}

	// --- Step 2: ID-tree check -----------------------------------------
	for id, obj := range resultContent {
		target := indexproof.ObjHash(obj, id)
		if err := vo.IDTreeProof.VerifyValue(target, id, uint64(param.MaxIDNum), uint32(param.IDTreeFanout)); err != nil {
			return VerifyInfo{}, newErr(KindProofFailed, "id_tree_proof", "id %d: %v", id, err)
		}
	}
	derivedIDTreeRootHash := idTreeRootHashDerived(vo.CurObjIDCount, vo.IDTreeProof.RootHash())

	// --- Step 3: per-block reconstruction --------------------------------
	for height, block := range perBlock {
		record, ok := vo.MerkleProofs[height]
		if !ok {
			return VerifyInfo{}, newErrAt(KindVoMalformed, height, "vo.merkle_proofs", "missing merkle proof record")
		}

		merged := make(map[uint32]digest.Digest, len(block.bplusRoots)+len(record.ExtraBplusRootHashes))
		for dim, h := range block.bplusRoots {
			merged[dim] = h
		}
		for dim, h := range record.ExtraBplusRootHashes {
			merged[dim] = h
		}
		dims := make([]uint32, 0, len(merged))
		for dim := range merged {
			dims = append(dims, dim)
		}
		sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
		perDimAsc := make([]digest.Digest, 0, len(dims))
		for _, dim := range dims {
			perDimAsc = append(perDimAsc, merged[dim])
		}
		bplusRootHash := adsroot.BplusRootsHash(perDimAsc)

		trieProof, ok := vo.TrieProofs[height]
		if !ok {
			return VerifyInfo{}, newErrAt(KindVoMalformed, height, "vo.trie_proofs", "missing trie proof")
		}
		trieRootHash := trieProof.RootHash()

		singleADSHash := adsroot.PerWindowADSHash(bplusRootHash, trieRootHash)

		windows := make([]adsroot.WindowADSHash, 0, len(record.AdsHashes)+1)
		for size, h := range record.AdsHashes {
			windows = append(windows, adsroot.WindowADSHash{Size: size, Hash: h})
		}
		windows = append(windows, adsroot.WindowADSHash{Size: block.winSize, Hash: singleADSHash})
		multiADSHash := adsroot.ComputeMultiADSHash(windows)

		idRootHash := derivedIDTreeRootHash
		if record.IDTreeRootHash != nil {
			idRootHash = *record.IDTreeRootHash
		}

		components := adsroot.BlockADSComponents{
			IDSetRootHash:  record.IDSetRootHash,
			IDTreeRootHash: idRootHash,
			MultiADSHash:   multiADSHash,
		}
		computed := components.ComputeRoot()

		head, err := v.chain.ReadBlockHead(height)
		if err != nil {
			return VerifyInfo{}, newErrAt(KindChainReadError, height, "read_block_head", "%v", err)
		}
		if !computed.Equal(head.AdsRoot) {
			return VerifyInfo{}, newErrAt(KindCommitmentMismatch, height, "ads_root",
				"computed %s, chain head has %s", computed, head.AdsRoot)
		}
	}

	// --- Step 4: set equality --------------------------------------------
	resultKeys := intset.New()
	for id := range resultContent {
		resultKeys = intset.Union(resultKeys, intset.New(uint32(id)))
	}
	voKeys := intset.New()
	for _, s := range vo.OutputSets {
		voKeys = intset.Union(voKeys, s)
	}
	if !resultKeys.Equal(voKeys) {
		return VerifyInfo{}, newErr(KindResultMismatch, "result_content",
			"result key set (%d ids) does not equal VO output key set (%d ids)", resultKeys.Len(), voKeys.Len())
	}

	// --- Step 5: summary --------------------------------------------------
	return VerifyInfo{
		QueryID:    vo.QueryID,
		VOSize:     estimateVOSize(vo),
		VerifyTime: time.Since(start),
	}, nil
}

func recordBlock(perBlock map[uint32]*blockAccum, height uint32, winSize uint16) *blockAccum {
	b, ok := perBlock[height]
	if !ok {
		b = &blockAccum{bplusRoots: make(map[uint32]digest.Digest)}
		perBlock[height] = b
	}
	b.winSize = winSize
	return b
}

// verifyOp dispatches a binary operator node to its matching subset-proof
// verification, resolving whether the node is intermediate (the claimed
// accumulator comes from the VO's operator entry) or final (the claimed
// accumulator is recomputed from the authoritative explicit Set).
func verifyOp(
	node querydag.DagNode,
	accFirst, accSecond accumulator.AccValue,
	op querydag.VoOpEntry,
	vo *querydag.VO,
	idx querydag.NodeIndex,
	pk *accumulator.AccPublicKey,
) (accumulator.AccValue, error) {
	if node.Final {
		finalSet, ok := vo.OutputSets[idx]
		if !ok {
			return accumulator.AccValue{}, newErr(KindVoMalformed, "vo.output_sets", "missing explicit set for final node %d", idx)
		}
		var (
			claimed accumulator.AccValue
			err     error
		)
		switch node.Kind {
		case querydag.KindUnion:
			claimed, err = accumulator.VerifyUnionFinal(accFirst, accSecond, finalSet, pk, op.Union)
		case querydag.KindIntersec:
			claimed, err = accumulator.VerifyIntersectionFinal(accFirst, accSecond, finalSet, pk, op.Intersection)
		case querydag.KindDiff:
			claimed, err = accumulator.VerifyDifferenceFinal(accFirst, accSecond, finalSet, pk, op.Difference)
		}
		if err != nil {
			return accumulator.AccValue{}, newErr(KindProofFailed, "subset_proof", "final node %d: %v", idx, err)
		}
		return claimed, nil
	}

	var err error
	switch node.Kind {
	case querydag.KindUnion:
		err = accumulator.VerifyUnionIntermediate(accFirst, accSecond, op.Acc, op.Union)
	case querydag.KindIntersec:
		err = accumulator.VerifyIntersectionIntermediate(accFirst, accSecond, op.Acc, op.Intersection)
	case querydag.KindDiff:
		err = accumulator.VerifyDifferenceIntermediate(accFirst, accSecond, op.Acc, op.Difference)
	}
	if err != nil {
		return accumulator.AccValue{}, newErr(KindProofFailed, "subset_proof", "intermediate node %d: %v", idx, err)
	}
	return op.Acc, nil
}

// idTreeRootHashDerived is the fallback id_tree_root_hash a per-block
// MerkleProofRecord may omit: Blake2(cur_obj_id.to_digest() ∥ id_tree_proof_root).
func idTreeRootHashDerived(curObjIDCount uint64, idTreeProofRoot digest.Digest) digest.Digest {
	id := indexproof.ObjID(curObjIDCount)
	idDigest := id.ToDigest()
	return digest.Sum(idDigest.Bytes(), idTreeProofRoot.Bytes())
}

func estimateVOSize(vo *querydag.VO) VOSize {
	var v VOSize

	for _, leaf := range vo.Leaves {
		v.VODagS += leaf.Acc.EncodedSize() + 2 // + win_size
	}
	for _, op := range vo.Ops {
		v.VODagS += op.Acc.EncodedSize()
		if op.Union != nil {
			v.VODagS += op.Union.Mid.EncodedSize()
		}
		if op.Difference != nil {
			v.VODagS += op.Difference.Mid.EncodedSize()
		}
	}
	for _, s := range vo.OutputSets {
		v.VODagS += 4 * s.Len()
	}

	for range vo.TrieProofs {
		v.TrieProofS += digest.Size
	}

	// The authentication path itself is opaque to the verifier; only the
	// root's contribution to wire size is counted here.
	v.IDProofS += digest.Size

	v.CurIDS += 8 // cur_obj_id_count, u64

	for _, record := range vo.MerkleProofs {
		v.MerkleS += len(record.ExtraBplusRootHashes) * digest.Size
		v.MerkleS += len(record.AdsHashes) * (digest.Size + 2)
		v.MerkleS += digest.Size
		if record.IDTreeRootHash != nil {
			v.MerkleS += digest.Size
		}
	}

	v.TotalS = v.VODagS + v.TrieProofS + v.IDProofS + v.CurIDS + v.MerkleS
	return v
}
