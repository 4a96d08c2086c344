// Copyright 2025 Certen Protocol

package verifier

import (
	"testing"

	"github.com/certen/vchainplus/pkg/accumulator"
	"github.com/certen/vchainplus/pkg/adsroot"
	"github.com/certen/vchainplus/pkg/chainmodel"
	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/indexproof"
	"github.com/certen/vchainplus/pkg/indexproof/testutil"
	"github.com/certen/vchainplus/pkg/intset"
	"github.com/certen/vchainplus/pkg/querydag"
)

const testWinSize uint16 = 16

type fakeChainReader struct {
	heads map[uint32]chainmodel.BlockHead
	param Parameter
}

func (f *fakeChainReader) ReadBlockHead(height uint32) (chainmodel.BlockHead, error) {
	h, ok := f.heads[height]
	if !ok {
		return chainmodel.BlockHead{}, &Error{Kind: KindChainReadError, Field: "height", Msg: "no such block"}
	}
	return h, nil
}

func (f *fakeChainReader) GetParameter() (Parameter, error) { return f.param, nil }

// fixture builds a one-block, two-dimension-range-leaf union query (S-dag-1's
// shape: two Range leaves feeding a final Union node whose output set is
// {1,3,5}) along with a chain head whose ads_root matches the VO exactly.
func fixture(t *testing.T) (*Verifier, map[indexproof.ObjID]digest.Digestible, *querydag.VO, *querydag.DAG, digest.Digest) {
	t.Helper()
	const q = 10
	const height = 1

	sk, err := accumulator.RandAccSecretKey()
	if err != nil {
		t.Fatalf("RandAccSecretKey: %v", err)
	}
	skc, err := accumulator.NewAccSecretKeyWithPowCache(sk, q)
	if err != nil {
		t.Fatalf("NewAccSecretKeyWithPowCache: %v", err)
	}
	pk, err := accumulator.GenKey(skc, q)
	if err != nil {
		t.Fatalf("GenKey: %v", err)
	}

	aSet := intset.New(1, 3)
	bSet := intset.New(5)
	finalSet := intset.Union(aSet, bSet)

	accA, err := accumulator.FromSet(aSet, pk)
	if err != nil {
		t.Fatalf("FromSet(a): %v", err)
	}
	accB, err := accumulator.FromSet(bSet, pk)
	if err != nil {
		t.Fatalf("FromSet(b): %v", err)
	}

	rangeProof := testutil.NewFakeRangeProof(map[uint32]*intset.Set{0: aSet, 1: bSet})

	nodes := []querydag.DagNode{
		{Kind: querydag.KindRange, Range: indexproof.Range{Dim: 0, Lo: 1, Hi: 3, BlkHeight: height}, BlkHeight: height},
		{Kind: querydag.KindRange, Range: indexproof.Range{Dim: 1, Lo: 5, Hi: 5, BlkHeight: height}, BlkHeight: height},
		{Kind: querydag.KindUnion, Final: true, Children: &querydag.BinaryEdge{First: 0, Second: 1}},
	}
	dag, err := querydag.NewDAG(nodes, 2)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}

	unionProof, resultAcc, err := accumulator.ProveUnion(skc, pk, q, aSet, bSet)
	if err != nil {
		t.Fatalf("ProveUnion: %v", err)
	}
	wantFinalAcc, err := accumulator.FromSet(finalSet, pk)
	if err != nil {
		t.Fatalf("FromSet(final): %v", err)
	}
	if !resultAcc.Equal(wantFinalAcc) {
		t.Fatalf("ProveUnion result does not match the direct accumulator of the union set")
	}

	objs := map[indexproof.ObjID]digest.Digestible{
		1: digest.Sum([]byte("obj-1")),
		3: digest.Sum([]byte("obj-3")),
		5: digest.Sum([]byte("obj-5")),
	}
	leaves := make(map[indexproof.ObjID]digest.Digest, len(objs))
	for id, obj := range objs {
		leaves[id] = indexproof.ObjHash(obj, id)
	}
	idTreeProof := testutil.NewFakeIDTreeProof(leaves)
	trieProof := testutil.NewFakeKeywordProof("unused", intset.New())

	const curObjIDCount = 5
	idSetRootHash := digest.Sum([]byte("id-set-root"))

	vo := &querydag.VO{
		Leaves: map[querydag.NodeIndex]querydag.VoLeafEntry{
			0: {Acc: accA, WinSize: testWinSize, RangeProof: rangeProof},
			1: {Acc: accB, WinSize: testWinSize, RangeProof: rangeProof},
		},
		Ops: map[querydag.NodeIndex]querydag.VoOpEntry{
			2: {Union: unionProof},
		},
		MerkleProofs: map[uint32]querydag.MerkleProofRecord{
			height: {
				IDSetRootHash: idSetRootHash,
			},
		},
		TrieProofs: map[uint32]indexproof.KeywordProof{
			height: trieProof,
		},
		IDTreeProof:   idTreeProof,
		CurObjIDCount: curObjIDCount,
		OutputSets: map[querydag.NodeIndex]*intset.Set{
			2: finalSet,
		},
	}

	bplusRootHash := adsroot.BplusRootsHash([]digest.Digest{rangeProof.Root, rangeProof.Root})
	singleADSHash := adsroot.PerWindowADSHash(bplusRootHash, trieProof.RootHash())
	multiADSHash := adsroot.ComputeMultiADSHash([]adsroot.WindowADSHash{{Size: testWinSize, Hash: singleADSHash}})
	idRootHash := idTreeRootHashDerived(curObjIDCount, idTreeProof.RootHash())
	components := adsroot.BlockADSComponents{
		IDSetRootHash:  idSetRootHash,
		IDTreeRootHash: idRootHash,
		MultiADSHash:   multiADSHash,
	}
	expectedRoot := components.ComputeRoot()

	chain := &fakeChainReader{
		heads: map[uint32]chainmodel.BlockHead{
			height: {Height: height, AdsRoot: expectedRoot},
		},
		param: Parameter{MaxIDNum: 8, IDTreeFanout: 2, Q: q},
	}

	return New(pk, chain), objs, vo, dag, expectedRoot
}

// TestVerifyEndToEndUnion covers S-dag-1: a two-leaf Range union resolving
// to the final output set {1,3,5}, verified end to end against a chain head
// whose ads_root was honestly derived from the same VO.
func TestVerifyEndToEndUnion(t *testing.T) {
	v, objs, vo, dag, _ := fixture(t)

	info, err := v.Verify(objs, vo, dag)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if info.VOSize.TotalS <= 0 {
		t.Fatalf("expected a positive VOSize.TotalS estimate, got %d", info.VOSize.TotalS)
	}
	if info.VOSize.TotalS != info.VOSize.VODagS+info.VOSize.TrieProofS+info.VOSize.IDProofS+info.VOSize.CurIDS+info.VOSize.MerkleS {
		t.Fatalf("VOSize.TotalS does not equal the sum of its components")
	}
}

// TestVerifyRejectsTamperedCommitment covers S-dag-2: flipping a bit in the
// chain's stored ads_root for the touched height must make Verify abort with
// CommitmentMismatch rather than silently accept.
func TestVerifyRejectsTamperedCommitment(t *testing.T) {
	v, objs, vo, dag, expectedRoot := fixture(t)

	tampered := expectedRoot
	tampered[0] ^= 0x01
	v.chain.(*fakeChainReader).heads[1] = chainmodel.BlockHead{Height: 1, AdsRoot: tampered}

	_, err := v.Verify(objs, vo, dag)
	if err == nil {
		t.Fatalf("expected a commitment mismatch, got nil error")
	}
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if verr.Kind != KindCommitmentMismatch {
		t.Fatalf("expected KindCommitmentMismatch, got %s", verr.Kind)
	}
}

// TestVerifyRejectsResultMismatch covers a result-set tampering case: the
// caller's result_content drops an id the VO's output set still contains.
func TestVerifyRejectsResultMismatch(t *testing.T) {
	v, objs, vo, dag, _ := fixture(t)
	delete(objs, 5)

	_, err := v.Verify(objs, vo, dag)
	if err == nil {
		t.Fatalf("expected a result mismatch, got nil error")
	}
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if verr.Kind != KindResultMismatch && verr.Kind != KindProofFailed {
		t.Fatalf("expected KindResultMismatch (or an id-tree proof failure), got %s", verr.Kind)
	}
}
