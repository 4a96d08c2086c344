// Copyright 2025 Certen Protocol
//
// Package querydag defines the query DAG the verifier walks and the
// Verification Object (VO) that parallels it: prover-supplied proof
// material keyed by DAG node index.

package querydag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/certen/vchainplus/pkg/accumulator"
	"github.com/certen/vchainplus/pkg/digest"
	"github.com/certen/vchainplus/pkg/indexproof"
	"github.com/certen/vchainplus/pkg/intset"
)

// NodeIndex addresses a node within a DAG.
type NodeIndex uint32

// NodeKind tags a DagNode's variant.
type NodeKind int

const (
	KindRange NodeKind = iota
	KindKeyword
	KindBlkRt
	KindUnion
	KindIntersec
	KindDiff
)

func (k NodeKind) String() string {
	switch k {
	case KindRange:
		return "Range"
	case KindKeyword:
		return "Keyword"
	case KindBlkRt:
		return "BlkRt"
	case KindUnion:
		return "Union"
	case KindIntersec:
		return "Intersec"
	case KindDiff:
		return "Diff"
	default:
		return "Unknown"
	}
}

// isLeaf reports whether k takes zero children.
func (k NodeKind) isLeaf() bool {
	return k == KindRange || k == KindKeyword || k == KindBlkRt
}

// MarshalJSON encodes a NodeKind as its lower-case name.
func (k NodeKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strings.ToLower(k.String()) + `"`), nil
}

// UnmarshalJSON decodes what MarshalJSON produced.
func (k *NodeKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "range":
		*k = KindRange
	case "keyword":
		*k = KindKeyword
	case "blkrt":
		*k = KindBlkRt
	case "union":
		*k = KindUnion
	case "intersec":
		*k = KindIntersec
	case "diff":
		*k = KindDiff
	default:
		return fmt.Errorf("querydag: unknown node kind %q", s)
	}
	return nil
}

// BinaryEdge is the resolved two-child adjacency record for a binary
// operator node, built once at DAG-construction time. This removes the
// ambiguity of re-deriving "first vs second child" from a graph library's
// neighbor-iteration order at verify time: the edge labelled true in the
// source representation is always First.
type BinaryEdge struct {
	First, Second NodeIndex
}

// DagNode is one node of the query DAG. Exactly one of the payload fields
// is meaningful, selected by Kind.
type DagNode struct {
	Kind NodeKind

	// Leaf payloads.
	Range     indexproof.Range // KindRange
	Keyword   string           // KindKeyword
	BlkHeight uint32           // KindRange / KindKeyword / KindBlkRt

	// Binary-operator payload.
	Children *BinaryEdge // KindUnion / KindIntersec / KindDiff

	// Final marks whether this node is a "final" flavour of its operator:
	// it additionally produces an explicit, authoritative Set.
	Final bool
}

// DAG is an immutable, indexed collection of nodes with a single sink.
type DAG struct {
	nodes []DagNode
	sink  NodeIndex
}

// NewDAG validates and wraps nodes, rejecting a malformed structure:
// a binary node with no resolved edge, two edges to the same child, or a
// child index that does not precede the node (which also rules out
// self-loops and out-of-range child indices).
func NewDAG(nodes []DagNode, sink NodeIndex) (*DAG, error) {
	if int(sink) >= len(nodes) {
		return nil, fmt.Errorf("querydag: %w: sink index %d out of range", ErrMalformed, sink)
	}
	for i, n := range nodes {
		if n.Kind.isLeaf() {
			continue
		}
		if n.Children == nil {
			return nil, fmt.Errorf("querydag: %w: node %d (%s) has no resolved children", ErrMalformed, i, n.Kind)
		}
		if n.Children.First == n.Children.Second {
			return nil, fmt.Errorf("querydag: %w: node %d has parallel edges to child %d", ErrMalformed, i, n.Children.First)
		}
		for _, c := range []NodeIndex{n.Children.First, n.Children.Second} {
			if int(c) >= i {
				return nil, fmt.Errorf("querydag: %w: node %d has a child %d that does not precede it", ErrMalformed, i, c)
			}
		}
	}
	return &DAG{nodes: append([]DagNode(nil), nodes...), sink: sink}, nil
}

// Node returns the node at idx.
func (d *DAG) Node(idx NodeIndex) (DagNode, error) {
	if int(idx) >= len(d.nodes) {
		return DagNode{}, fmt.Errorf("querydag: %w: node index %d out of range", ErrMalformed, idx)
	}
	return d.nodes[idx], nil
}

// Len returns the node count.
func (d *DAG) Len() int { return len(d.nodes) }

// Sink returns the terminal node index.
func (d *DAG) Sink() NodeIndex { return d.sink }

// VoLeafEntry is the proof material attached to a leaf node.
type VoLeafEntry struct {
	Acc     accumulator.AccValue
	WinSize uint16

	// RangeProof is populated for a KindRange leaf and KeywordProof for a
	// KindKeyword leaf; a KindBlkRt leaf carries neither.
	RangeProof   indexproof.RangeProof
	KeywordProof indexproof.KeywordProof
}

// VoOpEntry is the proof material attached to an internal (operator)
// node. Exactly one of Union/Intersection/Difference is populated,
// matching the node's NodeKind (nil is valid for the empty-operand
// short-circuit cases). Acc is the prover-asserted combined accumulator
// for an intermediate node; it is unused when the node is final, since a
// final node's accumulator is instead recomputed from its explicit
// OutputSets entry.
type VoOpEntry struct {
	Acc accumulator.AccValue

	Union        *accumulator.UnionProof
	Intersection *accumulator.IntersectionProof
	Difference   *accumulator.DifferenceProof
}

// MerkleProofRecord is the per-height proof record referenced in step 3
// of the verifier: the sibling B+-tree roots not already reconstructed
// from Range nodes, the per-window ads_hashes, and the block's two
// top-level component hashes (id_tree_root_hash is optional: when absent
// the verifier derives it from the DAG-wide id_tree_proof instead).
type MerkleProofRecord struct {
	ExtraBplusRootHashes map[uint32]digest.Digest // dim -> root hash, for dims with no Range leaf this height
	AdsHashes            map[uint16]digest.Digest // window size -> single_ads_hash
	IDSetRootHash        digest.Digest
	IDTreeRootHash       *digest.Digest // optional override
}

// VO is the Verification Object: prover-supplied material parallel to a
// DAG.
type VO struct {
	// QueryID correlates a VO with the client query that produced it,
	// threaded through prover and verifier logs. A zero UUID means the
	// prover did not assign one; NewVO always fills it in.
	QueryID uuid.UUID

	Leaves        map[NodeIndex]VoLeafEntry
	Ops           map[NodeIndex]VoOpEntry
	MerkleProofs  map[uint32]MerkleProofRecord
	TrieProofs    map[uint32]indexproof.KeywordProof
	IDTreeProof   indexproof.IDTreeProof
	CurObjIDCount uint64
	OutputSets    map[NodeIndex]*intset.Set
}

// NewVO builds a VO with a freshly assigned QueryID, leaving every other
// field at its zero value for the caller to populate.
func NewVO() *VO {
	return &VO{QueryID: uuid.New()}
}

// ErrMalformed is returned for any structural defect in a DAG or VO:
// missing node, wrong child count, or a VO variant that does not match
// its DAG node's variant.
var ErrMalformed = fmt.Errorf("vo malformed")
