// Copyright 2025 Certen Protocol

package querydag

import "testing"

func TestNewDAGRejectsSelfLoop(t *testing.T) {
	nodes := []DagNode{
		{Kind: KindRange},
		{Kind: KindUnion, Children: &BinaryEdge{First: 0, Second: 1}},
	}
	if _, err := NewDAG(nodes, 1); err == nil {
		t.Fatalf("expected a self-loop child edge to be rejected")
	}
}

func TestNewDAGRejectsMissingChildren(t *testing.T) {
	nodes := []DagNode{
		{Kind: KindRange},
		{Kind: KindRange},
		{Kind: KindUnion},
	}
	if _, err := NewDAG(nodes, 2); err == nil {
		t.Fatalf("expected a binary node with no resolved children to be rejected")
	}
}

func TestNewDAGAcceptsValidStructure(t *testing.T) {
	nodes := []DagNode{
		{Kind: KindRange},
		{Kind: KindRange},
		{Kind: KindUnion, Final: true, Children: &BinaryEdge{First: 0, Second: 1}},
	}
	dag, err := NewDAG(nodes, 2)
	if err != nil {
		t.Fatalf("NewDAG: %v", err)
	}
	if dag.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dag.Len())
	}
	if dag.Sink() != 2 {
		t.Fatalf("Sink() = %d, want 2", dag.Sink())
	}
}

func TestNewDAGRejectsOutOfRangeSink(t *testing.T) {
	nodes := []DagNode{{Kind: KindRange}}
	if _, err := NewDAG(nodes, 5); err == nil {
		t.Fatalf("expected an out-of-range sink to be rejected")
	}
}
