package ast

import (
	"reflect"
	"testing"
)

func testTree() *PolicyNode {
	return &PolicyNode{
		Children: map[string]*PolicyNode{
			"clauses": {
				Key: "clauses",
				Children: map[string]*PolicyNode{
					"kill-fee":      {Key: "kill-fee", Value: "50%", SourceID: "base"},
					"payment-terms": {Key: "payment-terms", Value: 30, SourceID: "team"},
				},
			},
			"metadata": {
				Key: "metadata",
				Children: map[string]*PolicyNode{
					"version": {Key: "version", Value: 2, SourceID: "base"},
				},
			},
		},
	}
}

func TestPolicyNode_Lookup(t *testing.T) {
	root := testTree()

	node := root.Lookup("clauses.kill-fee")
	if node == nil {
		t.Fatal("Lookup(clauses.kill-fee) = nil, want node")
	}
	if node.Value != "50%" {
		t.Errorf("node.Value = %v, want %q", node.Value, "50%")
	}

	if got := root.Lookup("clauses.missing"); got != nil {
		t.Errorf("Lookup(clauses.missing) = %v, want nil", got)
	}
	if got := root.Lookup("clauses.kill-fee.deeper"); got != nil {
		t.Errorf("Lookup below a leaf = %v, want nil", got)
	}

	// Empty path returns the node itself.
	if got := root.Lookup(""); got != root {
		t.Error("Lookup(\"\") did not return the receiver")
	}
}

func TestPolicyNode_WalkOrder(t *testing.T) {
	root := testTree()

	var paths []string
	root.Walk(func(path string, leaf *PolicyNode) {
		paths = append(paths, path)
	})

	want := []string{"clauses.kill-fee", "clauses.payment-terms", "metadata.version"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Walk order = %v, want %v", paths, want)
	}
}

func TestPolicyNode_LeafCount(t *testing.T) {
	if got := testTree().LeafCount(); got != 3 {
		t.Errorf("LeafCount() = %d, want 3", got)
	}
}
