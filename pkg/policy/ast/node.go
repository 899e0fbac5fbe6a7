package ast

import "sort"

// PolicyNode is one node of a canonical policy tree. Mapping nodes carry
// Children; leaf nodes carry Value. Every node records the document that
// contributed it, the document's priority, and an optional merge-strategy
// annotation stripped from the raw key by the normalizer.
type PolicyNode struct {
	// Key is the canonical path segment of this node ("" for the root).
	Key string

	// Value is the leaf value (scalar or list). Nil for mapping nodes.
	Value interface{}

	// Children holds child nodes keyed by canonical segment. Nil for leaves.
	Children map[string]*PolicyNode

	// SourceID identifies the contributing document.
	SourceID string

	// Priority is the contributing document's explicit priority (0 when
	// unspecified).
	Priority int

	// Strategy is the field-level merge-strategy annotation, StrategyUnset
	// when the key carried none.
	Strategy MergeStrategy
}

// IsLeaf returns true if the node holds a value rather than children.
func (n *PolicyNode) IsLeaf() bool {
	return n.Children == nil
}

// ChildKeys returns the node's child segments in sorted order, so traversal
// order never depends on map iteration.
func (n *PolicyNode) ChildKeys() []string {
	if len(n.Children) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Children))
	for key := range n.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lookup walks a canonical dotted path from this node and returns the node
// at that path, or nil if any segment is missing.
func (n *PolicyNode) Lookup(path string) *PolicyNode {
	current := n
	for _, segment := range SplitPath(path) {
		if current.Children == nil {
			return nil
		}
		child, ok := current.Children[segment]
		if !ok {
			return nil
		}
		current = child
	}
	return current
}

// Walk visits every leaf under the node in sorted path order, calling fn
// with the leaf's full dotted path (relative to this node).
func (n *PolicyNode) Walk(fn func(path string, leaf *PolicyNode)) {
	n.walk("", fn)
}

func (n *PolicyNode) walk(prefix string, fn func(path string, leaf *PolicyNode)) {
	if n.IsLeaf() {
		fn(prefix, n)
		return
	}
	for _, key := range n.ChildKeys() {
		n.Children[key].walk(JoinPath(prefix, key), fn)
	}
}

// LeafCount returns the number of leaves under the node.
func (n *PolicyNode) LeafCount() int {
	count := 0
	n.Walk(func(string, *PolicyNode) {
		count++
	})
	return count
}
