package merge

import (
	"encoding/json"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

// EffectivePolicy is the final merged policy tree. It is immutable once
// produced; every leaf is annotated with the source that contributed it.
type EffectivePolicy struct {
	target string
	root   *ast.PolicyNode
}

func newEffectivePolicy(target string, root *ast.PolicyNode) *EffectivePolicy {
	return &EffectivePolicy{target: target, root: root}
}

// Target returns the name of the resolved target (or the joined sibling
// names for a sibling-set merge).
func (p *EffectivePolicy) Target() string {
	return p.target
}

// Root returns the merged tree. Callers must not mutate it.
func (p *EffectivePolicy) Root() *ast.PolicyNode {
	return p.root
}

// Lookup returns the value and contributing source at a canonical dotted
// path. ok is false if the path does not exist or names a mapping.
func (p *EffectivePolicy) Lookup(path string) (value interface{}, sourceID string, ok bool) {
	node := p.root.Lookup(path)
	if node == nil || !node.IsLeaf() {
		return nil, "", false
	}
	return node.Value, node.SourceID, true
}

// Walk visits every leaf in sorted path order.
func (p *EffectivePolicy) Walk(fn func(path string, value interface{}, sourceID string)) {
	p.root.Walk(func(path string, leaf *ast.PolicyNode) {
		fn(path, leaf.Value, leaf.SourceID)
	})
}

// Values returns the tree as a plain nested mapping with bare leaf values.
func (p *EffectivePolicy) Values() map[string]interface{} {
	return valuesOf(p.root)
}

func valuesOf(node *ast.PolicyNode) map[string]interface{} {
	out := make(map[string]interface{}, len(node.Children))
	for _, key := range node.ChildKeys() {
		child := node.Children[key]
		if child.IsLeaf() {
			out[key] = child.Value
		} else {
			out[key] = valuesOf(child)
		}
	}
	return out
}

// AnnotatedLeaf is a leaf value tagged with its contributing source, the
// output contract for audit-aware consumers.
type AnnotatedLeaf struct {
	Value    interface{} `json:"value"`
	SourceID string      `json:"source"`
}

// Annotated returns the tree as a nested mapping whose leaves carry both
// value and contributing source.
func (p *EffectivePolicy) Annotated() map[string]interface{} {
	return annotatedOf(p.root)
}

func annotatedOf(node *ast.PolicyNode) map[string]interface{} {
	out := make(map[string]interface{}, len(node.Children))
	for _, key := range node.ChildKeys() {
		child := node.Children[key]
		if child.IsLeaf() {
			out[key] = AnnotatedLeaf{Value: child.Value, SourceID: child.SourceID}
		} else {
			out[key] = annotatedOf(child)
		}
	}
	return out
}

// MarshalJSON renders the annotated tree. encoding/json sorts map keys, so
// identical policies marshal to identical bytes.
func (p *EffectivePolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Target string                 `json:"target"`
		Policy map[string]interface{} `json:"policy"`
	}{
		Target: p.target,
		Policy: p.Annotated(),
	})
}

// LeafCount returns the number of leaves in the effective policy.
func (p *EffectivePolicy) LeafCount() int {
	return p.root.LeafCount()
}
