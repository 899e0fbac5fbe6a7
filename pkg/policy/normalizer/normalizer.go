package normalizer

import (
	"fmt"
	"sort"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
)

// RawDocument is the input contract from the parsing collaborator: one
// deserialized policy document plus its declared metadata.
type RawDocument struct {
	// SourceID uniquely names the document.
	SourceID string

	// ParentRef names the parent document, "" for roots.
	ParentRef string

	// Priority is the declared priority; nil means unspecified (0).
	Priority *int

	// DefaultStrategy is the declared document-level merge strategy name,
	// "" when the document declares none.
	DefaultStrategy string

	// Tree is the deserialized nested mapping of raw keys to values.
	Tree map[string]interface{}
}

// Normalizer converts raw documents into canonical PolicyDocument trees.
type Normalizer struct{}

// New creates a new Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize canonicalizes a raw document. The order argument is the
// caller-supplied declaration index; it must be a strict total order across
// the document set of one resolution.
func (n *Normalizer) Normalize(raw RawDocument, order int) (*ast.PolicyDocument, error) {
	if raw.SourceID == "" {
		return nil, fmt.Errorf("document at declaration index %d has no source id", order)
	}

	defaultStrategy, err := ast.ParseStrategy(raw.DefaultStrategy)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", raw.SourceID, err)
	}

	priority := 0
	if raw.Priority != nil {
		priority = *raw.Priority
	}

	root := &ast.PolicyNode{
		SourceID: raw.SourceID,
		Priority: priority,
		Children: map[string]*ast.PolicyNode{},
	}

	if err := n.normalizeMapping(raw.Tree, root, "", raw.SourceID, priority); err != nil {
		return nil, err
	}

	return &ast.PolicyDocument{
		SourceID:        raw.SourceID,
		ParentRef:       raw.ParentRef,
		Priority:        priority,
		DefaultStrategy: defaultStrategy,
		Order:           order,
		Root:            root,
	}, nil
}

// normalizeMapping canonicalizes the keys of one mapping level and attaches
// the resulting child nodes to parent. Raw keys are processed in sorted
// order so duplicate reporting is deterministic.
func (n *Normalizer) normalizeMapping(mapping map[string]interface{}, parent *ast.PolicyNode, path, sourceID string, priority int) error {
	rawKeys := make([]string, 0, len(mapping))
	for key := range mapping {
		rawKeys = append(rawKeys, key)
	}
	sort.Strings(rawKeys)

	// Canonical segment -> raw keys that produced it, for collision reporting.
	seen := make(map[string][]string, len(rawKeys))

	for _, rawKey := range rawKeys {
		name, strategy, err := ast.SplitAnnotation(rawKey)
		if err != nil {
			return &policyErrors.InvalidPathError{
				SourceID: sourceID,
				Path:     ast.JoinPath(path, rawKey),
				Cause:    err,
			}
		}

		segment, err := ast.CanonicalizeSegment(name)
		if err != nil {
			return &policyErrors.InvalidPathError{
				SourceID: sourceID,
				Path:     ast.JoinPath(path, rawKey),
				Cause:    err,
			}
		}

		seen[segment] = append(seen[segment], rawKey)
		if len(seen[segment]) > 1 {
			return &policyErrors.DuplicateKeyError{
				SourceID: sourceID,
				Path:     ast.JoinPath(path, segment),
				RawKeys:  seen[segment],
			}
		}

		node := &ast.PolicyNode{
			Key:      segment,
			SourceID: sourceID,
			Priority: priority,
			Strategy: strategy,
		}

		value := mapping[rawKey]
		if child, ok := value.(map[string]interface{}); ok {
			node.Children = map[string]*ast.PolicyNode{}
			if err := n.normalizeMapping(child, node, ast.JoinPath(path, segment), sourceID, priority); err != nil {
				return err
			}
		} else {
			node.Value = value
		}

		parent.Children[segment] = node
	}

	return nil
}

// NormalizeAll normalizes an ordered list of raw documents, assigning each
// its list index as declaration order. The first failing document aborts the
// batch; normalization errors indicate malformed input, not partial results.
func (n *Normalizer) NormalizeAll(raws []RawDocument) ([]*ast.PolicyDocument, error) {
	docs := make([]*ast.PolicyDocument, 0, len(raws))
	for i, raw := range raws {
		doc, err := n.Normalize(raw, i)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
