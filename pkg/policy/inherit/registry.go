package inherit

import (
	"fmt"
	"sort"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

// Registry is a read-only lookup of the policy documents supplied for one
// resolution request. Callers must treat the underlying documents as
// immutable for the duration of the request.
type Registry struct {
	byName map[string]*ast.PolicyDocument
	docs   []*ast.PolicyDocument
}

// NewRegistry builds a registry from a document set. Two documents sharing a
// source id is a hard error: lookup by name would be ambiguous.
func NewRegistry(docs []*ast.PolicyDocument) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*ast.PolicyDocument, len(docs)),
		docs:   make([]*ast.PolicyDocument, 0, len(docs)),
	}

	for _, doc := range docs {
		if _, exists := r.byName[doc.SourceID]; exists {
			return nil, fmt.Errorf("duplicate document source id %q", doc.SourceID)
		}
		r.byName[doc.SourceID] = doc
		r.docs = append(r.docs, doc)
	}

	return r, nil
}

// Get returns the document with the given source id.
func (r *Registry) Get(name string) (*ast.PolicyDocument, bool) {
	doc, ok := r.byName[name]
	return doc, ok
}

// Names returns all registered source ids in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Documents returns the documents in declaration order.
func (r *Registry) Documents() []*ast.PolicyDocument {
	ordered := make([]*ast.PolicyDocument, len(r.docs))
	copy(ordered, r.docs)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	return len(r.docs)
}
