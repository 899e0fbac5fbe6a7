package ast

// PolicyDocument is one authored unit of policy: a canonical tree plus the
// metadata declared alongside it.
type PolicyDocument struct {
	// SourceID is the unique name of the document.
	SourceID string

	// ParentRef names the document this one inherits from ("" for roots).
	// Parent references across a document set must form a DAG.
	ParentRef string

	// Priority is the document's explicit priority for priority-based
	// merging. Documents without a declared priority carry 0.
	Priority int

	// DefaultStrategy applies to every field of this document that carries
	// no field-level annotation. StrategyUnset falls through to the engine's
	// global default.
	DefaultStrategy MergeStrategy

	// Order is the caller-supplied declaration index used for override and
	// tie-break ordering. It is a strict total order across one resolution's
	// document set, never inferred from map iteration.
	Order int

	// Root is the canonical policy tree.
	Root *PolicyNode
}

// HasParent returns true if the document declares a parent reference.
func (d *PolicyDocument) HasParent() bool {
	return d.ParentRef != ""
}

// ResolutionChain is the ordered sequence of documents used to merge
// inherited policy, root-most ancestor first, target last.
type ResolutionChain []*PolicyDocument

// Names returns the source ids of the chain in order.
func (c ResolutionChain) Names() []string {
	names := make([]string, len(c))
	for i, doc := range c {
		names[i] = doc.SourceID
	}
	return names
}

// Target returns the final document of the chain, or nil for an empty chain.
func (c ResolutionChain) Target() *PolicyDocument {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}
