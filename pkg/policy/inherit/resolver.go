package inherit

import (
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
)

// DefaultMaxDepth bounds inheritance chain length when no explicit limit is
// configured.
const DefaultMaxDepth = 32

// Resolver walks declared parent references to build resolution chains.
type Resolver struct {
	registry *Registry
	maxDepth int
}

// NewResolver creates a resolver over a registry. A maxDepth of zero or less
// selects DefaultMaxDepth.
func NewResolver(registry *Registry, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{
		registry: registry,
		maxDepth: maxDepth,
	}
}

// ResolveChain builds the resolution chain for a target document, ordered
// root-most ancestor first, target last. It fails with CycleDetectedError,
// UnknownParentError, UnknownTargetError, or DepthExceededError; no partial
// chain is returned on error.
func (r *Resolver) ResolveChain(target string) (ast.ResolutionChain, error) {
	doc, ok := r.registry.Get(target)
	if !ok {
		return nil, &policyErrors.UnknownTargetError{Target: target}
	}

	// walk is the active path, target first. visiting tracks membership for
	// cycle detection in O(1).
	walk := []string{target}
	visiting := map[string]bool{target: true}
	chain := ast.ResolutionChain{doc}

	current := doc
	for current.HasParent() {
		parentName := current.ParentRef

		if visiting[parentName] {
			return nil, &policyErrors.CycleDetectedError{
				Target: target,
				Cycle:  cyclePath(walk, parentName),
			}
		}

		parent, ok := r.registry.Get(parentName)
		if !ok {
			return nil, &policyErrors.UnknownParentError{
				SourceID:  current.SourceID,
				ParentRef: parentName,
			}
		}

		walk = append(walk, parentName)
		visiting[parentName] = true

		if len(walk) > r.maxDepth {
			return nil, &policyErrors.DepthExceededError{
				Target:   target,
				Depth:    len(walk),
				MaxDepth: r.maxDepth,
			}
		}

		// Prepend so the chain ends up root-first.
		chain = append(ast.ResolutionChain{parent}, chain...)
		current = parent
	}

	return chain, nil
}

// cyclePath extracts the cycle from the active walk: the segment from the
// first occurrence of the repeated name, closed by the repeat itself.
func cyclePath(walk []string, repeated string) []string {
	start := 0
	for i, name := range walk {
		if name == repeated {
			start = i
			break
		}
	}

	cycle := make([]string, 0, len(walk)-start+1)
	cycle = append(cycle, walk[start:]...)
	cycle = append(cycle, repeated)
	return cycle
}

// MaxDepth returns the configured chain length bound.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}
