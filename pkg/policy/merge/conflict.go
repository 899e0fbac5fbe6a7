package merge

import (
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
)

// ReasonCode explains how a per-field merge decision was reached.
type ReasonCode string

const (
	// ReasonOverride: the last contributor in declaration order won.
	ReasonOverride ReasonCode = "override"

	// ReasonUnionCombined: collection values were concatenated and
	// de-duplicated; no single winner.
	ReasonUnionCombined ReasonCode = "union-combined"

	// ReasonPriority: the contributor with the highest explicit priority won.
	ReasonPriority ReasonCode = "priority"

	// ReasonPriorityTie: priorities tied; declaration order decided among
	// the tied contributors.
	ReasonPriorityTie ReasonCode = "priority-tie-order"

	// ReasonIntersectionFallback: intersection contributors disagreed and
	// the configured fallback degraded the field to priority-based merging.
	ReasonIntersectionFallback ReasonCode = "intersection-fallback-priority"

	// ReasonIntersectionMismatch: intersection contributors disagreed and no
	// fallback was configured; the field is unresolvable.
	ReasonIntersectionMismatch ReasonCode = "intersection-mismatch"

	// ReasonIntersectionAbsent: not every document in the merge set provided
	// the field; it is excluded from the intersection.
	ReasonIntersectionAbsent ReasonCode = "intersection-absent"

	// ReasonTypeMismatch: contributors disagreed on the shape of the field
	// in a way the strategy cannot combine.
	ReasonTypeMismatch ReasonCode = "type-mismatch"

	// ReasonPriorityUnresolved: tied contributors shared both priority and
	// declaration index. Declaration order is a strict total order, so this
	// is checked defensively and should not occur.
	ReasonPriorityUnresolved ReasonCode = "priority-unresolved"
)

// Contribution is one document's value for a path, in declaration order.
type Contribution struct {
	// SourceID is the contributing document.
	SourceID string `json:"source_id"`

	// Order is the document's declaration index.
	Order int `json:"order"`

	// Priority is the document's explicit priority (0 when unspecified).
	Priority int `json:"priority"`

	// Value is the contributed value.
	Value interface{} `json:"value"`
}

// ConflictRecord is the audit entry for one per-field merge decision,
// emitted whether the decision picked a winner or failed.
type ConflictRecord struct {
	// Path is the canonical dotted path of the field.
	Path string `json:"path"`

	// Strategy is the effective strategy applied at the field.
	Strategy ast.MergeStrategy `json:"strategy"`

	// Contributors lists the competing contributions in declaration order.
	Contributors []Contribution `json:"contributors"`

	// Winner is the source id of the chosen contributor, "" when the result
	// was combined (union) or the field was unresolvable.
	Winner string `json:"winner,omitempty"`

	// Reason explains the decision.
	Reason ReasonCode `json:"reason"`
}

// ConflictResolver decides fields the per-strategy combine rule cannot
// settle outright and emits the audit record for every decision it makes.
type ConflictResolver struct {
	// fallbackToPriority degrades intersection disagreements to
	// priority-based merging instead of failing the field.
	fallbackToPriority bool
}

// NewConflictResolver creates a conflict resolver. When fallbackToPriority
// is set, intersection disagreements degrade to priority-based resolution.
func NewConflictResolver(fallbackToPriority bool) *ConflictResolver {
	return &ConflictResolver{fallbackToPriority: fallbackToPriority}
}

// ResolveIntersectionMismatch handles intersection contributors that
// disagree. With a fallback configured it degrades to priority-based
// selection; otherwise it fails the field. Either way a record is emitted.
func (r *ConflictResolver) ResolveIntersectionMismatch(path string, contribs []Contribution) (interface{}, ConflictRecord, error) {
	if r.fallbackToPriority {
		winner, reason, err := pickByPriority(path, contribs)
		record := ConflictRecord{
			Path:         path,
			Strategy:     ast.StrategyIntersection,
			Contributors: contribs,
			Reason:       ReasonIntersectionFallback,
		}
		if err != nil {
			record.Reason = reason
			return nil, record, err
		}
		record.Winner = winner.SourceID
		return winner.Value, record, nil
	}

	record := ConflictRecord{
		Path:         path,
		Strategy:     ast.StrategyIntersection,
		Contributors: contribs,
		Reason:       ReasonIntersectionMismatch,
	}
	return nil, record, &policyErrors.UnresolvableConflictError{
		Path:     path,
		Strategy: string(ast.StrategyIntersection),
		Sources:  contributionSources(contribs),
	}
}

// ResolvePriority selects the winner among contributors under the
// priority-based strategy and emits the audit record.
func (r *ConflictResolver) ResolvePriority(path string, contribs []Contribution) (interface{}, ConflictRecord, error) {
	winner, reason, err := pickByPriority(path, contribs)
	record := ConflictRecord{
		Path:         path,
		Strategy:     ast.StrategyPriority,
		Contributors: contribs,
		Reason:       reason,
	}
	if err != nil {
		return nil, record, err
	}
	record.Winner = winner.SourceID
	return winner.Value, record, nil
}

// pickByPriority returns the contributor with the highest explicit priority.
// Ties fall back to declaration order among the tied contributors. A tie in
// both priority and declaration index cannot be broken; declaration order is
// supposed to be a strict total order, so this is a defensive failure.
func pickByPriority(path string, contribs []Contribution) (Contribution, ReasonCode, error) {
	maxPriority := contribs[0].Priority
	for _, c := range contribs[1:] {
		if c.Priority > maxPriority {
			maxPriority = c.Priority
		}
	}

	var tied []Contribution
	for _, c := range contribs {
		if c.Priority == maxPriority {
			tied = append(tied, c)
		}
	}

	if len(tied) == 1 {
		return tied[0], ReasonPriority, nil
	}

	best := tied[0]
	for _, c := range tied[1:] {
		if c.Order > best.Order {
			best = c
		} else if c.Order == best.Order && c.SourceID != best.SourceID {
			return Contribution{}, ReasonPriorityUnresolved, &policyErrors.UnresolvableConflictError{
				Path:     path,
				Strategy: string(ast.StrategyPriority),
				Sources:  contributionSources(contribs),
			}
		}
	}
	return best, ReasonPriorityTie, nil
}

func contributionSources(contribs []Contribution) []string {
	sources := make([]string, len(contribs))
	for i, c := range contribs {
		sources[i] = c.SourceID
	}
	return sources
}
