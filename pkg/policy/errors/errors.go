package errors

import (
	"fmt"
	"strings"
)

// InvalidPathError reports a malformed key encountered during normalization.
type InvalidPathError struct {
	// SourceID is the document containing the malformed key.
	SourceID string

	// Path is the path at which the malformed key was found.
	Path string

	// Cause is the underlying canonicalization error.
	Cause error
}

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path in document %q at %q: %v", e.SourceID, e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *InvalidPathError) Unwrap() error {
	return e.Cause
}

// DuplicateKeyError reports two sibling keys that canonicalize to the same
// segment within one document.
type DuplicateKeyError struct {
	// SourceID is the document containing the collision.
	SourceID string

	// Path is the canonical path of the colliding key.
	Path string

	// RawKeys are the raw keys that collided after canonicalization.
	RawKeys []string
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key in document %q: keys %v collide at path %q",
		e.SourceID, e.RawKeys, e.Path)
}

// CycleDetectedError reports an inheritance cycle found while walking parent
// references.
type CycleDetectedError struct {
	// Target is the document whose resolution uncovered the cycle.
	Target string

	// Cycle is the full cycle path, starting and ending with the repeated
	// document.
	Cycle []string
}

// Error implements the error interface.
func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("inheritance cycle detected resolving %q: %s",
		e.Target, strings.Join(e.Cycle, " -> "))
}

// UnknownParentError reports a parent reference naming a document absent
// from the supplied document set.
type UnknownParentError struct {
	// SourceID is the document declaring the reference.
	SourceID string

	// ParentRef is the unknown parent name.
	ParentRef string
}

// Error implements the error interface.
func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("document %q references unknown parent %q", e.SourceID, e.ParentRef)
}

// UnknownTargetError reports a resolution request naming a document absent
// from the supplied document set.
type UnknownTargetError struct {
	// Target is the unknown document name.
	Target string
}

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target document %q", e.Target)
}

// DepthExceededError reports an inheritance chain longer than the configured
// maximum depth.
type DepthExceededError struct {
	// Target is the document being resolved.
	Target string

	// Depth is the depth at which the walk was abandoned.
	Depth int

	// MaxDepth is the configured bound.
	MaxDepth int
}

// Error implements the error interface.
func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("inheritance depth %d exceeds maximum %d resolving %q",
		e.Depth, e.MaxDepth, e.Target)
}

// TypeMismatchError reports contributors that disagree on the shape of a
// field in a way the strategy cannot combine (e.g. a scalar mixed with a
// collection under union).
type TypeMismatchError struct {
	// Path is the canonical path of the field.
	Path string

	// Details describes the mismatch.
	Details string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at %q: %s", e.Path, e.Details)
}

// UnresolvableConflictError reports a field whose contributors cannot be
// reconciled under the effective strategy and no fallback is configured.
type UnresolvableConflictError struct {
	// Path is the canonical path of the field.
	Path string

	// Strategy is the strategy that failed to reconcile the field.
	Strategy string

	// Sources are the contributing document ids.
	Sources []string
}

// Error implements the error interface.
func (e *UnresolvableConflictError) Error() string {
	return fmt.Sprintf("unresolvable conflict at %q under %s strategy (sources: %s)",
		e.Path, e.Strategy, strings.Join(e.Sources, ", "))
}

// ErrorList accumulates errors from operations that process multiple
// documents or fields and should surface every failure at once.
type ErrorList struct {
	Errors []error
}

// Error implements the error interface.
func (e *ErrorList) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if the list contains any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.Errors) > 0
}

// ToError returns nil if there are no errors, the single error if there is
// one, or the ErrorList itself if there are multiple errors.
func (e *ErrorList) ToError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return e
}
