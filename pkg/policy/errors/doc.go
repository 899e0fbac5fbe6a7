// Package errors defines the typed error taxonomy for policy resolution.
//
// Normalization errors (InvalidPathError, DuplicateKeyError) are fatal for
// the document that produced them. Inheritance errors (CycleDetectedError,
// UnknownParentError, DepthExceededError) are fatal for the target being
// resolved. Merge errors (TypeMismatchError, UnresolvableConflictError) are
// fatal for the affected field unless a fallback strategy is configured.
// Validation findings are not errors at all; they are reported as
// diagnostics by the validator package.
package errors
