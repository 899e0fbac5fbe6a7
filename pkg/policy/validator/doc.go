// Package validator checks a merged effective policy against structural
// invariants and optional schema constraints.
//
// Validation never fails fast: every problem found is returned as a
// diagnostic so a single pass surfaces all of them. Diagnostics never abort
// resolution; callers decide how to surface them (the CLI maps error
// severity to a non-zero exit code).
package validator
