// Package merge folds an ordered set of policy documents into a single
// effective policy.
//
// The engine walks the union of all paths present across its inputs. For
// each leaf path it selects the effective merge strategy once (field-level
// annotation, then document default, then the engine's global default) and
// applies that strategy's combine rule. Decisions that involve competing
// values pass through the conflict resolver, which emits an audit
// ConflictRecord whether it picks a winner or fails. The result is an
// immutable EffectivePolicy whose every leaf names the document that
// contributed it.
//
// The engine is deterministic: identical inputs in identical order produce
// an identical tree and an identical conflict list. Independent top-level
// subtrees may be merged concurrently; contributions at any single path are
// never reordered.
package merge
