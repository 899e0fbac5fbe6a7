// Package ast defines the canonical data model for policy resolution.
//
// Raw policy documents arrive as nested maps produced by a front-end parser.
// The normalizer converts them into PolicyNode trees whose keys are canonical
// dotted-path segments and whose leaves carry source, priority, and
// merge-strategy metadata. PolicyDocument wraps a tree with its declared
// metadata (source id, parent reference, default strategy, declaration
// order), and ResolutionChain is the ordered ancestor-to-target sequence the
// merge engine folds into an effective policy.
//
// The types in this package are plain data: they perform no I/O, hold no
// global state, and are safe to share between concurrent resolutions as long
// as callers treat them as immutable once built.
package ast
