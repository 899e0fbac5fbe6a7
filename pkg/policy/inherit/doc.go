// Package inherit resolves declared inheritance chains across a set of
// policy documents.
//
// A Registry holds the document set for one resolution request, keyed by
// source id. The Resolver walks parent references from a target document,
// producing a ResolutionChain ordered root-most ancestor first. The walk
// tracks the active path so cycles are reported with their full path, and a
// configurable depth bound terminates runaway graphs. No partial chains are
// returned on error.
package inherit
