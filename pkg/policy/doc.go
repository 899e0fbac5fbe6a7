// Package policy is the façade over the resolution pipeline: normalize,
// resolve inheritance, merge, validate.
//
// Each resolution request is a pure function over its inputs. The resolver
// holds configuration only; it retains no cross-call state, so independent
// requests may run fully in parallel. Callers must treat the document set of
// an in-flight request as immutable.
package policy
