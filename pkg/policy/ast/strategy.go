package ast

import (
	"fmt"
	"strings"
)

// MergeStrategy determines how multiple contributors to the same field are
// combined during a merge.
type MergeStrategy string

const (
	// StrategyOverride keeps the value of the last contributor in
	// declaration order.
	StrategyOverride MergeStrategy = "override"

	// StrategyUnion concatenates collection values from all contributors,
	// de-duplicated, preserving input order.
	StrategyUnion MergeStrategy = "union"

	// StrategyIntersection keeps a value only if every contributor supplies
	// it with deep structural equality.
	StrategyIntersection MergeStrategy = "intersection"

	// StrategyPriority keeps the value of the contributor with the highest
	// explicit priority; ties fall back to override ordering.
	StrategyPriority MergeStrategy = "priority"

	// StrategyUnset marks the absence of an explicit strategy annotation.
	StrategyUnset MergeStrategy = ""
)

// AnnotationMarker separates a raw key from its merge-strategy annotation,
// as in "scopes@union".
const AnnotationMarker = "@"

// ParseStrategy parses a strategy name. The empty string parses to
// StrategyUnset so optional document metadata can pass through unchanged.
func ParseStrategy(s string) (MergeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StrategyUnset, nil
	case "override":
		return StrategyOverride, nil
	case "union":
		return StrategyUnion, nil
	case "intersection":
		return StrategyIntersection, nil
	case "priority", "prioritybased", "priority-based":
		return StrategyPriority, nil
	default:
		return StrategyUnset, fmt.Errorf("unknown merge strategy %q", s)
	}
}

// IsSet returns true if the strategy is an explicit strategy rather than
// StrategyUnset.
func (s MergeStrategy) IsSet() bool {
	return s != StrategyUnset
}

// String returns the strategy name, or "unset" for StrategyUnset.
func (s MergeStrategy) String() string {
	if s == StrategyUnset {
		return "unset"
	}
	return string(s)
}

// SplitAnnotation splits a raw key into its name and an optional strategy
// annotation. A key without a marker returns StrategyUnset.
func SplitAnnotation(rawKey string) (string, MergeStrategy, error) {
	idx := strings.Index(rawKey, AnnotationMarker)
	if idx < 0 {
		return rawKey, StrategyUnset, nil
	}

	name := rawKey[:idx]
	annotation := rawKey[idx+1:]

	if annotation == "" {
		return "", StrategyUnset, fmt.Errorf("key %q has an empty strategy annotation", rawKey)
	}

	strategy, err := ParseStrategy(annotation)
	if err != nil {
		return "", StrategyUnset, fmt.Errorf("key %q: %w", rawKey, err)
	}

	return name, strategy, nil
}
