package ast

import (
	"fmt"
	"strings"
)

// PathSeparator joins the segments of a canonical dotted path.
const PathSeparator = "."

// CanonicalizeSegment canonicalizes a single path segment: surrounding
// whitespace is trimmed, the segment is lowercased, and the character set is
// restricted to [a-z0-9_-]. An empty or malformed segment is rejected.
func CanonicalizeSegment(segment string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(segment))
	if s == "" {
		return "", fmt.Errorf("empty path segment")
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return "", fmt.Errorf("segment %q contains invalid character %q", segment, r)
		}
	}

	return s, nil
}

// CanonicalizePath canonicalizes a dotted path. Slash separators are
// normalized to dots before each segment is canonicalized, so
// "Payment/Terms" and "payment.terms" canonicalize identically.
func CanonicalizePath(path string) (string, error) {
	normalized := strings.ReplaceAll(path, "/", PathSeparator)

	segments := strings.Split(normalized, PathSeparator)
	for i, segment := range segments {
		canonical, err := CanonicalizeSegment(segment)
		if err != nil {
			return "", fmt.Errorf("path %q: %w", path, err)
		}
		segments[i] = canonical
	}

	return strings.Join(segments, PathSeparator), nil
}

// SplitPath splits a canonical path into its segments. The empty path splits
// into no segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// JoinPath joins a parent path and a child segment. An empty parent yields
// the segment itself, so document roots join cleanly.
func JoinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + PathSeparator + segment
}
