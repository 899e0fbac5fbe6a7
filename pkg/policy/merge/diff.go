package merge

import (
	"sort"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

// DiffKind classifies one path-level difference between two effective
// policies.
type DiffKind string

const (
	DiffAdded   DiffKind = "added"   // present only in B
	DiffRemoved DiffKind = "removed" // present only in A
	DiffChanged DiffKind = "changed" // present in both with different values
)

// Difference is one path-level difference between two effective policies.
type Difference struct {
	Path string   `json:"path"`
	Kind DiffKind `json:"kind"`

	// ValueA and SourceA describe the leaf in the first policy (unset for
	// added paths).
	ValueA  interface{} `json:"value_a,omitempty"`
	SourceA string      `json:"source_a,omitempty"`

	// ValueB and SourceB describe the leaf in the second policy (unset for
	// removed paths).
	ValueB  interface{} `json:"value_b,omitempty"`
	SourceB string      `json:"source_b,omitempty"`
}

// Diff compares two effective policies leaf by leaf and returns the
// path-level differences in sorted path order. Leaves that differ only in
// contributing source, not value, are not reported.
func Diff(a, b *EffectivePolicy) []Difference {
	type leaf struct {
		value    interface{}
		sourceID string
	}

	leavesA := map[string]leaf{}
	a.Walk(func(path string, value interface{}, sourceID string) {
		leavesA[path] = leaf{value: value, sourceID: sourceID}
	})

	var diffs []Difference
	seen := map[string]bool{}

	b.Walk(func(path string, value interface{}, sourceID string) {
		seen[path] = true
		la, ok := leavesA[path]
		if !ok {
			diffs = append(diffs, Difference{
				Path:    path,
				Kind:    DiffAdded,
				ValueB:  value,
				SourceB: sourceID,
			})
			return
		}
		if !ast.DeepEqual(la.value, value) {
			diffs = append(diffs, Difference{
				Path:    path,
				Kind:    DiffChanged,
				ValueA:  la.value,
				SourceA: la.sourceID,
				ValueB:  value,
				SourceB: sourceID,
			})
		}
	})

	for path, la := range leavesA {
		if !seen[path] {
			diffs = append(diffs, Difference{
				Path:    path,
				Kind:    DiffRemoved,
				ValueA:  la.value,
				SourceA: la.sourceID,
			})
		}
	}

	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].Path < diffs[j].Path
	})
	return diffs
}
