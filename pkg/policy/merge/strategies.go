package merge

import (
	"fmt"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
)

// combineOverride applies last-declared-wins. The returned record is only
// meaningful when the contributors actually disagree; recordWorthy reports
// that.
func combineOverride(contribs []Contribution) (value interface{}, winner string, recordWorthy bool) {
	last := contribs[len(contribs)-1]
	return last.Value, last.SourceID, contributionsDiffer(contribs)
}

// combineUnion concatenates collection values in input order, de-duplicated
// by deep structural equality. Every contributor must supply a list; a
// scalar or mapping mixed in is a type mismatch.
func combineUnion(path string, contribs []Contribution) ([]interface{}, error) {
	result := make([]interface{}, 0)

	for _, c := range contribs {
		list, ok := c.Value.([]interface{})
		if !ok {
			return nil, &policyErrors.TypeMismatchError{
				Path: path,
				Details: fmt.Sprintf("union requires collection values, document %q contributed %s",
					c.SourceID, ast.KindOf(c.Value)),
			}
		}
		for _, item := range list {
			if !containsDeep(result, item) {
				result = append(result, item)
			}
		}
	}

	return result, nil
}

// combineIntersection succeeds only when every contributor supplies the same
// value by deep structural equality. It reports equal=false on any
// disagreement; deciding what happens next (fallback or failure) is the
// conflict resolver's job.
func combineIntersection(contribs []Contribution) (value interface{}, equal bool) {
	first := contribs[0].Value
	for _, c := range contribs[1:] {
		if !ast.DeepEqual(first, c.Value) {
			return nil, false
		}
	}
	return first, true
}

// contributionsDiffer returns true if any two contributors disagree by deep
// structural equality.
func contributionsDiffer(contribs []Contribution) bool {
	first := contribs[0].Value
	for _, c := range contribs[1:] {
		if !ast.DeepEqual(first, c.Value) {
			return true
		}
	}
	return false
}

func containsDeep(list []interface{}, item interface{}) bool {
	for _, existing := range list {
		if ast.DeepEqual(existing, item) {
			return true
		}
	}
	return false
}
