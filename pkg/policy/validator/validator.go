package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one validation finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

// Constraints are the schema constraints an effective policy is validated
// against. A zero Constraints value checks only structural invariants.
type Constraints struct {
	// Required lists canonical paths that must be present as leaves.
	Required []string

	// Types maps canonical paths to the value kind their leaf must have.
	Types map[string]ast.ValueKind
}

// Validator validates effective policies.
type Validator struct{}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks the effective policy against structural invariants and
// the supplied constraints. It returns every diagnostic found.
func (v *Validator) Validate(policy *merge.EffectivePolicy, constraints Constraints) []Diagnostic {
	var diags []Diagnostic

	diags = append(diags, v.checkStructure(policy)...)
	diags = append(diags, v.checkRequired(policy, constraints.Required)...)
	diags = append(diags, v.checkTypes(policy, constraints.Types)...)

	return diags
}

// checkStructure verifies that no internal annotation text leaked into the
// canonical output and that no leaf holds a raw mapping (mappings must be
// structural children after normalization).
func (v *Validator) checkStructure(policy *merge.EffectivePolicy) []Diagnostic {
	var diags []Diagnostic

	policy.Walk(func(path string, value interface{}, sourceID string) {
		for _, segment := range ast.SplitPath(path) {
			if strings.Contains(segment, ast.AnnotationMarker) {
				diags = append(diags, Diagnostic{
					Severity: SeverityError,
					Path:     path,
					Message:  fmt.Sprintf("internal strategy annotation leaked into segment %q", segment),
				})
			}
		}
		if ast.KindOf(value) == ast.KindMapping {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Path:     path,
				Message:  "leaf holds an unnormalized mapping value",
			})
		}
	})

	return diags
}

// checkRequired verifies that every required path is present as a leaf.
func (v *Validator) checkRequired(policy *merge.EffectivePolicy, required []string) []Diagnostic {
	var diags []Diagnostic

	for _, path := range required {
		if _, _, ok := policy.Lookup(path); !ok {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Path:     path,
				Message:  "required path is missing",
			})
		}
	}

	return diags
}

// checkTypes verifies that each constrained path holds a value of the
// declared kind. A constrained path that is absent is reported as a warning;
// absence is only an error when the path is also required.
func (v *Validator) checkTypes(policy *merge.EffectivePolicy, types map[string]ast.ValueKind) []Diagnostic {
	var diags []Diagnostic

	paths := make([]string, 0, len(types))
	for path := range types {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		want := types[path]
		value, _, ok := policy.Lookup(path)
		if !ok {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("type-constrained path is absent (expected %s)", want),
			})
			continue
		}
		if got := ast.KindOf(value); got != want {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("value has kind %s, schema requires %s", got, want),
			})
		}
	}

	return diags
}

// HasErrors returns true if any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
