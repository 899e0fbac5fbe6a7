package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
)

// ValueRule checks one leaf value against a profile-specific rule. It returns
// false with a human-readable detail when the value does not meet the rule.
type ValueRule func(value interface{}) (ok bool, detail string)

// Profile is a named validation profile.
type Profile struct {
	// Name identifies the profile, e.g. "nuj".
	Name string

	// Description is a one-line summary shown in CLI listings.
	Description string

	// Required lists canonical paths that must be present.
	Required []string

	// Recommended lists canonical paths whose absence is reported as a
	// warning rather than an error.
	Recommended []string

	// Types maps canonical paths to the value kind their leaf must hold.
	Types map[string]ast.ValueKind

	// Rules maps canonical paths to value rules applied when the path is
	// present.
	Rules map[string]ValueRule

	// RedFlags lists substrings that, found in any string leaf, indicate
	// exploitative terms. Matching is case-insensitive.
	RedFlags []string
}

// Constraints converts the profile into validator constraints covering its
// required paths and type requirements.
func (p *Profile) Constraints() validator.Constraints {
	return validator.Constraints{
		Required: append([]string(nil), p.Required...),
		Types:    p.Types,
	}
}

// Inspect runs the profile checks that go beyond structural constraints:
// missing recommended paths, value rules, and red-flag pattern scans. The
// returned diagnostics are sorted by path.
func (p *Profile) Inspect(policy *merge.EffectivePolicy) []validator.Diagnostic {
	var diags []validator.Diagnostic

	for _, path := range p.Recommended {
		if _, _, ok := policy.Lookup(path); !ok {
			diags = append(diags, validator.Diagnostic{
				Severity: validator.SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("recommended path is missing from %s profile", p.Name),
			})
		}
	}

	rulePaths := make([]string, 0, len(p.Rules))
	for path := range p.Rules {
		rulePaths = append(rulePaths, path)
	}
	sort.Strings(rulePaths)
	for _, path := range rulePaths {
		value, _, ok := policy.Lookup(path)
		if !ok {
			continue
		}
		if ok, detail := p.Rules[path](value); !ok {
			diags = append(diags, validator.Diagnostic{
				Severity: validator.SeverityError,
				Path:     path,
				Message:  detail,
			})
		}
	}

	if len(p.RedFlags) > 0 {
		policy.Walk(func(path string, value interface{}, sourceID string) {
			text, ok := value.(string)
			if !ok {
				return
			}
			lower := strings.ToLower(text)
			for _, flag := range p.RedFlags {
				if strings.Contains(lower, flag) {
					diags = append(diags, validator.Diagnostic{
						Severity: validator.SeverityWarning,
						Path:     path,
						Message:  fmt.Sprintf("value contains red-flag term %q", flag),
					})
				}
			}
		})
	}

	sort.SliceStable(diags, func(i, j int) bool { return diags[i].Path < diags[j].Path })
	return diags
}
