package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// builtins holds the built-in profiles keyed by name.
var builtins = map[string]*Profile{
	"nuj": {
		Name:        "nuj",
		Description: "National Union of Journalists code of ethics",
		Required: []string{
			"clauses.truth-accuracy",
			"clauses.independence",
			"clauses.fairness",
			"clauses.privacy-harassment",
			"clauses.accountability",
			"clauses.source-protection",
			"clauses.anti-discrimination",
			"clauses.no-plagiarism",
		},
		Recommended: []string{
			"clauses.transparency",
			"clauses.diversity",
			"clauses.accessibility",
			"clauses.environmental-impact",
		},
		Rules: map[string]ValueRule{
			"clauses.source-protection":      oneOf("guaranteed", "true"),
			"clauses.editorial-independence": oneOf("true"),
			"clauses.copyright-ownership":    oneOf("freelancer", "first-publication-only"),
		},
		RedFlags: []string{
			"all rights",
			"work for hire",
			"perpetual license",
			"no source protection",
			"editorial override",
		},
	},
	"iww": {
		Name:        "iww",
		Description: "Industrial Workers of the World freelancer rights",
		Required: []string{
			"clauses.payment-terms",
			"clauses.late-payment-penalty",
			"clauses.collective-voice",
			"clauses.no-free-trials",
			"clauses.no-spec-work",
			"clauses.kill-fee-provision",
		},
		Recommended: []string{
			"clauses.portable-benefits",
			"clauses.equipment-allowance",
			"clauses.training-budget",
		},
		Rules: map[string]ValueRule{
			"clauses.payment-terms.net-days": atMost(30, "NET days"),
			"clauses.late-payment-penalty":   atLeastPercent(5, "late payment penalty"),
			"clauses.kill-fee":               atLeastPercent(50, "kill fee"),
		},
		RedFlags: []string{
			"free trial",
			"spec work",
			"unpaid",
			"payment on publication",
			"no kill fee",
			"net 60",
			"net 90",
		},
	},
	"ucu": {
		Name:        "ucu",
		Description: "University and College Union academic standards",
		Required: []string{
			"clauses.academic-freedom",
			"clauses.workload-limits",
			"clauses.research-time",
			"clauses.teaching-load",
			"clauses.no-casualization",
		},
		Recommended: []string{
			"clauses.sabbatical-provision",
			"clauses.conference-funding",
			"clauses.phd-supervision-limits",
		},
		Rules: map[string]ValueRule{
			"clauses.academic-freedom":   oneOf("guaranteed"),
			"clauses.workload-hours-max": atMost(40, "weekly hours"),
		},
		RedFlags: []string{
			"unlimited hours",
			"no research time",
			"casualization",
			"zero hours",
			"no sabbatical",
		},
	},
}

// Builtin returns the built-in profile with the given name. The name is
// matched case-insensitively.
func Builtin(name string) (*Profile, error) {
	profile, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return profile, nil
}

// Names returns the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// oneOf builds a rule that accepts any of the given string values,
// case-insensitively.
func oneOf(accepted ...string) ValueRule {
	return func(value interface{}) (bool, string) {
		text, ok := value.(string)
		if !ok {
			if b, isBool := value.(bool); isBool {
				text = strconv.FormatBool(b)
			} else {
				return false, fmt.Sprintf("expected one of %v, got non-string value", accepted)
			}
		}
		lower := strings.ToLower(text)
		for _, want := range accepted {
			if lower == want {
				return true, ""
			}
		}
		return false, fmt.Sprintf("value %q is not one of %v", text, accepted)
	}
}

// atMost builds a rule that requires a numeric value no greater than max.
func atMost(max float64, label string) ValueRule {
	return func(value interface{}) (bool, string) {
		n, err := toFloat(value)
		if err != nil {
			return false, fmt.Sprintf("invalid %s: %v", label, err)
		}
		if n > max {
			return false, fmt.Sprintf("%s %v exceeds maximum %v", label, n, max)
		}
		return true, ""
	}
}

// atLeastPercent builds a rule that requires a percentage of at least min.
// String values may carry a trailing percent sign.
func atLeastPercent(min float64, label string) ValueRule {
	return func(value interface{}) (bool, string) {
		n, err := toFloat(value)
		if err != nil {
			return false, fmt.Sprintf("invalid %s: %v", label, err)
		}
		if n < min {
			return false, fmt.Sprintf("%s %v%% is below minimum %v%%", label, n, min)
		}
		return true, ""
	}
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
	default:
		return 0, fmt.Errorf("value %v is not numeric", value)
	}
}
