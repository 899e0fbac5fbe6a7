package report

import (
	"fmt"
	"time"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/merge"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
)

// Format selects an output rendering.
type Format string

const (
	// FormatText is plain terminal output (default).
	FormatText Format = "text"
	// FormatJSON is indented JSON output.
	FormatJSON Format = "json"
	// FormatMarkdown is Markdown output for documentation workflows.
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatMarkdown:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q (text, json, markdown)", s)
	}
}

// Report is one renderable resolution outcome.
type Report struct {
	RequestID string `json:"request_id,omitempty"`

	// Target is the resolved target, empty for sibling merges without one.
	Target string `json:"target,omitempty"`

	// Profile names the validation profile applied, if any.
	Profile string `json:"profile,omitempty"`

	// Sources lists the input files in declaration order.
	Sources []string `json:"sources,omitempty"`

	// Valid is true when resolution succeeded and no error-severity
	// diagnostics were reported.
	Valid bool `json:"valid"`

	// Error carries the terminal pipeline error, if resolution failed.
	Error string `json:"error,omitempty"`

	// FailedStage names the pipeline stage the error occurred in.
	FailedStage string `json:"failed_stage,omitempty"`

	Conflicts   []merge.ConflictRecord `json:"conflicts,omitempty"`
	Diagnostics []validator.Diagnostic `json:"diagnostics,omitempty"`

	// Effective is the merged policy tree. Nil when resolution failed.
	Effective *merge.EffectivePolicy `json:"effective,omitempty"`

	Duration time.Duration `json:"duration_ns,omitempty"`
}

// FromResult builds a report from a resolution result. The resolveErr, when
// non-nil, is the error the pipeline returned alongside the result.
func FromResult(res *policy.Result, sources []string, profile string, resolveErr error) *Report {
	r := &Report{
		RequestID:   res.RequestID,
		Target:      res.Target,
		Profile:     profile,
		Sources:     sources,
		Conflicts:   res.Conflicts,
		Diagnostics: res.Diagnostics,
		Effective:   res.Effective,
		Duration:    res.Duration,
	}
	if resolveErr != nil {
		r.Error = resolveErr.Error()
		r.FailedStage = string(res.FailedState)
		return r
	}
	r.Valid = !validator.HasErrors(res.Diagnostics)
	return r
}

// ErrorCount returns the number of error-severity diagnostics.
func (r *Report) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == validator.SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity diagnostics.
func (r *Report) WarningCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == validator.SeverityWarning {
			n++
		}
	}
	return n
}
