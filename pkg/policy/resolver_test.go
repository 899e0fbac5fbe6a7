package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/validator"
)

func raw(sourceID, parentRef string, tree map[string]interface{}) normalizer.RawDocument {
	return normalizer.RawDocument{
		SourceID:  sourceID,
		ParentRef: parentRef,
		Tree:      tree,
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(Options{})

	raws := []normalizer.RawDocument{
		raw("org", "", map[string]interface{}{
			"clauses": map[string]interface{}{
				"kill-fee":      "25%",
				"payment-terms": 30,
			},
		}),
		raw("team", "org", map[string]interface{}{
			"clauses": map[string]interface{}{
				"kill-fee": "50%",
			},
		}),
	}

	res, err := r.Resolve(context.Background(), raws, "team")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}

	if res.State != StateEffective {
		t.Errorf("res.State = %q, want %q", res.State, StateEffective)
	}
	if res.RequestID == "" {
		t.Error("res.RequestID is empty")
	}
	if res.Target != "team" {
		t.Errorf("res.Target = %q, want %q", res.Target, "team")
	}

	value, source, ok := res.Effective.Lookup("clauses.kill-fee")
	if !ok || value != "50%" || source != "team" {
		t.Errorf("kill-fee = %v from %q (ok=%v), want %q from %q", value, source, ok, "50%", "team")
	}
	value, _, _ = res.Effective.Lookup("clauses.payment-terms")
	if value != 30 {
		t.Errorf("payment-terms = %v, want 30 (inherited)", value)
	}
}

func TestResolver_Resolve_NormalizationFailure(t *testing.T) {
	r := NewResolver(Options{})

	raws := []normalizer.RawDocument{
		raw("org", "", map[string]interface{}{"bad key!": 1}),
	}

	res, err := r.Resolve(context.Background(), raws, "org")
	if err == nil {
		t.Fatal("Resolve() error = nil, want error")
	}
	if res.State != StateFailed {
		t.Errorf("res.State = %q, want %q", res.State, StateFailed)
	}
	if res.FailedState != StatePending {
		t.Errorf("res.FailedState = %q, want %q", res.FailedState, StatePending)
	}
}

func TestResolver_Resolve_UnknownTarget(t *testing.T) {
	r := NewResolver(Options{})

	res, err := r.Resolve(context.Background(), []normalizer.RawDocument{
		raw("org", "", map[string]interface{}{"a": 1}),
	}, "missing")

	var targetErr *policyErrors.UnknownTargetError
	if !errors.As(err, &targetErr) {
		t.Fatalf("Resolve() error = %v, want *UnknownTargetError", err)
	}
	if res.FailedState != StateNormalized {
		t.Errorf("res.FailedState = %q, want %q", res.FailedState, StateNormalized)
	}
}

func TestResolver_Resolve_MergeFailureKeepsConflicts(t *testing.T) {
	r := NewResolver(Options{})

	raws := []normalizer.RawDocument{
		raw("a", "", map[string]interface{}{
			"tls@intersection":   "required",
			"other@intersection": "same",
		}),
		raw("b", "a", map[string]interface{}{
			"tls":   "optional",
			"other": "same",
		}),
	}

	res, err := r.Resolve(context.Background(), raws, "b")

	var ucErr *policyErrors.UnresolvableConflictError
	if !errors.As(err, &ucErr) {
		t.Fatalf("Resolve() error = %v, want *UnresolvableConflictError", err)
	}
	if res.State != StateFailed {
		t.Errorf("res.State = %q, want %q", res.State, StateFailed)
	}
	if len(res.Conflicts) == 0 {
		t.Error("res.Conflicts is empty, want partial conflict list on merge failure")
	}
}

func TestResolver_Resolve_CanceledContext(t *testing.T) {
	r := NewResolver(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, []normalizer.RawDocument{
		raw("org", "", map[string]interface{}{"a": 1}),
	}, "org")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolver_MergeSiblings(t *testing.T) {
	r := NewResolver(Options{})

	res, err := r.MergeSiblings(context.Background(), []normalizer.RawDocument{
		raw("a", "", map[string]interface{}{"limit": 1}),
		raw("b", "", map[string]interface{}{"limit": 2}),
	})
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v, want nil", err)
	}

	if res.Target != "a+b" {
		t.Errorf("res.Target = %q, want %q", res.Target, "a+b")
	}
	value, source, _ := res.Effective.Lookup("limit")
	if value != 2 || source != "b" {
		t.Errorf("limit = %v from %q, want 2 from %q", value, source, "b")
	}
}

func TestResolver_Resolve_ValidationDiagnosticsDoNotAbort(t *testing.T) {
	r := NewResolver(Options{
		Constraints: validator.Constraints{
			Required: []string{"clauses.payment-terms"},
		},
	})

	res, err := r.Resolve(context.Background(), []normalizer.RawDocument{
		raw("org", "", map[string]interface{}{"clauses": map[string]interface{}{"kill-fee": "50%"}}),
	}, "org")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if res.State != StateEffective {
		t.Errorf("res.State = %q, want %q", res.State, StateEffective)
	}
	if !validator.HasErrors(res.Diagnostics) {
		t.Error("res.Diagnostics carries no error, want missing-required error")
	}
}

func TestResolver_ValidateDocuments(t *testing.T) {
	r := NewResolver(Options{
		Constraints: validator.Constraints{
			Types: map[string]ast.ValueKind{"limit": ast.KindScalar},
		},
	})

	// One malformed document, one clean, one violating the type constraint.
	diags := r.ValidateDocuments(context.Background(), []normalizer.RawDocument{
		raw("bad", "", map[string]interface{}{"bad key!": 1}),
		raw("clean", "", map[string]interface{}{"limit": 10}),
		raw("wrong", "", map[string]interface{}{"limit": []interface{}{1}}),
	})

	errorCount := 0
	for _, d := range diags {
		if d.Severity == validator.SeverityError {
			errorCount++
		}
	}
	// The malformed document and the type violation each produce one error;
	// the clean document validates without findings.
	if errorCount != 2 {
		t.Errorf("error count = %d, want 2: %+v", errorCount, diags)
	}
}
