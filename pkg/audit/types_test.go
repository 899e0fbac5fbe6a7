package audit

import (
	"context"
	"testing"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
)

func TestNewRecord(t *testing.T) {
	r := policy.NewResolver(policy.Options{})
	res, err := r.MergeSiblings(context.Background(), []normalizer.RawDocument{
		{SourceID: "base", Tree: map[string]interface{}{"limit": 1}},
		{SourceID: "team", Tree: map[string]interface{}{"limit": 2}},
	})
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v, want nil", err)
	}

	rec := NewRecord(res, []string{"base.yaml", "team.yaml"}, nil)

	if rec.ID == "" {
		t.Error("rec.ID is empty")
	}
	if rec.RequestID != res.RequestID {
		t.Errorf("rec.RequestID = %q, want %q", rec.RequestID, res.RequestID)
	}
	if rec.Target != "base+team" {
		t.Errorf("rec.Target = %q, want %q", rec.Target, "base+team")
	}
	if rec.State != string(policy.StateEffective) {
		t.Errorf("rec.State = %q, want %q", rec.State, policy.StateEffective)
	}
	if rec.LeafCount != 1 {
		t.Errorf("rec.LeafCount = %d, want 1", rec.LeafCount)
	}
	if len(rec.Conflicts) != 1 {
		t.Errorf("len(rec.Conflicts) = %d, want 1", len(rec.Conflicts))
	}
	if rec.Error != "" {
		t.Errorf("rec.Error = %q, want empty", rec.Error)
	}
}

func TestNewRecord_Failure(t *testing.T) {
	r := policy.NewResolver(policy.Options{})
	res, resolveErr := r.Resolve(context.Background(), []normalizer.RawDocument{
		{SourceID: "a", ParentRef: "b", Tree: map[string]interface{}{"x": 1}},
		{SourceID: "b", ParentRef: "a", Tree: map[string]interface{}{"x": 2}},
	}, "a")
	if resolveErr == nil {
		t.Fatal("Resolve() error = nil, want cycle error")
	}

	rec := NewRecord(res, nil, resolveErr)

	if rec.State != string(policy.StateFailed) {
		t.Errorf("rec.State = %q, want %q", rec.State, policy.StateFailed)
	}
	if rec.FailedState == "" {
		t.Error("rec.FailedState is empty, want the failed stage")
	}
	if rec.Error != resolveErr.Error() {
		t.Errorf("rec.Error = %q, want %q", rec.Error, resolveErr.Error())
	}
	if rec.LeafCount != 0 {
		t.Errorf("rec.LeafCount = %d, want 0", rec.LeafCount)
	}
}
