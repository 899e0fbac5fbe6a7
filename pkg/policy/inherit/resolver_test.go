package inherit

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
)

func doc(sourceID, parentRef string, order int) *ast.PolicyDocument {
	return &ast.PolicyDocument{
		SourceID:  sourceID,
		ParentRef: parentRef,
		Order:     order,
		Root:      &ast.PolicyNode{Children: map[string]*ast.PolicyNode{}},
	}
}

func chainIDs(chain ast.ResolutionChain) []string {
	ids := make([]string, 0, len(chain))
	for _, d := range chain {
		ids = append(ids, d.SourceID)
	}
	return ids
}

func TestNewRegistry_DuplicateSourceID(t *testing.T) {
	_, err := NewRegistry([]*ast.PolicyDocument{
		doc("base", "", 0),
		doc("base", "", 1),
	})
	if err == nil {
		t.Error("NewRegistry() error = nil, want duplicate id error")
	}
}

func TestRegistry_Documents_DeclarationOrder(t *testing.T) {
	reg, err := NewRegistry([]*ast.PolicyDocument{
		doc("c", "", 2),
		doc("a", "", 0),
		doc("b", "", 1),
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v, want nil", err)
	}

	var got []string
	for _, d := range reg.Documents() {
		got = append(got, d.SourceID)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Documents() order = %v, want %v", got, want)
	}
}

func TestResolver_ResolveChain(t *testing.T) {
	reg, err := NewRegistry([]*ast.PolicyDocument{
		doc("org", "", 0),
		doc("team", "org", 1),
		doc("project", "team", 2),
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v, want nil", err)
	}
	r := NewResolver(reg, 0)

	tests := []struct {
		target string
		want   []string
	}{
		{"org", []string{"org"}},
		{"team", []string{"org", "team"}},
		{"project", []string{"org", "team", "project"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			chain, err := r.ResolveChain(tt.target)
			if err != nil {
				t.Fatalf("ResolveChain(%q) error = %v, want nil", tt.target, err)
			}
			if got := chainIDs(chain); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveChain(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestResolver_ResolveChain_Cycle(t *testing.T) {
	reg, _ := NewRegistry([]*ast.PolicyDocument{
		doc("a", "b", 0),
		doc("b", "a", 1),
	})
	r := NewResolver(reg, 0)

	_, err := r.ResolveChain("a")
	var cycleErr *policyErrors.CycleDetectedError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("ResolveChain() error = %v, want *CycleDetectedError", err)
	}

	want := []string{"a", "b", "a"}
	if !reflect.DeepEqual(cycleErr.Cycle, want) {
		t.Errorf("cycleErr.Cycle = %v, want %v", cycleErr.Cycle, want)
	}
}

func TestResolver_ResolveChain_SelfCycle(t *testing.T) {
	reg, _ := NewRegistry([]*ast.PolicyDocument{doc("a", "a", 0)})
	r := NewResolver(reg, 0)

	_, err := r.ResolveChain("a")
	var cycleErr *policyErrors.CycleDetectedError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("ResolveChain() error = %v, want *CycleDetectedError", err)
	}
	if want := []string{"a", "a"}; !reflect.DeepEqual(cycleErr.Cycle, want) {
		t.Errorf("cycleErr.Cycle = %v, want %v", cycleErr.Cycle, want)
	}
}

func TestResolver_ResolveChain_UnknownTarget(t *testing.T) {
	reg, _ := NewRegistry(nil)
	r := NewResolver(reg, 0)

	_, err := r.ResolveChain("missing")
	var targetErr *policyErrors.UnknownTargetError
	if !errors.As(err, &targetErr) {
		t.Fatalf("ResolveChain() error = %v, want *UnknownTargetError", err)
	}
}

func TestResolver_ResolveChain_UnknownParent(t *testing.T) {
	reg, _ := NewRegistry([]*ast.PolicyDocument{doc("team", "org", 0)})
	r := NewResolver(reg, 0)

	_, err := r.ResolveChain("team")
	var parentErr *policyErrors.UnknownParentError
	if !errors.As(err, &parentErr) {
		t.Fatalf("ResolveChain() error = %v, want *UnknownParentError", err)
	}
	if parentErr.ParentRef != "org" {
		t.Errorf("parentErr.ParentRef = %q, want %q", parentErr.ParentRef, "org")
	}
}

func TestResolver_ResolveChain_DepthExceeded(t *testing.T) {
	docs := []*ast.PolicyDocument{
		doc("d0", "", 0),
		doc("d1", "d0", 1),
		doc("d2", "d1", 2),
		doc("d3", "d2", 3),
	}
	reg, _ := NewRegistry(docs)
	r := NewResolver(reg, 2)

	_, err := r.ResolveChain("d3")
	var depthErr *policyErrors.DepthExceededError
	if !errors.As(err, &depthErr) {
		t.Fatalf("ResolveChain() error = %v, want *DepthExceededError", err)
	}
	if depthErr.MaxDepth != 2 {
		t.Errorf("depthErr.MaxDepth = %d, want 2", depthErr.MaxDepth)
	}
}

func TestNewResolver_DefaultMaxDepth(t *testing.T) {
	reg, _ := NewRegistry(nil)
	r := NewResolver(reg, 0)
	if r.MaxDepth() != DefaultMaxDepth {
		t.Errorf("MaxDepth() = %d, want %d", r.MaxDepth(), DefaultMaxDepth)
	}
}
