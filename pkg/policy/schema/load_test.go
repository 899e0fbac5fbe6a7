package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v, want nil", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeProfile(t, `name: house
description: in-house contract standards
required:
  - clauses/Payment Terms
recommended:
  - clauses.portable-benefits
types:
  clauses.payment-terms: scalar
red_flags:
  - work for hire
`)

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if profile.Name != "house" {
		t.Errorf("profile.Name = %q, want %q", profile.Name, "house")
	}
	// Paths are canonicalized on load.
	if len(profile.Required) != 1 || profile.Required[0] != "clauses.payment-terms" {
		t.Errorf("profile.Required = %v, want [clauses.payment-terms]", profile.Required)
	}
	if profile.Types["clauses.payment-terms"] != ast.KindScalar {
		t.Errorf("Types[clauses.payment-terms] = %v, want scalar", profile.Types["clauses.payment-terms"])
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no name", "required:\n  - a\n"},
		{"invalid path", "name: x\nrequired:\n  - 'bad key!'\n"},
		{"unknown kind", "name: x\ntypes:\n  a: tuple\n"},
		{"invalid yaml", "name: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeProfile(t, tt.content)); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("builtin", func(t *testing.T) {
		profile, err := Resolve("nuj")
		if err != nil {
			t.Fatalf("Resolve(nuj) error = %v, want nil", err)
		}
		if profile.Name != "nuj" {
			t.Errorf("profile.Name = %q, want %q", profile.Name, "nuj")
		}
	})

	t.Run("file path", func(t *testing.T) {
		path := writeProfile(t, "name: custom\n")
		profile, err := Resolve(path)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v, want nil", path, err)
		}
		if profile.Name != "custom" {
			t.Errorf("profile.Name = %q, want %q", profile.Name, "custom")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := Resolve("nope"); err == nil {
			t.Error("Resolve(nope) error = nil, want error")
		}
	})
}
