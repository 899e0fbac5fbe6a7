package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error = %v, want nil", name, err)
	}
	return path
}

func TestParser_ParseBytes(t *testing.T) {
	p := NewParser()

	data := []byte(`source_id: team
parent: org
priority: 10
default_strategy: union
policy:
  clauses:
    kill-fee: "50%"
  rights:
    - print
    - web
`)

	raw, err := p.ParseBytes(data, "team.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}

	if raw.SourceID != "team" {
		t.Errorf("raw.SourceID = %q, want %q", raw.SourceID, "team")
	}
	if raw.ParentRef != "org" {
		t.Errorf("raw.ParentRef = %q, want %q", raw.ParentRef, "org")
	}
	if raw.Priority == nil || *raw.Priority != 10 {
		t.Errorf("raw.Priority = %v, want 10", raw.Priority)
	}
	if raw.DefaultStrategy != "union" {
		t.Errorf("raw.DefaultStrategy = %q, want %q", raw.DefaultStrategy, "union")
	}

	clauses, ok := raw.Tree["clauses"].(map[string]interface{})
	if !ok {
		t.Fatalf("raw.Tree[clauses] = %T, want mapping", raw.Tree["clauses"])
	}
	if clauses["kill-fee"] != "50%" {
		t.Errorf("kill-fee = %v, want %q", clauses["kill-fee"], "50%")
	}
}

func TestParser_ParseBytes_Errors(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "source_id: [unclosed"},
		{"missing source_id", "policy:\n  a: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseBytes([]byte(tt.data), "bad.yaml")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("ParseBytes() error = %v, want *ParseError", err)
			}
			if parseErr.FilePath != "bad.yaml" {
				t.Errorf("parseErr.FilePath = %q, want %q", parseErr.FilePath, "bad.yaml")
			}
		})
	}
}

func TestParser_ParseBytes_NilPolicy(t *testing.T) {
	p := NewParser()

	raw, err := p.ParseBytes([]byte("source_id: empty\n"), "empty.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}
	if raw.Tree == nil {
		t.Error("raw.Tree = nil, want empty map")
	}
	if raw.Priority != nil {
		t.Errorf("raw.Priority = %v, want nil for unspecified priority", raw.Priority)
	}
}

func TestParser_ParseFile_Missing(t *testing.T) {
	p := NewParser()

	_, err := p.ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("ParseFile() error = %v, want *ParseError", err)
	}
}

func TestParser_ParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "source_id: b\npolicy:\n  x: 2\n")
	writeFile(t, dir, "a.yaml", "source_id: a\npolicy:\n  x: 1\n")
	writeFile(t, dir, "notes.txt", "ignored")

	p := NewParser()
	raws, err := p.ParseDir(dir)
	if err != nil {
		t.Fatalf("ParseDir() error = %v, want nil", err)
	}

	if len(raws) != 2 {
		t.Fatalf("len(raws) = %d, want 2", len(raws))
	}
	// Sorted file-name order fixes declaration order.
	if raws[0].SourceID != "a" || raws[1].SourceID != "b" {
		t.Errorf("order = %q, %q, want a, b", raws[0].SourceID, raws[1].SourceID)
	}
}

func TestParser_ParseDir_Empty(t *testing.T) {
	p := NewParser()

	_, err := p.ParseDir(t.TempDir())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("ParseDir() error = %v, want *ParseError", err)
	}
}
