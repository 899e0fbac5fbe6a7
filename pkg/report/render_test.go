package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy"
	"github.com/hyperpolymath/union-policy-parser/pkg/policy/normalizer"
)

func sampleResult(t *testing.T) (*policy.Result, error) {
	t.Helper()
	r := policy.NewResolver(policy.Options{})
	return r.MergeSiblings(context.Background(), []normalizer.RawDocument{
		{SourceID: "base", Tree: map[string]interface{}{"clauses": map[string]interface{}{"kill-fee": "25%"}}},
		{SourceID: "team", Tree: map[string]interface{}{"clauses": map[string]interface{}{"kill-fee": "50%"}}},
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"xml", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromResult(t *testing.T) {
	res, err := sampleResult(t)
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v, want nil", err)
	}

	r := FromResult(res, []string{"base.yaml", "team.yaml"}, "iww", nil)
	if !r.Valid {
		t.Error("r.Valid = false, want true")
	}
	if r.Target != "base+team" {
		t.Errorf("r.Target = %q, want %q", r.Target, "base+team")
	}
	if r.Profile != "iww" {
		t.Errorf("r.Profile = %q, want %q", r.Profile, "iww")
	}
	if len(r.Conflicts) != 1 {
		t.Errorf("len(r.Conflicts) = %d, want 1", len(r.Conflicts))
	}
}

func TestFromResult_Failure(t *testing.T) {
	res, _ := sampleResult(t)

	r := FromResult(res, nil, "", errors.New("boom"))
	if r.Valid {
		t.Error("r.Valid = true, want false on resolve error")
	}
	if r.Error != "boom" {
		t.Errorf("r.Error = %q, want %q", r.Error, "boom")
	}
}

func TestTextRenderer(t *testing.T) {
	res, err := sampleResult(t)
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v, want nil", err)
	}
	r := FromResult(res, []string{"base.yaml"}, "", nil)

	var buf bytes.Buffer
	if err := (&TextRenderer{}).Render(&buf, r); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Target: base+team",
		"Source: base.yaml",
		"Status: VALID",
		"Conflicts (1):",
		"clauses.kill-fee: strategy=override winner=team reason=override",
		"clauses.kill-fee = 50%  [team]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTextRenderer_Failure(t *testing.T) {
	r := &Report{Error: "cycle detected", FailedStage: "normalized"}

	var buf bytes.Buffer
	if err := (&TextRenderer{}).Render(&buf, r); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "Status: FAILED (normalized stage)") {
		t.Errorf("text output missing failed status:\n%s", buf.String())
	}
}

func TestJSONRenderer(t *testing.T) {
	res, err := sampleResult(t)
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v, want nil", err)
	}
	r := FromResult(res, nil, "", nil)

	var buf bytes.Buffer
	if err := (&JSONRenderer{}).Render(&buf, r); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["target"] != "base+team" {
		t.Errorf("decoded target = %v, want %q", decoded["target"], "base+team")
	}
	if decoded["valid"] != true {
		t.Errorf("decoded valid = %v, want true", decoded["valid"])
	}
}

func TestMarkdownRenderer(t *testing.T) {
	res, err := sampleResult(t)
	if err != nil {
		t.Fatalf("MergeSiblings() error = %v, want nil", err)
	}
	r := FromResult(res, nil, "", nil)

	var buf bytes.Buffer
	if err := (&MarkdownRenderer{}).Render(&buf, r); err != nil {
		t.Fatalf("Render() error = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Resolution Report",
		"## VALID",
		"### Conflicts",
		"| clauses.kill-fee | override | team | override |",
		"### Effective Policy",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_Counts(t *testing.T) {
	r := &Report{}
	if r.ErrorCount() != 0 || r.WarningCount() != 0 {
		t.Errorf("counts = %d/%d, want 0/0", r.ErrorCount(), r.WarningCount())
	}
}
