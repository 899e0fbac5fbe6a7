package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
)

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, r *Report) error
}

// NewRenderer returns the renderer for the given format.
func NewRenderer(format Format) Renderer {
	switch format {
	case FormatJSON:
		return &JSONRenderer{Indent: true}
	case FormatMarkdown:
		return &MarkdownRenderer{}
	default:
		return &TextRenderer{}
	}
}

// JSONRenderer writes the report as JSON.
type JSONRenderer struct {
	Indent bool
}

func (j *JSONRenderer) Render(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}

// TextRenderer writes the report as plain terminal text.
type TextRenderer struct {
	// Verbose includes per-conflict contributor listings.
	Verbose bool
}

func (t *TextRenderer) Render(w io.Writer, r *Report) error {
	if r.Target != "" {
		fmt.Fprintf(w, "Target: %s\n", r.Target)
	}
	if r.Profile != "" {
		fmt.Fprintf(w, "Profile: %s\n", r.Profile)
	}
	for _, src := range r.Sources {
		fmt.Fprintf(w, "Source: %s\n", src)
	}

	if r.Error != "" {
		fmt.Fprintf(w, "Status: FAILED (%s stage)\n", r.FailedStage)
		fmt.Fprintf(w, "Error: %s\n", r.Error)
	} else if r.Valid {
		fmt.Fprintln(w, "Status: VALID")
	} else {
		fmt.Fprintln(w, "Status: INVALID")
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(w, "\nDiagnostics (%d errors, %d warnings):\n", r.ErrorCount(), r.WarningCount())
		for _, d := range r.Diagnostics {
			if d.Path != "" {
				fmt.Fprintf(w, "  [%s] %s: %s\n", d.Severity, d.Path, d.Message)
			} else {
				fmt.Fprintf(w, "  [%s] %s\n", d.Severity, d.Message)
			}
		}
	}

	if len(r.Conflicts) > 0 {
		fmt.Fprintf(w, "\nConflicts (%d):\n", len(r.Conflicts))
		for _, c := range r.Conflicts {
			winner := c.Winner
			if winner == "" {
				winner = "-"
			}
			fmt.Fprintf(w, "  %s: strategy=%s winner=%s reason=%s\n", c.Path, c.Strategy, winner, c.Reason)
			if t.Verbose {
				for _, contrib := range c.Contributors {
					fmt.Fprintf(w, "    %s (priority %d): %s\n",
						contrib.SourceID, contrib.Priority, ast.FormatValue(contrib.Value))
				}
			}
		}
	}

	if r.Effective != nil {
		fmt.Fprintf(w, "\nEffective policy (%d leaves):\n", r.Effective.LeafCount())
		r.Effective.Walk(func(path string, value interface{}, sourceID string) {
			fmt.Fprintf(w, "  %s = %s  [%s]\n", path, ast.FormatValue(value), sourceID)
		})
	}

	return nil
}

// MarkdownRenderer writes the report as Markdown.
type MarkdownRenderer struct{}

func (m *MarkdownRenderer) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("# Resolution Report\n\n")
	if r.Target != "" {
		fmt.Fprintf(&b, "**Target:** `%s`\n", r.Target)
	}
	if r.Profile != "" {
		fmt.Fprintf(&b, "**Profile:** `%s`\n", r.Profile)
	}
	for _, src := range r.Sources {
		fmt.Fprintf(&b, "**Source:** `%s`\n", src)
	}
	b.WriteString("\n")

	switch {
	case r.Error != "":
		fmt.Fprintf(&b, "## FAILED (%s stage)\n\n%s\n\n", r.FailedStage, r.Error)
	case r.Valid:
		b.WriteString("## VALID\n\n")
	default:
		b.WriteString("## INVALID\n\n")
	}

	if len(r.Diagnostics) > 0 {
		b.WriteString("### Diagnostics\n\n")
		for _, d := range r.Diagnostics {
			if d.Path != "" {
				fmt.Fprintf(&b, "- **%s** `%s`: %s\n", d.Severity, d.Path, d.Message)
			} else {
				fmt.Fprintf(&b, "- **%s**: %s\n", d.Severity, d.Message)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Conflicts) > 0 {
		b.WriteString("### Conflicts\n\n")
		b.WriteString("| Path | Strategy | Winner | Reason |\n")
		b.WriteString("|------|----------|--------|--------|\n")
		for _, c := range r.Conflicts {
			winner := c.Winner
			if winner == "" {
				winner = "-"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Path, c.Strategy, winner, c.Reason)
		}
		b.WriteString("\n")
	}

	if r.Effective != nil {
		b.WriteString("### Effective Policy\n\n")
		b.WriteString("| Path | Value | Source |\n")
		b.WriteString("|------|-------|--------|\n")
		r.Effective.Walk(func(path string, value interface{}, sourceID string) {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", path, ast.FormatValue(value), sourceID)
		})
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
