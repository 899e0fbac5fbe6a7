package report

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

// Grievance describes a contested policy violation backed by a resolution
// report, rendered as a Markdown letter.
type Grievance struct {
	// Violation names the contested clause or behavior.
	Violation string

	// Union is the union context the grievance is raised under.
	Union string

	// Date is the letter date.
	Date time.Time

	// Report carries the resolution findings backing the grievance.
	Report *Report
}

// defaultGrievanceTemplate is used when the caller supplies no template.
const defaultGrievanceTemplate = `# GRIEVANCE LETTER

Date: {{.Date.Format "2006-01-02"}}
Violation: {{.Violation}}
Union: {{if .Union}}{{.Union}}{{else}}N/A{{end}}
Target: {{if .Report.Target}}{{.Report.Target}}{{else}}N/A{{end}}

Findings:
{{range .Report.Diagnostics}}  - [{{.Severity}}] {{if .Path}}{{.Path}}: {{end}}{{.Message}}
{{else}}  - none recorded
{{end}}`

// RenderGrievance writes the grievance letter to w. An empty tmplText
// selects the built-in letter layout; otherwise tmplText is parsed as a
// text/template over the Grievance.
func RenderGrievance(w io.Writer, g *Grievance, tmplText string) error {
	if tmplText == "" {
		tmplText = defaultGrievanceTemplate
	}
	tmpl, err := template.New("grievance").Parse(tmplText)
	if err != nil {
		return fmt.Errorf("invalid grievance template: %w", err)
	}
	if err := tmpl.Execute(w, g); err != nil {
		return fmt.Errorf("rendering grievance: %w", err)
	}
	return nil
}
