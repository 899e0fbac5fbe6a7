// Package report renders resolution results for human and machine
// consumption. Text output targets terminals, JSON output targets tooling,
// and Markdown output targets documentation and review workflows.
package report
