// Package cli provides shared command-line infrastructure for the upp
// binary: output formatting, progress reporting for batch runs, signal
// handling, and command error types.
package cli
