// Package logging builds the structured logger used across upp.
//
// It is a thin layer over log/slog: configuration selects level, format,
// and source annotation, and the resulting *slog.Logger is handed to every
// component that wants one.
package logging
