// Package storage provides audit record storage backends: an in-memory
// implementation for tests and short-lived CLI runs, and a SQLite
// implementation for durable audit trails.
package storage
