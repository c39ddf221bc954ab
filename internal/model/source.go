// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// SourceUnit is one parsed source file under mutation. Immutable once
// loaded; the engine reloads it only when the underlying file changes
// between runs (detected via Hash).
type SourceUnit struct {
	Origin  Path
	Hash    string
	Content []byte
}

// TestCase identifies a single test supplied by the baseline run.
// Read-only to the engine.
type TestCase struct {
	ID       string
	Location Path
}
