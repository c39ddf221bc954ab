package model

import (
	"crypto/sha256"
	"fmt"
	"go/ast"
)

// MutationType represents the category of mutation.
type MutationType string

const (
	// MutationArithmetic represents arithmetic operator mutations (+, -, *, /, %).
	MutationArithmetic MutationType = "arithmetic"
	// MutationComparison represents comparison operator mutations (==, !=, <, <=, >, >=).
	MutationComparison MutationType = "comparison"
	// MutationLogical represents logical operator mutations (&& <-> ||).
	MutationLogical MutationType = "logical"
	// MutationBoolean represents boolean literal mutations (true <-> false).
	MutationBoolean MutationType = "boolean"
	// MutationUnary represents unary sign mutations (-x <-> +x).
	MutationUnary MutationType = "unary"
)

// AllMutationTypes lists every supported mutation category.
var AllMutationTypes = []MutationType{
	MutationArithmetic,
	MutationComparison,
	MutationLogical,
	MutationBoolean,
	MutationUnary,
}

// NodeKind names the AST node shape a mutation site was found on. Part of
// the site's structural identity.
type NodeKind string

const (
	// NodeBinary covers binary expressions (arithmetic, comparison, logical).
	NodeBinary NodeKind = "binary"
	// NodeUnary covers unary expressions.
	NodeUnary NodeKind = "unary"
	// NodeIdent covers identifier nodes (boolean literals).
	NodeIdent NodeKind = "ident"
)

// OperandCategory is the coarse type category of an operand, supplied by a
// static-analysis collaborator. The oracle depends only on this enum, never
// on a concrete type system.
type OperandCategory string

const (
	// CategoryNumeric covers integer and floating point operands.
	CategoryNumeric OperandCategory = "numeric"
	// CategoryText covers string and byte-sequence operands.
	CategoryText OperandCategory = "text"
	// CategoryBoolean covers boolean operands.
	CategoryBoolean OperandCategory = "boolean"
	// CategoryUnknown means no static information is available. Rules must
	// treat Unknown operands as feasible.
	CategoryUnknown OperandCategory = "unknown"
)

// CategoryFunc resolves the coarse category of an expression. Supplied by
// the static-analysis adapter; must return CategoryUnknown rather than
// guess.
type CategoryFunc func(expr ast.Expr) OperandCategory

// SiteKey is the coverage lookup key for a mutation site. Sites sharing a
// line share their covering tests.
type SiteKey struct {
	File Path
	Line int
}

// MutationSite is a location eligible for rewriting. Identity is structural
// (file + line + column + node kind) so reruns assign the same ids to the
// same logical mutation.
type MutationSite struct {
	File     Path
	Line     int
	Column   int
	NodeKind NodeKind
	Left     OperandCategory
	Right    OperandCategory
}

// Key returns the coverage lookup key for the site.
func (s MutationSite) Key() SiteKey {
	return SiteKey{File: s.File, Line: s.Line}
}

// Mutant is one concrete rewrite of one mutation site. Owned by the
// generator until classified.
type Mutant struct {
	ID          string
	Type        MutationType
	Site        MutationSite
	Original    string
	Replacement string
	MutatedCode []byte
}

// MutantID derives a deterministic id from the site's structural identity
// and the rewrite, independent of enumeration order.
func MutantID(site MutationSite, original, replacement string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d:%d:%s:%s>%s",
		site.File, site.Line, site.Column, site.NodeKind, original, replacement))

	return fmt.Sprintf("%x", sum[:8])
}
