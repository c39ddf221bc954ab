// Package mutagens provides the operator-rewrite rules for generating code
// mutations.
package mutagens

import (
	"go/ast"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

// CategoryFunc aliases the model's category lookup so generator signatures
// stay compact.
type CategoryFunc = m.CategoryFunc

// offsetForPos converts a token position into a byte offset inside the file
// content. Returns false when the position does not belong to the file set.
func offsetForPos(fset *token.FileSet, pos token.Pos) (int, bool) {
	file := fset.File(pos)
	if file == nil {
		return 0, false
	}

	return file.Offset(pos), true
}

// replaceRange returns a copy of content with [start,end) replaced. The
// input slice is never modified; every mutant owns its rewritten copy.
func replaceRange(content []byte, start, end int, replacement string) []byte {
	mutated := make([]byte, 0, len(content)-(end-start)+len(replacement))
	mutated = append(mutated, content[:start]...)
	mutated = append(mutated, replacement...)
	mutated = append(mutated, content[end:]...)

	return mutated
}

// binarySite builds the structural site identity for a binary expression,
// anchored at the operator position.
func binarySite(binExpr *ast.BinaryExpr, fset *token.FileSet, unit m.Path, categoryOf CategoryFunc) m.MutationSite {
	pos := fset.Position(binExpr.OpPos)

	return m.MutationSite{
		File:     unit,
		Line:     pos.Line,
		Column:   pos.Column,
		NodeKind: m.NodeBinary,
		Left:     resolveCategory(binExpr.X, categoryOf),
		Right:    resolveCategory(binExpr.Y, categoryOf),
	}
}

func resolveCategory(expr ast.Expr, categoryOf CategoryFunc) m.OperandCategory {
	if categoryOf == nil {
		return m.CategoryUnknown
	}

	return categoryOf(expr)
}

func operatorAlternatives(original token.Token, all []token.Token) []token.Token {
	var alternatives []token.Token

	for _, op := range all {
		if op != original {
			alternatives = append(alternatives, op)
		}
	}

	return alternatives
}
