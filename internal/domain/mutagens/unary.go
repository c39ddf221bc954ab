package mutagens

import (
	"go/ast"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

// GenerateUnaryMutations removes the unary minus (-x -> x) for the given
// AST node.
func GenerateUnaryMutations(n ast.Node, fset *token.FileSet, content []byte, unit m.Path, categoryOf CategoryFunc) []m.Mutant {
	unaryExpr, ok := n.(*ast.UnaryExpr)
	if !ok {
		return nil
	}

	if unaryExpr.Op != token.SUB {
		return nil
	}

	start, ok := offsetForPos(fset, unaryExpr.OpPos)
	if !ok {
		return nil
	}

	pos := fset.Position(unaryExpr.OpPos)
	operand := resolveCategory(unaryExpr.X, categoryOf)
	site := m.MutationSite{
		File:     unit,
		Line:     pos.Line,
		Column:   pos.Column,
		NodeKind: m.NodeUnary,
		Left:     operand,
		Right:    operand,
	}

	original := unaryExpr.Op.String()

	return []m.Mutant{{
		ID:          m.MutantID(site, original, ""),
		Type:        m.MutationUnary,
		Site:        site,
		Original:    original,
		Replacement: "",
		MutatedCode: replaceRange(content, start, start+len(original), ""),
	}}
}
