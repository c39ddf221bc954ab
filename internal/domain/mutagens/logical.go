package mutagens

import (
	"go/ast"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

// GenerateLogicalMutations swaps && and || for the given AST node.
func GenerateLogicalMutations(n ast.Node, fset *token.FileSet, content []byte, unit m.Path, categoryOf CategoryFunc) []m.Mutant {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	if binExpr.Op != token.LAND && binExpr.Op != token.LOR {
		return nil
	}

	start, ok := offsetForPos(fset, binExpr.OpPos)
	if !ok {
		return nil
	}

	mutatedOp := token.LOR
	if binExpr.Op == token.LOR {
		mutatedOp = token.LAND
	}

	site := binarySite(binExpr, fset, unit, categoryOf)
	// Logical operands are boolean by construction in Go.
	site.Left = m.CategoryBoolean
	site.Right = m.CategoryBoolean

	original := binExpr.Op.String()
	replacement := mutatedOp.String()

	return []m.Mutant{{
		ID:          m.MutantID(site, original, replacement),
		Type:        m.MutationLogical,
		Site:        site,
		Original:    original,
		Replacement: replacement,
		MutatedCode: replaceRange(content, start, start+len(original), replacement),
	}}
}
