package mutagens

import (
	"go/ast"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// GenerateBooleanMutations flips boolean literals (true <-> false) for the
// given AST node.
func GenerateBooleanMutations(n ast.Node, fset *token.FileSet, content []byte, unit m.Path, _ CategoryFunc) []m.Mutant {
	ident, ok := n.(*ast.Ident)
	if !ok {
		return nil
	}

	if !isBooleanLiteral(ident.Name) {
		return nil
	}

	start, ok := offsetForPos(fset, ident.Pos())
	if !ok {
		return nil
	}

	pos := fset.Position(ident.Pos())
	site := m.MutationSite{
		File:     unit,
		Line:     pos.Line,
		Column:   pos.Column,
		NodeKind: m.NodeIdent,
		Left:     m.CategoryBoolean,
		Right:    m.CategoryBoolean,
	}

	original := ident.Name
	replacement := flipBoolean(original)

	return []m.Mutant{{
		ID:          m.MutantID(site, original, replacement),
		Type:        m.MutationBoolean,
		Site:        site,
		Original:    original,
		Replacement: replacement,
		MutatedCode: replaceRange(content, start, start+len(original), replacement),
	}}
}

func isBooleanLiteral(name string) bool {
	return name == trueStr || name == falseStr
}

func flipBoolean(original string) string {
	if original == trueStr {
		return falseStr
	}

	return trueStr
}
