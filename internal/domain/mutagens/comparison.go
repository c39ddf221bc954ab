package mutagens

import (
	"go/ast"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

// GenerateComparisonMutations generates comparison operator swaps, including
// the boundary variants (< vs <=), for the given AST node.
func GenerateComparisonMutations(n ast.Node, fset *token.FileSet, content []byte, unit m.Path, categoryOf CategoryFunc) []m.Mutant {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	if !isComparisonOp(binExpr.Op) {
		return nil
	}

	start, ok := offsetForPos(fset, binExpr.OpPos)
	if !ok {
		return nil
	}

	site := binarySite(binExpr, fset, unit, categoryOf)
	original := binExpr.Op.String()
	end := start + len(original)

	var mutations []m.Mutant

	for _, mutatedOp := range getComparisonAlternatives(binExpr.Op) {
		replacement := mutatedOp.String()
		mutations = append(mutations, m.Mutant{
			ID:          m.MutantID(site, original, replacement),
			Type:        m.MutationComparison,
			Site:        site,
			Original:    original,
			Replacement: replacement,
			MutatedCode: replaceRange(content, start, end, replacement),
		})
	}

	return mutations
}

func isComparisonOp(op token.Token) bool {
	return op == token.LSS || op == token.GTR || op == token.LEQ ||
		op == token.GEQ || op == token.EQL || op == token.NEQ
}

func getComparisonAlternatives(original token.Token) []token.Token {
	allOps := []token.Token{token.LSS, token.GTR, token.LEQ, token.GEQ, token.EQL, token.NEQ}

	return operatorAlternatives(original, allOps)
}

// IsOrderingOp reports whether the token is an ordering comparison, which
// the oracle treats differently from pure (in)equality.
func IsOrderingOp(op string) bool {
	return op == token.LSS.String() || op == token.GTR.String() ||
		op == token.LEQ.String() || op == token.GEQ.String()
}
