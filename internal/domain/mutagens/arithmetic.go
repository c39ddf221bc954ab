package mutagens

import (
	"go/ast"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

// GenerateArithmeticMutations generates arithmetic operator swaps for the
// given AST node. One mutant is produced per alternative operator.
func GenerateArithmeticMutations(n ast.Node, fset *token.FileSet, content []byte, unit m.Path, categoryOf CategoryFunc) []m.Mutant {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok {
		return nil
	}

	if !isArithmeticOp(binExpr.Op) {
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

	for _, mutatedOp := range getArithmeticAlternatives(binExpr.Op) {
		replacement := mutatedOp.String()
		mutations = append(mutations, m.Mutant{
			ID:          m.MutantID(site, original, replacement),
			Type:        m.MutationArithmetic,
			Site:        site,
			Original:    original,
			Replacement: replacement,
			MutatedCode: replaceRange(content, start, end, replacement),
		})
	}

	return mutations
}

func isArithmeticOp(op token.Token) bool {
	return op == token.ADD || op == token.SUB || op == token.MUL || op == token.QUO || op == token.REM
}

func getArithmeticAlternatives(original token.Token) []token.Token {
	allOps := []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM}

	return operatorAlternatives(original, allOps)
}
