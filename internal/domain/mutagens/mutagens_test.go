package mutagens

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"
	m "leela.dev/pkg/leela/internal/model"
)

func generate(t *testing.T, src string, gen func(ast.Node, *token.FileSet, []byte, m.Path, CategoryFunc) []m.Mutant) []m.Mutant {
	t.Helper()

	fset := token.NewFileSet()
	content := []byte(src)

	file, err := parser.ParseFile(fset, "unit.go", content, parser.ParseComments)
	require.NoError(t, err)

	var mutants []m.Mutant

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return true
		}

		mutants = append(mutants, gen(n, fset, content, "unit.go", nil)...)

		return true
	})

	return mutants
}

func mutatedCodes(mutants []m.Mutant) []string {
	codes := make([]string, 0, len(mutants))
	for _, mutant := range mutants {
		codes = append(codes, string(mutant.MutatedCode))
	}

	return codes
}

func TestGenerateArithmeticMutations_AllAlternatives(t *testing.T) {
	src := "package p\n\nfunc f(a, b int) int { return a + b }\n"

	mutants := generate(t, src, GenerateArithmeticMutations)
	require.Len(t, mutants, 4)

	codes := mutatedCodes(mutants)
	for _, op := range []string{"-", "*", "/", "%"} {
		require.Contains(t, codes, "package p\n\nfunc f(a, b int) int { return a "+op+" b }\n")
	}

	for _, mutant := range mutants {
		require.Equal(t, m.MutationArithmetic, mutant.Type)
		require.Equal(t, "+", mutant.Original)
		require.Equal(t, m.NodeBinary, mutant.Site.NodeKind)
		require.Equal(t, 3, mutant.Site.Line)
		require.NotEmpty(t, mutant.ID)
	}
}

func TestGenerateArithmeticMutations_IgnoresComparisons(t *testing.T) {
	src := "package p\n\nfunc f(a, b int) bool { return a < b }\n"

	require.Empty(t, generate(t, src, GenerateArithmeticMutations))
}

func TestGenerateArithmeticMutations_UnknownCategoryWithoutLookup(t *testing.T) {
	src := "package p\n\nfunc f(a, b int) int { return a + b }\n"

	mutants := generate(t, src, GenerateArithmeticMutations)
	require.NotEmpty(t, mutants)
	require.Equal(t, m.CategoryUnknown, mutants[0].Site.Left)
	require.Equal(t, m.CategoryUnknown, mutants[0].Site.Right)
}

func TestGenerateComparisonMutations_IncludesBoundaryVariants(t *testing.T) {
	src := "package p\n\nfunc f(a, b int) bool { return a < b }\n"

	mutants := generate(t, src, GenerateComparisonMutations)
	require.Len(t, mutants, 5)

	codes := mutatedCodes(mutants)
	for _, op := range []string{">", "<=", ">=", "==", "!="} {
		require.Contains(t, codes, "package p\n\nfunc f(a, b int) bool { return a "+op+" b }\n")
	}
}

func TestGenerateLogicalMutations_Swap(t *testing.T) {
	src := "package p\n\nfunc f(a, b bool) bool { return a && b }\n"

	mutants := generate(t, src, GenerateLogicalMutations)
	require.Len(t, mutants, 1)
	require.Equal(t, "&&", mutants[0].Original)
	require.Equal(t, "||", mutants[0].Replacement)
	require.Equal(t, "package p\n\nfunc f(a, b bool) bool { return a || b }\n", string(mutants[0].MutatedCode))
	require.Equal(t, m.CategoryBoolean, mutants[0].Site.Left)
	require.Equal(t, m.CategoryBoolean, mutants[0].Site.Right)
}

func TestGenerateBooleanMutations_FlipsEachLiteral(t *testing.T) {
	src := "package p\n\nvar enabled = true\n\nvar disabled = false\n"

	mutants := generate(t, src, GenerateBooleanMutations)
	require.Len(t, mutants, 2)

	codes := mutatedCodes(mutants)
	require.Contains(t, codes, "package p\n\nvar enabled = false\n\nvar disabled = false\n")
	require.Contains(t, codes, "package p\n\nvar enabled = true\n\nvar disabled = true\n")

	for _, mutant := range mutants {
		require.Equal(t, m.NodeIdent, mutant.Site.NodeKind)
	}
}

func TestGenerateBooleanMutations_IgnoresOtherIdents(t *testing.T) {
	src := "package p\n\nvar truth = 1\n"

	require.Empty(t, generate(t, src, GenerateBooleanMutations))
}

func TestGenerateUnaryMutations_RemovesMinus(t *testing.T) {
	src := "package p\n\nfunc f(x int) int { return -x }\n"

	mutants := generate(t, src, GenerateUnaryMutations)
	require.Len(t, mutants, 1)
	require.Equal(t, "-", mutants[0].Original)
	require.Equal(t, "", mutants[0].Replacement)
	require.Equal(t, "package p\n\nfunc f(x int) int { return x }\n", string(mutants[0].MutatedCode))
	require.Equal(t, m.NodeUnary, mutants[0].Site.NodeKind)
}

func TestGenerateUnaryMutations_IgnoresNot(t *testing.T) {
	src := "package p\n\nfunc f(x bool) bool { return !x }\n"

	require.Empty(t, generate(t, src, GenerateUnaryMutations))
}

func TestMutantsDoNotShareContent(t *testing.T) {
	src := "package p\n\nfunc f(a, b int) int { return a + b }\n"
	content := []byte(src)

	mutants := generate(t, src, GenerateArithmeticMutations)
	require.Len(t, mutants, 4)

	// The original buffer and every mutant copy stay independent.
	require.Equal(t, src, string(content))

	seen := make(map[string]bool)
	for _, mutant := range mutants {
		seen[string(mutant.MutatedCode)] = true
	}

	require.Len(t, seen, 4)
}

func TestIsOrderingOp(t *testing.T) {
	for _, op := range []string{"<", ">", "<=", ">="} {
		require.True(t, IsOrderingOp(op))
	}

	for _, op := range []string{"==", "!=", "+", "&&"} {
		require.False(t, IsOrderingOp(op))
	}
}
