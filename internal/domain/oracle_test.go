package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	m "leela.dev/pkg/leela/internal/model"
)

func mutantFor(mutationType m.MutationType, left, right m.OperandCategory, original, replacement string) m.Mutant {
	return m.Mutant{
		ID:   "test",
		Type: mutationType,
		Site: m.MutationSite{
			File: "unit.go", Line: 1, Column: 1,
			NodeKind: m.NodeBinary,
			Left:     left, Right: right,
		},
		Original:    original,
		Replacement: replacement,
	}
}

func TestOracle_ArithmeticInfeasibleForTextAndBoolean(t *testing.T) {
	oracle := NewOracle()

	require.False(t, oracle.Feasible(mutantFor(m.MutationArithmetic, m.CategoryText, m.CategoryText, "+", "-")))
	require.False(t, oracle.Feasible(mutantFor(m.MutationArithmetic, m.CategoryBoolean, m.CategoryBoolean, "+", "-")))
	require.True(t, oracle.Feasible(mutantFor(m.MutationArithmetic, m.CategoryNumeric, m.CategoryNumeric, "+", "-")))
}

func TestOracle_UnknownIsAlwaysFeasible(t *testing.T) {
	oracle := NewOracle()

	for _, mutationType := range m.AllMutationTypes {
		mutant := mutantFor(mutationType, m.CategoryUnknown, m.CategoryUnknown, "<", "<=")
		require.True(t, oracle.Feasible(mutant), "type %s", mutationType)
	}
}

func TestOracle_ComparisonOrderingInfeasibleForBoolean(t *testing.T) {
	oracle := NewOracle()

	ordering := mutantFor(m.MutationComparison, m.CategoryBoolean, m.CategoryBoolean, "==", "<")
	require.False(t, oracle.Feasible(ordering))

	equality := mutantFor(m.MutationComparison, m.CategoryBoolean, m.CategoryBoolean, "==", "!=")
	require.True(t, oracle.Feasible(equality))
}

func TestOracle_ComparisonOrderingFeasibleForText(t *testing.T) {
	oracle := NewOracle()

	// Strings are ordered, so boundary swaps stay meaningful.
	require.True(t, oracle.Feasible(mutantFor(m.MutationComparison, m.CategoryText, m.CategoryText, "<", "<=")))
}

func TestOracle_LogicalInfeasibleForNumericAndText(t *testing.T) {
	oracle := NewOracle()

	require.False(t, oracle.Feasible(mutantFor(m.MutationLogical, m.CategoryNumeric, m.CategoryNumeric, "&&", "||")))
	require.False(t, oracle.Feasible(mutantFor(m.MutationLogical, m.CategoryText, m.CategoryText, "&&", "||")))
	require.True(t, oracle.Feasible(mutantFor(m.MutationLogical, m.CategoryBoolean, m.CategoryBoolean, "&&", "||")))
}

func TestOracle_UnaryInfeasibleForTextAndBoolean(t *testing.T) {
	oracle := NewOracle()

	require.False(t, oracle.Feasible(mutantFor(m.MutationUnary, m.CategoryText, m.CategoryText, "-", "")))
	require.False(t, oracle.Feasible(mutantFor(m.MutationUnary, m.CategoryBoolean, m.CategoryBoolean, "-", "")))
	require.True(t, oracle.Feasible(mutantFor(m.MutationUnary, m.CategoryNumeric, m.CategoryNumeric, "-", "")))
}

func TestPartition_PreservesOrder(t *testing.T) {
	mutants := []m.Mutant{
		mutantFor(m.MutationArithmetic, m.CategoryNumeric, m.CategoryNumeric, "+", "-"),
		mutantFor(m.MutationArithmetic, m.CategoryText, m.CategoryText, "+", "-"),
		mutantFor(m.MutationArithmetic, m.CategoryNumeric, m.CategoryNumeric, "+", "*"),
	}

	feasible, pruned := Partition(NewOracle(), mutants, true)

	require.Len(t, feasible, 2)
	require.Len(t, pruned, 1)
	require.Equal(t, "-", feasible[0].Replacement)
	require.Equal(t, "*", feasible[1].Replacement)
	require.Equal(t, m.CategoryText, pruned[0].Site.Left)
}

func TestPartition_DisabledPrunesNothing(t *testing.T) {
	mutants := []m.Mutant{
		mutantFor(m.MutationArithmetic, m.CategoryText, m.CategoryText, "+", "-"),
	}

	feasible, pruned := Partition(NewOracle(), mutants, false)

	require.Len(t, feasible, 1)
	require.Empty(t, pruned)
}
