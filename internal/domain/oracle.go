package domain

import (
	"leela.dev/pkg/leela/internal/domain/mutagens"
	m "leela.dev/pkg/leela/internal/model"
)

// Oracle decides, per mutant, whether the rewrite is statically feasible
// given the coarse categories of the operands involved. Pruning is strictly
// a performance optimization: when any operand's category is Unknown the
// oracle must answer Feasible, so a pruned mutant is never a false
// negative.
type Oracle interface {
	Feasible(mutant m.Mutant) bool
}

type oracle struct{}

// NewOracle creates the rule-table oracle.
func NewOracle() Oracle {
	return &oracle{}
}

func (o *oracle) Feasible(mutant m.Mutant) bool {
	left := mutant.Site.Left
	right := mutant.Site.Right

	switch mutant.Type {
	case m.MutationArithmetic:
		// Arithmetic swaps only make sense for numeric operands: strings
		// support + alone, booleans support none of the five operators.
		return !isCategory(left, m.CategoryText, m.CategoryBoolean) &&
			!isCategory(right, m.CategoryText, m.CategoryBoolean)

	case m.MutationComparison:
		// Ordering operators do not apply to booleans; equality always
		// applies. Text is ordered, so it stays feasible throughout.
		if mutagens.IsOrderingOp(mutant.Original) || mutagens.IsOrderingOp(mutant.Replacement) {
			return left != m.CategoryBoolean && right != m.CategoryBoolean
		}

		return true

	case m.MutationLogical:
		return !isCategory(left, m.CategoryNumeric, m.CategoryText) &&
			!isCategory(right, m.CategoryNumeric, m.CategoryText)

	case m.MutationBoolean:
		return true

	case m.MutationUnary:
		return !isCategory(left, m.CategoryText, m.CategoryBoolean)
	}

	return true
}

func isCategory(category m.OperandCategory, candidates ...m.OperandCategory) bool {
	for _, candidate := range candidates {
		if category == candidate {
			return true
		}
	}

	return false
}

// Partition splits mutants into feasible and pruned sets, preserving input
// order. With useTypes disabled everything is feasible.
func Partition(o Oracle, mutants []m.Mutant, useTypes bool) (feasible, pruned []m.Mutant) {
	if !useTypes {
		return mutants, nil
	}

	for _, mutant := range mutants {
		if o.Feasible(mutant) {
			feasible = append(feasible, mutant)
		} else {
			pruned = append(pruned, mutant)
		}
	}

	return feasible, pruned
}
