package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"

	"leela.dev/pkg/leela/internal/adapter"
	"leela.dev/pkg/leela/internal/domain/mutagens"
	m "leela.dev/pkg/leela/internal/model"
)

// Generator enumerates mutable sites in a source unit and produces one
// candidate mutant per applicable rewrite rule.
type Generator interface {
	Generate(ctx context.Context, unit m.SourceUnit, allowed m.AllowedLines, mutationTypes ...m.MutationType) ([]m.Mutant, error)
}

type generator struct {
	goFiles adapter.GoFileAdapter
}

// NewGenerator creates a Generator backed by the provided Go file adapter.
func NewGenerator(goFiles adapter.GoFileAdapter) Generator {
	return &generator{goFiles: goFiles}
}

var mutationGenerators = map[m.MutationType]func(ast.Node, *token.FileSet, []byte, m.Path, mutagens.CategoryFunc) []m.Mutant{
	m.MutationArithmetic: mutagens.GenerateArithmeticMutations,
	m.MutationComparison: mutagens.GenerateComparisonMutations,
	m.MutationLogical:    mutagens.GenerateLogicalMutations,
	m.MutationBoolean:    mutagens.GenerateBooleanMutations,
	m.MutationUnary:      mutagens.GenerateUnaryMutations,
}

// Generate parses the unit and walks its AST once per requested mutation
// type. Sites excluded by the line filter are skipped entirely: never
// generated, never counted. A parse failure yields a *ParseError scoped to
// this unit.
func (g *generator) Generate(ctx context.Context, unit m.SourceUnit, allowed m.AllowedLines, mutationTypes ...m.MutationType) ([]m.Mutant, error) {
	if unit.Origin == "" {
		return nil, fmt.Errorf("missing source origin")
	}

	mutationTypes, err := resolveMutationTypes(mutationTypes)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	file, err := g.goFiles.Parse(ctx, fset, string(unit.Origin), unit.Content)
	if err != nil {
		return nil, &ParseError{Unit: unit.Origin, Err: err}
	}

	categoryOf := g.goFiles.CategoryLookup(fset, file)

	mutations := make([]m.Mutant, 0)

	for _, mutationType := range mutationTypes {
		mutations = append(mutations, collectMutations(mutationType, file, fset, unit, allowed, categoryOf)...)
	}

	return mutations, nil
}

func resolveMutationTypes(mutationTypes []m.MutationType) ([]m.MutationType, error) {
	if len(mutationTypes) == 0 {
		return m.AllMutationTypes, nil
	}

	known := make(map[m.MutationType]bool, len(m.AllMutationTypes))
	for _, t := range m.AllMutationTypes {
		known[t] = true
	}

	for _, mutationType := range mutationTypes {
		if !known[mutationType] {
			return nil, fmt.Errorf("unsupported mutation type: %s", mutationType)
		}
	}

	return mutationTypes, nil
}

func collectMutations(mutationType m.MutationType, file *ast.File, fset *token.FileSet, unit m.SourceUnit, allowed m.AllowedLines, categoryOf mutagens.CategoryFunc) []m.Mutant {
	gen, ok := mutationGenerators[mutationType]
	if !ok {
		return nil
	}

	mutations := make([]m.Mutant, 0)

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return true
		}

		line := fset.PositionFor(n.Pos(), true).Line
		if !allowed.Permits(unit.Origin, line) {
			// Excluded by the diff filter; children may still sit on
			// permitted lines.
			return true
		}

		mutations = append(mutations, gen(n, fset, unit.Content, unit.Origin, categoryOf)...)

		return true
	})

	return mutations
}
