package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"leela.dev/pkg/leela/internal/adapter"
	m "leela.dev/pkg/leela/internal/model"
)

func unitFor(src string) m.SourceUnit {
	return m.SourceUnit{Origin: "unit.go", Hash: "irrelevant", Content: []byte(src)}
}

func TestGenerator_GeneratesAllTypesByDefault(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	src := `package p

func f(a, b int, ok bool) int {
	if a < b && ok {
		return -a
	}

	return a + b
}

var enabled = true
`

	mutants, err := gen.Generate(context.Background(), unitFor(src), nil)
	require.NoError(t, err)

	counts := make(map[m.MutationType]int)
	for _, mutant := range mutants {
		counts[mutant.Type]++
	}

	require.Equal(t, 4, counts[m.MutationArithmetic])
	require.Equal(t, 5, counts[m.MutationComparison])
	require.Equal(t, 1, counts[m.MutationLogical])
	require.Equal(t, 1, counts[m.MutationBoolean])
	require.Equal(t, 1, counts[m.MutationUnary])
}

func TestGenerator_CategoriesFromSignature(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	src := `package p

func f(a, b int) int { return a + b }

func g(s, u string) bool { return s == u }
`

	mutants, err := gen.Generate(context.Background(), unitFor(src), nil, m.MutationArithmetic, m.MutationComparison)
	require.NoError(t, err)
	require.NotEmpty(t, mutants)

	for _, mutant := range mutants {
		switch mutant.Type {
		case m.MutationArithmetic:
			require.Equal(t, m.CategoryNumeric, mutant.Site.Left)
			require.Equal(t, m.CategoryNumeric, mutant.Site.Right)
		case m.MutationComparison:
			require.Equal(t, m.CategoryText, mutant.Site.Left)
			require.Equal(t, m.CategoryText, mutant.Site.Right)
		}
	}
}

func TestGenerator_SelectedTypesOnly(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	src := "package p\n\nfunc f(a, b int) bool { return a+b > 0 }\n"

	mutants, err := gen.Generate(context.Background(), unitFor(src), nil, m.MutationComparison)
	require.NoError(t, err)

	for _, mutant := range mutants {
		require.Equal(t, m.MutationComparison, mutant.Type)
	}

	require.Len(t, mutants, 5)
}

func TestGenerator_UnsupportedTypeRejected(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	_, err := gen.Generate(context.Background(), unitFor("package p\n"), nil, m.MutationType("statement-deletion"))
	require.Error(t, err)
}

func TestGenerator_ParseFailureIsScopedToUnit(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	_, err := gen.Generate(context.Background(), unitFor("package p\n func {"), nil)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, m.Path("unit.go"), parseErr.Unit)
}

func TestGenerator_MissingOriginRejected(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	_, err := gen.Generate(context.Background(), m.SourceUnit{Content: []byte("package p\n")}, nil)
	require.Error(t, err)
}

func TestGenerator_LineFilterSkipsExcludedSites(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())

	src := `package p

func f(a, b int) int {
	x := a + b
	y := a * b

	return x - y
}
`

	allowed := m.AllowedLines{"unit.go": {4: true}}

	mutants, err := gen.Generate(context.Background(), unitFor(src), allowed, m.MutationArithmetic)
	require.NoError(t, err)
	require.Len(t, mutants, 4)

	for _, mutant := range mutants {
		require.Equal(t, 4, mutant.Site.Line)
		require.Equal(t, "+", mutant.Original)
	}
}

func TestGenerator_DeterministicIDsAcrossRuns(t *testing.T) {
	gen := NewGenerator(adapter.NewLocalGoFileAdapter())
	src := "package p\n\nfunc f(a, b int) int { return a + b }\n"

	first, err := gen.Generate(context.Background(), unitFor(src), nil, m.MutationArithmetic)
	require.NoError(t, err)

	second, err := gen.Generate(context.Background(), unitFor(src), nil, m.MutationArithmetic)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))

	for i := range first {
		require.Equal(t, first[i].ID, second[i].ID)
	}
}
