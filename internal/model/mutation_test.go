package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutantID_Deterministic(t *testing.T) {
	site := MutationSite{File: "calc/calc.go", Line: 12, Column: 9, NodeKind: NodeBinary}

	first := MutantID(site, "+", "-")
	second := MutantID(site, "+", "-")

	require.Equal(t, first, second)
	require.Len(t, first, 16)
}

func TestMutantID_DistinguishesRewrites(t *testing.T) {
	site := MutationSite{File: "calc/calc.go", Line: 12, Column: 9, NodeKind: NodeBinary}

	require.NotEqual(t, MutantID(site, "+", "-"), MutantID(site, "+", "*"))
}

func TestMutantID_DistinguishesSites(t *testing.T) {
	left := MutationSite{File: "calc/calc.go", Line: 12, Column: 9, NodeKind: NodeBinary}
	right := MutationSite{File: "calc/calc.go", Line: 12, Column: 21, NodeKind: NodeBinary}

	require.NotEqual(t, MutantID(left, "+", "-"), MutantID(right, "+", "-"))
}

func TestMutationSite_Key(t *testing.T) {
	site := MutationSite{File: "a.go", Line: 3, Column: 7, NodeKind: NodeIdent}

	require.Equal(t, SiteKey{File: "a.go", Line: 3}, site.Key())
}

func TestAllowedLines_NilPermitsEverything(t *testing.T) {
	var allowed AllowedLines

	require.True(t, allowed.Permits("any.go", 1))
	require.True(t, allowed.Permits("other.go", 9999))
}

func TestAllowedLines_AbsentFilePermitsNothing(t *testing.T) {
	allowed := AllowedLines{
		"changed.go": {10: true, 11: true},
	}

	require.True(t, allowed.Permits("changed.go", 10))
	require.False(t, allowed.Permits("changed.go", 12))
	require.False(t, allowed.Permits("untouched.go", 10))
}
