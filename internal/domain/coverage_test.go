package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	m "leela.dev/pkg/leela/internal/model"
)

func TestBuildCoverageIndex_OrdersTestsByBaselinePosition(t *testing.T) {
	baseline := m.Baseline{
		Tests: []m.TestCase{
			{ID: "./calc:TestAdd"},
			{ID: "./calc:TestSub"},
			{ID: "./calc:TestMul"},
		},
		CoveredBy: map[m.SiteKey][]string{
			{File: "calc.go", Line: 4}: {"./calc:TestMul", "./calc:TestAdd"},
		},
	}

	index, err := BuildCoverageIndex(baseline)
	require.NoError(t, err)

	require.Equal(t,
		[]string{"./calc:TestAdd", "./calc:TestMul"},
		index.TestsFor(m.SiteKey{File: "calc.go", Line: 4}))
}

func TestBuildCoverageIndex_RedBaselineAborts(t *testing.T) {
	baseline := m.Baseline{
		Tests:  []m.TestCase{{ID: "./calc:TestAdd"}},
		Failed: []string{"./calc:TestAdd"},
	}

	_, err := BuildCoverageIndex(baseline)
	require.Error(t, err)

	var failure *BaselineFailure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, []string{"./calc:TestAdd"}, failure.FailedTests)
}

func TestBuildCoverageIndex_EmptyBaseline(t *testing.T) {
	index, err := BuildCoverageIndex(m.Baseline{})
	require.NoError(t, err)
	require.Equal(t, 0, index.Sites())
	require.Empty(t, index.Tests())
}
