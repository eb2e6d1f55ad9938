package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/internal/findata"
	"github.com/wch1125/proviso/parser"
)

func mustParse(t *testing.T, src string) *Interpreter {
	t.Helper()
	program, err := parser.Parse(src)
	require.NoError(t, err)
	return New(program)
}

func TestCheckCovenantCompliantAndBreach(t *testing.T) {
	src := `
DEFINE Leverage = TotalDebt / EBITDA
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
  TESTED QUARTERLY
`
	it := mustParse(t, src)
	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"TotalDebt": 100, "EBITDA": 25}})

	result, err := it.CheckCovenant("MaxLeverage")
	require.NoError(t, err)
	require.True(t, result.Compliant)
	require.InDelta(t, 4.0, result.Actual, 1e-9)

	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"TotalDebt": 300, "EBITDA": 25}})
	result, err = it.CheckCovenant("MaxLeverage")
	require.NoError(t, err)
	require.False(t, result.Compliant)
	require.InDelta(t, 12.0, result.Actual, 1e-9)
}

func TestCheckCovenantUnknownSymbol(t *testing.T) {
	it := mustParse(t, `COVENANT MaxLeverage REQUIRES 1 <= 2`)
	_, err := it.CheckCovenant("DoesNotExist")
	require.Error(t, err)
	var unknown *UnknownSymbolError
	require.ErrorAs(t, err, &unknown)
}

func TestPhaseGatesCovenantActivity(t *testing.T) {
	src := `
COVENANT MaxLeverage REQUIRES 1 <= 2
PHASE Construction
  SUSPENDS [MaxLeverage]
`
	it := mustParse(t, src)
	require.Equal(t, "Construction", it.GetCurrentPhase())

	active, err := it.CheckActiveCovenants()
	require.NoError(t, err)
	require.NotContains(t, active, "MaxLeverage")
}
