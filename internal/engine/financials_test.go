package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/internal/findata"
)

func TestGetComplianceHistoryPreservesChronologicalOrder(t *testing.T) {
	src := `
DEFINE Leverage = TotalDebt / EBITDA
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
`
	it := mustParse(t, src)
	it.LoadFinancials(findata.Snapshot{Periods: []findata.PeriodData{
		{Period: "2026-Q2", Data: map[string]float64{"TotalDebt": 600, "EBITDA": 100}},
		{Period: "2025-Q4", Data: map[string]float64{"TotalDebt": 100, "EBITDA": 25}},
		{Period: "2026-Q1", Data: map[string]float64{"TotalDebt": 300, "EBITDA": 60}},
	}})

	history, err := it.GetComplianceHistory()
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "2025-Q4", history[0].Period)
	require.Equal(t, "2026-Q1", history[1].Period)
	require.Equal(t, "2026-Q2", history[2].Period)

	require.True(t, history[0].Covenants["MaxLeverage"].Compliant)
	require.False(t, history[2].Covenants["MaxLeverage"].Compliant)
}

func TestGetComplianceHistoryRestoresEvaluationPeriod(t *testing.T) {
	it := mustParse(t, `COVENANT MaxLeverage REQUIRES 1 <= 2`)
	it.LoadFinancials(findata.Snapshot{Periods: []findata.PeriodData{
		{Period: "2025-Q4", Data: map[string]float64{}},
		{Period: "2026-Q1", Data: map[string]float64{}},
	}})
	require.NoError(t, it.SetEvaluationPeriod("2026-Q1"))

	_, err := it.GetComplianceHistory()
	require.NoError(t, err)
	require.Equal(t, "2026-Q1", it.state.evalPeriod)
}

func TestGetComplianceHistoryRequiresMultiPeriodMode(t *testing.T) {
	it := mustParse(t, `COVENANT MaxLeverage REQUIRES 1 <= 2`)
	_, err := it.GetComplianceHistory()
	require.Error(t, err)
	var notMulti *NotMultiPeriodError
	require.ErrorAs(t, err, &notMulti)
}
