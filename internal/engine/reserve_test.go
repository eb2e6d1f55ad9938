package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteWaterfallConservesTotalRevenue(t *testing.T) {
	src := `
RESERVE DebtServiceReserve TARGET $1_000_000
WATERFALL CashFlow
  TIER PRIORITY 1 PAY $400_000
  TIER PRIORITY 2 PAY_TO DebtServiceReserve UNTIL $1_000_000
  TIER PRIORITY 3 PAY $10_000_000
`
	it := mustParse(t, src)

	result, err := it.ExecuteWaterfall("CashFlow", 2_000_000)
	require.NoError(t, err)

	require.InDelta(t, result.TotalRevenue, result.TotalDistributed+result.Remainder, 1e-6)

	var totalPaid float64
	for _, tier := range result.Tiers {
		totalPaid += tier.Paid
	}
	require.InDelta(t, result.TotalDistributed, totalPaid, 1e-6)
}

func TestExecuteWaterfallGateBlocksTier(t *testing.T) {
	src := `
WATERFALL CashFlow
  TIER PRIORITY 1 PAY $100 GATE DSCR >= 1.20
`
	it := mustParse(t, src)
	it.state.simple["DSCR"] = 1.0

	result, err := it.ExecuteWaterfall("CashFlow", 1000)
	require.NoError(t, err)
	require.Len(t, result.Tiers, 1)
	require.True(t, result.Tiers[0].Blocked)
	require.InDelta(t, 1000.0, result.Remainder, 1e-6)
}

func TestDrawFromReserveClampsToAvailable(t *testing.T) {
	it := mustParse(t, `RESERVE Debt TARGET $1_000_000 MINIMUM $200_000`)
	require.NoError(t, it.FundReserve("Debt", 500_000))

	drawn, err := it.DrawFromReserve("Debt", 1_000_000)
	require.NoError(t, err)
	require.InDelta(t, 300_000.0, drawn, 1e-6)
}
