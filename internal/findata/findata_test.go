package findata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSimpleJSON(t *testing.T) {
	snap, err := Decode([]byte(`{"TotalDebt": 100, "EBITDA": 25}`))
	require.NoError(t, err)
	require.Nil(t, snap.Periods)
	require.InDelta(t, 100.0, snap.Simple["TotalDebt"], 1e-9)
	require.InDelta(t, 25.0, snap.Simple["EBITDA"], 1e-9)
}

func TestDecodeSimpleYAML(t *testing.T) {
	snap, err := Decode([]byte("TotalDebt: 100\nEBITDA: 25\n"))
	require.NoError(t, err)
	require.Nil(t, snap.Periods)
	require.InDelta(t, 100.0, snap.Simple["TotalDebt"], 1e-9)
}

func TestDecodeMultiPeriodJSONOrdersChronologically(t *testing.T) {
	snap, err := DecodeJSON([]byte(`{
		"periods": [
			{"period": "2026-Q2", "data": {"Revenue": 20}},
			{"period": "2025-Q4", "data": {"Revenue": 10}},
			{"period": "2026-Q1", "data": {"Revenue": 15}}
		]
	}`))
	require.NoError(t, err)
	require.Nil(t, snap.Simple)
	require.Len(t, snap.Periods, 3)
	require.Equal(t, "2025-Q4", snap.Periods[0].Period)
	require.Equal(t, "2026-Q1", snap.Periods[1].Period)
	require.Equal(t, "2026-Q2", snap.Periods[2].Period)
}

func TestDecodeMultiPeriodYAML(t *testing.T) {
	snap, err := Decode([]byte(`
periods:
  - period: "2026-03"
    data:
      Revenue: 5
  - period: "2025-01"
    data:
      Revenue: 3
`))
	require.NoError(t, err)
	require.Len(t, snap.Periods, 2)
	require.Equal(t, "2025-01", snap.Periods[0].Period)
	require.Equal(t, "2026-03", snap.Periods[1].Period)
}

func TestDecodeInvalidYAMLReturnsError(t *testing.T) {
	_, err := Decode([]byte("not: valid: yaml: at: all:"))
	require.Error(t, err)
}

func TestDecodeJSONInvalidReturnsError(t *testing.T) {
	_, err := DecodeJSON([]byte(`{not json`))
	require.Error(t, err)
}

func TestOrderPeriodsDoesNotMutateInput(t *testing.T) {
	input := []PeriodData{
		{Period: "2026"},
		{Period: "2025"},
	}
	sorted := OrderPeriods(input)
	require.Equal(t, "2026", input[0].Period)
	require.Equal(t, "2025", sorted[0].Period)
}

func TestOrderPeriodsMixedGranularity(t *testing.T) {
	input := []PeriodData{
		{Period: "2026-Q1"},
		{Period: "2025"},
		{Period: "2025-12"},
	}
	sorted := OrderPeriods(input)
	require.Equal(t, "2025", sorted[0].Period)
	require.Equal(t, "2025-12", sorted[1].Period)
	require.Equal(t, "2026-Q1", sorted[2].Period)
}
