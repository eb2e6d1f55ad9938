package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/internal/findata"
)

func TestSimulateIsObservationallyNeutral(t *testing.T) {
	src := `
DEFINE Leverage = SeniorDebt / EBITDA
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
`
	it := mustParse(t, src)
	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"SeniorDebt": 100, "EBITDA": 40}})

	before, err := it.CheckCovenant("MaxLeverage")
	require.NoError(t, err)
	require.True(t, before.Compliant)

	var duringCompliant bool
	err = it.Simulate(map[string]float64{"SeniorDebt": 120}, func() error {
		during, err := it.CheckCovenant("MaxLeverage")
		if err != nil {
			return err
		}
		duringCompliant = during.Compliant
		return nil
	})
	require.NoError(t, err)
	require.False(t, duringCompliant)

	after, err := it.CheckCovenant("MaxLeverage")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSimulateRestoresOnError(t *testing.T) {
	it := mustParse(t, `DEFINE X = A + B`)
	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"A": 1, "B": 2}})

	err := it.Simulate(map[string]float64{"A": 100}, func() error {
		return assertErr
	})
	require.ErrorIs(t, err, assertErr)
	require.InDelta(t, 1.0, it.state.simple["A"], 1e-9)
}

var assertErr = simulateTestError("boom")

type simulateTestError string

func (e simulateTestError) Error() string { return string(e) }
