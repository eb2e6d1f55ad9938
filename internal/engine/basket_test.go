package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUseBasketRejectsOverCapacityAndLeavesStateUnchanged(t *testing.T) {
	it := mustParse(t, `BASKET RestrictedPayments CAPACITY $10_000_000`)

	status, err := it.GetBasketStatus("RestrictedPayments")
	require.NoError(t, err)
	require.InDelta(t, 10_000_000.0, status.Capacity, 1e-6)

	require.NoError(t, it.UseBasket("RestrictedPayments", 4_000_000, "dividend", "2026-01-01"))

	err = it.UseBasket("RestrictedPayments", 7_000_000, "another dividend", "2026-02-01")
	require.Error(t, err)
	var insufficient *InsufficientCapacityError
	require.ErrorAs(t, err, &insufficient)

	status, err = it.GetBasketStatus("RestrictedPayments")
	require.NoError(t, err)
	require.InDelta(t, 4_000_000.0, status.Used, 1e-6)
}

func TestBuilderBasketAccumulationClampedByMaximum(t *testing.T) {
	it := mustParse(t, `
BASKET Accrued
  BUILDS_FROM NetIncome
  STARTING $1_000_000
  MAXIMUM $5_000_000
`)
	it.state.simple["NetIncome"] = 10_000_000

	require.NoError(t, it.AccumulateBuilderBasket("Accrued", "annual accrual", "2026-01-01"))
	status, err := it.GetBasketStatus("Accrued")
	require.NoError(t, err)
	require.LessOrEqual(t, status.Capacity, 5_000_000.0)
}

func TestGrowerBasketFloorWins(t *testing.T) {
	it := mustParse(t, `
BASKET Investments
  CAPACITY EBITDA
  FLOOR $2_000_000
`)
	it.state.simple["EBITDA"] = 500_000

	status, err := it.GetBasketStatus("Investments")
	require.NoError(t, err)
	require.InDelta(t, 2_000_000.0, status.Capacity, 1e-6)
}
