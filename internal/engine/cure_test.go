package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/internal/findata"
)

func TestApplyCureSucceedsAndTracksUsage(t *testing.T) {
	src := `
DEFINE Leverage = TotalDebt / EBITDA
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
  TESTED QUARTERLY
  CURE EquityCure MAX_USES 1 OVER "rolling 4 quarters" MAX_AMOUNT $50_000_000
`
	it := mustParse(t, src)
	it.LoadFinancials(findata.Snapshot{Simple: map[string]float64{"TotalDebt": 600, "EBITDA": 100}})

	canCure, err := it.CanApplyCure("MaxLeverage")
	require.NoError(t, err)
	require.True(t, canCure)

	result, err := it.ApplyCure("MaxLeverage", 5, "2026-03-31")
	require.NoError(t, err)
	require.True(t, result.Success)

	canCure, err = it.CanApplyCure("MaxLeverage")
	require.NoError(t, err)
	require.False(t, canCure)
}

func TestApplyCureRefusesAsStructuredResultNotError(t *testing.T) {
	src := `
COVENANT MaxLeverage
  REQUIRES 1 <= 2
`
	it := mustParse(t, src)
	result, err := it.ApplyCure("MaxLeverage", 10, "2026-01-01")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "No cure declared for this covenant", result.Reason)
}

func TestApplyAmendmentRollsBackOnFailure(t *testing.T) {
	src := `
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
`
	it := mustParse(t, src)

	amendment := &ast.Amendment{
		Directives: []ast.Directive{
			ast.Modify{
				Type: "COVENANT",
				Name: "MaxLeverage",
				Modifications: []ast.ModField{{Field: "requires", Value: &ast.Number{Value: 1}}},
			},
			ast.Delete{Type: "COVENANT", Name: "DoesNotExist"},
		},
	}
	err := it.ApplyAmendment(amendment)
	require.Error(t, err)
	var missing *MissingTargetError
	require.ErrorAs(t, err, &missing)

	_, ok := it.tables.covenants["MaxLeverage"]
	require.True(t, ok)
	require.Len(t, it.GetAppliedAmendments(), 0)
}

func TestDeleteElementRemovesMilestone(t *testing.T) {
	src := `
MILESTONE CODMilestone
  TARGET_DATE 2026-06-30
`
	it := mustParse(t, src)
	require.NoError(t, it.deleteElement("MILESTONE", "CODMilestone"))
	_, ok := it.tables.milestones["CODMilestone"]
	require.False(t, ok)

	err := it.deleteElement("MILESTONE", "CODMilestone")
	var missing *MissingTargetError
	require.ErrorAs(t, err, &missing)
}

func TestApplyAmendmentRollsBackNonCoreTableAdds(t *testing.T) {
	src := `
MILESTONE CODMilestone
  TARGET_DATE 2026-06-30
`
	it := mustParse(t, src)

	amendment := &ast.Amendment{
		Directives: []ast.Directive{
			ast.Add{Stmt: &ast.Milestone{Name: "FinancialClose", TargetDate: "2026-12-31"}},
			ast.Delete{Type: "MILESTONE", Name: "DoesNotExist"},
		},
	}
	err := it.ApplyAmendment(amendment)
	require.Error(t, err)
	require.ErrorAs(t, err, new(*MissingTargetError))

	_, ok := it.tables.milestones["FinancialClose"]
	require.False(t, ok, "amendment failure must roll back the milestone Add too, not just covenant/basket tables")
}
