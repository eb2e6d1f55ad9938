package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateCPStatusSatisfiesConditionOnlyWhenSatisfied(t *testing.T) {
	src := `
CONDITIONS_PRECEDENT Closing
  ITEM TitleInsurance SATISFIES [TitleCleared]
  ITEM LienRelease SATISFIES [LiensReleased]
`
	it := mustParse(t, src)

	checklist, err := it.GetCPChecklist("Closing")
	require.NoError(t, err)
	require.Equal(t, 2, checklist.ByStatus["pending"])

	require.NoError(t, it.UpdateCPStatus("Closing", "TitleInsurance", "in_progress"))
	require.False(t, it.state.satisfiedConditions["TitleCleared"])

	require.NoError(t, it.UpdateCPStatus("Closing", "TitleInsurance", "satisfied"))
	require.True(t, it.state.satisfiedConditions["TitleCleared"])
	require.False(t, it.state.satisfiedConditions["LiensReleased"])

	checklist, err = it.GetCPChecklist("Closing")
	require.NoError(t, err)
	require.Equal(t, 1, checklist.ByStatus["satisfied"])
	require.Equal(t, 1, checklist.ByStatus["pending"])
}

func TestUpdateCPStatusMissingItem(t *testing.T) {
	it := mustParse(t, `CONDITIONS_PRECEDENT Closing ITEM TitleInsurance`)
	err := it.UpdateCPStatus("Closing", "DoesNotExist", "satisfied")
	require.Error(t, err)
	var missing *MissingTargetError
	require.ErrorAs(t, err, &missing)
}
