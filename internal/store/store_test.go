package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func registries(t *testing.T) map[string]Registry {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "proviso.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Registry{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestRegistryCRUD(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			deal, err := reg.CreateDeal("Project Falcon Term Loan", "COVENANT MaxLeverage REQUIRES 1 <= 2")
			require.NoError(t, err)
			require.NotEmpty(t, deal.ID)
			require.Equal(t, "Project Falcon Term Loan", deal.Name)

			got, err := reg.GetDeal(deal.ID)
			require.NoError(t, err)
			require.Equal(t, deal.ID, got.ID)
			require.Equal(t, deal.SourceText, got.SourceText)

			require.NoError(t, reg.UpdateDealSource(deal.ID, "COVENANT MaxLeverage REQUIRES 1 <= 3"))
			got, err = reg.GetDeal(deal.ID)
			require.NoError(t, err)
			require.Equal(t, "COVENANT MaxLeverage REQUIRES 1 <= 3", got.SourceText)

			deals, err := reg.ListDeals()
			require.NoError(t, err)
			require.Len(t, deals, 1)

			require.NoError(t, reg.DeleteDeal(deal.ID))
			_, err = reg.GetDeal(deal.ID)
			require.Error(t, err)
			var notFound *ErrNotFound
			require.ErrorAs(t, err, &notFound)
		})
	}
}

func TestRegistryGetUpdateDeleteMissingDealReturnsErrNotFound(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			_, err := reg.GetDeal("does-not-exist")
			require.Error(t, err)
			var notFound *ErrNotFound
			require.ErrorAs(t, err, &notFound)

			err = reg.UpdateDealSource("does-not-exist", "x")
			require.Error(t, err)
			require.ErrorAs(t, err, &notFound)

			err = reg.DeleteDeal("does-not-exist")
			require.Error(t, err)
			require.ErrorAs(t, err, &notFound)
		})
	}
}

func TestChecklistStatusUpsertAndFilter(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			deal, err := reg.CreateDeal("Closing Deal", "")
			require.NoError(t, err)

			require.NoError(t, reg.UpsertChecklistStatus(ClosingChecklistEntry{
				DealID: deal.ID, CPChecklist: "Closing", CPName: "TitleInsurance", Status: "pending",
			}))
			require.NoError(t, reg.UpsertChecklistStatus(ClosingChecklistEntry{
				DealID: deal.ID, CPChecklist: "Closing", CPName: "LienRelease", Status: "pending",
			}))

			entries, err := reg.GetChecklistStatus(deal.ID, "")
			require.NoError(t, err)
			require.Len(t, entries, 2)

			require.NoError(t, reg.UpsertChecklistStatus(ClosingChecklistEntry{
				DealID: deal.ID, CPChecklist: "Closing", CPName: "TitleInsurance", Status: "satisfied",
			}))
			entries, err = reg.GetChecklistStatus(deal.ID, "Closing")
			require.NoError(t, err)
			require.Len(t, entries, 2)

			var titleStatus string
			for _, e := range entries {
				if e.CPName == "TitleInsurance" {
					titleStatus = e.Status
				}
			}
			require.Equal(t, "satisfied", titleStatus)
		})
	}
}

func TestUpsertChecklistStatusUnknownDeal(t *testing.T) {
	mem := NewMemoryStore()
	err := mem.UpsertChecklistStatus(ClosingChecklistEntry{DealID: "missing", CPChecklist: "Closing", CPName: "x", Status: "pending"})
	require.Error(t, err)
	var notFound *ErrNotFound
	require.ErrorAs(t, err, &notFound)
}
