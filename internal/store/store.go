// Package store provides the closing-deal registry that sits outside
// the interpreter: a place to persist parsed source text and
// closing-checklist status, spec §2.Q. The CLI's serve-store command
// opens it; the TUI does not use it.
package store

import "time"

// Deal is one registered credit agreement.
type Deal struct {
	ID         string
	Name       string
	SourceText string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClosingChecklistEntry mirrors one conditions-precedent item's status,
// persisted alongside the deal so closing progress can be read back
// without re-running the interpreter.
type ClosingChecklistEntry struct {
	DealID      string
	CPChecklist string
	CPName      string
	Status      string
	UpdatedAt   time.Time
}

// Registry is the CRUD surface the CLI depends on. Both MemoryStore
// and SQLiteStore implement it.
type Registry interface {
	CreateDeal(name, sourceText string) (Deal, error)
	GetDeal(id string) (Deal, error)
	ListDeals() ([]Deal, error)
	UpdateDealSource(id, sourceText string) error
	DeleteDeal(id string) error

	UpsertChecklistStatus(entry ClosingChecklistEntry) error
	GetChecklistStatus(dealID, checklist string) ([]ClosingChecklistEntry, error)

	Close() error
}

// ErrNotFound is returned by Get/Update/Delete when no deal matches id.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string { return "deal not found: " + e.ID }
