package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wch1125/proviso/internal/logging"
)

// MemoryStore is the default Registry: a map-backed store guarded by
// sync.RWMutex, safe for the CLI to share across otherwise
// single-threaded interpreter instances (each deal owns its own
// *engine.Interpreter; the registry is the one thing they share).
type MemoryStore struct {
	mu        sync.RWMutex
	deals     map[string]Deal
	checklist map[string][]ClosingChecklistEntry // dealID -> entries
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deals:     map[string]Deal{},
		checklist: map[string][]ClosingChecklistEntry{},
	}
}

func (s *MemoryStore) CreateDeal(name, sourceText string) (Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	d := Deal{ID: uuid.NewString(), Name: name, SourceText: sourceText, CreatedAt: now, UpdatedAt: now}
	s.deals[d.ID] = d
	logging.Get(logging.CategoryStore).Info("deal created: id=%s name=%s", d.ID, d.Name)
	return d, nil
}

func (s *MemoryStore) GetDeal(id string) (Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deals[id]
	if !ok {
		return Deal{}, &ErrNotFound{ID: id}
	}
	return d, nil
}

func (s *MemoryStore) ListDeals() ([]Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Deal, 0, len(s.deals))
	for _, d := range s.deals {
		out = append(out, d)
	}
	return out, nil
}

func (s *MemoryStore) UpdateDealSource(id, sourceText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok {
		return &ErrNotFound{ID: id}
	}
	d.SourceText = sourceText
	d.UpdatedAt = time.Now()
	s.deals[id] = d
	return nil
}

func (s *MemoryStore) DeleteDeal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return &ErrNotFound{ID: id}
	}
	delete(s.deals, id)
	delete(s.checklist, id)
	return nil
}

func (s *MemoryStore) UpsertChecklistStatus(entry ClosingChecklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[entry.DealID]; !ok {
		return &ErrNotFound{ID: entry.DealID}
	}
	entry.UpdatedAt = time.Now()
	entries := s.checklist[entry.DealID]
	for i, e := range entries {
		if e.CPChecklist == entry.CPChecklist && e.CPName == entry.CPName {
			entries[i] = entry
			s.checklist[entry.DealID] = entries
			return nil
		}
	}
	s.checklist[entry.DealID] = append(entries, entry)
	return nil
}

func (s *MemoryStore) GetChecklistStatus(dealID, checklist string) ([]ClosingChecklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ClosingChecklistEntry
	for _, e := range s.checklist[dealID] {
		if checklist == "" || e.CPChecklist == checklist {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
