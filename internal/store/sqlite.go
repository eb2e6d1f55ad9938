package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wch1125/proviso/internal/logging"
)

// SQLiteStore is the persistent Registry, selected by internal/config
// when store.backend is "sqlite". It follows the teacher's own
// connection-hygiene conventions: a single connection (the pure-Go
// driver does not support concurrent writers well), WAL journaling, and
// a busy_timeout so a slow writer doesn't surface as a bare "database
// is locked" error.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (creating if necessary) the database at path and
// runs schema migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	log := logging.Get(logging.CategoryStore)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debug("failed to set journal_mode=WAL: %v", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	log.Info("sqlite store opened at %s", path)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS deals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	source_text TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS checklist_status (
	deal_id TEXT NOT NULL,
	cp_checklist TEXT NOT NULL,
	cp_name TEXT NOT NULL,
	status TEXT NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (deal_id, cp_checklist, cp_name)
);
`)
	return err
}

func (s *SQLiteStore) CreateDeal(name, sourceText string) (Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	d := Deal{ID: uuid.NewString(), Name: name, SourceText: sourceText, CreatedAt: now, UpdatedAt: now}
	_, err := s.db.Exec(`INSERT INTO deals (id, name, source_text, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.SourceText, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return Deal{}, fmt.Errorf("insert deal: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) GetDeal(id string) (Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var d Deal
	row := s.db.QueryRow(`SELECT id, name, source_text, created_at, updated_at FROM deals WHERE id = ?`, id)
	if err := row.Scan(&d.ID, &d.Name, &d.SourceText, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Deal{}, &ErrNotFound{ID: id}
		}
		return Deal{}, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) ListDeals() ([]Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT id, name, source_text, created_at, updated_at FROM deals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var out []Deal
	for rows.Next() {
		var d Deal
		if err := rows.Scan(&d.ID, &d.Name, &d.SourceText, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateDealSource(id, sourceText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`UPDATE deals SET source_text = ?, updated_at = ? WHERE id = ?`, sourceText, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &ErrNotFound{ID: id}
	}
	return nil
}

func (s *SQLiteStore) DeleteDeal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM deals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &ErrNotFound{ID: id}
	}
	_, err = s.db.Exec(`DELETE FROM checklist_status WHERE deal_id = ?`, id)
	return err
}

func (s *SQLiteStore) UpsertChecklistStatus(entry ClosingChecklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.UpdatedAt = time.Now()
	_, err := s.db.Exec(`
INSERT INTO checklist_status (deal_id, cp_checklist, cp_name, status, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (deal_id, cp_checklist, cp_name) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		entry.DealID, entry.CPChecklist, entry.CPName, entry.Status, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert checklist status: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetChecklistStatus(dealID, checklist string) ([]ClosingChecklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT deal_id, cp_checklist, cp_name, status, updated_at FROM checklist_status WHERE deal_id = ?`
	args := []any{dealID}
	if checklist != "" {
		query += ` AND cp_checklist = ?`
		args = append(args, checklist)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("get checklist status: %w", err)
	}
	defer rows.Close()

	var out []ClosingChecklistEntry
	for rows.Next() {
		var e ClosingChecklistEntry
		if err := rows.Scan(&e.DealID, &e.CPChecklist, &e.CPName, &e.Status, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan checklist status: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
