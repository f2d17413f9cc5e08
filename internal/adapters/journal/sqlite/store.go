package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/randomtoy/arcana-go/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id        TEXT PRIMARY KEY,
	kind      TEXT NOT NULL,
	date      TEXT NOT NULL,
	spread_id TEXT NOT NULL DEFAULT '',
	title     TEXT NOT NULL,
	saved_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_slots (
	entry_id    TEXT NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	card_id     TEXT NOT NULL,
	orientation TEXT NOT NULL,
	revealed    INTEGER NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (entry_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_entries_kind_date ON journal_entries(kind, date);
`

// Store persists journal entries in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the database and
// applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save upserts an entry inside one transaction. A daily entry also
// replaces any prior daily entry for the same calendar date, so a date
// never holds two daily readings.
func (s *Store) Save(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if entry.Kind == domain.KindDaily {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM journal_entries WHERE kind = ? AND date = ?
		`, domain.KindDaily, domain.DateKey(entry.Date)); err != nil {
			return fmt.Errorf("clear daily entry: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM journal_entries WHERE id = ?
	`, entry.ID); err != nil {
		return fmt.Errorf("clear prior entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO journal_entries (id, kind, date, spread_id, title, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Kind, domain.DateKey(entry.Date), entry.SpreadID, entry.Title, entry.SavedAt.UTC()); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	for _, slot := range entry.Slots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO journal_slots (entry_id, idx, card_id, orientation, revealed, note)
			VALUES (?, ?, ?, ?, ?, ?)
		`, entry.ID, slot.Index, slot.CardID, slot.Orientation, slot.Revealed, slot.Note); err != nil {
			return fmt.Errorf("insert slot %d: %w", slot.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind domain.ReadingKind) ([]domain.JournalEntry, error) {
	query := `
		SELECT id, kind, date, spread_id, title, saved_at
		FROM journal_entries
	`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY date DESC, saved_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows entries: %w", err)
	}

	for i := range entries {
		slots, err := s.loadSlots(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Slots = slots
	}
	return entries, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, date, spread_id, title, saved_at
		FROM journal_entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.JournalEntry{}, domain.ErrEntryNotFound
	}
	if err != nil {
		return domain.JournalEntry{}, err
	}

	entry.Slots, err = s.loadSlots(ctx, entry.ID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return entry, nil
}

func (s *Store) GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, date, spread_id, title, saved_at
		FROM journal_entries
		WHERE kind = ? AND date = ?
	`, domain.KindDaily, domain.DateKey(date))

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.Slots, err = s.loadSlots(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var date string
	var savedAt time.Time
	if err := row.Scan(&entry.ID, &entry.Kind, &date, &entry.SpreadID, &entry.Title, &savedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.JournalEntry{}, err
		}
		return domain.JournalEntry{}, fmt.Errorf("scan entry: %w", err)
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("parse entry date %q: %w", date, err)
	}
	entry.Date = parsed
	entry.SavedAt = savedAt.UTC()
	return entry, nil
}

func (s *Store) loadSlots(ctx context.Context, entryID string) ([]domain.EntrySlot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, card_id, orientation, revealed, note
		FROM journal_slots
		WHERE entry_id = ?
		ORDER BY idx
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.EntrySlot
	for rows.Next() {
		var slot domain.EntrySlot
		if err := rows.Scan(&slot.Index, &slot.CardID, &slot.Orientation, &slot.Revealed, &slot.Note); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows slots: %w", err)
	}
	return slots, nil
}
