package ports

import (
	"context"
	"time"

	"github.com/randomtoy/arcana-go/internal/domain"
)

// JournalStore persists completed readings. Save is an upsert by entry
// id and must be atomic per id: a concurrent Get never sees a
// half-written entry. Daily entries are additionally unique per
// calendar date; saving a daily reading replaces any prior entry for
// the same date.
type JournalStore interface {
	Save(ctx context.Context, entry domain.JournalEntry) error

	// List returns entries ordered by date descending, ties broken by
	// savedAt descending. An empty kind returns everything.
	List(ctx context.Context, kind domain.ReadingKind) ([]domain.JournalEntry, error)

	Get(ctx context.Context, id string) (domain.JournalEntry, error)

	// GetByDate looks up the daily entry for a calendar date. A nil
	// entry with a nil error means no entry exists for that date.
	GetByDate(ctx context.Context, date time.Time) (*domain.JournalEntry, error)
}
