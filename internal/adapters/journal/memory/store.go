package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/randomtoy/arcana-go/internal/domain"
)

// Store is an in-memory journal for tests and ephemeral runs. Entries
// are deep-copied on the way in and out, so callers can never mutate
// stored state.
type Store struct {
	mu      sync.RWMutex
	entries map[string]domain.JournalEntry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]domain.JournalEntry)}
}

func (s *Store) Save(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Kind == domain.KindDaily {
		key := domain.DateKey(entry.Date)
		for id, existing := range s.entries {
			if existing.Kind == domain.KindDaily && domain.DateKey(existing.Date) == key {
				delete(s.entries, id)
			}
		}
	}
	s.entries[entry.ID] = clone(entry)
	return nil
}

func (s *Store) List(_ context.Context, kind domain.ReadingKind) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.JournalEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if kind != "" && entry.Kind != kind {
			continue
		}
		out = append(out, clone(entry))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return domain.JournalEntry{}, domain.ErrEntryNotFound
	}
	return clone(entry), nil
}

func (s *Store) GetByDate(_ context.Context, date time.Time) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := domain.DateKey(date)
	for _, entry := range s.entries {
		if entry.Kind == domain.KindDaily && domain.DateKey(entry.Date) == key {
			cloned := clone(entry)
			return &cloned, nil
		}
	}
	return nil, nil
}

func clone(entry domain.JournalEntry) domain.JournalEntry {
	entry.Slots = append([]domain.EntrySlot(nil), entry.Slots...)
	return entry
}
