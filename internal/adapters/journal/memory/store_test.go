package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/randomtoy/arcana-go/internal/adapters/journal/memory"
	"github.com/randomtoy/arcana-go/internal/domain"
)

func testEntry(id string, kind domain.ReadingKind, date, savedAt time.Time) domain.JournalEntry {
	return domain.JournalEntry{
		ID:    id,
		Kind:  kind,
		Date:  domain.DateOnly(date),
		Title: "Entry " + id,
		Slots: []domain.EntrySlot{
			{Index: 0, CardID: "fool", Orientation: domain.Upright, Revealed: true, Note: "a note"},
			{Index: 1, CardID: "star", Orientation: domain.Reversed, Revealed: true},
		},
		SavedAt: savedAt,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_RoundTrip(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	want := testEntry("e1", domain.KindSpread, date(2024, 3, 1), date(2024, 3, 1).Add(18*time.Hour))
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != want.Title || len(got.Slots) != 2 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	for i := range want.Slots {
		if got.Slots[i] != want.Slots[i] {
			t.Errorf("slot %d: %+v vs %+v", i, got.Slots[i], want.Slots[i])
		}
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := memory.NewStore()
	if _, err := store.Get(context.Background(), "missing"); err != domain.ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestStore_UpsertByID(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	entry := testEntry("e1", domain.KindSpread, date(2024, 3, 1), time.Now())
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("save: %v", err)
	}

	entry.Title = "Renamed"
	entry.Slots[0].Note = "rewritten"
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	entries, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Renamed" || entries[0].Slots[0].Note != "rewritten" {
		t.Errorf("entry not overwritten: %+v", entries[0])
	}
}

func TestStore_DailyReplacedByDate(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	day := date(2024, 1, 15)

	if err := store.Save(ctx, testEntry("old", domain.KindDaily, day, day.Add(8*time.Hour))); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := store.Save(ctx, testEntry("new", domain.KindDaily, day, day.Add(20*time.Hour))); err != nil {
		t.Fatalf("save new: %v", err)
	}

	entries, err := store.List(ctx, domain.KindDaily)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "new" {
		t.Fatalf("expected only the newer daily entry, got %+v", entries)
	}

	byDate, err := store.GetByDate(ctx, day)
	if err != nil {
		t.Fatalf("getByDate: %v", err)
	}
	if byDate == nil || byDate.ID != "new" {
		t.Fatalf("unexpected byDate result: %+v", byDate)
	}
}

func TestStore_ListOrderAndFilter(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Two spreads on the same date (savedAt breaks the tie) plus an
	// older daily entry.
	d := date(2024, 5, 10)
	if err := store.Save(ctx, testEntry("early", domain.KindSpread, d, d.Add(9*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testEntry("late", domain.KindSpread, d, d.Add(21*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, testEntry("daily", domain.KindDaily, date(2024, 5, 1), d)); err != nil {
		t.Fatal(err)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	gotIDs := []string{all[0].ID, all[1].ID, all[2].ID}
	wantIDs := []string{"late", "early", "daily"}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("order: got %v, want %v", gotIDs, wantIDs)
		}
	}

	spreadsOnly, err := store.List(ctx, domain.KindSpread)
	if err != nil {
		t.Fatalf("list spreads: %v", err)
	}
	if len(spreadsOnly) != 2 {
		t.Fatalf("expected 2 spread entries, got %d", len(spreadsOnly))
	}
}

func TestStore_GetByDateAbsent(t *testing.T) {
	store := memory.NewStore()
	entry, err := store.GetByDate(context.Background(), date(2030, 1, 1))
	if err != nil {
		t.Fatalf("getByDate: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil for absent date, got %+v", entry)
	}
}

func TestStore_ReturnedEntriesAreDetached(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if err := store.Save(ctx, testEntry("e1", domain.KindSpread, date(2024, 3, 1), time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Slots[0].Note = "tampered"

	again, err := store.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.Slots[0].Note == "tampered" {
		t.Error("stored entry mutated through a returned copy")
	}
}
