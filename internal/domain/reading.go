package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// NewDailyReading creates a 24-slot reading for date with every slot
// assigned immediately but face-down. Pass a date-seeded RNG to make
// the same day yield the same cards across restarts.
func NewDailyReading(id string, date time.Time, deck []Card, rng RNG) (*Reading, error) {
	date = DateOnly(date)
	r := &Reading{
		ID:           id,
		Kind:         KindDaily,
		Date:         date,
		DefaultTitle: date.Format("2006-01-02"),
		Slots:        emptySlots(DailySlotCount),
	}
	r.Title = r.DefaultTitle
	if err := r.fill(deck, rng, false); err != nil {
		return nil, err
	}
	return r, nil
}

// NewSpreadReading creates an all-empty reading shaped by tmpl, with a
// title defaulted from the template's display name.
func NewSpreadReading(id string, tmpl SpreadTemplate, date time.Time) *Reading {
	r := &Reading{
		ID:           id,
		Kind:         KindSpread,
		Date:         DateOnly(date),
		SpreadID:     tmpl.ID,
		DefaultTitle: tmpl.Name,
		Slots:        emptySlots(tmpl.CardCount),
	}
	r.Title = r.DefaultTitle
	return r
}

func emptySlots(n int) []Slot {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i].Index = i
	}
	return slots
}

// DrawOne assigns a card to one empty slot and reveals it. Cards already
// present elsewhere in the reading are excluded from the draw.
func (r *Reading) DrawOne(deck []Card, idx int, rng RNG) error {
	if idx < 0 || idx >= len(r.Slots) {
		return ErrIndexOutOfRange
	}
	if r.Slots[idx].Card != nil {
		return ErrSlotOccupied
	}
	drawn, err := Draw(r.remaining(deck), 1, rng)
	if err != nil {
		return err
	}
	r.Slots[idx].Card = &drawn[0]
	r.Slots[idx].Revealed = true
	return nil
}

// DrawAll fills every empty slot in index order from a single batch
// draw and reveals them. A complete reading is left untouched. The draw
// is validated before any slot mutates, so a failure is not observable
// as partial assignment.
func (r *Reading) DrawAll(deck []Card, rng RNG) error {
	return r.fill(deck, rng, true)
}

func (r *Reading) fill(deck []Card, rng RNG, revealed bool) error {
	var empty []int
	for i := range r.Slots {
		if r.Slots[i].Card == nil {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return nil
	}
	drawn, err := Draw(r.remaining(deck), len(empty), rng)
	if err != nil {
		return err
	}
	for i, idx := range empty {
		card := drawn[i]
		r.Slots[idx].Card = &card
		r.Slots[idx].Revealed = revealed
	}
	return nil
}

// Reveal turns a face-down slot face-up. Revealing an already-revealed
// slot is a no-op; revealing an empty slot is an error.
func (r *Reading) Reveal(idx int) error {
	if idx < 0 || idx >= len(r.Slots) {
		return ErrIndexOutOfRange
	}
	if r.Slots[idx].Card == nil {
		return ErrSlotEmpty
	}
	r.Slots[idx].Revealed = true
	return nil
}

// Reset clears every slot and note, then immediately redraws the whole
// reading face-up. A reset reading is always complete.
func (r *Reading) Reset(deck []Card, rng RNG) error {
	fresh, err := Draw(deck, len(r.Slots), rng)
	if err != nil {
		return err
	}
	for i := range r.Slots {
		card := fresh[i]
		r.Slots[i].Card = &card
		r.Slots[i].Revealed = true
		r.Slots[i].Note = ""
	}
	return nil
}

// SetNote overwrites the slot's annotation. Length is counted in runes.
func (r *Reading) SetNote(idx int, text string, maxLen int) error {
	if idx < 0 || idx >= len(r.Slots) {
		return ErrIndexOutOfRange
	}
	if utf8.RuneCountInString(text) > maxLen {
		return ErrInvalidNote
	}
	r.Slots[idx].Note = text
	return nil
}

// SetTitle overwrites the reading's title. A blank title restores the
// default so an empty string never reaches the journal.
func (r *Reading) SetTitle(text string, maxLen int) error {
	if utf8.RuneCountInString(text) > maxLen {
		return ErrInvalidTitle
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = r.DefaultTitle
	}
	r.Title = text
	return nil
}

// IsComplete reports whether every slot holds a card. Always computed,
// never cached.
func (r *Reading) IsComplete() bool {
	for i := range r.Slots {
		if r.Slots[i].Card == nil {
			return false
		}
	}
	return true
}

// remaining returns deck minus the cards already assigned in r.
func (r *Reading) remaining(deck []Card) []Card {
	used := make(map[string]bool, len(r.Slots))
	for i := range r.Slots {
		if c := r.Slots[i].Card; c != nil {
			used[c.ID] = true
		}
	}
	if len(used) == 0 {
		return deck
	}
	out := make([]Card, 0, len(deck)-len(used))
	for _, c := range deck {
		if !used[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot produces the immutable journal form of a complete reading.
func (r *Reading) Snapshot(now time.Time) (JournalEntry, error) {
	if !r.IsComplete() {
		return JournalEntry{}, ErrIncompleteReading
	}
	slots := make([]EntrySlot, len(r.Slots))
	for i := range r.Slots {
		s := r.Slots[i]
		slots[i] = EntrySlot{
			Index:       s.Index,
			CardID:      s.Card.ID,
			Orientation: s.Card.Orientation,
			Revealed:    s.Revealed,
			Note:        s.Note,
		}
	}
	return JournalEntry{
		ID:       r.ID,
		Kind:     r.Kind,
		Date:     r.Date,
		SpreadID: r.SpreadID,
		Title:    r.Title,
		Slots:    slots,
		SavedAt:  now.UTC(),
	}, nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (r *Reading) Clone() Reading {
	out := *r
	out.Slots = make([]Slot, len(r.Slots))
	for i := range r.Slots {
		out.Slots[i] = r.Slots[i]
		if r.Slots[i].Card != nil {
			card := *r.Slots[i].Card
			out.Slots[i].Card = &card
		}
	}
	if r.SavedAt != nil {
		t := *r.SavedAt
		out.SavedAt = &t
	}
	return out
}
