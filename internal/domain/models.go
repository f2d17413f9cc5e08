package domain

import "time"

// RNG abstracts random number generation for deterministic testing
// and for date-seeded daily draws.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Orientation represents the orientation of a drawn tarot card.
type Orientation string

const (
	Upright  Orientation = "upright"
	Reversed Orientation = "reversed"
)

// Card represents a single tarot card in the catalog. Text fields carry
// English and Russian variants; the core never interprets them, it only
// hands the right one to the presentation layer.
type Card struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	NameRU     string   `json:"name_ru"`
	Keywords   []string `json:"keywords"`
	KeywordsRU []string `json:"keywords_ru"`
	Meaning    string   `json:"meaning"`
	MeaningRU  string   `json:"meaning_ru"`
	Image      string   `json:"image"`
}

// DrawnCard is a card that has been drawn into a reading.
type DrawnCard struct {
	Card
	Orientation Orientation `json:"orientation"`
}

// SpreadPosition is one named position of a spread template.
type SpreadPosition struct {
	Name   string `json:"name"`
	NameRU string `json:"name_ru"`
}

// SpreadTemplate is a static layout a spread reading is built from.
// CardCount always equals len(Positions); the spread store validates
// this at load time.
type SpreadTemplate struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	NameRU    string           `json:"name_ru"`
	Positions []SpreadPosition `json:"positions"`
	CardCount int              `json:"card_count"`
	IsPremium bool             `json:"is_premium"`
}

// ReadingKind distinguishes the 24-hour daily reading from spread readings.
type ReadingKind string

const (
	KindDaily  ReadingKind = "daily"
	KindSpread ReadingKind = "spread"
)

// Slot is one position of a reading. A slot may hold a card face-down:
// Revealed implies Card != nil, and an empty slot is never revealed.
type Slot struct {
	Index    int        `json:"index"`
	Card     *DrawnCard `json:"card,omitempty"`
	Revealed bool       `json:"revealed"`
	Note     string     `json:"note"`
}

// DailySlotCount is the number of slots in a daily reading, one per hour.
const DailySlotCount = 24

// Reading is an in-progress reading session. It is mutated only under
// exclusive access; the journal stores immutable snapshots of it.
type Reading struct {
	ID           string      `json:"id"`
	Kind         ReadingKind `json:"kind"`
	Date         time.Time   `json:"date"`
	SpreadID     string      `json:"spread_id,omitempty"`
	Title        string      `json:"title"`
	DefaultTitle string      `json:"-"`
	Slots        []Slot      `json:"slots"`
	SavedAt      *time.Time  `json:"saved_at,omitempty"`
}

// EntrySlot is the persisted form of a slot: a card reference, never
// catalog text. The catalog stays the source of truth for rendering.
type EntrySlot struct {
	Index       int         `json:"index"`
	CardID      string      `json:"card_id"`
	Orientation Orientation `json:"orientation"`
	Revealed    bool        `json:"revealed"`
	Note        string      `json:"note"`
}

// JournalEntry is an immutable snapshot of a completed reading.
type JournalEntry struct {
	ID       string      `json:"id"`
	Kind     ReadingKind `json:"kind"`
	Date     time.Time   `json:"date"`
	SpreadID string      `json:"spread_id,omitempty"`
	Title    string      `json:"title"`
	Slots    []EntrySlot `json:"slots"`
	SavedAt  time.Time   `json:"saved_at"`
}

// DateOnly truncates t to a UTC calendar date. All reading dates are
// normalized through this before use as keys.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats a normalized date as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return DateOnly(t).Format("2006-01-02")
}
