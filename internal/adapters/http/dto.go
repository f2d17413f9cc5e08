package http

import (
	"time"

	"github.com/randomtoy/arcana-go/internal/domain"
)

// CardResponse is the localized JSON shape of a card. Orientation is
// only present for drawn cards.
type CardResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Keywords    []string           `json:"keywords"`
	Meaning     string             `json:"meaning"`
	Image       string             `json:"image"`
	Orientation domain.Orientation `json:"orientation,omitempty"`
}

type SpreadPositionResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type SpreadResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	CardCount int                      `json:"card_count"`
	IsPremium bool                     `json:"is_premium"`
	Positions []SpreadPositionResponse `json:"positions"`
}

// SlotResponse renders one slot. A face-down slot reports drawn=true
// with no card payload: the card stays server-side until revealed.
type SlotResponse struct {
	Index    int           `json:"index"`
	Drawn    bool          `json:"drawn"`
	Revealed bool          `json:"revealed"`
	Note     string        `json:"note"`
	Card     *CardResponse `json:"card,omitempty"`
}

type ReadingResponse struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Date     string         `json:"date"`
	SpreadID string         `json:"spread_id,omitempty"`
	Title    string         `json:"title"`
	Complete bool           `json:"complete"`
	SavedAt  *time.Time     `json:"saved_at,omitempty"`
	Slots    []SlotResponse `json:"slots"`
}

type EntrySlotResponse struct {
	Index       int                `json:"index"`
	CardID      string             `json:"card_id"`
	Orientation domain.Orientation `json:"orientation"`
	Revealed    bool               `json:"revealed"`
	Note        string             `json:"note"`
}

type JournalEntryResponse struct {
	ID       string              `json:"id"`
	Kind     string              `json:"kind"`
	Date     string              `json:"date"`
	SpreadID string              `json:"spread_id,omitempty"`
	Title    string              `json:"title"`
	SavedAt  time.Time           `json:"saved_at"`
	Slots    []EntrySlotResponse `json:"slots"`
}

type InterpretationResponse struct {
	Text       string `json:"text"`
	Style      string `json:"style"`
	Disclaimer string `json:"disclaimer"`
	Model      string `json:"model"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type startDailyRequest struct {
	Date string `json:"date"`
}

type startSpreadRequest struct {
	SpreadID string `json:"spread_id"`
}

type slotRequest struct {
	Slot int `json:"slot"`
}

type noteRequest struct {
	Slot int    `json:"slot"`
	Text string `json:"text"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type interpretRequest struct {
	Question string `json:"question"`
	Lang     string `json:"lang"`
}
