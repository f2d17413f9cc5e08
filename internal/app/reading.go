package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/arcana-go/internal/domain"
	"github.com/randomtoy/arcana-go/internal/ports"
)

// Limits carries the configurable text constraints for notes and titles.
type Limits struct {
	MaxNoteLen  int
	MaxTitleLen int
}

// ReadingService owns all in-progress reading sessions and orchestrates
// the catalog, spread table, RNG, journal store and interpreter. Each
// session carries its own mutex: mutating operations on one reading
// never overlap, while distinct readings proceed concurrently.
type ReadingService struct {
	catalog ports.CardCatalog
	spreads ports.SpreadStore
	journal ports.JournalStore
	interp  ports.Interpreter // nil when no LLM is configured
	rng     domain.RNG
	limits  Limits

	mu       sync.Mutex
	sessions map[string]*session
	daily    map[string]string // date key -> session id
}

type session struct {
	mu      sync.Mutex
	reading *domain.Reading
}

func NewReadingService(catalog ports.CardCatalog, spreads ports.SpreadStore, journal ports.JournalStore, interp ports.Interpreter, rng domain.RNG, limits Limits) *ReadingService {
	return &ReadingService{
		catalog:  catalog,
		spreads:  spreads,
		journal:  journal,
		interp:   interp,
		rng:      rng,
		limits:   limits,
		sessions: make(map[string]*session),
		daily:    make(map[string]string),
	}
}

// StartDailyReading begins (or returns) the daily reading for date. The
// 24 cards come from a date-seeded draw, so the same date produces the
// same cards even across restarts, until the user resets. All cards
// start face-down; the UI reveals them hour by hour.
func (s *ReadingService) StartDailyReading(ctx context.Context, date time.Time) (domain.Reading, error) {
	key := domain.DateKey(date)

	s.mu.Lock()
	if id, ok := s.daily[key]; ok {
		sess := s.sessions[id]
		s.mu.Unlock()
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return sess.reading.Clone(), nil
	}
	s.mu.Unlock()

	deck, err := s.catalog.AllCards(ctx)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("load deck: %w", err)
	}

	rng := domain.NewSeededRNG(domain.DateSeed(date))
	reading, err := domain.NewDailyReading(uuid.NewString(), date, deck, rng)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("draw daily reading: %w", err)
	}

	s.mu.Lock()
	// Lost the race: another request created the same date meanwhile.
	if id, ok := s.daily[key]; ok {
		sess := s.sessions[id]
		s.mu.Unlock()
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return sess.reading.Clone(), nil
	}
	s.sessions[reading.ID] = &session{reading: reading}
	s.daily[key] = reading.ID
	s.mu.Unlock()
	return reading.Clone(), nil
}

// StartSpreadReading begins an empty reading shaped by the template.
func (s *ReadingService) StartSpreadReading(ctx context.Context, templateID string) (domain.Reading, error) {
	tmpl, err := s.spreads.SpreadByID(ctx, templateID)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("get spread: %w", err)
	}

	reading := domain.NewSpreadReading(uuid.NewString(), tmpl, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[reading.ID] = &session{reading: reading}
	return reading.Clone(), nil
}

// GetReading returns a snapshot of an in-progress session.
func (s *ReadingService) GetReading(_ context.Context, id string) (domain.Reading, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.Reading{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.reading.Clone(), nil
}

// DrawOne draws a card into one empty slot and reveals it.
func (s *ReadingService) DrawOne(ctx context.Context, id string, slot int) (domain.Reading, error) {
	return s.withDeck(ctx, id, func(r *domain.Reading, deck []domain.Card) error {
		return r.DrawOne(deck, slot, s.rng)
	})
}

// DrawAll fills every empty slot in one batch.
func (s *ReadingService) DrawAll(ctx context.Context, id string) (domain.Reading, error) {
	return s.withDeck(ctx, id, func(r *domain.Reading, deck []domain.Card) error {
		return r.DrawAll(deck, s.rng)
	})
}

// Reset redraws the whole reading face-up and clears all notes. For a
// daily reading this is the explicit "redraw with a fresh seed": it
// uses the service RNG, not the date seed.
func (s *ReadingService) Reset(ctx context.Context, id string) (domain.Reading, error) {
	return s.withDeck(ctx, id, func(r *domain.Reading, deck []domain.Card) error {
		return r.Reset(deck, s.rng)
	})
}

// Reveal turns one face-down slot face-up.
func (s *ReadingService) Reveal(_ context.Context, id string, slot int) (domain.Reading, error) {
	return s.update(id, func(r *domain.Reading) error {
		return r.Reveal(slot)
	})
}

// SetNote annotates one slot.
func (s *ReadingService) SetNote(_ context.Context, id string, slot int, text string) (domain.Reading, error) {
	return s.update(id, func(r *domain.Reading) error {
		return r.SetNote(slot, text, s.limits.MaxNoteLen)
	})
}

// SetTitle renames the reading.
func (s *ReadingService) SetTitle(_ context.Context, id string, title string) (domain.Reading, error) {
	return s.update(id, func(r *domain.Reading) error {
		return r.SetTitle(title, s.limits.MaxTitleLen)
	})
}

// Save snapshots a complete reading into the journal and returns the
// stored entry. The working reading stays editable; saving again
// overwrites the entry.
func (s *ReadingService) Save(ctx context.Context, id string) (domain.JournalEntry, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	entry, err := sess.reading.Snapshot(time.Now())
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if err := s.journal.Save(ctx, entry); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("save entry: %w", err)
	}
	savedAt := entry.SavedAt
	sess.reading.SavedAt = &savedAt
	return entry, nil
}

// Interpret asks the configured LLM for an interpretation of a
// complete reading.
func (s *ReadingService) Interpret(ctx context.Context, id, question, lang string) (ports.InterpretOutput, error) {
	if s.interp == nil {
		return ports.InterpretOutput{}, domain.ErrNoInterpreter
	}

	sess, err := s.session(id)
	if err != nil {
		return ports.InterpretOutput{}, err
	}
	sess.mu.Lock()
	reading := sess.reading.Clone()
	sess.mu.Unlock()

	if !reading.IsComplete() {
		return ports.InterpretOutput{}, domain.ErrIncompleteReading
	}

	in, err := s.interpretInput(ctx, reading, question, lang)
	if err != nil {
		return ports.InterpretOutput{}, err
	}

	out, err := s.interp.Interpret(ctx, in)
	if err != nil {
		return ports.InterpretOutput{}, fmt.Errorf("interpret: %w", err)
	}
	return out, nil
}

// Journal exposes the journal store for read-side queries.
func (s *ReadingService) Journal() ports.JournalStore { return s.journal }

func (s *ReadingService) session(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrReadingNotFound
	}
	return sess, nil
}

func (s *ReadingService) update(id string, op func(*domain.Reading) error) (domain.Reading, error) {
	sess, err := s.session(id)
	if err != nil {
		return domain.Reading{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := op(sess.reading); err != nil {
		return domain.Reading{}, err
	}
	return sess.reading.Clone(), nil
}

func (s *ReadingService) withDeck(ctx context.Context, id string, op func(*domain.Reading, []domain.Card) error) (domain.Reading, error) {
	deck, err := s.catalog.AllCards(ctx)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("load deck: %w", err)
	}
	return s.update(id, func(r *domain.Reading) error {
		return op(r, deck)
	})
}

func (s *ReadingService) interpretInput(ctx context.Context, reading domain.Reading, question, lang string) (ports.InterpretInput, error) {
	var positions []domain.SpreadPosition
	spreadName := "daily"
	if reading.Kind == domain.KindSpread {
		tmpl, err := s.spreads.SpreadByID(ctx, reading.SpreadID)
		if err != nil {
			return ports.InterpretInput{}, fmt.Errorf("get spread: %w", err)
		}
		positions = tmpl.Positions
		spreadName = tmpl.Name
	}

	cards := make([]ports.CardInput, len(reading.Slots))
	for i, slot := range reading.Slots {
		position := fmt.Sprintf("%02d:00", slot.Index)
		if positions != nil {
			position = positions[slot.Index].Name
			if lang == "ru" && positions[slot.Index].NameRU != "" {
				position = positions[slot.Index].NameRU
			}
		}
		name, keywords, meaning := slot.Card.Name, slot.Card.Keywords, slot.Card.Meaning
		if lang == "ru" {
			name, keywords, meaning = slot.Card.NameRU, slot.Card.KeywordsRU, slot.Card.MeaningRU
		}
		cards[i] = ports.CardInput{
			Name:        name,
			Position:    position,
			Index:       slot.Index,
			Orientation: string(slot.Card.Orientation),
			Keywords:    keywords,
			Meaning:     meaning,
			Note:        strings.TrimSpace(slot.Note),
		}
	}

	return ports.InterpretInput{
		Kind:     string(reading.Kind),
		Spread:   spreadName,
		Date:     domain.DateKey(reading.Date),
		Question: question,
		Lang:     lang,
		Cards:    cards,
	}, nil
}
