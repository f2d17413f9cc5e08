package spreads

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/randomtoy/arcana-go/internal/domain"
)

//go:embed data/spreads.json
var spreadFS embed.FS

const spreadFile = "data/spreads.json"

// EmbeddedStore serves spread templates from an embedded JSON table.
// Templates are validated once at load: card_count must match the
// number of positions.
type EmbeddedStore struct {
	once    sync.Once
	spreads []domain.SpreadTemplate
	byID    map[string]domain.SpreadTemplate
	err     error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	raw, err := spreadFS.ReadFile(spreadFile)
	if err != nil {
		s.err = fmt.Errorf("read embedded spreads: %w", err)
		return
	}
	if err := json.Unmarshal(raw, &s.spreads); err != nil {
		s.err = fmt.Errorf("parse embedded spreads: %w", err)
		return
	}
	s.byID = make(map[string]domain.SpreadTemplate, len(s.spreads))
	for _, tmpl := range s.spreads {
		if tmpl.CardCount != len(tmpl.Positions) {
			s.err = fmt.Errorf("spread %q: card_count %d does not match %d positions",
				tmpl.ID, tmpl.CardCount, len(tmpl.Positions))
			return
		}
		if _, dup := s.byID[tmpl.ID]; dup {
			s.err = fmt.Errorf("duplicate spread id %q", tmpl.ID)
			return
		}
		s.byID[tmpl.ID] = tmpl
	}
}

func (s *EmbeddedStore) ListSpreads(_ context.Context) ([]domain.SpreadTemplate, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	return s.spreads, nil
}

func (s *EmbeddedStore) SpreadByID(_ context.Context, id string) (domain.SpreadTemplate, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.SpreadTemplate{}, s.err
	}
	tmpl, ok := s.byID[id]
	if !ok {
		return domain.SpreadTemplate{}, domain.ErrSpreadNotFound
	}
	return tmpl, nil
}
