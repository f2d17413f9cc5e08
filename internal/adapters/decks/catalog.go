package decks

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/randomtoy/arcana-go/internal/domain"
)

//go:embed data/*.json
var deckFS embed.FS

const deckFile = "data/rider_waite.json"

// EmbeddedCatalog serves the full 78-card deck from an embedded JSON
// file. Loading happens once; reads are safe for any number of
// concurrent callers.
type EmbeddedCatalog struct {
	once  sync.Once
	cards []domain.Card
	byID  map[string]domain.Card
	err   error
}

func NewEmbeddedCatalog() *EmbeddedCatalog {
	return &EmbeddedCatalog{}
}

func (c *EmbeddedCatalog) init() {
	raw, err := deckFS.ReadFile(deckFile)
	if err != nil {
		c.err = fmt.Errorf("read embedded deck: %w", err)
		return
	}
	if err := json.Unmarshal(raw, &c.cards); err != nil {
		c.err = fmt.Errorf("parse embedded deck: %w", err)
		return
	}
	c.byID = make(map[string]domain.Card, len(c.cards))
	for _, card := range c.cards {
		if _, dup := c.byID[card.ID]; dup {
			c.err = fmt.Errorf("duplicate card id %q in embedded deck", card.ID)
			return
		}
		c.byID[card.ID] = card
	}
}

func (c *EmbeddedCatalog) AllCards(_ context.Context) ([]domain.Card, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return nil, c.err
	}
	return c.cards, nil
}

func (c *EmbeddedCatalog) CardByID(_ context.Context, id string) (domain.Card, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return domain.Card{}, c.err
	}
	card, ok := c.byID[id]
	if !ok {
		return domain.Card{}, domain.ErrCardNotFound
	}
	return card, nil
}
