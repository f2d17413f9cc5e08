package decks_test

import (
	"context"
	"testing"

	"github.com/randomtoy/arcana-go/internal/adapters/decks"
	"github.com/randomtoy/arcana-go/internal/domain"
)

func TestEmbeddedCatalog_FullDeck(t *testing.T) {
	catalog := decks.NewEmbeddedCatalog()

	cards, err := catalog.AllCards(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 78 {
		t.Fatalf("expected 78 cards, got %d", len(cards))
	}

	seen := make(map[string]bool, len(cards))
	for _, card := range cards {
		if seen[card.ID] {
			t.Errorf("duplicate card id: %s", card.ID)
		}
		seen[card.ID] = true

		if card.Name == "" || card.NameRU == "" {
			t.Errorf("card %s: missing a localized name", card.ID)
		}
		if len(card.Keywords) == 0 || len(card.KeywordsRU) == 0 {
			t.Errorf("card %s: missing keywords", card.ID)
		}
		if card.Meaning == "" || card.MeaningRU == "" {
			t.Errorf("card %s: missing a meaning", card.ID)
		}
		if card.Image == "" {
			t.Errorf("card %s: missing image ref", card.ID)
		}
	}
}

func TestEmbeddedCatalog_CardByID(t *testing.T) {
	catalog := decks.NewEmbeddedCatalog()
	ctx := context.Background()

	card, err := catalog.CardByID(ctx, "fool")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Name != "The Fool" {
		t.Errorf("unexpected card: %+v", card)
	}

	if _, err := catalog.CardByID(ctx, "joker"); err != domain.ErrCardNotFound {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
}
