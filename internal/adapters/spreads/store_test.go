package spreads_test

import (
	"context"
	"testing"

	"github.com/randomtoy/arcana-go/internal/adapters/spreads"
	"github.com/randomtoy/arcana-go/internal/domain"
)

func TestEmbeddedStore_ListSpreads(t *testing.T) {
	store := spreads.NewEmbeddedStore()

	templates, err := store.ListSpreads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(templates) == 0 {
		t.Fatal("expected at least one spread template")
	}

	for _, tmpl := range templates {
		if tmpl.CardCount != len(tmpl.Positions) {
			t.Errorf("spread %s: card_count %d vs %d positions", tmpl.ID, tmpl.CardCount, len(tmpl.Positions))
		}
		for i, pos := range tmpl.Positions {
			if pos.Name == "" || pos.NameRU == "" {
				t.Errorf("spread %s position %d: missing a localized name", tmpl.ID, i)
			}
		}
	}
}

func TestEmbeddedStore_SpreadByID(t *testing.T) {
	store := spreads.NewEmbeddedStore()
	ctx := context.Background()

	tmpl, err := store.SpreadByID(ctx, "three_card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.CardCount != 3 || tmpl.IsPremium {
		t.Errorf("unexpected three_card template: %+v", tmpl)
	}
	if tmpl.Positions[0].Name != "Past" {
		t.Errorf("unexpected first position: %+v", tmpl.Positions[0])
	}

	celtic, err := store.SpreadByID(ctx, "celtic_cross")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if celtic.CardCount != 10 || !celtic.IsPremium {
		t.Errorf("unexpected celtic_cross template: %+v", celtic)
	}

	if _, err := store.SpreadByID(ctx, "nonexistent"); err != domain.ErrSpreadNotFound {
		t.Errorf("expected ErrSpreadNotFound, got %v", err)
	}
}
