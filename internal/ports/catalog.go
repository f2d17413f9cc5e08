package ports

import (
	"context"

	"github.com/randomtoy/arcana-go/internal/domain"
)

// CardCatalog provides read-only access to the card deck.
type CardCatalog interface {
	AllCards(ctx context.Context) ([]domain.Card, error)
	CardByID(ctx context.Context, id string) (domain.Card, error)
}

// SpreadStore provides read-only access to spread templates.
type SpreadStore interface {
	ListSpreads(ctx context.Context) ([]domain.SpreadTemplate, error)
	SpreadByID(ctx context.Context, id string) (domain.SpreadTemplate, error)
}
