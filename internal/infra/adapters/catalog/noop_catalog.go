package catalog

import (
	"context"

	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/domain/ports/repository"
)

var _ repository.CardCatalog = (*NoopCatalog)(nil)

// NoopCatalog serves deployments without a catalog database: submitted pool
// entries must then carry their full attributes.
type NoopCatalog struct{}

func NewNoopCatalog() *NoopCatalog { return &NoopCatalog{} }

func (*NoopCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Card, error) {
	return map[string]*model.Card{}, nil
}
