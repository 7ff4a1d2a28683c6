package repository

import (
	"context"

	"commander-deck-service/internal/domain/model"
)

// CardCatalog is a read-only lookup of card attributes in the external
// catalog. The worker uses it to fill in attributes for pool entries that
// were submitted by reference only. Unknown IDs are simply absent from the
// returned map; they are not an error.
type CardCatalog interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Card, error)
}
