package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Ensure interface compliance
var _ repository.CardCatalog = (*CardCatalogRepo)(nil)

// CardCatalogRepo reads card attributes from the external catalog database.
// It is strictly read-only.
type CardCatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCardCatalogRepo(pool *pgxpool.Pool) *CardCatalogRepo {
	return &CardCatalogRepo{pool: pool}
}

func (r *CardCatalogRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Card, error) {
	if len(ids) == 0 {
		return map[string]*model.Card{}, nil
	}
	const sql = `
SELECT id, name, type_line, mana_cost, mana_value,
       color_identity, legalities, oracle_text, keywords,
       salt_score, can_be_commander
  FROM cards
 WHERE id = ANY($1);
`
	rows, err := r.pool.Query(ctx, sql, ids)
	if err != nil {
		return nil, fmt.Errorf("FindByIDs cards: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*model.Card, len(ids))
	for rows.Next() {
		var c model.Card
		var legalities []byte
		if err := rows.Scan(
			&c.ID, &c.Name, &c.TypeLine, &c.ManaCost, &c.ManaValue,
			&c.ColorIdentity, &legalities, &c.OracleText, &c.Keywords,
			&c.SaltScore, &c.CanBeCommander,
		); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if len(legalities) > 0 {
			if err := json.Unmarshal(legalities, &c.Legalities); err != nil {
				return nil, fmt.Errorf("decode legalities for %s: %w", c.ID, err)
			}
		}
		out[c.ID] = &c
	}
	return out, rows.Err()
}
