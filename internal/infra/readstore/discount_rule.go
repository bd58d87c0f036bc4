package readstore

import (
	"context"

	"parkflow/internal/domain/discount"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type DiscountRuleReadStore struct {
	db db.DBTX
}

func NewDiscountRuleReadStore(dbtx db.DBTX) *DiscountRuleReadStore {
	return &DiscountRuleReadStore{db: dbtx}
}

// FindRulesByIDs preserves the order of ids, repeating a rule when its
// id is listed more than once. Unknown ids are reported, not skipped.
func (r *DiscountRuleReadStore) FindRulesByIDs(ctx context.Context, ids []uuid.UUID) ([]*discount.Rule, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, name, rule_type, value, stackable, max_apply_count
		FROM discount_rules
		WHERE id = ANY($1)`

	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = pgconv.UUIDToPgtype(id)
	}

	rows, err := r.db.Query(ctx, query, pgIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find discount rules by IDs", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*discount.Rule, len(ids))
	for rows.Next() {
		var (
			id            pgtype.UUID
			name          string
			ruleType      string
			value         int64
			stackable     bool
			maxApplyCount int32
		)
		if err := rows.Scan(&id, &name, &ruleType, &value, &stackable, &maxApplyCount); err != nil {
			return nil, infra.WrapRepoErr("failed to convert discount rule row", err)
		}
		rule, err := discount.NewRule(uuid.UUID(id.Bytes), name, discount.Type(ruleType), value, stackable, int(maxApplyCount))
		if err != nil {
			return nil, infra.WrapRepoErr("stored discount rule is invalid", err)
		}
		byID[rule.ID()] = rule
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate discount rule rows", err)
	}

	ordered := make([]*discount.Rule, 0, len(ids))
	for _, id := range ids {
		rule, ok := byID[id]
		if !ok {
			return nil, infra.WrapRepoErr("discount rule not found", nil, infra.KindNotFound)
		}
		ordered = append(ordered, rule)
	}
	return ordered, nil
}
