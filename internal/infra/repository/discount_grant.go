package repository

import (
	"context"

	"parkflow/internal/domain/discount"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type discountGrantRepository struct{}

func NewDiscountGrantRepository() shared.DiscountGrantRepository {
	return &discountGrantRepository{}
}

// FindRulesBySession returns one rule instance per grant, in grant
// order, so the same rule granted twice is applied twice.
func (r *discountGrantRepository) FindRulesBySession(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID) ([]*discount.Rule, error) {
	const query = `
		SELECT dr.id, dr.name, dr.rule_type, dr.value, dr.stackable, dr.max_apply_count
		FROM discount_grants dg
		JOIN discount_rules dr ON dr.id = dg.rule_id
		WHERE dg.session_id = $1
		ORDER BY dg.granted_at, dg.id`

	rows, err := dbtx.Query(ctx, query, pgconv.UUIDToPgtype(sessionID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find discount grants by session", err)
	}
	defer rows.Close()

	var rules []*discount.Rule
	for rows.Next() {
		rule, err := scanDiscountRule(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert discount rule row", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate discount grants", err)
	}
	return rules, nil
}

func scanDiscountRule(row rowScanner) (*discount.Rule, error) {
	var (
		id            pgtype.UUID
		name          string
		ruleType      string
		value         int64
		stackable     bool
		maxApplyCount int32
	)
	if err := row.Scan(&id, &name, &ruleType, &value, &stackable, &maxApplyCount); err != nil {
		return nil, err
	}
	return discount.NewRule(uuid.UUID(id.Bytes), name, discount.Type(ruleType), value, stackable, int(maxApplyCount))
}
