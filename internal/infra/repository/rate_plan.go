package repository

import (
	"context"
	"encoding/json"

	"parkflow/internal/domain/tariff"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ratePlanRepository struct{}

func NewRatePlanRepository() shared.RatePlanRepository {
	return &ratePlanRepository{}
}

func (r *ratePlanRepository) FindActive(ctx context.Context, dbtx db.DBTX) (*shared.RatePlanSnapshot, error) {
	const query = `
		SELECT id, name, is_active, rules
		FROM rate_plans
		WHERE is_active = true
		ORDER BY updated_at DESC
		LIMIT 1`

	row := dbtx.QueryRow(ctx, query)
	plan, err := scanRatePlan(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("active rate plan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find active rate plan", err)
	}
	return plan, nil
}

func (r *ratePlanRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.RatePlanSnapshot, error) {
	const query = `
		SELECT id, name, is_active, rules
		FROM rate_plans
		WHERE id = $1`

	row := dbtx.QueryRow(ctx, query, pgconv.UUIDToPgtype(id))
	plan, err := scanRatePlan(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("rate plan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rate plan by ID", err)
	}
	return plan, nil
}

func scanRatePlan(row rowScanner) (*shared.RatePlanSnapshot, error) {
	var (
		id        pgtype.UUID
		name      string
		isActive  bool
		rulesJSON []byte
	)
	if err := row.Scan(&id, &name, &isActive, &rulesJSON); err != nil {
		return nil, err
	}

	var rules tariff.RateRules
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &rules); err != nil {
			return nil, err
		}
	}

	return &shared.RatePlanSnapshot{
		ID:       uuid.UUID(id.Bytes),
		Name:     name,
		IsActive: isActive,
		Rules:    rules,
	}, nil
}
