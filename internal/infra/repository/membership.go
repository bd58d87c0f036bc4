package repository

import (
	"context"
	"time"

	"parkflow/internal/domain/session"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type membershipRepository struct{}

func NewMembershipRepository() shared.MembershipRepository {
	return &membershipRepository{}
}

func (r *membershipRepository) FindValidByPlate(ctx context.Context, dbtx db.DBTX, plateNo session.PlateNumber, at time.Time) (*shared.MembershipSnapshot, error) {
	const query = `
		SELECT id, plate_no, valid_from, valid_to
		FROM memberships
		WHERE plate_no = $1 AND valid_from <= $2 AND valid_to >= $2
		ORDER BY valid_to DESC
		LIMIT 1`

	var (
		id        pgtype.UUID
		plate     string
		validFrom pgtype.Timestamptz
		validTo   pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, query, plateNo.String(), pgconv.TimeToPgtype(at)).
		Scan(&id, &plate, &validFrom, &validTo)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("valid membership not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find membership by plate", err)
	}

	return &shared.MembershipSnapshot{
		ID:        uuid.UUID(id.Bytes),
		PlateNo:   plate,
		ValidFrom: pgconv.TimeFromPgtype(validFrom),
		ValidTo:   pgconv.TimeFromPgtype(validTo),
	}, nil
}
