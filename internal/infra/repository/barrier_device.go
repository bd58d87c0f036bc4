package repository

import (
	"context"

	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type barrierDeviceRepository struct{}

func NewBarrierDeviceRepository() shared.BarrierDeviceRepository {
	return &barrierDeviceRepository{}
}

func (r *barrierDeviceRepository) FindByLane(ctx context.Context, dbtx db.DBTX, laneID uuid.UUID) (*shared.BarrierDeviceSnapshot, error) {
	const query = `
		SELECT id, lane_id, name
		FROM barrier_devices
		WHERE lane_id = $1
		LIMIT 1`

	var (
		id   pgtype.UUID
		lane pgtype.UUID
		name string
	)
	err := dbtx.QueryRow(ctx, query, pgconv.UUIDToPgtype(laneID)).Scan(&id, &lane, &name)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("barrier device not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find barrier device by lane", err)
	}

	return &shared.BarrierDeviceSnapshot{
		ID:     uuid.UUID(id.Bytes),
		LaneID: uuid.UUID(lane.Bytes),
		Name:   name,
	}, nil
}
