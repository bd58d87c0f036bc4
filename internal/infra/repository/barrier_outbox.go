package repository

import (
	"context"
	"time"

	"parkflow/internal/domain/session"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"
)

type barrierOutboxRepository struct{}

func NewBarrierOutboxRepository() shared.BarrierOutboxRepository {
	return &barrierOutboxRepository{}
}

// Enqueue records a barrier intent in the same transaction as the
// session transition. A separate dispatcher delivers it to the device.
func (r *barrierOutboxRepository) Enqueue(ctx context.Context, dbtx db.DBTX, cmd *session.BarrierCommand, runAt time.Time) error {
	const query = `
		INSERT INTO barrier_commands (id, device_id, lane_id, action, reason, correlation_id, status, run_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'PENDING', $7)`

	_, err := dbtx.Exec(ctx, query,
		pgconv.UUIDToPgtype(cmd.ID),
		pgconv.UUIDToPgtype(cmd.DeviceID),
		pgconv.UUIDToPgtype(cmd.LaneID),
		string(cmd.Action),
		string(cmd.Reason),
		pgconv.UUIDToPgtype(cmd.CorrelationID),
		pgconv.TimeToPgtype(runAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue barrier command", err)
	}
	return nil
}
