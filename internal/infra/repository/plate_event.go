package repository

import (
	"context"

	"parkflow/internal/domain/session"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"
)

type plateEventRepository struct{}

func NewPlateEventRepository() shared.PlateEventRepository {
	return &plateEventRepository{}
}

func (r *plateEventRepository) Create(ctx context.Context, dbtx db.DBTX, event *session.PlateEvent) error {
	const query = `
		INSERT INTO plate_events (id, direction, plate_no, lane_id, captured_at, confidence, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := dbtx.Exec(ctx, query,
		pgconv.UUIDToPgtype(event.ID),
		string(event.Direction),
		event.PlateNo.String(),
		pgconv.UUIDToPgtype(event.LaneID),
		pgconv.TimeToPgtype(event.CapturedAt),
		pgconv.Float64PtrToPgtype(event.Confidence),
		pgconv.UUIDPtrToPgtype(event.SessionID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create plate event", err)
	}
	return nil
}
