package readstore

import (
	"context"
	"encoding/json"
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SessionReadStore struct {
	db db.DBTX
}

func NewSessionReadStore(dbtx db.DBTX) *SessionReadStore {
	return &SessionReadStore{db: dbtx}
}

func (r *SessionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SessionView, error) {
	const query = `
		SELECT id, plate_no, status, entry_lane_id, entry_at, exit_lane_id, exit_at,
		       rate_plan_id, breakdown, raw_fee, discount_fee, final_fee, paid_at,
		       close_reason, created_at, updated_at
		FROM sessions
		WHERE id = $1`

	var (
		rowID         pgtype.UUID
		plateNo       string
		status        string
		entryLaneID   pgtype.UUID
		entryAt       pgtype.Timestamptz
		exitLaneID    pgtype.UUID
		exitAt        pgtype.Timestamptz
		ratePlanID    pgtype.UUID
		breakdownJSON []byte
		rawFee        int64
		discountFee   int64
		finalFee      int64
		paidAt        pgtype.Timestamptz
		closeReason   pgtype.Text
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&rowID, &plateNo, &status, &entryLaneID, &entryAt, &exitLaneID, &exitAt,
		&ratePlanID, &breakdownJSON, &rawFee, &discountFee, &finalFee, &paidAt,
		&closeReason, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session by ID", err)
	}

	var breakdown *billing.Breakdown
	if len(breakdownJSON) > 0 {
		var b billing.Breakdown
		if err := json.Unmarshal(breakdownJSON, &b); err != nil {
			return nil, infra.WrapRepoErr("failed to decode fee breakdown", err)
		}
		breakdown = &b
	}

	return &queries.SessionView{
		ID:          uuid.UUID(rowID.Bytes),
		PlateNo:     plateNo,
		Status:      status,
		EntryLaneID: uuid.UUID(entryLaneID.Bytes),
		EntryAt:     pgconv.TimeFromPgtype(entryAt),
		ExitLaneID:  pgconv.UUIDPtrFromPgtype(exitLaneID),
		ExitAt:      pgconv.TimePtrFromPgtype(exitAt),
		RatePlanID:  pgconv.UUIDPtrFromPgtype(ratePlanID),
		Breakdown:   breakdown,
		RawFee:      rawFee,
		DiscountFee: discountFee,
		FinalFee:    finalFee,
		PaidAt:      pgconv.TimePtrFromPgtype(paidAt),
		CloseReason: pgconv.StringPtrFromPgtype(closeReason),
		CreatedAt:   pgconv.TimeFromPgtype(createdAt),
		UpdatedAt:   pgconv.TimeFromPgtype(updatedAt),
	}, nil
}

// FindPage returns newest-first pages keyed on (entry_at, id) so new
// rows arriving mid-scroll cannot shift the window.
func (r *SessionReadStore) FindPage(ctx context.Context, filter queries.SessionListFilter, afterEntryAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.SessionListItem, error) {
	const query = `
		SELECT id, plate_no, status, entry_at, exit_at, final_fee
		FROM sessions
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR plate_no = $2)
		  AND ($3::timestamptz IS NULL OR (entry_at, id) < ($3, $4))
		ORDER BY entry_at DESC, id DESC
		LIMIT $5`

	rows, err := r.db.Query(ctx, query,
		pgconv.StringPtrToPgtype(filter.Status),
		pgconv.StringPtrToPgtype(filter.PlateNo),
		pgconv.TimePtrToPgtype(afterEntryAt),
		pgconv.UUIDPtrToPgtype(afterID),
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sessions", err)
	}
	defer rows.Close()

	var items []*queries.SessionListItem
	for rows.Next() {
		var (
			id       pgtype.UUID
			plateNo  string
			status   string
			entryAt  pgtype.Timestamptz
			exitAt   pgtype.Timestamptz
			finalFee int64
		)
		if err := rows.Scan(&id, &plateNo, &status, &entryAt, &exitAt, &finalFee); err != nil {
			return nil, infra.WrapRepoErr("failed to convert session row", err)
		}
		items = append(items, &queries.SessionListItem{
			ID:       uuid.UUID(id.Bytes),
			PlateNo:  plateNo,
			Status:   status,
			EntryAt:  pgconv.TimeFromPgtype(entryAt),
			ExitAt:   pgconv.TimePtrFromPgtype(exitAt),
			FinalFee: finalFee,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate session rows", err)
	}
	return items, nil
}

func (r *SessionReadStore) FindEventsBySession(ctx context.Context, sessionID uuid.UUID) ([]*queries.PlateEventView, error) {
	const query = `
		SELECT id, direction, plate_no, lane_id, captured_at, confidence, session_id
		FROM plate_events
		WHERE session_id = $1
		ORDER BY captured_at, id`

	rows, err := r.db.Query(ctx, query, pgconv.UUIDToPgtype(sessionID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list plate events by session", err)
	}
	defer rows.Close()

	var events []*queries.PlateEventView
	for rows.Next() {
		var (
			id         pgtype.UUID
			direction  string
			plateNo    string
			laneID     pgtype.UUID
			capturedAt pgtype.Timestamptz
			confidence pgtype.Float8
			sessID     pgtype.UUID
		)
		if err := rows.Scan(&id, &direction, &plateNo, &laneID, &capturedAt, &confidence, &sessID); err != nil {
			return nil, infra.WrapRepoErr("failed to convert plate event row", err)
		}
		events = append(events, &queries.PlateEventView{
			ID:         uuid.UUID(id.Bytes),
			Direction:  direction,
			PlateNo:    plateNo,
			LaneID:     uuid.UUID(laneID.Bytes),
			CapturedAt: pgconv.TimeFromPgtype(capturedAt),
			Confidence: pgconv.Float64PtrFromPgtype(confidence),
			SessionID:  pgconv.UUIDPtrFromPgtype(sessID),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate plate event rows", err)
	}
	return events, nil
}
