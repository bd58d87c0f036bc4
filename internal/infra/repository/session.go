package repository

import (
	"context"
	"encoding/json"

	"parkflow/internal/domain/billing"
	"parkflow/internal/domain/session"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/pgconv"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type sessionRepository struct{}

func NewSessionRepository() shared.SessionRepository {
	return &sessionRepository{}
}

const sessionColumns = `
	id, plate_no, status, entry_lane_id, entry_at, exit_lane_id, exit_at,
	rate_plan_id, breakdown, raw_fee, discount_fee, final_fee, paid_at,
	close_reason, created_at, updated_at`

func (r *sessionRepository) Create(ctx context.Context, dbtx db.DBTX, s *session.Session) (uuid.UUID, error) {
	const query = `
		INSERT INTO sessions (id, plate_no, status, entry_lane_id, entry_at, rate_plan_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id pgtype.UUID
	err := dbtx.QueryRow(ctx, query,
		pgconv.UUIDToPgtype(s.ID()),
		s.PlateNo().String(),
		string(s.Status()),
		pgconv.UUIDToPgtype(s.EntryLaneID()),
		pgconv.TimeToPgtype(s.EntryAt()),
		pgconv.UUIDPtrToPgtype(s.RatePlanID()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create session", err)
	}
	return uuid.UUID(id.Bytes), nil
}

func (r *sessionRepository) Update(ctx context.Context, dbtx db.DBTX, s *session.Session) error {
	const query = `
		UPDATE sessions
		SET status = $2,
		    exit_lane_id = $3,
		    exit_at = $4,
		    breakdown = $5,
		    raw_fee = $6,
		    discount_fee = $7,
		    final_fee = $8,
		    paid_at = $9,
		    close_reason = $10,
		    updated_at = now()
		WHERE id = $1`

	breakdownJSON, err := marshalBreakdown(s.Breakdown())
	if err != nil {
		return infra.WrapRepoErr("failed to encode fee breakdown", err)
	}

	var reason *string
	if cr := s.CloseReason(); cr != nil {
		v := string(*cr)
		reason = &v
	}

	tag, err := dbtx.Exec(ctx, query,
		pgconv.UUIDToPgtype(s.ID()),
		string(s.Status()),
		pgconv.UUIDPtrToPgtype(s.ExitLaneID()),
		pgconv.TimePtrToPgtype(s.ExitAt()),
		breakdownJSON,
		s.RawFee(),
		s.DiscountFee(),
		s.FinalFee(),
		pgconv.TimePtrToPgtype(s.PaidAt()),
		pgconv.StringPtrToPgtype(reason),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*session.Session, error) {
	const query = `
		SELECT` + sessionColumns + `
		FROM sessions
		WHERE id = $1`

	row := dbtx.QueryRow(ctx, query, pgconv.UUIDToPgtype(id))
	s, err := scanSession(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session by ID", err)
	}
	return s, nil
}

func (r *sessionRepository) FindActiveParkingByPlate(ctx context.Context, dbtx db.DBTX, plateNo session.PlateNumber) (*session.Session, error) {
	const query = `
		SELECT` + sessionColumns + `
		FROM sessions
		WHERE plate_no = $1 AND status = 'PARKING'
		ORDER BY entry_at DESC
		LIMIT 1`

	row := dbtx.QueryRow(ctx, query, plateNo.String())
	s, err := scanSession(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("parking session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find parking session by plate", err)
	}
	return s, nil
}

func (r *sessionRepository) FindLatestOpenByPlate(ctx context.Context, dbtx db.DBTX, plateNo session.PlateNumber) (*session.Session, error) {
	const query = `
		SELECT` + sessionColumns + `
		FROM sessions
		WHERE plate_no = $1 AND status IN ('PARKING', 'PAID')
		ORDER BY entry_at DESC
		LIMIT 1`

	row := dbtx.QueryRow(ctx, query, plateNo.String())
	s, err := scanSession(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("open session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find open session by plate", err)
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		id            pgtype.UUID
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

	err := row.Scan(&id, &plateNo, &status, &entryLaneID, &entryAt, &exitLaneID, &exitAt,
		&ratePlanID, &breakdownJSON, &rawFee, &discountFee, &finalFee, &paidAt,
		&closeReason, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	breakdown, err := unmarshalBreakdown(breakdownJSON)
	if err != nil {
		return nil, err
	}

	var reason *session.CloseReason
	if s := pgconv.StringPtrFromPgtype(closeReason); s != nil {
		r := session.CloseReason(*s)
		reason = &r
	}

	// Plates are stored normalized; reconstruct without re-validation.
	plate, err := session.NewPlateNumber(plateNo)
	if err != nil {
		return nil, err
	}

	return session.ReconstructSession(
		uuid.UUID(id.Bytes),
		plate,
		session.Status(status),
		uuid.UUID(entryLaneID.Bytes),
		pgconv.TimeFromPgtype(entryAt),
		pgconv.UUIDPtrFromPgtype(exitLaneID),
		pgconv.TimePtrFromPgtype(exitAt),
		pgconv.UUIDPtrFromPgtype(ratePlanID),
		breakdown,
		rawFee, discountFee, finalFee,
		pgconv.TimePtrFromPgtype(paidAt),
		reason,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func marshalBreakdown(b *billing.Breakdown) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

func unmarshalBreakdown(data []byte) (*billing.Breakdown, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var b billing.Breakdown
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
