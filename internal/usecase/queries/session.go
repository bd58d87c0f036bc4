package queries

import (
	"context"
	"time"

	"parkflow/internal/domain/billing"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SessionView struct {
	ID          uuid.UUID          `json:"id"`
	PlateNo     string             `json:"plate_no"`
	Status      string             `json:"status"`
	EntryLaneID uuid.UUID          `json:"entry_lane_id"`
	EntryAt     time.Time          `json:"entry_at"`
	ExitLaneID  *uuid.UUID         `json:"exit_lane_id,omitempty"`
	ExitAt      *time.Time         `json:"exit_at,omitempty"`
	RatePlanID  *uuid.UUID         `json:"rate_plan_id,omitempty"`
	Breakdown   *billing.Breakdown `json:"breakdown,omitempty"`
	RawFee      int64              `json:"raw_fee"`
	DiscountFee int64              `json:"discount_fee"`
	FinalFee    int64              `json:"final_fee"`
	PaidAt      *time.Time         `json:"paid_at,omitempty"`
	CloseReason *string            `json:"close_reason,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type SessionListItem struct {
	ID       uuid.UUID  `json:"id"`
	PlateNo  string     `json:"plate_no"`
	Status   string     `json:"status"`
	EntryAt  time.Time  `json:"entry_at"`
	ExitAt   *time.Time `json:"exit_at,omitempty"`
	FinalFee int64      `json:"final_fee"`
}

type PlateEventView struct {
	ID         uuid.UUID  `json:"id"`
	Direction  string     `json:"direction"`
	PlateNo    string     `json:"plate_no"`
	LaneID     uuid.UUID  `json:"lane_id"`
	CapturedAt time.Time  `json:"captured_at"`
	Confidence *float64   `json:"confidence,omitempty"`
	SessionID  *uuid.UUID `json:"session_id,omitempty"`
}

type SessionListFilter struct {
	// Status filters to one lifecycle state when set.
	Status *string
	// PlateNo filters to one normalized plate when set.
	PlateNo *string
}

type Cursor struct {
	After string
}

type SessionQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
	List(ctx context.Context, filter SessionListFilter, after *Cursor, limit int) ([]*SessionListItem, *Cursor, error)
	ListEventsBySession(ctx context.Context, sessionID uuid.UUID) ([]*PlateEventView, error)
}

type SessionReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
	FindPage(ctx context.Context, filter SessionListFilter, afterEntryAt *time.Time, afterID *uuid.UUID, limit int32) ([]*SessionListItem, error)
	FindEventsBySession(ctx context.Context, sessionID uuid.UUID) ([]*PlateEventView, error)
}

type sessionQueriesImpl struct {
	store SessionReadStore
}

func NewSessionQueries(store SessionReadStore) SessionQueries {
	return &sessionQueriesImpl{store: store}
}

func (q *sessionQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *sessionQueriesImpl) List(ctx context.Context, filter SessionListFilter, after *Cursor, limit int) ([]*SessionListItem, *Cursor, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = 50
	}

	var afterEntryAt *time.Time
	var afterID *uuid.UUID
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, err
		}
		afterEntryAt = &t
		afterID = &id
	}

	// Fetch one extra row to decide whether a next page exists.
	rows, err := q.store.FindPage(ctx, filter, afterEntryAt, afterID, int32(limit)+1)
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.EntryAt, last.ID)}
	}
	return rows, next, nil
}

func (q *sessionQueriesImpl) ListEventsBySession(ctx context.Context, sessionID uuid.UUID) ([]*PlateEventView, error) {
	return q.store.FindEventsBySession(ctx, sessionID)
}
