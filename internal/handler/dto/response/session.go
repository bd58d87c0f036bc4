package response

import (
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID          uuid.UUID          `json:"id"`
	PlateNo     string             `json:"plateNo"`
	Status      string             `json:"status"`
	EntryLaneID uuid.UUID          `json:"entryLaneId"`
	EntryAt     time.Time          `json:"entryAt"`
	ExitLaneID  *uuid.UUID         `json:"exitLaneId,omitempty"`
	ExitAt      *time.Time         `json:"exitAt,omitempty"`
	RatePlanID  *uuid.UUID         `json:"ratePlanId,omitempty"`
	Breakdown   *billing.Breakdown `json:"breakdown,omitempty"`
	RawFee      int64              `json:"rawFee"`
	DiscountFee int64              `json:"discountFee"`
	FinalFee    int64              `json:"finalFee"`
	PaidAt      *time.Time         `json:"paidAt,omitempty"`
	CloseReason *string            `json:"closeReason,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type SessionListItemResponse struct {
	ID       uuid.UUID  `json:"id"`
	PlateNo  string     `json:"plateNo"`
	Status   string     `json:"status"`
	EntryAt  time.Time  `json:"entryAt"`
	ExitAt   *time.Time `json:"exitAt,omitempty"`
	FinalFee int64      `json:"finalFee"`
}

type SessionListResponse struct {
	Items      []*SessionListItemResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

type PlateEventResponse struct {
	ID         uuid.UUID  `json:"id"`
	Direction  string     `json:"direction"`
	PlateNo    string     `json:"plateNo"`
	LaneID     uuid.UUID  `json:"laneId"`
	CapturedAt time.Time  `json:"capturedAt"`
	Confidence *float64   `json:"confidence,omitempty"`
	SessionID  *uuid.UUID `json:"sessionId,omitempty"`
}

func FromSessionView(v *queries.SessionView) *SessionResponse {
	return &SessionResponse{
		ID:          v.ID,
		PlateNo:     v.PlateNo,
		Status:      v.Status,
		EntryLaneID: v.EntryLaneID,
		EntryAt:     v.EntryAt,
		ExitLaneID:  v.ExitLaneID,
		ExitAt:      v.ExitAt,
		RatePlanID:  v.RatePlanID,
		Breakdown:   v.Breakdown,
		RawFee:      v.RawFee,
		DiscountFee: v.DiscountFee,
		FinalFee:    v.FinalFee,
		PaidAt:      v.PaidAt,
		CloseReason: v.CloseReason,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func FromSessionListItem(v *queries.SessionListItem) *SessionListItemResponse {
	return &SessionListItemResponse{
		ID:       v.ID,
		PlateNo:  v.PlateNo,
		Status:   v.Status,
		EntryAt:  v.EntryAt,
		ExitAt:   v.ExitAt,
		FinalFee: v.FinalFee,
	}
}

func FromPlateEventView(v *queries.PlateEventView) *PlateEventResponse {
	return &PlateEventResponse{
		ID:         v.ID,
		Direction:  v.Direction,
		PlateNo:    v.PlateNo,
		LaneID:     v.LaneID,
		CapturedAt: v.CapturedAt,
		Confidence: v.Confidence,
		SessionID:  v.SessionID,
	}
}
