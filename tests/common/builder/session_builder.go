//go:build unit || e2e

package builder

import (
	"time"

	domsession "parkflow/internal/domain/session"
	reqdto "parkflow/internal/handler/dto/request"
	"parkflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type SessionBuilder struct {
	ID          uuid.UUID
	PlateNo     string
	Status      domsession.Status
	EntryLaneID uuid.UUID
	EntryAt     time.Time
	RatePlanID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewSessionBuilder() *SessionBuilder {
	now := time.Now()
	return &SessionBuilder{
		ID:          uuid.New(),
		PlateNo:     "12GA3456",
		Status:      domsession.StatusParking,
		EntryLaneID: uuid.New(),
		EntryAt:     now.Add(-2 * time.Hour),
		CreatedAt:   now.Add(-2 * time.Hour),
		UpdatedAt:   now,
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *SessionBuilder) BuildDomain() (*domsession.Session, error) {
	plate, err := domsession.NewPlateNumber(b.PlateNo)
	if err != nil {
		return nil, err
	}
	return domsession.NewSession(plate, b.EntryLaneID, b.EntryAt, b.RatePlanID), nil
}

func (b *SessionBuilder) BuildCaptureRequestDTO() reqdto.PlateCaptureRequest {
	return reqdto.PlateCaptureRequest{
		PlateNo:    b.PlateNo,
		LaneID:     b.EntryLaneID,
		CapturedAt: b.EntryAt,
	}
}

func (b *SessionBuilder) BuildView() *queries.SessionView {
	return &queries.SessionView{
		ID:          b.ID,
		PlateNo:     b.PlateNo,
		Status:      string(b.Status),
		EntryLaneID: b.EntryLaneID,
		EntryAt:     b.EntryAt,
		RatePlanID:  b.RatePlanID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (b *SessionBuilder) BuildListItem() *queries.SessionListItem {
	return &queries.SessionListItem{
		ID:      b.ID,
		PlateNo: b.PlateNo,
		Status:  string(b.Status),
		EntryAt: b.EntryAt,
	}
}
