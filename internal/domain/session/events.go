package session

import (
	"time"

	"github.com/google/uuid"
)

// PlateEvent is the write-once record of one plate capture. SessionID is
// nil for duplicate-entry and orphaned-exit events; the event is still
// recorded so the audit trail shows every capture.
type PlateEvent struct {
	ID         uuid.UUID
	Direction  Direction
	PlateNo    PlateNumber
	LaneID     uuid.UUID
	CapturedAt time.Time
	Confidence *float64
	SessionID  *uuid.UUID
}

func NewPlateEvent(direction Direction, plateNo PlateNumber, laneID uuid.UUID, capturedAt time.Time, confidence *float64, sessionID *uuid.UUID) *PlateEvent {
	return &PlateEvent{
		ID:         uuid.New(),
		Direction:  direction,
		PlateNo:    plateNo,
		LaneID:     laneID,
		CapturedAt: capturedAt,
		Confidence: confidence,
		SessionID:  sessionID,
	}
}

// BarrierAction is what a barrier command asks the hardware to do.
type BarrierAction string

const (
	BarrierActionOpen BarrierAction = "OPEN"
)

// BarrierCommand is an intent to drive a physical gate. It is emitted as
// a side effect of a CLOSED transition and consumed asynchronously by
// the hardware collaborator; the session transition commits regardless
// of delivery.
type BarrierCommand struct {
	ID            uuid.UUID
	DeviceID      uuid.UUID
	LaneID        uuid.UUID
	Action        BarrierAction
	Reason        CloseReason
	CorrelationID uuid.UUID // the session that triggered the command
}

func NewBarrierOpenCommand(deviceID, laneID uuid.UUID, reason CloseReason, sessionID uuid.UUID) *BarrierCommand {
	return &BarrierCommand{
		ID:            uuid.New(),
		DeviceID:      deviceID,
		LaneID:        laneID,
		Action:        BarrierActionOpen,
		Reason:        reason,
		CorrelationID: sessionID,
	}
}
