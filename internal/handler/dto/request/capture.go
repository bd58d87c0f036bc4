package request

import (
	"time"

	"parkflow/internal/usecase/commands"

	"github.com/google/uuid"
)

// PlateCaptureRequest is what a lane camera posts on every recognition.
// Plate normalization happens in the domain; the raw string is passed
// through untouched.
type PlateCaptureRequest struct {
	PlateNo    string    `json:"plate_no" binding:"required"`
	LaneID     uuid.UUID `json:"lane_id" binding:"required"`
	CapturedAt time.Time `json:"captured_at" binding:"required"`
	Confidence *float64  `json:"confidence,omitempty" binding:"omitempty,gte=0,lte=1"`
}

func (r PlateCaptureRequest) ToEntryCapture() commands.EntryCapture {
	return commands.EntryCapture{
		PlateNo:    r.PlateNo,
		LaneID:     r.LaneID,
		CapturedAt: r.CapturedAt,
		Confidence: r.Confidence,
	}
}

func (r PlateCaptureRequest) ToExitCapture() commands.ExitCapture {
	return commands.ExitCapture{
		PlateNo:    r.PlateNo,
		LaneID:     r.LaneID,
		CapturedAt: r.CapturedAt,
		Confidence: r.Confidence,
	}
}
