package response

import (
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/usecase/commands"

	"github.com/google/uuid"
)

type EntryResultResponse struct {
	SessionCreated bool       `json:"sessionCreated"`
	SessionID      *uuid.UUID `json:"sessionId,omitempty"`
	EventID        uuid.UUID  `json:"eventId"`
}

type ExitResultResponse struct {
	SessionID   *uuid.UUID         `json:"sessionId,omitempty"`
	Status      string             `json:"status,omitempty"`
	CloseReason *string            `json:"closeReason,omitempty"`
	FinalFee    *int64             `json:"finalFee,omitempty"`
	Breakdown   *billing.Breakdown `json:"breakdown,omitempty"`
	EventID     uuid.UUID          `json:"eventId"`
}

type PaymentResultResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Status    string    `json:"status"`
	PaidAt    time.Time `json:"paidAt"`
}

func FromEntryResult(r *commands.EntryResult) *EntryResultResponse {
	return &EntryResultResponse{
		SessionCreated: r.SessionCreated,
		SessionID:      r.SessionID,
		EventID:        r.EventID,
	}
}

func FromExitResult(r *commands.ExitResult) *ExitResultResponse {
	resp := &ExitResultResponse{
		SessionID: r.SessionID,
		FinalFee:  r.FinalFee,
		Breakdown: r.Breakdown,
		EventID:   r.EventID,
	}
	if r.SessionID != nil {
		resp.Status = string(r.NewStatus)
	}
	if r.CloseReason != nil {
		reason := string(*r.CloseReason)
		resp.CloseReason = &reason
	}
	return resp
}

func FromPaymentResult(r *commands.PaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		SessionID: r.SessionID,
		Status:    string(r.NewStatus),
		PaidAt:    r.PaidAt,
	}
}
