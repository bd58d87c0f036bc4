package session

import (
	"errors"
	"time"

	"parkflow/internal/domain/billing"

	"github.com/google/uuid"
)

var (
	ErrNotParking        = errors.New("session is not in PARKING state")
	ErrNotExitPending    = errors.New("session is not awaiting payment")
	ErrNotPaid           = errors.New("session is not paid")
	ErrAlreadyClosed     = errors.New("session is already closed")
	ErrNegativeFee       = errors.New("fee cannot be negative")
	ErrNonZeroFee        = errors.New("free close requires a zero final fee")
	ErrMissingCloseState = errors.New("close requires exit lane and time")
)

// Session is the central lifecycle entity for one vehicle visit.
// Sessions are never deleted; every transition is also recorded as a
// plate event by the caller.
type Session struct {
	id          uuid.UUID
	plateNo     PlateNumber
	status      Status
	entryLaneID uuid.UUID
	entryAt     time.Time
	exitLaneID  *uuid.UUID
	exitAt      *time.Time
	ratePlanID  *uuid.UUID
	breakdown   *billing.Breakdown
	rawFee      int64
	discountFee int64
	finalFee    int64
	paidAt      *time.Time
	closeReason *CloseReason
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSession opens a PARKING session for a plate's entry capture.
func NewSession(plateNo PlateNumber, entryLaneID uuid.UUID, entryAt time.Time, ratePlanID *uuid.UUID) *Session {
	return &Session{
		id:          uuid.New(),
		plateNo:     plateNo,
		status:      StatusParking,
		entryLaneID: entryLaneID,
		entryAt:     entryAt,
		ratePlanID:  ratePlanID,
	}
}

func ReconstructSession(
	id uuid.UUID,
	plateNo PlateNumber,
	status Status,
	entryLaneID uuid.UUID,
	entryAt time.Time,
	exitLaneID *uuid.UUID,
	exitAt *time.Time,
	ratePlanID *uuid.UUID,
	breakdown *billing.Breakdown,
	rawFee, discountFee, finalFee int64,
	paidAt *time.Time,
	closeReason *CloseReason,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:          id,
		plateNo:     plateNo,
		status:      status,
		entryLaneID: entryLaneID,
		entryAt:     entryAt,
		exitLaneID:  exitLaneID,
		exitAt:      exitAt,
		ratePlanID:  ratePlanID,
		breakdown:   breakdown,
		rawFee:      rawFee,
		discountFee: discountFee,
		finalFee:    finalFee,
		paidAt:      paidAt,
		closeReason: closeReason,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// BeginExit moves PARKING -> EXIT_PENDING with a computed breakdown
// whose final fee requires payment before the barrier opens.
func (s *Session) BeginExit(exitLaneID uuid.UUID, exitAt time.Time, breakdown billing.Breakdown) error {
	if s.status != StatusParking {
		return ErrNotParking
	}
	if breakdown.FinalFee < 0 {
		return ErrNegativeFee
	}

	s.status = StatusExitPending
	s.exitLaneID = &exitLaneID
	s.exitAt = &exitAt
	s.applyBreakdown(breakdown)
	return nil
}

// CloseFree moves PARKING -> CLOSED in one step when the computed final
// fee is zero.
func (s *Session) CloseFree(exitLaneID uuid.UUID, exitAt time.Time, breakdown billing.Breakdown) error {
	if s.status != StatusParking {
		return ErrNotParking
	}
	if breakdown.FinalFee != 0 {
		return ErrNonZeroFee
	}

	reason := CloseReasonFreeExit
	s.status = StatusClosed
	s.exitLaneID = &exitLaneID
	s.exitAt = &exitAt
	s.closeReason = &reason
	s.applyBreakdown(breakdown)
	return nil
}

// CloseWithMembership closes any open session at exit because a valid
// membership covers the exit instant. Membership validity always
// overrides billing: the final fee is forced to zero while the computed
// breakdown, when available, is kept for audit.
func (s *Session) CloseWithMembership(exitLaneID uuid.UUID, exitAt time.Time, breakdown *billing.Breakdown) error {
	if !s.IsOpen() {
		return ErrNotParking
	}

	reason := CloseReasonMembershipValid
	s.status = StatusClosed
	s.exitLaneID = &exitLaneID
	s.exitAt = &exitAt
	s.closeReason = &reason
	if breakdown != nil {
		s.applyBreakdown(*breakdown)
	}
	s.finalFee = 0
	return nil
}

// ConfirmPayment moves EXIT_PENDING -> PAID.
func (s *Session) ConfirmPayment(paidAt time.Time) error {
	switch s.status {
	case StatusExitPending:
		s.status = StatusPaid
		s.paidAt = &paidAt
		return nil
	case StatusPaid:
		// Idempotent: a second confirmation is a no-op.
		return nil
	case StatusClosed:
		return ErrAlreadyClosed
	default:
		return ErrNotExitPending
	}
}

// CloseAfterPayment moves PAID -> CLOSED when the vehicle physically
// departs after settling.
func (s *Session) CloseAfterPayment(exitLaneID uuid.UUID, exitAt time.Time) error {
	if s.status != StatusPaid {
		return ErrNotPaid
	}

	reason := CloseReasonNormalExit
	s.status = StatusClosed
	s.exitLaneID = &exitLaneID
	s.exitAt = &exitAt
	s.closeReason = &reason
	return nil
}

// ForceClose closes a session from any non-terminal state by operator
// action.
func (s *Session) ForceClose(at time.Time) error {
	if s.status == StatusClosed {
		return ErrAlreadyClosed
	}

	reason := CloseReasonForceClosed
	s.status = StatusClosed
	s.closeReason = &reason
	if s.exitAt == nil {
		s.exitAt = &at
	}
	return nil
}

// MarkError parks the session in the ERROR escape state for operator
// attention. Closed sessions stay closed.
func (s *Session) MarkError() error {
	if s.status == StatusClosed {
		return ErrAlreadyClosed
	}
	s.status = StatusError
	return nil
}

func (s *Session) applyBreakdown(breakdown billing.Breakdown) {
	b := breakdown
	s.breakdown = &b
	s.rawFee = breakdown.RawFee
	s.discountFee = breakdown.DiscountTotal
	s.finalFee = breakdown.FinalFee
}

func (s *Session) IsOpen() bool {
	return s.status == StatusParking || s.status == StatusPaid
}

func (s *Session) ID() uuid.UUID                 { return s.id }
func (s *Session) PlateNo() PlateNumber          { return s.plateNo }
func (s *Session) Status() Status                { return s.status }
func (s *Session) EntryLaneID() uuid.UUID        { return s.entryLaneID }
func (s *Session) EntryAt() time.Time            { return s.entryAt }
func (s *Session) ExitLaneID() *uuid.UUID        { return s.exitLaneID }
func (s *Session) ExitAt() *time.Time            { return s.exitAt }
func (s *Session) RatePlanID() *uuid.UUID        { return s.ratePlanID }
func (s *Session) Breakdown() *billing.Breakdown { return s.breakdown }
func (s *Session) RawFee() int64                 { return s.rawFee }
func (s *Session) DiscountFee() int64            { return s.discountFee }
func (s *Session) FinalFee() int64               { return s.finalFee }
func (s *Session) PaidAt() *time.Time            { return s.paidAt }
func (s *Session) CloseReason() *CloseReason     { return s.closeReason }
func (s *Session) CreatedAt() time.Time          { return s.createdAt }
func (s *Session) UpdatedAt() time.Time          { return s.updatedAt }
