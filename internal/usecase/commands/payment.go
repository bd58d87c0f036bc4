package commands

import (
	"context"
	"time"

	"parkflow/internal/domain/session"
	"parkflow/internal/infra"
	"parkflow/internal/pkg/clock"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/pkg/platelock"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotDue  = errs.New("payment not due")
	ErrAmountMismatch = errs.New("paid amount mismatch")
)

type PaymentInput struct {
	SessionID uuid.UUID
	// Amount paid at the kiosk. Must equal the session's final fee.
	Amount int64
}

type PaymentResult struct {
	SessionID uuid.UUID
	NewStatus session.Status
	PaidAt    time.Time
}

type PaymentCommands interface {
	ConfirmPayment(ctx context.Context, input PaymentInput) (*PaymentResult, error)
	ForceClose(ctx context.Context, sessionID uuid.UUID) error
}

type paymentUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	locks *platelock.KeyedMutex
}

func NewPaymentCommands(uow shared.UnitOfWork, clk clock.Clock, locks *platelock.KeyedMutex) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:   uow,
		clock: clk,
		locks: locks,
	}
}

// lockAndReadSession resolves the session's plate, takes the plate lock
// and re-reads the row under it. The first read only names the lock key;
// a gate capture may commit a transition between the two reads, so every
// decision is made on the second one.
func (p *paymentUseCaseImpl) lockAndReadSession(ctx context.Context, tx shared.Tx, sessionID uuid.UUID) (*session.Session, func(), error) {
	sess, err := tx.Sessions().FindByID(ctx, tx.DB(), sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	unlock := p.locks.Lock(sess.PlateNo().String())

	sess, err = tx.Sessions().FindByID(ctx, tx.DB(), sessionID)
	if err != nil {
		unlock()
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, errs.ErrSessionNotFound)
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return sess, unlock, nil
}

// ConfirmPayment settles an EXIT_PENDING session. Re-confirming a PAID
// session is a no-op success so kiosk retries stay safe.
func (p *paymentUseCaseImpl) ConfirmPayment(ctx context.Context, input PaymentInput) (*PaymentResult, error) {
	var result *PaymentResult
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sess, unlock, err := p.lockAndReadSession(ctx, tx, input.SessionID)
		if err != nil {
			return err
		}
		defer unlock()

		switch sess.Status() {
		case session.StatusPaid:
			// Idempotent retry from the kiosk.
			result = &PaymentResult{SessionID: sess.ID(), NewStatus: sess.Status(), PaidAt: *sess.PaidAt()}
			return nil
		case session.StatusClosed:
			return errs.Mark(errs.New("session closed"), errs.ErrSessionClosed)
		case session.StatusExitPending:
		default:
			return errs.Mark(errs.New("payment not due in status "+string(sess.Status())), ErrPaymentNotDue)
		}

		if input.Amount != sess.FinalFee() {
			return errs.Mark(errs.New("paid amount does not match final fee"), ErrAmountMismatch)
		}

		now := p.clock.Now()
		if err := sess.ConfirmPayment(now); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Sessions().Update(ctx, tx.DB(), sess); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &PaymentResult{SessionID: sess.ID(), NewStatus: sess.Status(), PaidAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForceClose is the operator override for stuck sessions. It closes any
// non-terminal session without opening a barrier; a session whose billing
// data is inconsistent is parked in ERROR instead.
func (p *paymentUseCaseImpl) ForceClose(ctx context.Context, sessionID uuid.UUID) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sess, unlock, err := p.lockAndReadSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		defer unlock()

		// An EXIT_PENDING row without its breakdown lost the billing
		// result that produced it; closing over it would invent a zero
		// fee, so it goes to ERROR for operator attention.
		if sess.Status() == session.StatusExitPending && sess.Breakdown() == nil {
			if err := sess.MarkError(); err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := tx.Sessions().Update(ctx, tx.DB(), sess); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return nil
		}

		if err := sess.ForceClose(p.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := tx.Sessions().Update(ctx, tx.DB(), sess); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
