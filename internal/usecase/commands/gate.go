package commands

import (
	"context"
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/session"
	"parkflow/internal/domain/tariff"
	"parkflow/internal/infra"
	"parkflow/internal/pkg/clock"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/pkg/platelock"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidPlate = errs.New("invalid plate number")

// EntryCapture and ExitCapture arrive pre-validated from the ingress
// layer: direction, lane and timestamp ranges are checked before the
// state machine runs.
type EntryCapture struct {
	PlateNo    string
	LaneID     uuid.UUID
	CapturedAt time.Time
	Confidence *float64
}

type ExitCapture struct {
	PlateNo    string
	LaneID     uuid.UUID
	CapturedAt time.Time
	Confidence *float64
}

type EntryResult struct {
	SessionCreated bool
	SessionID      *uuid.UUID
	EventID        uuid.UUID
}

type ExitResult struct {
	// SessionID is nil for orphan exits with no session to attach to.
	SessionID   *uuid.UUID
	NewStatus   session.Status
	CloseReason *session.CloseReason
	FinalFee    *int64
	Breakdown   *billing.Breakdown
	EventID     uuid.UUID
}

type GateCommands interface {
	ProcessEntry(ctx context.Context, capture EntryCapture) (*EntryResult, error)
	ProcessExit(ctx context.Context, capture ExitCapture) (*ExitResult, error)
}

type gateUseCaseImpl struct {
	uow    shared.UnitOfWork
	quoter billing.Quoter
	clock  clock.Clock
	locks  *platelock.KeyedMutex
	lotTZ  *time.Location
}

func NewGateCommands(
	uow shared.UnitOfWork,
	quoter billing.Quoter,
	clk clock.Clock,
	locks *platelock.KeyedMutex,
	lotTZ *time.Location,
) GateCommands {
	return &gateUseCaseImpl{
		uow:    uow,
		quoter: quoter,
		clock:  clk,
		locks:  locks,
		lotTZ:  lotTZ,
	}
}

// ProcessEntry turns an ENTRY capture into at most one new PARKING
// session. A second ENTRY for a plate that is already parking is
// recorded as an event with no session association and creates nothing.
func (g *gateUseCaseImpl) ProcessEntry(ctx context.Context, capture EntryCapture) (*EntryResult, error) {
	plate, err := session.NewPlateNumber(capture.PlateNo)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPlate)
	}

	unlock := g.locks.Lock(plate.String())
	defer unlock()

	var result *EntryResult
	err = g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Sessions().FindActiveParkingByPlate(ctx, tx.DB(), plate)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if existing != nil {
			// Duplicate-entry suppression: record the capture, attach
			// nothing.
			event := session.NewPlateEvent(session.DirectionEntry, plate, capture.LaneID, capture.CapturedAt, capture.Confidence, nil)
			if err := tx.PlateEvents().Create(ctx, tx.DB(), event); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			result = &EntryResult{SessionCreated: false, EventID: event.ID}
			return nil
		}

		ratePlanID := g.activeRatePlanID(ctx, tx)
		newSession := session.NewSession(plate, capture.LaneID, capture.CapturedAt, ratePlanID)

		sessionID, err := tx.Sessions().Create(ctx, tx.DB(), newSession)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		event := session.NewPlateEvent(session.DirectionEntry, plate, capture.LaneID, capture.CapturedAt, capture.Confidence, &sessionID)
		if err := tx.PlateEvents().Create(ctx, tx.DB(), event); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &EntryResult{SessionCreated: true, SessionID: &sessionID, EventID: event.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessExit resolves an EXIT capture against the plate's most recent
// open session and drives its closing transition. The whole
// read-decide-write sequence runs under the plate's lock inside one
// transaction.
func (g *gateUseCaseImpl) ProcessExit(ctx context.Context, capture ExitCapture) (*ExitResult, error) {
	plate, err := session.NewPlateNumber(capture.PlateNo)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPlate)
	}

	unlock := g.locks.Lock(plate.String())
	defer unlock()

	var result *ExitResult
	err = g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		open, err := tx.Sessions().FindLatestOpenByPlate(ctx, tx.DB(), plate)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if open == nil {
			// Orphan exit: a defined non-error outcome, not an exception.
			event := session.NewPlateEvent(session.DirectionExit, plate, capture.LaneID, capture.CapturedAt, capture.Confidence, nil)
			if err := tx.PlateEvents().Create(ctx, tx.DB(), event); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			result = &ExitResult{EventID: event.ID}
			return nil
		}

		exit, err := g.decideExit(ctx, tx, open, capture)
		if err != nil {
			return err
		}

		if err := tx.Sessions().Update(ctx, tx.DB(), open); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		sessionID := open.ID()
		event := session.NewPlateEvent(session.DirectionExit, plate, capture.LaneID, capture.CapturedAt, capture.Confidence, &sessionID)
		if err := tx.PlateEvents().Create(ctx, tx.DB(), event); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if exit.openBarrier {
			if err := g.emitBarrierIntent(ctx, tx, open, capture.LaneID); err != nil {
				return err
			}
		}

		finalFee := open.FinalFee()
		result = &ExitResult{
			SessionID:   &sessionID,
			NewStatus:   open.Status(),
			CloseReason: open.CloseReason(),
			FinalFee:    &finalFee,
			Breakdown:   open.Breakdown(),
			EventID:     event.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type exitDecision struct {
	openBarrier bool
}

func (g *gateUseCaseImpl) decideExit(ctx context.Context, tx shared.Tx, open *session.Session, capture ExitCapture) (exitDecision, error) {
	// Membership validity always overrides billing.
	membership, err := tx.Memberships().FindValidByPlate(ctx, tx.DB(), open.PlateNo(), capture.CapturedAt)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return exitDecision{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if membership != nil {
		var breakdown *billing.Breakdown
		if open.Status() == session.StatusParking {
			b := g.computeBreakdown(ctx, tx, open, capture.CapturedAt)
			breakdown = &b
		}
		if err := open.CloseWithMembership(capture.LaneID, capture.CapturedAt, breakdown); err != nil {
			return exitDecision{}, errs.Mark(err, errs.ErrDomainValidation)
		}
		return exitDecision{openBarrier: true}, nil
	}

	if open.Status() == session.StatusPaid {
		// Payment already settled; this exit confirms physical departure.
		if err := open.CloseAfterPayment(capture.LaneID, capture.CapturedAt); err != nil {
			return exitDecision{}, errs.Mark(err, errs.ErrDomainValidation)
		}
		return exitDecision{openBarrier: true}, nil
	}

	breakdown := g.computeBreakdown(ctx, tx, open, capture.CapturedAt)

	if breakdown.FinalFee == 0 {
		if err := open.CloseFree(capture.LaneID, capture.CapturedAt, breakdown); err != nil {
			return exitDecision{}, errs.Mark(err, errs.ErrDomainValidation)
		}
		return exitDecision{openBarrier: true}, nil
	}

	if err := open.BeginExit(capture.LaneID, capture.CapturedAt, breakdown); err != nil {
		return exitDecision{}, errs.Mark(err, errs.ErrDomainValidation)
	}
	// Payment is required before the barrier opens.
	return exitDecision{openBarrier: false}, nil
}

// computeBreakdown runs the fee computation for a session being closed.
// A missing or inactive rate plan degrades to zero-value rules and thus a
// zero fee: billing must never block a physical exit.
func (g *gateUseCaseImpl) computeBreakdown(ctx context.Context, tx shared.Tx, open *session.Session, exitAt time.Time) billing.Breakdown {
	var rules tariff.RateRules
	if planID := open.RatePlanID(); planID != nil {
		if plan, err := tx.RatePlans().FindByID(ctx, tx.DB(), *planID); err == nil && plan != nil {
			rules = plan.Rules
		}
	}

	grants, err := tx.DiscountGrants().FindRulesBySession(ctx, tx.DB(), open.ID())
	if err != nil {
		grants = nil
	}

	entry := open.EntryAt().In(g.lotTZ)
	exit := exitAt.In(g.lotTZ)
	return g.quoter.Quote(entry, exit, rules, selectApplicable(grants))
}

// selectApplicable enforces stacking policy before the discount engine
// runs: a non-stackable rule applies alone (first grant wins), and a
// rule's grants beyond its max apply count are dropped. The engine
// itself applies whatever list it is handed.
func selectApplicable(grants []*discount.Rule) []*discount.Rule {
	if len(grants) == 0 {
		return nil
	}

	for _, rule := range grants {
		if !rule.IsStackable() {
			return []*discount.Rule{rule}
		}
	}

	applied := make(map[uuid.UUID]int, len(grants))
	selected := make([]*discount.Rule, 0, len(grants))
	for _, rule := range grants {
		if limit := rule.MaxApplyCount(); limit > 0 && applied[rule.ID()] >= limit {
			continue
		}
		applied[rule.ID()]++
		selected = append(selected, rule)
	}
	return selected
}

func (g *gateUseCaseImpl) emitBarrierIntent(ctx context.Context, tx shared.Tx, closed *session.Session, laneID uuid.UUID) error {
	device, err := tx.BarrierDevices().FindByLane(ctx, tx.DB(), laneID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if device == nil {
		// No barrier bound to the lane; nothing to open.
		return nil
	}

	reason := session.CloseReasonNormalExit
	if r := closed.CloseReason(); r != nil {
		reason = *r
	}

	cmd := session.NewBarrierOpenCommand(device.ID, laneID, reason, closed.ID())
	if err := tx.BarrierOutbox().Enqueue(ctx, tx.DB(), cmd, g.clock.Now()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (g *gateUseCaseImpl) activeRatePlanID(ctx context.Context, tx shared.Tx) *uuid.UUID {
	plan, err := tx.RatePlans().FindActive(ctx, tx.DB())
	if err != nil || plan == nil {
		// No active plan is a configuration gap, not a failure: the
		// session is created unpriced and later degrades to a zero fee.
		return nil
	}
	id := plan.ID
	return &id
}
