package queries

import (
	"context"
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/domain/discount"
	"parkflow/internal/infra"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
)

// QuoteInput prices a hypothetical stay without touching any session.
type QuoteInput struct {
	EntryAt time.Time
	ExitAt  time.Time
	// RatePlanID selects a specific plan; nil means the active plan.
	RatePlanID *uuid.UUID
	// DiscountRuleIDs are priced as if each listed rule were granted once,
	// in order.
	DiscountRuleIDs []uuid.UUID
}

type FeeQueries interface {
	Quote(ctx context.Context, input QuoteInput) (*billing.Breakdown, error)
}

type DiscountRuleReadStore interface {
	FindRulesByIDs(ctx context.Context, ids []uuid.UUID) ([]*discount.Rule, error)
}

type feeQueriesImpl struct {
	uow       shared.UnitOfWork
	quoter    billing.Quoter
	ruleStore DiscountRuleReadStore
	lotTZ     *time.Location
}

func NewFeeQueries(uow shared.UnitOfWork, quoter billing.Quoter, ruleStore DiscountRuleReadStore, lotTZ *time.Location) FeeQueries {
	return &feeQueriesImpl{
		uow:       uow,
		quoter:    quoter,
		ruleStore: ruleStore,
		lotTZ:     lotTZ,
	}
}

func (q *feeQueriesImpl) Quote(ctx context.Context, input QuoteInput) (*billing.Breakdown, error) {
	if input.ExitAt.Before(input.EntryAt) {
		return nil, errs.Mark(errs.New("exit before entry"), errs.ErrDomainValidation)
	}

	var breakdown billing.Breakdown
	err := q.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		plan, err := q.resolvePlan(ctx, tx, input.RatePlanID)
		if err != nil {
			return err
		}

		rules, err := q.ruleStore.FindRulesByIDs(ctx, input.DiscountRuleIDs)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		entry := input.EntryAt.In(q.lotTZ)
		exit := input.ExitAt.In(q.lotTZ)
		breakdown = q.quoter.Quote(entry, exit, plan.Rules, rules)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (q *feeQueriesImpl) resolvePlan(ctx context.Context, tx shared.Tx, planID *uuid.UUID) (*shared.RatePlanSnapshot, error) {
	if planID != nil {
		plan, err := tx.RatePlans().FindByID(ctx, tx.DB(), *planID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrRatePlanNotFound)
			}
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return plan, nil
	}
	plan, err := tx.RatePlans().FindActive(ctx, tx.DB())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRatePlanNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return plan, nil
}
