package shared

import (
	"context"
	"time"

	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/session"
	"parkflow/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for a read-decide-write sequence
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Sessions() SessionRepository
	PlateEvents() PlateEventRepository
	BarrierOutbox() BarrierOutboxRepository
	RatePlans() RatePlanRepository
	DiscountGrants() DiscountGrantRepository
	Memberships() MembershipRepository
	BarrierDevices() BarrierDeviceRepository
	DB() db.DBTX
}

type SessionRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, s *session.Session) (uuid.UUID, error)
	Update(ctx context.Context, dbtx db.DBTX, s *session.Session) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*session.Session, error)
	// FindActiveParkingByPlate returns the plate's PARKING session, if any.
	FindActiveParkingByPlate(ctx context.Context, dbtx db.DBTX, plateNo session.PlateNumber) (*session.Session, error)
	// FindLatestOpenByPlate returns the plate's most recent session in
	// PARKING or PAID, the candidates an exit capture may close.
	FindLatestOpenByPlate(ctx context.Context, dbtx db.DBTX, plateNo session.PlateNumber) (*session.Session, error)
}

type PlateEventRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, event *session.PlateEvent) error
}

type BarrierOutboxRepository interface {
	Enqueue(ctx context.Context, dbtx db.DBTX, cmd *session.BarrierCommand, runAt time.Time) error
}

type RatePlanRepository interface {
	FindActive(ctx context.Context, dbtx db.DBTX) (*RatePlanSnapshot, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*RatePlanSnapshot, error)
}

type DiscountGrantRepository interface {
	// FindRulesBySession returns the discount rules granted to a session,
	// in grant order.
	FindRulesBySession(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID) ([]*discount.Rule, error)
}

type MembershipRepository interface {
	// FindValidByPlate answers "is this plate covered at instant t".
	FindValidByPlate(ctx context.Context, dbtx db.DBTX, plateNo session.PlateNumber, at time.Time) (*MembershipSnapshot, error)
}

type BarrierDeviceRepository interface {
	// FindByLane maps a lane to its zero-or-one barrier device.
	FindByLane(ctx context.Context, dbtx db.DBTX, laneID uuid.UUID) (*BarrierDeviceSnapshot, error)
}
