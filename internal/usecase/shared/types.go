package shared

import (
	"time"

	"parkflow/internal/domain/tariff"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads.

type RatePlanSnapshot struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
	Rules    tariff.RateRules
}

type MembershipSnapshot struct {
	ID        uuid.UUID
	PlateNo   string
	ValidFrom time.Time
	ValidTo   time.Time
}

type BarrierDeviceSnapshot struct {
	ID     uuid.UUID
	LaneID uuid.UUID
	Name   string
}
