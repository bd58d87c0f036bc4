//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/domain/discount"
	"parkflow/internal/domain/session"
	"parkflow/internal/domain/tariff"
	"parkflow/internal/infra"
	"parkflow/internal/infra/db"
	"parkflow/internal/pkg/clock"
	"parkflow/internal/pkg/platelock"
	"parkflow/internal/usecase/commands"
	"parkflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory unit of work; every repository reads and writes the same
// fixture so a whole entry/exit flow can run without a database.
// Session reads return row snapshots, so a stale copy really is stale.
type fakeState struct {
	sessions   map[uuid.UUID]*session.Session
	events     []*session.PlateEvent
	outbox     []*session.BarrierCommand
	activePlan *shared.RatePlanSnapshot
	grants     map[uuid.UUID][]*discount.Rule
	membership *shared.MembershipSnapshot
	devices    map[uuid.UUID]*shared.BarrierDeviceSnapshot

	// afterSessionFind fires once after the next FindByID returns its
	// snapshot; tests use it to commit a concurrent transition between
	// two reads of the same row.
	afterSessionFind func()
}

func newFakeState() *fakeState {
	return &fakeState{
		sessions: make(map[uuid.UUID]*session.Session),
		grants:   make(map[uuid.UUID][]*discount.Rule),
		devices:  make(map[uuid.UUID]*shared.BarrierDeviceSnapshot),
	}
}

type fakeUoW struct{ state *fakeState }

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.state})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct{ state *fakeState }

func (t *fakeTx) Sessions() shared.SessionRepository            { return &fakeSessions{t.state} }
func (t *fakeTx) PlateEvents() shared.PlateEventRepository      { return &fakeEvents{t.state} }
func (t *fakeTx) BarrierOutbox() shared.BarrierOutboxRepository { return &fakeOutbox{t.state} }
func (t *fakeTx) RatePlans() shared.RatePlanRepository          { return &fakePlans{t.state} }
func (t *fakeTx) DiscountGrants() shared.DiscountGrantRepository {
	return &fakeGrants{t.state}
}
func (t *fakeTx) Memberships() shared.MembershipRepository { return &fakeMembers{t.state} }
func (t *fakeTx) BarrierDevices() shared.BarrierDeviceRepository {
	return &fakeDevices{t.state}
}
func (t *fakeTx) DB() db.DBTX { return nil }

type fakeSessions struct{ state *fakeState }

func (f *fakeSessions) Create(_ context.Context, _ db.DBTX, s *session.Session) (uuid.UUID, error) {
	f.state.sessions[s.ID()] = s
	return s.ID(), nil
}

func (f *fakeSessions) Update(_ context.Context, _ db.DBTX, s *session.Session) error {
	f.state.sessions[s.ID()] = s
	return nil
}

func (f *fakeSessions) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*session.Session, error) {
	s, ok := f.state.sessions[id]
	if !ok {
		return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	snapshot := *s
	if hook := f.state.afterSessionFind; hook != nil {
		f.state.afterSessionFind = nil
		hook()
	}
	return &snapshot, nil
}

func (f *fakeSessions) FindActiveParkingByPlate(_ context.Context, _ db.DBTX, plateNo session.PlateNumber) (*session.Session, error) {
	for _, s := range f.state.sessions {
		if s.PlateNo() == plateNo && s.Status() == session.StatusParking {
			snapshot := *s
			return &snapshot, nil
		}
	}
	return nil, infra.WrapRepoErr("parking session not found", nil, infra.KindNotFound)
}

func (f *fakeSessions) FindLatestOpenByPlate(_ context.Context, _ db.DBTX, plateNo session.PlateNumber) (*session.Session, error) {
	var latest *session.Session
	for _, s := range f.state.sessions {
		if s.PlateNo() != plateNo || !s.IsOpen() {
			continue
		}
		if latest == nil || s.EntryAt().After(latest.EntryAt()) {
			latest = s
		}
	}
	if latest == nil {
		return nil, infra.WrapRepoErr("open session not found", nil, infra.KindNotFound)
	}
	snapshot := *latest
	return &snapshot, nil
}

type fakeEvents struct{ state *fakeState }

func (f *fakeEvents) Create(_ context.Context, _ db.DBTX, event *session.PlateEvent) error {
	f.state.events = append(f.state.events, event)
	return nil
}

type fakeOutbox struct{ state *fakeState }

func (f *fakeOutbox) Enqueue(_ context.Context, _ db.DBTX, cmd *session.BarrierCommand, _ time.Time) error {
	f.state.outbox = append(f.state.outbox, cmd)
	return nil
}

type fakePlans struct{ state *fakeState }

func (f *fakePlans) FindActive(_ context.Context, _ db.DBTX) (*shared.RatePlanSnapshot, error) {
	if f.state.activePlan == nil {
		return nil, infra.WrapRepoErr("active rate plan not found", nil, infra.KindNotFound)
	}
	return f.state.activePlan, nil
}

func (f *fakePlans) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.RatePlanSnapshot, error) {
	if f.state.activePlan != nil && f.state.activePlan.ID == id {
		return f.state.activePlan, nil
	}
	return nil, infra.WrapRepoErr("rate plan not found", nil, infra.KindNotFound)
}

type fakeGrants struct{ state *fakeState }

func (f *fakeGrants) FindRulesBySession(_ context.Context, _ db.DBTX, sessionID uuid.UUID) ([]*discount.Rule, error) {
	return f.state.grants[sessionID], nil
}

type fakeMembers struct{ state *fakeState }

func (f *fakeMembers) FindValidByPlate(_ context.Context, _ db.DBTX, plateNo session.PlateNumber, at time.Time) (*shared.MembershipSnapshot, error) {
	m := f.state.membership
	if m == nil || m.PlateNo != plateNo.String() || at.Before(m.ValidFrom) || at.After(m.ValidTo) {
		return nil, infra.WrapRepoErr("valid membership not found", nil, infra.KindNotFound)
	}
	return m, nil
}

type fakeDevices struct{ state *fakeState }

func (f *fakeDevices) FindByLane(_ context.Context, _ db.DBTX, laneID uuid.UUID) (*shared.BarrierDeviceSnapshot, error) {
	d, ok := f.state.devices[laneID]
	if !ok {
		return nil, infra.WrapRepoErr("barrier device not found", nil, infra.KindNotFound)
	}
	return d, nil
}

func standardPlan() *shared.RatePlanSnapshot {
	return &shared.RatePlanSnapshot{
		ID:       uuid.New(),
		Name:     "standard",
		IsActive: true,
		Rules: tariff.RateRules{
			TimeBasedEnabled: true,
			Default: tariff.TariffTier{
				FreeMinutes:       30,
				BaseMinutes:       60,
				BaseFee:           1000,
				AdditionalMinutes: 30,
				AdditionalFee:     500,
				DailyMax:          15000,
			},
		},
	}
}

func newGateFixture(t *testing.T, state *fakeState) commands.GateCommands {
	t.Helper()
	tz, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return commands.NewGateCommands(
		&fakeUoW{state: state},
		billing.NewEngine(),
		clock.NewMockClock(time.Date(2025, 3, 10, 12, 0, 0, 0, tz)),
		platelock.New(),
		tz,
	)
}

func TestProcessEntry(t *testing.T) {
	entryAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	laneID := uuid.New()

	t.Run("opens a PARKING session and records the event", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)

		result, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo:    "12가3456",
			LaneID:     laneID,
			CapturedAt: entryAt,
		})
		require.NoError(t, err)

		assert.True(t, result.SessionCreated)
		require.NotNil(t, result.SessionID)

		created := state.sessions[*result.SessionID]
		require.NotNil(t, created)
		assert.Equal(t, session.StatusParking, created.Status())
		require.NotNil(t, created.RatePlanID())
		assert.Equal(t, state.activePlan.ID, *created.RatePlanID())

		require.Len(t, state.events, 1)
		assert.Equal(t, session.DirectionEntry, state.events[0].Direction)
		assert.Equal(t, result.SessionID, state.events[0].SessionID)
	})

	t.Run("suppresses a duplicate entry but still records it", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)

		first, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "34나5678", LaneID: laneID, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		require.True(t, first.SessionCreated)

		second, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "34나5678", LaneID: laneID, CapturedAt: entryAt.Add(time.Minute),
		})
		require.NoError(t, err)

		assert.False(t, second.SessionCreated)
		assert.Nil(t, second.SessionID)
		assert.Len(t, state.sessions, 1)

		require.Len(t, state.events, 2)
		assert.Nil(t, state.events[1].SessionID)
	})

	t.Run("opens an unpriced session when no plan is active", func(t *testing.T) {
		state := newFakeState()
		gate := newGateFixture(t, state)

		result, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "56다7890", LaneID: laneID, CapturedAt: entryAt,
		})
		require.NoError(t, err)

		created := state.sessions[*result.SessionID]
		assert.Nil(t, created.RatePlanID())
	})

	t.Run("rejects an unusable plate", func(t *testing.T) {
		state := newFakeState()
		gate := newGateFixture(t, state)

		_, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "   ", LaneID: laneID, CapturedAt: entryAt,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidPlate)
		assert.Empty(t, state.sessions)
	})
}

func TestProcessExit(t *testing.T) {
	entryLane := uuid.New()
	exitLane := uuid.New()
	entryAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	// seedParking opens a session through the entry flow so the fixture
	// never constructs state the commands could not have produced.
	seedParking := func(t *testing.T, gate commands.GateCommands, plate string) uuid.UUID {
		t.Helper()
		result, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: plate, LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		require.True(t, result.SessionCreated)
		return *result.SessionID
	}

	t.Run("records an orphan exit without failing", func(t *testing.T) {
		state := newFakeState()
		gate := newGateFixture(t, state)

		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "11가1111", LaneID: exitLane, CapturedAt: entryAt.Add(time.Hour),
		})
		require.NoError(t, err)

		assert.Nil(t, result.SessionID)
		require.Len(t, state.events, 1)
		assert.Equal(t, session.DirectionExit, state.events[0].Direction)
		assert.Nil(t, state.events[0].SessionID)
	})

	t.Run("closes free within the free window and opens the barrier", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		state.devices[exitLane] = &shared.BarrierDeviceSnapshot{ID: uuid.New(), LaneID: exitLane, Name: "exit-1"}
		gate := newGateFixture(t, state)
		id := seedParking(t, gate, "22나2222")

		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "22나2222", LaneID: exitLane, CapturedAt: entryAt.Add(25 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusClosed, result.NewStatus)
		require.NotNil(t, result.CloseReason)
		assert.Equal(t, session.CloseReasonFreeExit, *result.CloseReason)
		assert.Equal(t, int64(0), *result.FinalFee)

		require.Len(t, state.outbox, 1)
		assert.Equal(t, id, state.outbox[0].CorrelationID)
	})

	t.Run("moves to EXIT_PENDING with a fee and keeps the barrier shut", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		state.devices[exitLane] = &shared.BarrierDeviceSnapshot{ID: uuid.New(), LaneID: exitLane, Name: "exit-1"}
		gate := newGateFixture(t, state)
		seedParking(t, gate, "33다3333")

		// 65 minutes leaves 35 chargeable after the free window: base fee only.
		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "33다3333", LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusExitPending, result.NewStatus)
		assert.Nil(t, result.CloseReason)
		assert.Equal(t, int64(1000), *result.FinalFee)
		require.NotNil(t, result.Breakdown)
		assert.Equal(t, int64(1000), result.Breakdown.RawFee)

		assert.Empty(t, state.outbox)
	})

	t.Run("membership overrides billing even when a fee is due", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		state.devices[exitLane] = &shared.BarrierDeviceSnapshot{ID: uuid.New(), LaneID: exitLane, Name: "exit-1"}
		gate := newGateFixture(t, state)
		seedParking(t, gate, "44라4444")

		state.membership = &shared.MembershipSnapshot{
			ID:        uuid.New(),
			PlateNo:   "44라4444",
			ValidFrom: entryAt.Add(-time.Hour),
			ValidTo:   entryAt.Add(24 * time.Hour),
		}

		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "44라4444", LaneID: exitLane, CapturedAt: entryAt.Add(5 * time.Hour),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusClosed, result.NewStatus)
		assert.Equal(t, session.CloseReasonMembershipValid, *result.CloseReason)
		assert.Equal(t, int64(0), *result.FinalFee)
		// Breakdown preserved for audit even though nothing is charged.
		assert.NotNil(t, result.Breakdown)

		require.Len(t, state.outbox, 1)
	})

	t.Run("degrades to a free exit when the plan is missing", func(t *testing.T) {
		state := newFakeState()
		gate := newGateFixture(t, state)
		seedParking(t, gate, "55마5555")

		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "55마5555", LaneID: exitLane, CapturedAt: entryAt.Add(10 * time.Hour),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusClosed, result.NewStatus)
		assert.Equal(t, session.CloseReasonFreeExit, *result.CloseReason)
		assert.Equal(t, int64(0), *result.FinalFee)
	})

	t.Run("stacked discounts can only reach zero, never negative", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)
		id := seedParking(t, gate, "66바6666")

		amountOff, err := discount.NewRule(uuid.New(), "store voucher", discount.TypeAmount, 3000, true, 0)
		require.NoError(t, err)
		state.grants[id] = []*discount.Rule{amountOff, amountOff}

		// 185 minutes: 155 chargeable, 1000 base + 4 units of 500 = 3000 raw.
		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "66바6666", LaneID: exitLane, CapturedAt: entryAt.Add(185 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusClosed, result.NewStatus)
		assert.Equal(t, session.CloseReasonFreeExit, *result.CloseReason)
		assert.Equal(t, int64(0), *result.FinalFee)
		// Audit keeps the uncapped discount total.
		assert.Equal(t, int64(6000), result.Breakdown.DiscountTotal)
	})

	t.Run("a capped grant applies at most its limit", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)
		id := seedParking(t, gate, "99자9999")

		once, err := discount.NewRule(uuid.New(), "first hour voucher", discount.TypeAmount, 300, true, 1)
		require.NoError(t, err)
		state.grants[id] = []*discount.Rule{once, once, once}

		// 65 minutes: 1000 raw; the voucher counts once despite three grants.
		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "99자9999", LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(700), *result.FinalFee)
		require.Len(t, result.Breakdown.Discounts, 1)
	})

	t.Run("a non-stackable grant applies alone", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)
		id := seedParking(t, gate, "77사7777")

		percentOff, err := discount.NewRule(uuid.New(), "half off", discount.TypePercent, 50, true, 0)
		require.NoError(t, err)
		compTicket, err := discount.NewRule(uuid.New(), "validation stamp", discount.TypeAmount, 500, false, 0)
		require.NoError(t, err)
		state.grants[id] = []*discount.Rule{compTicket, percentOff}

		// 65 minutes: 1000 raw; only the non-stackable 500 applies.
		result, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "77사7777", LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusExitPending, result.NewStatus)
		assert.Equal(t, int64(500), *result.FinalFee)
		require.Len(t, result.Breakdown.Discounts, 1)
		assert.Equal(t, "validation stamp", result.Breakdown.Discounts[0].RuleName)
	})

	t.Run("an exit on a PAID session closes it and opens the barrier", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		state.devices[exitLane] = &shared.BarrierDeviceSnapshot{ID: uuid.New(), LaneID: exitLane, Name: "exit-1"}
		gate := newGateFixture(t, state)
		id := seedParking(t, gate, "88아8888")

		first, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "88아8888", LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
		})
		require.NoError(t, err)
		require.Equal(t, session.StatusExitPending, first.NewStatus)

		require.NoError(t, state.sessions[id].ConfirmPayment(entryAt.Add(70*time.Minute)))

		second, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: "88아8888", LaneID: exitLane, CapturedAt: entryAt.Add(75 * time.Minute),
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusClosed, second.NewStatus)
		assert.Equal(t, session.CloseReasonNormalExit, *second.CloseReason)
		require.Len(t, state.outbox, 1)
	})
}
