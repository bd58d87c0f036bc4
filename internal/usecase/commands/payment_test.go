//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parkflow/internal/domain/billing"
	"parkflow/internal/domain/session"
	"parkflow/internal/pkg/clock"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/pkg/platelock"
	"parkflow/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmPayment(t *testing.T) {
	entryLane := uuid.New()
	exitLane := uuid.New()
	entryAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	paidAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// seedExitPending drives a session through entry and a billable exit
	// so it lands in EXIT_PENDING owing the base fee of 1000.
	seedExitPending := func(t *testing.T, state *fakeState, plate string) uuid.UUID {
		t.Helper()
		gate := newGateFixture(t, state)
		result, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: plate, LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		id := *result.SessionID

		exit, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
			PlateNo: plate, LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
		})
		require.NoError(t, err)
		require.Equal(t, session.StatusExitPending, exit.NewStatus)
		return id
	}

	newPaymentFixture := func(state *fakeState) commands.PaymentCommands {
		return commands.NewPaymentCommands(
			&fakeUoW{state: state},
			clock.NewMockClock(paidAt),
			platelock.New(),
		)
	}

	t.Run("settles an EXIT_PENDING session", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		id := seedExitPending(t, state, "10가1010")
		payment := newPaymentFixture(state)

		result, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{
			SessionID: id, Amount: 1000,
		})
		require.NoError(t, err)

		assert.Equal(t, session.StatusPaid, result.NewStatus)
		assert.Equal(t, paidAt, result.PaidAt)
		assert.Equal(t, session.StatusPaid, state.sessions[id].Status())
	})

	t.Run("re-confirming a PAID session succeeds without changes", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		id := seedExitPending(t, state, "20나2020")
		payment := newPaymentFixture(state)

		_, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{SessionID: id, Amount: 1000})
		require.NoError(t, err)

		again, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{SessionID: id, Amount: 1000})
		require.NoError(t, err)
		assert.Equal(t, session.StatusPaid, again.NewStatus)
		assert.Equal(t, paidAt, again.PaidAt)
	})

	t.Run("rejects a mismatched amount", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		id := seedExitPending(t, state, "30다3030")
		payment := newPaymentFixture(state)

		_, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{SessionID: id, Amount: 900})
		assert.ErrorIs(t, err, commands.ErrAmountMismatch)
		assert.Equal(t, session.StatusExitPending, state.sessions[id].Status())
	})

	t.Run("rejects payment while still PARKING", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)
		entry, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "40라4040", LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		payment := newPaymentFixture(state)

		_, err = payment.ConfirmPayment(context.Background(), commands.PaymentInput{
			SessionID: *entry.SessionID, Amount: 0,
		})
		assert.ErrorIs(t, err, commands.ErrPaymentNotDue)
	})

	t.Run("rejects payment on a CLOSED session", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		id := seedExitPending(t, state, "50마5050")
		require.NoError(t, state.sessions[id].ForceClose(paidAt))
		payment := newPaymentFixture(state)

		_, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{SessionID: id, Amount: 1000})
		assert.ErrorIs(t, err, errs.ErrSessionClosed)
	})

	t.Run("unknown session", func(t *testing.T) {
		payment := newPaymentFixture(newFakeState())

		_, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{
			SessionID: uuid.New(), Amount: 1000,
		})
		assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	})

	t.Run("settles a session whose exit commits during the lock handoff", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate := newGateFixture(t, state)
		payment := newPaymentFixture(state)

		entry, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "60바6060", LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		id := *entry.SessionID

		// The exit capture lands between the plate resolution read and
		// the decision read; the kiosk must see the fresh EXIT_PENDING
		// row, not the PARKING snapshot.
		state.afterSessionFind = func() {
			exit, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
				PlateNo: "60바6060", LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
			})
			require.NoError(t, err)
			require.Equal(t, session.StatusExitPending, exit.NewStatus)
		}

		result, err := payment.ConfirmPayment(context.Background(), commands.PaymentInput{
			SessionID: id, Amount: 1000,
		})
		require.NoError(t, err)
		assert.Equal(t, session.StatusPaid, result.NewStatus)
	})
}

func TestForceClose(t *testing.T) {
	entryLane := uuid.New()
	entryAt := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	newFixtures := func(state *fakeState) (commands.GateCommands, commands.PaymentCommands) {
		locks := platelock.New()
		gate := commands.NewGateCommands(&fakeUoW{state: state}, billing.NewEngine(), clock.NewMockClock(now), locks, time.UTC)
		payment := commands.NewPaymentCommands(&fakeUoW{state: state}, clock.NewMockClock(now), locks)
		return gate, payment
	}

	t.Run("closes an open session with FORCE_CLOSED", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate, payment := newFixtures(state)

		entry, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "60바6060", LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		id := *entry.SessionID

		require.NoError(t, payment.ForceClose(context.Background(), id))

		closed := state.sessions[id]
		assert.Equal(t, session.StatusClosed, closed.Status())
		require.NotNil(t, closed.CloseReason())
		assert.Equal(t, session.CloseReasonForceClosed, *closed.CloseReason())
	})

	t.Run("refuses to force-close twice", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate, payment := newFixtures(state)

		entry, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "70사7070", LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		id := *entry.SessionID

		require.NoError(t, payment.ForceClose(context.Background(), id))
		err = payment.ForceClose(context.Background(), id)
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, payment := newFixtures(newFakeState())
		err := payment.ForceClose(context.Background(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrSessionNotFound)
	})

	t.Run("keeps a concurrently committed exit instead of clobbering it", func(t *testing.T) {
		state := newFakeState()
		state.activePlan = standardPlan()
		gate, payment := newFixtures(state)

		entry, err := gate.ProcessEntry(context.Background(), commands.EntryCapture{
			PlateNo: "80아8080", LaneID: entryLane, CapturedAt: entryAt,
		})
		require.NoError(t, err)
		id := *entry.SessionID
		exitLane := uuid.New()

		// An exit capture commits right after the operator's first read.
		// The force close must act on the EXIT_PENDING row it left
		// behind, not write back the stale PARKING snapshot.
		state.afterSessionFind = func() {
			exit, err := gate.ProcessExit(context.Background(), commands.ExitCapture{
				PlateNo: "80아8080", LaneID: exitLane, CapturedAt: entryAt.Add(65 * time.Minute),
			})
			require.NoError(t, err)
			require.Equal(t, session.StatusExitPending, exit.NewStatus)
		}

		require.NoError(t, payment.ForceClose(context.Background(), id))

		closed := state.sessions[id]
		assert.Equal(t, session.StatusClosed, closed.Status())
		assert.Equal(t, session.CloseReasonForceClosed, *closed.CloseReason())
		require.NotNil(t, closed.Breakdown())
		assert.Equal(t, int64(1000), closed.RawFee())
		assert.Equal(t, int64(1000), closed.FinalFee())
		require.NotNil(t, closed.ExitAt())
	})

	t.Run("parks an EXIT_PENDING session without billing data in ERROR", func(t *testing.T) {
		state := newFakeState()
		_, payment := newFixtures(state)

		plate, err := session.NewPlateNumber("90자9090")
		require.NoError(t, err)
		id := uuid.New()
		state.sessions[id] = session.ReconstructSession(
			id, plate, session.StatusExitPending,
			entryLane, entryAt,
			nil, nil, nil,
			nil, 0, 0, 0,
			nil, nil,
			entryAt, entryAt,
		)

		require.NoError(t, payment.ForceClose(context.Background(), id))
		assert.Equal(t, session.StatusError, state.sessions[id].Status())
	})
}
