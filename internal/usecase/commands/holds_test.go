//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/domain/notification"
	"bookhold/internal/infra/identity"
	"bookhold/internal/infra/memstore"
	"bookhold/internal/pkg/clock"
	"bookhold/internal/pkg/config"
	"bookhold/internal/pkg/errs"
	"bookhold/internal/usecase/commands"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// requireErrIs matches through errs.Is so sentinels attached with errs.Mark
// are found; testify's ErrorIs only walks the wrap chain.
func requireErrIs(t *testing.T, err, target error) {
	t.Helper()
	require.Truef(t, errs.Is(err, target), "expected %v in chain, got %v", target, err)
}

type HoldCommandsTestSuite struct {
	suite.Suite
	store        *memstore.Store
	clock        *clock.MockClock
	holds        commands.HoldCommands
	availability commands.AvailabilityCommands
	sweeper      commands.HoldSweeper

	requesterID uuid.UUID
	target      availability.Owner
}

func (s *HoldCommandsTestSuite) SetupTest() {
	s.clock = clock.NewMockClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	s.store = memstore.New(s.clock)

	directory := identity.NewNullDirectory()
	holdCfg := config.HoldConfig{TTL: 48 * time.Hour, SweepInterval: time.Minute, SweepBatch: 100}

	s.holds = commands.NewHoldCommands(
		s.store, s.store.Slots(), s.store.Holds(), s.store, directory, s.clock, holdCfg,
	)
	s.availability = commands.NewAvailabilityCommands(s.store, s.store.Slots(), s.clock)
	s.sweeper = commands.NewHoldSweeper(s.store, s.store.Holds(), s.store, directory, s.clock)

	s.requesterID = uuid.New()
	target, err := availability.NewOwner(uuid.New(), availability.RoleGuide)
	s.Require().NoError(err)
	s.target = target
}

func TestHoldCommandsSuite(t *testing.T) {
	suite.Run(t, new(HoldCommandsTestSuite))
}

func (s *HoldCommandsTestSuite) window(startOffset, endOffset time.Duration) (time.Time, time.Time) {
	base := s.clock.Now()
	return base.Add(startOffset), base.Add(endOffset)
}

// markAvailable declares the target open for the window, as providers do
// before holds can land.
func (s *HoldCommandsTestSuite) markAvailable(start, end time.Time) {
	_, err := s.availability.UpsertSlot(context.Background(), commands.UpsertSlotInput{
		OwnerID:  s.target.ID,
		Role:     s.target.Role,
		StartsAt: start,
		EndsAt:   end,
		Status:   availability.StatusAvailable,
	})
	s.Require().NoError(err)
}

func (s *HoldCommandsTestSuite) createHold(start, end time.Time) *queries.HoldView {
	view, err := s.holds.CreateHold(context.Background(), commands.CreateHoldInput{
		RequesterID:   s.requesterID,
		RequesterRole: hold.RoleAgency,
		TargetID:      s.target.ID,
		TargetRole:    s.target.Role,
		StartsAt:      start,
		EndsAt:        end,
		Message:       "two-day trek",
		JobReference:  "JOB-77",
	})
	s.Require().NoError(err)
	return view
}

func (s *HoldCommandsTestSuite) eventsOfKind(kind notification.Kind) []*queries.OutboxEntry {
	var out []*queries.OutboxEntry
	for _, e := range s.store.Events() {
		if e.Event.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (s *HoldCommandsTestSuite) TestCreateHold() {
	s.Run("places a pending hold on an available window", func() {
		start, end := s.window(24*time.Hour, 32*time.Hour)
		s.markAvailable(start, end)

		view := s.createHold(start, end)

		s.Equal(hold.StatusPending.String(), view.Status)
		s.Equal(s.clock.Now().Add(48*time.Hour), view.ExpiresAt)
		s.Nil(view.BlockedSlotID)
		s.Len(s.eventsOfKind(notification.KindRequested), 1)
	})

	s.Run("competing holds may overlap while pending", func() {
		start, end := s.window(48*time.Hour, 56*time.Hour)
		s.markAvailable(start, end)

		first := s.createHold(start, end)
		second := s.createHold(start, end)
		s.NotEqual(first.ID, second.ID)
	})

	s.Run("rejects a window nobody marked available", func() {
		start, end := s.window(100*time.Hour, 108*time.Hour)

		_, err := s.holds.CreateHold(context.Background(), commands.CreateHoldInput{
			RequesterID:   s.requesterID,
			RequesterRole: hold.RoleAgency,
			TargetID:      s.target.ID,
			TargetRole:    s.target.Role,
			StartsAt:      start,
			EndsAt:        end,
		})
		requireErrIs(s.T(), err, errs.ErrSlotUnavailable)
	})

	s.Run("rejects a blocked window", func() {
		start, end := s.window(120*time.Hour, 128*time.Hour)
		s.markAvailable(start, end)

		_, err := s.availability.UpsertSlot(context.Background(), commands.UpsertSlotInput{
			OwnerID:  s.target.ID,
			Role:     s.target.Role,
			StartsAt: start.Add(time.Hour),
			EndsAt:   start.Add(2 * time.Hour),
			Status:   availability.StatusBlocked,
		})
		s.Require().NoError(err)

		_, err = s.holds.CreateHold(context.Background(), commands.CreateHoldInput{
			RequesterID:   s.requesterID,
			RequesterRole: hold.RoleAgency,
			TargetID:      s.target.ID,
			TargetRole:    s.target.Role,
			StartsAt:      start,
			EndsAt:        end,
		})
		requireErrIs(s.T(), err, errs.ErrSlotUnavailable)
	})

	s.Run("rejects invalid input without touching the store", func() {
		start, end := s.window(24*time.Hour, 32*time.Hour)

		testCases := []struct {
			name string
			in   commands.CreateHoldInput
		}{
			{
				name: "bad requester role",
				in: commands.CreateHoldInput{
					RequesterID: s.requesterID, RequesterRole: "wholesaler",
					TargetID: s.target.ID, TargetRole: s.target.Role,
					StartsAt: start, EndsAt: end,
				},
			},
			{
				name: "bad target role",
				in: commands.CreateHoldInput{
					RequesterID: s.requesterID, RequesterRole: hold.RoleAgency,
					TargetID: s.target.ID, TargetRole: "hotel",
					StartsAt: start, EndsAt: end,
				},
			},
			{
				name: "inverted window",
				in: commands.CreateHoldInput{
					RequesterID: s.requesterID, RequesterRole: hold.RoleAgency,
					TargetID: s.target.ID, TargetRole: s.target.Role,
					StartsAt: end, EndsAt: start,
				},
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				_, err := s.holds.CreateHold(context.Background(), tc.in)
				requireErrIs(s.T(), err, errs.ErrValidation)
			})
		}
	})
}

func (s *HoldCommandsTestSuite) TestRespondToHold() {
	s.Run("acceptance blocks exactly the hold window", func() {
		start, end := s.window(24*time.Hour, 32*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		view, err := s.holds.RespondToHold(context.Background(), created.ID, s.target.ID, hold.DecisionAccepted)
		s.Require().NoError(err)

		s.Equal(hold.StatusAccepted.String(), view.Status)
		s.Require().NotNil(view.BlockedSlotID)

		blocked, err := s.store.Slots().FindByID(context.Background(), *view.BlockedSlotID)
		s.Require().NoError(err)
		s.Equal(availability.StatusBlocked, blocked.Status())
		s.True(blocked.Window().Start().Equal(start))
		s.True(blocked.Window().End().Equal(end))
		s.Len(s.eventsOfKind(notification.KindAccepted), 1)
	})

	s.Run("second acceptance on the same window loses", func() {
		start, end := s.window(48*time.Hour, 56*time.Hour)
		s.markAvailable(start, end)
		first := s.createHold(start, end)
		second := s.createHold(start, end)

		_, err := s.holds.RespondToHold(context.Background(), first.ID, s.target.ID, hold.DecisionAccepted)
		s.Require().NoError(err)

		_, err = s.holds.RespondToHold(context.Background(), second.ID, s.target.ID, hold.DecisionAccepted)
		requireErrIs(s.T(), err, errs.ErrSlotUnavailable)

		// The losing hold stays pending; declining it still works.
		view, err := s.holds.RespondToHold(context.Background(), second.ID, s.target.ID, hold.DecisionDeclined)
		s.Require().NoError(err)
		s.Equal(hold.StatusDeclined.String(), view.Status)
	})

	s.Run("decline leaves the calendar untouched", func() {
		start, end := s.window(72*time.Hour, 80*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		// The store carries over from earlier subtests, so count deltas.
		declinedBefore := len(s.eventsOfKind(notification.KindDeclined))
		before, err := s.store.Slots().ListForRange(context.Background(), s.target, start, end)
		s.Require().NoError(err)

		view, err := s.holds.RespondToHold(context.Background(), created.ID, s.target.ID, hold.DecisionDeclined)
		s.Require().NoError(err)
		s.Equal(hold.StatusDeclined.String(), view.Status)
		s.Nil(view.BlockedSlotID)

		after, err := s.store.Slots().ListForRange(context.Background(), s.target, start, end)
		s.Require().NoError(err)
		s.Len(after, len(before))
		s.Len(s.eventsOfKind(notification.KindDeclined), declinedBefore+1)
	})

	s.Run("only the target may respond", func() {
		start, end := s.window(96*time.Hour, 104*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		_, err := s.holds.RespondToHold(context.Background(), created.ID, s.requesterID, hold.DecisionAccepted)
		requireErrIs(s.T(), err, errs.ErrForbidden)

		_, err = s.holds.RespondToHold(context.Background(), created.ID, uuid.New(), hold.DecisionAccepted)
		requireErrIs(s.T(), err, errs.ErrForbidden)
	})

	s.Run("responding past the deadline is an invalid transition", func() {
		start, end := s.window(200*time.Hour, 208*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		s.clock.Advance(48 * time.Hour)
		_, err := s.holds.RespondToHold(context.Background(), created.ID, s.target.ID, hold.DecisionAccepted)
		requireErrIs(s.T(), err, errs.ErrInvalidTransition)
	})

	s.Run("unknown hold id reads as not found", func() {
		_, err := s.holds.RespondToHold(context.Background(), uuid.New(), s.target.ID, hold.DecisionAccepted)
		requireErrIs(s.T(), err, errs.ErrHoldNotFound)
	})

	s.Run("invalid decision is a validation error", func() {
		_, err := s.holds.RespondToHold(context.Background(), uuid.New(), s.target.ID, "maybe")
		requireErrIs(s.T(), err, errs.ErrValidation)
	})
}

func (s *HoldCommandsTestSuite) TestCancelHold() {
	s.Run("requester withdraws a pending hold without emitting an event", func() {
		start, end := s.window(24*time.Hour, 32*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		eventsBefore := len(s.store.Events())

		view, err := s.holds.CancelHold(context.Background(), created.ID, s.requesterID)
		s.Require().NoError(err)
		s.Equal(hold.StatusCancelled.String(), view.Status)
		s.Len(s.store.Events(), eventsBefore)
	})

	s.Run("only the requester may cancel", func() {
		start, end := s.window(48*time.Hour, 56*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		_, err := s.holds.CancelHold(context.Background(), created.ID, s.target.ID)
		requireErrIs(s.T(), err, errs.ErrForbidden)
	})

	s.Run("cancelling an answered hold is an invalid transition", func() {
		start, end := s.window(72*time.Hour, 80*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		_, err := s.holds.RespondToHold(context.Background(), created.ID, s.target.ID, hold.DecisionDeclined)
		s.Require().NoError(err)

		_, err = s.holds.CancelHold(context.Background(), created.ID, s.requesterID)
		requireErrIs(s.T(), err, errs.ErrInvalidTransition)
	})
}

// Two goroutines race to accept overlapping holds on the same calendar.
// The owner lock serializes them: exactly one wins, the other sees the
// conflict, and exactly one blocked slot exists afterwards.
func (s *HoldCommandsTestSuite) TestConcurrentAcceptance() {
	start, end := s.window(24*time.Hour, 32*time.Hour)
	s.markAvailable(start, end)
	first := s.createHold(start, end)
	second := s.createHold(start, end)

	results := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, id := range []uuid.UUID{first.ID, second.ID} {
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, err := s.holds.RespondToHold(context.Background(), id, s.target.ID, hold.DecisionAccepted)
			results[i] = err
		}(i, id)
	}
	wg.Wait()

	var won, lost int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errs.Is(err, errs.ErrSlotUnavailable):
			lost++
		default:
			s.FailNowf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, won)
	s.Equal(1, lost)

	var blockedCount int
	slots, err := s.store.Slots().ListForRange(context.Background(), s.target, start, end)
	s.Require().NoError(err)
	for _, slot := range slots {
		if slot.Status() == availability.StatusBlocked {
			blockedCount++
		}
	}
	s.Equal(1, blockedCount)
	s.Len(s.eventsOfKind(notification.KindAccepted), 1)
}

func (s *HoldCommandsTestSuite) TestSweepExpired() {
	s.Run("expires stale holds and emits the event exactly once", func() {
		start, end := s.window(100*time.Hour, 108*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		s.clock.Advance(48 * time.Hour)

		result, err := s.sweeper.SweepExpired(context.Background(), 10)
		s.Require().NoError(err)
		s.Equal(1, result.Scanned)
		s.Equal(1, result.Expired)

		view, err := s.store.Holds().FindByID(context.Background(), created.ID)
		s.Require().NoError(err)
		s.Equal(hold.StatusExpired, view.Status())
		s.Nil(view.RespondedAt())

		// A second sweep finds nothing; no duplicate event appears.
		result, err = s.sweeper.SweepExpired(context.Background(), 10)
		s.Require().NoError(err)
		s.Equal(0, result.Scanned)
		s.Len(s.eventsOfKind(notification.KindExpired), 1)
	})

	s.Run("does not touch holds still inside their deadline", func() {
		start, end := s.window(100*time.Hour, 108*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		s.clock.Advance(47 * time.Hour)

		result, err := s.sweeper.SweepExpired(context.Background(), 10)
		s.Require().NoError(err)
		s.Equal(0, result.Scanned)

		fresh, err := s.store.Holds().FindByID(context.Background(), created.ID)
		s.Require().NoError(err)
		s.Equal(hold.StatusPending, fresh.Status())
	})

	s.Run("responder racing the sweeper cannot answer afterwards", func() {
		start, end := s.window(100*time.Hour, 108*time.Hour)
		s.markAvailable(start, end)
		created := s.createHold(start, end)

		s.clock.Advance(48 * time.Hour)
		_, err := s.sweeper.SweepExpired(context.Background(), 10)
		s.Require().NoError(err)

		_, err = s.holds.RespondToHold(context.Background(), created.ID, s.target.ID, hold.DecisionAccepted)
		requireErrIs(s.T(), err, errs.ErrInvalidTransition)
	})
}
