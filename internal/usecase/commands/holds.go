package commands

import (
	"context"
	"log/slog"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/domain/notification"
	"bookhold/internal/infra"
	"bookhold/internal/pkg/clock"
	"bookhold/internal/pkg/config"
	"bookhold/internal/pkg/errs"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateHoldInput struct {
	RequesterID   uuid.UUID
	RequesterRole hold.RequesterRole
	TargetID      uuid.UUID
	TargetRole    availability.OwnerRole
	StartsAt      time.Time
	EndsAt        time.Time
	Message       string
	JobReference  string
}

type HoldCommands interface {
	CreateHold(ctx context.Context, in CreateHoldInput) (*queries.HoldView, error)
	RespondToHold(ctx context.Context, holdID, responderID uuid.UUID, decision hold.Decision) (*queries.HoldView, error)
	CancelHold(ctx context.Context, holdID, requesterID uuid.UUID) (*queries.HoldView, error)
}

type holdCommandsImpl struct {
	tx        TxManager
	slots     SlotRepository
	holds     HoldRepository
	outbox    EventOutbox
	directory IdentityDirectory
	clock     clock.Clock
	ttl       time.Duration
}

func NewHoldCommands(
	tx TxManager,
	slots SlotRepository,
	holds HoldRepository,
	outbox EventOutbox,
	directory IdentityDirectory,
	clk clock.Clock,
	cfg config.HoldConfig,
) HoldCommands {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = hold.DefaultTTL
	}
	return &holdCommandsImpl{
		tx:        tx,
		slots:     slots,
		holds:     holds,
		outbox:    outbox,
		directory: directory,
		clock:     clk,
		ttl:       ttl,
	}
}

// CreateHold validates the window, checks the target's calendar and
// persists the pending hold, all inside the target's serialization scope.
// The hold does not reserve anything yet: competing requesters may hold
// overlapping windows until the target accepts one.
func (u *holdCommandsImpl) CreateHold(ctx context.Context, in CreateHoldInput) (*queries.HoldView, error) {
	requester, err := hold.NewRequester(in.RequesterID, in.RequesterRole)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	target, err := availability.NewOwner(in.TargetID, in.TargetRole)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	window, err := availability.NewWindow(in.StartsAt, in.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	now := u.clock.Now()
	event := u.snapshotParties(ctx, requester, target)

	var created *hold.Hold
	err = u.tx.WithOwnerTx(ctx, target, func(txCtx context.Context) error {
		slots, err := u.slots.ListForRange(txCtx, target, window.Start(), window.End())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if availability.HasConflict(slots, window) {
			return errs.ErrSlotUnavailable
		}

		h, err := hold.NewHold(requester, target, window, in.Message, in.JobReference, u.ttl, now)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}
		if err := u.holds.Create(txCtx, h); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		created = h
		return u.appendEvent(txCtx, h, notification.KindRequested, event, now)
	})
	if err != nil {
		return nil, err
	}

	return queries.NewHoldView(created), nil
}

// RespondToHold applies the target's decision. Acceptance re-runs the same
// overlap check used at creation time; if the calendar changed underneath
// the hold, the response fails and the hold stays pending for the requester
// to retry or cancel.
func (u *holdCommandsImpl) RespondToHold(ctx context.Context, holdID, responderID uuid.UUID, decision hold.Decision) (*queries.HoldView, error) {
	if !decision.IsValid() {
		return nil, errs.Mark(hold.ErrInvalidTransition, errs.ErrValidation)
	}

	h, err := u.loadHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if !h.IsTarget(responderID) {
		return nil, errs.ErrForbidden
	}

	now := u.clock.Now()
	event := u.snapshotParties(ctx, h.Requester(), h.Target())

	var responded *hold.Hold
	err = u.tx.WithOwnerTx(ctx, h.Target(), func(txCtx context.Context) error {
		fresh, err := u.holds.FindByIDForUpdate(txCtx, holdID)
		if err != nil {
			return u.markHoldLookup(err)
		}
		if !fresh.IsAnswerable(now) {
			return errs.ErrInvalidTransition
		}

		kind := notification.KindDeclined
		if decision == hold.DecisionAccepted {
			kind = notification.KindAccepted
			if err := u.acceptAndBlock(txCtx, fresh, now); err != nil {
				return err
			}
		} else {
			if err := fresh.Decline(now); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
		}

		if err := u.holds.Save(txCtx, fresh); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		responded = fresh
		return u.appendEvent(txCtx, fresh, kind, event, now)
	})
	if err != nil {
		return nil, err
	}

	return queries.NewHoldView(responded), nil
}

// acceptAndBlock transitions the hold and derives the blocked slot covering
// exactly its window. Runs under the owner lock, so the conflict check and
// the slot insert cannot interleave with a competing acceptance.
func (u *holdCommandsImpl) acceptAndBlock(txCtx context.Context, h *hold.Hold, now time.Time) error {
	slots, err := u.slots.ListForRange(txCtx, h.Target(), h.Window().Start(), h.Window().End())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if availability.HasConflict(slots, h.Window()) {
		return errs.ErrSlotUnavailable
	}

	blocked, err := availability.NewSlot(h.Target(), h.Window(), availability.StatusBlocked, now)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := h.Accept(blocked.ID(), now); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	if err := u.slots.Create(txCtx, blocked); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// CancelHold is the requester-initiated withdrawal of a still-pending hold.
func (u *holdCommandsImpl) CancelHold(ctx context.Context, holdID, requesterID uuid.UUID) (*queries.HoldView, error) {
	h, err := u.loadHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if !h.IsRequester(requesterID) {
		return nil, errs.ErrForbidden
	}

	now := u.clock.Now()

	var cancelled *hold.Hold
	err = u.tx.WithOwnerTx(ctx, h.Target(), func(txCtx context.Context) error {
		fresh, err := u.holds.FindByIDForUpdate(txCtx, holdID)
		if err != nil {
			return u.markHoldLookup(err)
		}
		if err := fresh.Cancel(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := u.holds.Save(txCtx, fresh); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		cancelled = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	return queries.NewHoldView(cancelled), nil
}

func (u *holdCommandsImpl) loadHold(ctx context.Context, holdID uuid.UUID) (*hold.Hold, error) {
	h, err := u.holds.FindByID(ctx, holdID)
	if err != nil {
		return nil, u.markHoldLookup(err)
	}
	return h, nil
}

func (u *holdCommandsImpl) markHoldLookup(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrHoldNotFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

// snapshotParties resolves both parties' display data up front, outside the
// owner lock. Lookups are best effort: a directory outage degrades the
// notification text, never the state transition.
func (u *holdCommandsImpl) snapshotParties(ctx context.Context, requester hold.Requester, target availability.Owner) partySnapshots {
	return partySnapshots{
		requester: u.lookupParty(ctx, requester.ID, requester.Role.String()),
		target:    u.lookupParty(ctx, target.ID, target.Role.String()),
	}
}

func (u *holdCommandsImpl) lookupParty(ctx context.Context, id uuid.UUID, role string) notification.Party {
	party, err := u.directory.Lookup(ctx, id, role)
	if err != nil {
		slog.Warn("identity lookup failed, using fallback snapshot", "party_id", id, "role", role, "error", err)
		return notification.Party{ID: id, Role: role, DisplayName: role + "/" + id.String()}
	}
	return party
}

type partySnapshots struct {
	requester notification.Party
	target    notification.Party
}

// appendEvent writes the transition event onto the same transaction as the
// state change. Failure here aborts the transition: an event row and its
// transition commit or roll back together, while actual delivery stays
// decoupled in the dispatcher.
func (u *holdCommandsImpl) appendEvent(txCtx context.Context, h *hold.Hold, kind notification.Kind, parties partySnapshots, now time.Time) error {
	event := notification.NewEvent(h, kind, parties.requester, parties.target, now)
	if err := u.outbox.Append(txCtx, event); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
