package commands

import (
	"context"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/infra"
	"bookhold/internal/pkg/clock"
	"bookhold/internal/pkg/errs"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type UpsertSlotInput struct {
	SlotID   *uuid.UUID // nil creates a new slot
	OwnerID  uuid.UUID
	Role     availability.OwnerRole
	StartsAt time.Time
	EndsAt   time.Time
	Status   availability.Status
}

type AvailabilityCommands interface {
	UpsertSlot(ctx context.Context, in UpsertSlotInput) (*queries.SlotView, error)
	RemoveSlot(ctx context.Context, slotID, ownerID uuid.UUID) error
}

type availabilityCommandsImpl struct {
	tx    TxManager
	slots SlotRepository
	clock clock.Clock
}

func NewAvailabilityCommands(tx TxManager, slots SlotRepository, clk clock.Clock) AvailabilityCommands {
	return &availabilityCommandsImpl{tx: tx, slots: slots, clock: clk}
}

// UpsertSlot lets a provider manage their own calendar. Replacing by id is
// idempotent; the store never merges or splits windows on the owner's
// behalf. Runs inside the owner's serialization scope so calendar edits
// cannot interleave with a hold acceptance mid-check.
func (u *availabilityCommandsImpl) UpsertSlot(ctx context.Context, in UpsertSlotInput) (*queries.SlotView, error) {
	owner, err := availability.NewOwner(in.OwnerID, in.Role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	window, err := availability.NewWindow(in.StartsAt, in.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	now := u.clock.Now()

	var saved *availability.Slot
	err = u.tx.WithOwnerTx(ctx, owner, func(txCtx context.Context) error {
		slot, err := u.resolveSlot(txCtx, in.SlotID, owner, window, in.Status, now)
		if err != nil {
			return err
		}
		if err := u.slots.Upsert(txCtx, slot); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		saved = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return queries.NewSlotView(saved), nil
}

func (u *availabilityCommandsImpl) resolveSlot(
	txCtx context.Context,
	slotID *uuid.UUID,
	owner availability.Owner,
	window availability.Window,
	status availability.Status,
	now time.Time,
) (*availability.Slot, error) {
	if slotID == nil {
		slot, err := availability.NewSlot(owner, window, status, now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		return slot, nil
	}

	existing, err := u.slots.FindByID(txCtx, *slotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Caller chose the id; honor it for idempotent replays.
			if _, newErr := availability.NewSlot(owner, window, status, now); newErr != nil {
				return nil, errs.Mark(newErr, errs.ErrValidation)
			}
			return availability.ReconstructSlot(*slotID, owner, window, status, now, now), nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if existing.Owner() != owner {
		return nil, errs.ErrForbidden
	}
	if err := existing.Replace(window, status, now); err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	return existing, nil
}

// RemoveSlot deletes one of the owner's slots. Absent ids succeed silently
// so release retries stay idempotent; slots pinned by an accepted hold are
// refused.
func (u *availabilityCommandsImpl) RemoveSlot(ctx context.Context, slotID, ownerID uuid.UUID) error {
	slot, err := u.slots.FindByID(ctx, slotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if slot.Owner().ID != ownerID {
		return errs.ErrForbidden
	}

	return u.tx.WithOwnerTx(ctx, slot.Owner(), func(txCtx context.Context) error {
		if err := u.slots.Remove(txCtx, slotID); err != nil {
			if infra.IsKind(err, infra.KindReferenced) {
				return errs.Mark(err, errs.ErrSlotReferenced)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
