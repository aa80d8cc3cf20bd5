package commands

import (
	"context"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/domain/notification"

	"github.com/google/uuid"
)

// Ports are declared where they are consumed; infra satisfies them.
// Repository methods observe a transaction carried in ctx when invoked
// inside TxManager.WithOwnerTx.

// TxManager serializes a conflict-check-and-mutate section on one owner's
// calendar. Everything fn does through the repositories commits atomically;
// concurrent sections for the same owner run one at a time.
type TxManager interface {
	WithOwnerTx(ctx context.Context, owner availability.Owner, fn func(ctx context.Context) error) error
}

type SlotRepository interface {
	ListForRange(ctx context.Context, owner availability.Owner, from, to time.Time) ([]*availability.Slot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*availability.Slot, error)
	Upsert(ctx context.Context, slot *availability.Slot) error
	Create(ctx context.Context, slot *availability.Slot) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type HoldRepository interface {
	Create(ctx context.Context, h *hold.Hold) error
	FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*hold.Hold, error)
	Save(ctx context.Context, h *hold.Hold) error
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]*hold.Hold, error)
}

// EventOutbox stores transition events durably next to the state change.
// Append participates in the caller's transaction.
type EventOutbox interface {
	Append(ctx context.Context, event notification.Event) error
}

// IdentityDirectory resolves party profiles owned by the surrounding
// platform. Used only to snapshot display names/contacts onto events.
type IdentityDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID, role string) (notification.Party, error)
}
