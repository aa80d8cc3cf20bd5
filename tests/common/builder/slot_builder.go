//go:build unit || e2e

package builder

import (
	"time"

	"bookhold/internal/domain/availability"
	reqdto "bookhold/internal/handler/dto/request"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	OwnerID   uuid.UUID
	OwnerRole availability.OwnerRole
	StartsAt  time.Time
	EndsAt    time.Time
	Status    availability.Status
	Now       time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &SlotBuilder{
		OwnerID:   uuid.New(),
		OwnerRole: availability.RoleGuide,
		StartsAt:  now.Add(24 * time.Hour),
		EndsAt:    now.Add(32 * time.Hour),
		Status:    availability.StatusAvailable,
		Now:       now,
	}
}

func (b *SlotBuilder) WithOwner(id uuid.UUID, role availability.OwnerRole) *SlotBuilder {
	b.OwnerID = id
	b.OwnerRole = role
	return b
}

func (b *SlotBuilder) WithWindow(start, end time.Time) *SlotBuilder {
	b.StartsAt = start
	b.EndsAt = end
	return b
}

func (b *SlotBuilder) WithStatus(status availability.Status) *SlotBuilder {
	b.Status = status
	return b
}

func (b *SlotBuilder) BuildDomain() (*availability.Slot, error) {
	owner, err := availability.NewOwner(b.OwnerID, b.OwnerRole)
	if err != nil {
		return nil, err
	}
	window, err := availability.NewWindow(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}
	return availability.NewSlot(owner, window, b.Status, b.Now)
}

func (b *SlotBuilder) BuildUpsertRequestDTO() reqdto.UpsertSlotRequest {
	return reqdto.UpsertSlotRequest{
		StartsAt: b.StartsAt,
		EndsAt:   b.EndsAt,
		Status:   b.Status.String(),
	}
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	return &queries.SlotView{
		ID:        uuid.New(),
		OwnerID:   b.OwnerID,
		OwnerRole: b.OwnerRole.String(),
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Status:    b.Status.String(),
		CreatedAt: b.Now,
		UpdatedAt: b.Now,
	}
}
