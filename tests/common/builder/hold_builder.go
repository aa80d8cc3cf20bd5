//go:build unit || e2e

package builder

import (
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	reqdto "bookhold/internal/handler/dto/request"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type HoldBuilder struct {
	RequesterID   uuid.UUID
	RequesterRole hold.RequesterRole
	TargetID      uuid.UUID
	TargetRole    availability.OwnerRole
	StartsAt      time.Time
	EndsAt        time.Time
	Status        hold.Status
	Message       string
	JobReference  string
	TTL           time.Duration
	Now           time.Time
}

func NewHoldBuilder() *HoldBuilder {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &HoldBuilder{
		RequesterID:   uuid.New(),
		RequesterRole: hold.RoleAgency,
		TargetID:      uuid.New(),
		TargetRole:    availability.RoleGuide,
		StartsAt:      now.Add(72 * time.Hour),
		EndsAt:        now.Add(80 * time.Hour),
		Status:        hold.StatusPending,
		Message:       "City tour, 12 guests",
		JobReference:  "JOB-2026-0042",
		TTL:           hold.DefaultTTL,
		Now:           now,
	}
}

func (b *HoldBuilder) WithRequesterID(id uuid.UUID) *HoldBuilder {
	b.RequesterID = id
	return b
}

func (b *HoldBuilder) WithTargetID(id uuid.UUID) *HoldBuilder {
	b.TargetID = id
	return b
}

func (b *HoldBuilder) WithTargetRole(role availability.OwnerRole) *HoldBuilder {
	b.TargetRole = role
	return b
}

func (b *HoldBuilder) WithWindow(start, end time.Time) *HoldBuilder {
	b.StartsAt = start
	b.EndsAt = end
	return b
}

func (b *HoldBuilder) WithStatus(status hold.Status) *HoldBuilder {
	b.Status = status
	return b
}

func (b *HoldBuilder) WithNow(now time.Time) *HoldBuilder {
	b.Now = now
	return b
}

func (b *HoldBuilder) BuildDomain() (*hold.Hold, error) {
	requester, err := hold.NewRequester(b.RequesterID, b.RequesterRole)
	if err != nil {
		return nil, err
	}
	target, err := availability.NewOwner(b.TargetID, b.TargetRole)
	if err != nil {
		return nil, err
	}
	window, err := availability.NewWindow(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}
	return hold.NewHold(requester, target, window, b.Message, b.JobReference, b.TTL, b.Now)
}

func (b *HoldBuilder) BuildCreateRequestDTO() reqdto.CreateHoldRequest {
	msg := b.Message
	ref := b.JobReference
	return reqdto.CreateHoldRequest{
		TargetID:     b.TargetID,
		TargetRole:   b.TargetRole.String(),
		StartsAt:     b.StartsAt,
		EndsAt:       b.EndsAt,
		Message:      &msg,
		JobReference: &ref,
	}
}

func (b *HoldBuilder) BuildView() *queries.HoldView {
	msg := b.Message
	ref := b.JobReference
	return &queries.HoldView{
		ID:            uuid.New(),
		RequesterID:   b.RequesterID,
		RequesterRole: b.RequesterRole.String(),
		TargetID:      b.TargetID,
		TargetRole:    b.TargetRole.String(),
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		Status:        b.Status.String(),
		Message:       &msg,
		JobReference:  &ref,
		CreatedAt:     b.Now,
		UpdatedAt:     b.Now,
		ExpiresAt:     b.Now.Add(b.TTL),
	}
}
