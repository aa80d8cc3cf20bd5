package queries

import (
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/domain/notification"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type HoldView struct {
	ID            uuid.UUID  `json:"id"`
	RequesterID   uuid.UUID  `json:"requester_id"`
	RequesterRole string     `json:"requester_role"`
	TargetID      uuid.UUID  `json:"target_id"`
	TargetRole    string     `json:"target_role"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Status        string     `json:"status"`
	Message       *string    `json:"message,omitempty"`
	JobReference  *string    `json:"job_reference,omitempty"`
	BlockedSlotID *uuid.UUID `json:"blocked_slot_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

type SlotView struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	OwnerRole string    `json:"owner_role"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HourStatusView struct {
	Hour   int    `json:"hour"`
	Status string `json:"status"`
}

type OutboxEntry struct {
	ID        uuid.UUID          `json:"id"`
	HoldID    uuid.UUID          `json:"hold_id"`
	Event     notification.Event `json:"event"`
	Attempts  int32              `json:"attempts"`
	Status    string             `json:"status"`
	LastError *string            `json:"last_error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func NewHoldView(h *hold.Hold) *HoldView {
	view := &HoldView{
		ID:            h.ID(),
		RequesterID:   h.Requester().ID,
		RequesterRole: h.Requester().Role.String(),
		TargetID:      h.Target().ID,
		TargetRole:    h.Target().Role.String(),
		StartsAt:      h.Window().Start(),
		EndsAt:        h.Window().End(),
		Status:        h.Status().String(),
		BlockedSlotID: h.BlockedSlotID(),
		CreatedAt:     h.CreatedAt(),
		UpdatedAt:     h.UpdatedAt(),
		ExpiresAt:     h.ExpiresAt(),
		RespondedAt:   h.RespondedAt(),
	}
	if msg := h.Message(); msg != "" {
		view.Message = &msg
	}
	if ref := h.JobReference(); ref != "" {
		view.JobReference = &ref
	}
	return view
}

func NewSlotView(s *availability.Slot) *SlotView {
	return &SlotView{
		ID:        s.ID(),
		OwnerID:   s.Owner().ID,
		OwnerRole: s.Owner().Role.String(),
		StartsAt:  s.Window().Start(),
		EndsAt:    s.Window().End(),
		Status:    s.Status().String(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}
