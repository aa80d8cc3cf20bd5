package response

import (
	"time"

	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	OwnerRole string    `json:"ownerRole"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HourStatusResponse struct {
	Hour   int    `json:"hour"`
	Status string `json:"status"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	return &SlotResponse{
		ID:        v.ID,
		OwnerID:   v.OwnerID,
		OwnerRole: v.OwnerRole,
		StartsAt:  v.StartsAt,
		EndsAt:    v.EndsAt,
		Status:    v.Status,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func FromHourStatusView(v *queries.HourStatusView) *HourStatusResponse {
	return &HourStatusResponse{Hour: v.Hour, Status: v.Status}
}
