package response

import (
	"time"

	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type HoldResponse struct {
	ID            uuid.UUID  `json:"id"`
	RequesterID   uuid.UUID  `json:"requesterId"`
	RequesterRole string     `json:"requesterRole"`
	TargetID      uuid.UUID  `json:"targetId"`
	TargetRole    string     `json:"targetRole"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        time.Time  `json:"endsAt"`
	Status        string     `json:"status"`
	Message       *string    `json:"message,omitempty"`
	JobReference  *string    `json:"jobReference,omitempty"`
	BlockedSlotID *uuid.UUID `json:"blockedSlotId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

func FromHoldView(v *queries.HoldView) *HoldResponse {
	return &HoldResponse{
		ID:            v.ID,
		RequesterID:   v.RequesterID,
		RequesterRole: v.RequesterRole,
		TargetID:      v.TargetID,
		TargetRole:    v.TargetRole,
		StartsAt:      v.StartsAt,
		EndsAt:        v.EndsAt,
		Status:        v.Status,
		Message:       v.Message,
		JobReference:  v.JobReference,
		BlockedSlotID: v.BlockedSlotID,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		ExpiresAt:     v.ExpiresAt,
		RespondedAt:   v.RespondedAt,
	}
}
