package request

import (
	"time"
)

type UpsertSlotRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Status   string    `json:"status" binding:"required,oneof=available unavailable blocked"`
}
