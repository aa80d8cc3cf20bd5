package request

import (
	"strings"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateHoldRequest struct {
	TargetID     uuid.UUID `json:"target_id" binding:"required"`
	TargetRole   string    `json:"target_role" binding:"required"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	EndsAt       time.Time `json:"ends_at" binding:"required"`
	Message      *string   `json:"message,omitempty"`
	JobReference *string   `json:"job_reference,omitempty"`
}

func (r CreateHoldRequest) ToInput(requesterID uuid.UUID, requesterRole string) commands.CreateHoldInput {
	return commands.CreateHoldInput{
		RequesterID:   requesterID,
		RequesterRole: hold.RequesterRole(requesterRole),
		TargetID:      r.TargetID,
		TargetRole:    availability.OwnerRole(r.TargetRole),
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		Message:       trimmed(r.Message),
		JobReference:  trimmed(r.JobReference),
	}
}

type RespondHoldRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted declined"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
