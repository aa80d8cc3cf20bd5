// Package notification defines the outbound event contract between the hold
// state machine and whatever delivers messages. Events are handed off, not
// persisted by the domain; the infra outbox gives them durability.
package notification

import (
	"time"

	"bookhold/internal/domain/hold"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRequested Kind = "requested"
	KindAccepted  Kind = "accepted"
	KindDeclined  Kind = "declined"
	KindExpired   Kind = "expired"
)

func (k Kind) String() string {
	return string(k)
}

// Party is a denormalized snapshot of one side of the hold, captured at
// transition time so the message can be composed even if the profile later
// changes or disappears.
type Party struct {
	ID          uuid.UUID `json:"id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName"`
	Contact     string    `json:"contact"`
}

// Event describes one hold state transition for the recipient's benefit.
type Event struct {
	HoldID       uuid.UUID `json:"holdId"`
	Kind         Kind      `json:"kind"`
	Requester    Party     `json:"requester"`
	Target       Party     `json:"target"`
	WindowStart  time.Time `json:"windowStart"`
	WindowEnd    time.Time `json:"windowEnd"`
	Message      string    `json:"message,omitempty"`
	JobReference string    `json:"jobReference,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// NewEvent snapshots a hold transition. The recipient is implied by the
// kind: requested goes to the target, everything else to the requester.
func NewEvent(h *hold.Hold, kind Kind, requester, target Party, occurredAt time.Time) Event {
	return Event{
		HoldID:       h.ID(),
		Kind:         kind,
		Requester:    requester,
		Target:       target,
		WindowStart:  h.Window().Start(),
		WindowEnd:    h.Window().End(),
		Message:      h.Message(),
		JobReference: h.JobReference(),
		OccurredAt:   occurredAt,
	}
}

// Recipient returns the party the event should be delivered to.
func (e Event) Recipient() Party {
	if e.Kind == KindRequested {
		return e.Target
	}
	return e.Requester
}
