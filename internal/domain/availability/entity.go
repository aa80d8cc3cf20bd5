package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid slot status")
)

// Slot is one timestamped calendar entry for a provider. Slots for the same
// owner may overlap; the resolver's priority rule decides what a window
// reads as, and the store never merges or splits slots on the caller's behalf.
type Slot struct {
	id        uuid.UUID
	owner     Owner
	window    Window
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewSlot(owner Owner, window Window, status Status, now time.Time) (*Slot, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Slot{
		id:        uuid.New(),
		owner:     owner,
		window:    window,
		status:    status,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructSlot(id uuid.UUID, owner Owner, window Window, status Status, createdAt, updatedAt time.Time) *Slot {
	return &Slot{
		id:        id,
		owner:     owner,
		window:    window,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s *Slot) ID() uuid.UUID        { return s.id }
func (s *Slot) Owner() Owner         { return s.owner }
func (s *Slot) Window() Window       { return s.window }
func (s *Slot) Status() Status       { return s.status }
func (s *Slot) CreatedAt() time.Time { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time { return s.updatedAt }

// Replace swaps the slot's window and status in place, keeping identity.
// Used by the idempotent upsert path when the id already exists.
func (s *Slot) Replace(window Window, status Status, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	s.window = window
	s.status = status
	s.updatedAt = now
	return nil
}
