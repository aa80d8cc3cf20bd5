package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow = errors.New("window end must be after start")
	ErrInvalidRole   = errors.New("invalid owner role")
)

// Owner uniquely identifies a provider calendar as the (id, role) pair.
// Two providers with different roles never share a calendar even if their
// ids collide across directories.
type Owner struct {
	ID   uuid.UUID
	Role OwnerRole
}

func NewOwner(id uuid.UUID, role OwnerRole) (Owner, error) {
	if !role.IsValid() {
		return Owner{}, ErrInvalidRole
	}
	return Owner{ID: id, Role: role}, nil
}

func (o Owner) String() string {
	return o.Role.String() + "/" + o.ID.String()
}

// Window is a half-open interval [start, end) on absolute instants.
// All comparisons happen on UTC instants; wall-clock time never enters
// the engine, so DST transitions cannot make a window ambiguous.
type Window struct {
	start time.Time
	end   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, ErrInvalidWindow
	}
	return Window{start: start.UTC(), end: end.UTC()}, nil
}

func (w Window) Start() time.Time { return w.start }
func (w Window) End() time.Time   { return w.end }

func (w Window) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps uses the half-open rule: touching boundaries do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.start.Before(other.end) && w.end.After(other.start)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

func (w Window) Equal(other Window) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}
