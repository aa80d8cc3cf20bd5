package hold

import (
	"errors"
	"time"

	"bookhold/internal/domain/availability"

	"github.com/google/uuid"
)

var (
	ErrWindowInPast      = errors.New("hold window starts in the past")
	ErrInvalidRequester  = errors.New("invalid requester role")
	ErrInvalidTransition = errors.New("hold is not pending")
	ErrNotExpired        = errors.New("hold deadline has not passed")
)

// DefaultTTL is how long a hold stays answerable before the sweeper may
// expire it. Overridable through configuration at construction time.
const DefaultTTL = 48 * time.Hour

// Requester is the party asking for the hold.
type Requester struct {
	ID   uuid.UUID
	Role RequesterRole
}

func NewRequester(id uuid.UUID, role RequesterRole) (Requester, error) {
	if !role.IsValid() {
		return Requester{}, ErrInvalidRequester
	}
	return Requester{ID: id, Role: role}, nil
}

// Hold is a time-boxed exclusive reservation request against one provider's
// calendar. Its lifecycle is independent of the blocked slot it creates on
// acceptance; the two are linked through blockedSlotID.
type Hold struct {
	id            uuid.UUID
	requester     Requester
	target        availability.Owner
	window        availability.Window
	status        Status
	message       string
	jobReference  string
	blockedSlotID *uuid.UUID
	createdAt     time.Time
	updatedAt     time.Time
	expiresAt     time.Time
	respondedAt   *time.Time
}

func NewHold(
	requester Requester,
	target availability.Owner,
	window availability.Window,
	message, jobReference string,
	ttl time.Duration,
	now time.Time,
) (*Hold, error) {
	if window.Start().Before(now) {
		return nil, ErrWindowInPast
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Hold{
		id:           uuid.New(),
		requester:    requester,
		target:       target,
		window:       window,
		status:       StatusPending,
		message:      message,
		jobReference: jobReference,
		createdAt:    now,
		updatedAt:    now,
		expiresAt:    now.Add(ttl),
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	requester Requester,
	target availability.Owner,
	window availability.Window,
	status Status,
	message, jobReference string,
	blockedSlotID *uuid.UUID,
	createdAt, updatedAt, expiresAt time.Time,
	respondedAt *time.Time,
) *Hold {
	return &Hold{
		id:            id,
		requester:     requester,
		target:        target,
		window:        window,
		status:        status,
		message:       message,
		jobReference:  jobReference,
		blockedSlotID: blockedSlotID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		expiresAt:     expiresAt,
		respondedAt:   respondedAt,
	}
}

func (h *Hold) ID() uuid.UUID                { return h.id }
func (h *Hold) Requester() Requester         { return h.requester }
func (h *Hold) Target() availability.Owner   { return h.target }
func (h *Hold) Window() availability.Window  { return h.window }
func (h *Hold) Status() Status               { return h.status }
func (h *Hold) Message() string              { return h.message }
func (h *Hold) JobReference() string         { return h.jobReference }
func (h *Hold) BlockedSlotID() *uuid.UUID    { return h.blockedSlotID }
func (h *Hold) CreatedAt() time.Time         { return h.createdAt }
func (h *Hold) UpdatedAt() time.Time         { return h.updatedAt }
func (h *Hold) ExpiresAt() time.Time         { return h.expiresAt }
func (h *Hold) RespondedAt() *time.Time      { return h.respondedAt }

func (h *Hold) IsPending() bool {
	return h.status == StatusPending
}

// IsAnswerable reports whether a responder may still act on the hold.
// A hold past its deadline is unanswerable even before the sweeper reaches
// it, so a stale page cannot win a race against expiry.
func (h *Hold) IsAnswerable(now time.Time) bool {
	return h.status == StatusPending && now.Before(h.expiresAt)
}

// Accept moves the hold to its accepted terminal state and records which
// blocked slot the acceptance created.
func (h *Hold) Accept(blockedSlotID uuid.UUID, now time.Time) error {
	if err := h.leavePending(now); err != nil {
		return err
	}
	h.status = StatusAccepted
	h.blockedSlotID = &blockedSlotID
	t := now
	h.respondedAt = &t
	h.updatedAt = now
	return nil
}

func (h *Hold) Decline(now time.Time) error {
	if err := h.leavePending(now); err != nil {
		return err
	}
	h.status = StatusDeclined
	t := now
	h.respondedAt = &t
	h.updatedAt = now
	return nil
}

func (h *Hold) Cancel(now time.Time) error {
	if err := h.leavePending(now); err != nil {
		return err
	}
	h.status = StatusCancelled
	t := now
	h.respondedAt = &t
	h.updatedAt = now
	return nil
}

// Expire is the sweeper's transition. respondedAt stays nil so "nobody
// answered" remains distinguishable from an explicit decline.
func (h *Hold) Expire(now time.Time) error {
	if h.status != StatusPending {
		return ErrInvalidTransition
	}
	if now.Before(h.expiresAt) {
		return ErrNotExpired
	}
	h.status = StatusExpired
	h.updatedAt = now
	return nil
}

// leavePending guards every responder-initiated terminal transition:
// only a pending hold still inside its deadline may be answered.
func (h *Hold) leavePending(now time.Time) error {
	if !h.IsAnswerable(now) {
		return ErrInvalidTransition
	}
	return nil
}

// IsRequester and IsTarget implement the party checks for cancel/respond.
func (h *Hold) IsRequester(id uuid.UUID) bool {
	return h.requester.ID == id
}

func (h *Hold) IsTarget(id uuid.UUID) bool {
	return h.target.ID == id
}

func (h *Hold) IsParty(id uuid.UUID) bool {
	return h.IsRequester(id) || h.IsTarget(id)
}
