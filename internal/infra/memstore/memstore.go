// Package memstore is an in-memory implementation of the engine's
// repository ports. Unit tests run against it, and library consumers can
// embed the engine without postgres. Per-owner serialization is a real
// mutex here, so the concurrency contract matches the advisory-lock path.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/domain/hold"
	"bookhold/internal/domain/notification"
	"bookhold/internal/infra"
	"bookhold/internal/pkg/clock"
	"bookhold/internal/usecase/queries"

	"github.com/google/uuid"
)

type Store struct {
	mu         sync.Mutex
	ownerLocks map[availability.Owner]*sync.Mutex
	slots      map[uuid.UUID]*availability.Slot
	holds      map[uuid.UUID]*hold.Hold
	events     map[uuid.UUID]*queries.OutboxEntry
	eventOrder []uuid.UUID
	clock      clock.Clock
}

func New(clk clock.Clock) *Store {
	return &Store{
		ownerLocks: make(map[availability.Owner]*sync.Mutex),
		slots:      make(map[uuid.UUID]*availability.Slot),
		holds:      make(map[uuid.UUID]*hold.Hold),
		events:     make(map[uuid.UUID]*queries.OutboxEntry),
		clock:      clk,
	}
}

// Slots exposes the store as a slot repository.
func (s *Store) Slots() *SlotStore { return &SlotStore{s} }

// Holds exposes the store as a hold repository.
func (s *Store) Holds() *HoldStore { return &HoldStore{s} }

// WithOwnerTx serializes fn against every other section for the same owner.
// Mutations apply immediately; the in-memory operations cannot fail halfway,
// which keeps the no-partial-commit contract trivially true.
func (s *Store) WithOwnerTx(ctx context.Context, owner availability.Owner, fn func(ctx context.Context) error) error {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

func (s *Store) ownerLock(owner availability.Owner) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.ownerLocks[owner]
	if !ok {
		lock = &sync.Mutex{}
		s.ownerLocks[owner] = lock
	}
	return lock
}

type SlotStore struct {
	s *Store
}

func (r *SlotStore) ListForRange(_ context.Context, owner availability.Owner, from, to time.Time) ([]*availability.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*availability.Slot
	for _, slot := range r.s.slots {
		if slot.Owner() != owner {
			continue
		}
		if slot.Window().Start().Before(to) && slot.Window().End().After(from) {
			out = append(out, cloneSlot(slot))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Window().Start().Before(out[j].Window().Start())
	})
	return out, nil
}

func (r *SlotStore) FindByID(_ context.Context, id uuid.UUID) (*availability.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slot, ok := r.s.slots[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "slot not found", nil)
	}
	return cloneSlot(slot), nil
}

func (r *SlotStore) Upsert(_ context.Context, slot *availability.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.slots[slot.ID()] = cloneSlot(slot)
	return nil
}

func (r *SlotStore) Create(_ context.Context, slot *availability.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.slots[slot.ID()]; exists {
		return infra.NewRepoErr(infra.KindConflict, "slot already exists", nil)
	}
	r.s.slots[slot.ID()] = cloneSlot(slot)
	return nil
}

func (r *SlotStore) Remove(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, h := range r.s.holds {
		ref := h.BlockedSlotID()
		if ref != nil && *ref == id {
			return infra.NewRepoErr(infra.KindReferenced, "slot referenced by hold", nil)
		}
	}
	delete(r.s.slots, id)
	return nil
}

type HoldStore struct {
	s *Store
}

func (r *HoldStore) Create(_ context.Context, h *hold.Hold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.holds[h.ID()]; exists {
		return infra.NewRepoErr(infra.KindConflict, "hold already exists", nil)
	}
	r.s.holds[h.ID()] = cloneHold(h)
	return nil
}

func (r *HoldStore) FindByID(_ context.Context, id uuid.UUID) (*hold.Hold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.holds[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "hold not found", nil)
	}
	return cloneHold(h), nil
}

// FindByIDForUpdate has the same semantics as FindByID: the owner lock
// already provides the exclusion a row lock would.
func (r *HoldStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*hold.Hold, error) {
	return r.FindByID(ctx, id)
}

func (r *HoldStore) Save(_ context.Context, h *hold.Hold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.holds[h.ID()]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "hold not found", nil)
	}
	if stored.Status() != hold.StatusPending && stored.Status() != h.Status() {
		return infra.NewRepoErr(infra.KindConflict, "hold transitioned concurrently", nil)
	}
	r.s.holds[h.ID()] = cloneHold(h)
	return nil
}

func (r *HoldStore) ListExpirable(_ context.Context, now time.Time, limit int) ([]*hold.Hold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*hold.Hold
	for _, h := range r.s.holds {
		if h.Status() == hold.StatusPending && !h.ExpiresAt().After(now) {
			out = append(out, cloneHold(h))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt().Before(out[j].ExpiresAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *HoldStore) ListByParty(_ context.Context, partyID uuid.UUID) ([]*hold.Hold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*hold.Hold
	for _, h := range r.s.holds {
		if h.IsParty(partyID) {
			out = append(out, cloneHold(h))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (s *Store) Append(_ context.Context, event notification.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.events[id] = &queries.OutboxEntry{
		ID:        id,
		HoldID:    event.HoldID,
		Event:     event,
		Status:    "queued",
		CreatedAt: s.clock.Now(),
	}
	s.eventOrder = append(s.eventOrder, id)
	return nil
}

func (s *Store) ListPending(_ context.Context, limit int) ([]*queries.OutboxEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*queries.OutboxEntry
	for _, id := range s.eventOrder {
		entry := s.events[id]
		if entry.Status != "queued" {
			continue
		}
		copied := *entry
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkSent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.events[id]
	if !ok || entry.Status != "queued" {
		return nil
	}
	entry.Status = "sent"
	entry.Attempts++
	return nil
}

func (s *Store) MarkFailed(_ context.Context, id uuid.UUID, reason string, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.events[id]
	if !ok || entry.Status != "queued" {
		return nil
	}
	entry.Attempts++
	entry.LastError = &reason
	if int(entry.Attempts) >= maxAttempts {
		entry.Status = "failed"
	}
	return nil
}

// Events returns every stored entry in append order, for assertions.
func (s *Store) Events() []*queries.OutboxEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*queries.OutboxEntry, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		copied := *s.events[id]
		out = append(out, &copied)
	}
	return out
}

func cloneSlot(s *availability.Slot) *availability.Slot {
	return availability.ReconstructSlot(s.ID(), s.Owner(), s.Window(), s.Status(), s.CreatedAt(), s.UpdatedAt())
}

func cloneHold(h *hold.Hold) *hold.Hold {
	var blockedSlotID *uuid.UUID
	if ref := h.BlockedSlotID(); ref != nil {
		id := *ref
		blockedSlotID = &id
	}
	var respondedAt *time.Time
	if t := h.RespondedAt(); t != nil {
		ts := *t
		respondedAt = &ts
	}
	return hold.Reconstruct(
		h.ID(), h.Requester(), h.Target(), h.Window(), h.Status(),
		h.Message(), h.JobReference(), blockedSlotID,
		h.CreatedAt(), h.UpdatedAt(), h.ExpiresAt(), respondedAt,
	)
}
