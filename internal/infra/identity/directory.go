// Package identity adapts the platform's profile directory, an external
// collaborator the engine only needs for notification snapshots.
package identity

import (
	"context"

	"bookhold/internal/domain/notification"
	"bookhold/internal/usecase/commands"

	"github.com/google/uuid"
)

// NullDirectory derives a readable placeholder from the party's id and
// role. Deployments wire a real directory client instead; the engine works
// identically either way because lookups are best effort.
type NullDirectory struct{}

func NewNullDirectory() commands.IdentityDirectory {
	return &NullDirectory{}
}

func (d *NullDirectory) Lookup(_ context.Context, id uuid.UUID, role string) (notification.Party, error) {
	return notification.Party{
		ID:          id,
		Role:        role,
		DisplayName: role + "/" + shortID(id),
	}, nil
}

// StaticDirectory serves fixed profiles, useful for tests and demos.
type StaticDirectory struct {
	parties map[uuid.UUID]notification.Party
}

func NewStaticDirectory(parties ...notification.Party) *StaticDirectory {
	m := make(map[uuid.UUID]notification.Party, len(parties))
	for _, p := range parties {
		m[p.ID] = p
	}
	return &StaticDirectory{parties: m}
}

func (d *StaticDirectory) Lookup(_ context.Context, id uuid.UUID, role string) (notification.Party, error) {
	if p, ok := d.parties[id]; ok {
		return p, nil
	}
	return notification.Party{
		ID:          id,
		Role:        role,
		DisplayName: role + "/" + shortID(id),
	}, nil
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
