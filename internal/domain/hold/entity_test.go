//go:build unit

package hold_test

import (
	"testing"
	"time"

	"bookhold/internal/domain/hold"
	"bookhold/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingHold(t *testing.T) (*hold.Hold, time.Time) {
	t.Helper()
	b := builder.NewHoldBuilder()
	h, err := b.BuildDomain()
	require.NoError(t, err)
	return h, b.Now
}

func TestNewHold(t *testing.T) {
	t.Run("starts pending with deadline now+ttl", func(t *testing.T) {
		h, now := newPendingHold(t)

		assert.NotEqual(t, uuid.Nil, h.ID())
		assert.Equal(t, hold.StatusPending, h.Status())
		assert.Equal(t, now.Add(hold.DefaultTTL), h.ExpiresAt())
		assert.Nil(t, h.RespondedAt())
		assert.Nil(t, h.BlockedSlotID())
	})

	t.Run("rejects windows starting in the past", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		b.WithWindow(b.Now.Add(-time.Hour), b.Now.Add(time.Hour))
		_, err := b.BuildDomain()
		assert.ErrorIs(t, err, hold.ErrWindowInPast)
	})

	t.Run("zero ttl falls back to the default", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		b.TTL = 0
		h, err := b.BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, b.Now.Add(hold.DefaultTTL), h.ExpiresAt())
	})
}

func TestHoldTransitions(t *testing.T) {
	t.Run("accept records the blocked slot and response time", func(t *testing.T) {
		h, now := newPendingHold(t)
		slotID := uuid.New()
		at := now.Add(time.Hour)

		require.NoError(t, h.Accept(slotID, at))

		assert.Equal(t, hold.StatusAccepted, h.Status())
		require.NotNil(t, h.BlockedSlotID())
		assert.Equal(t, slotID, *h.BlockedSlotID())
		require.NotNil(t, h.RespondedAt())
		assert.Equal(t, at, *h.RespondedAt())
	})

	t.Run("decline and cancel record the response time without a slot", func(t *testing.T) {
		for name, transition := range map[string]func(*hold.Hold, time.Time) error{
			"decline": (*hold.Hold).Decline,
			"cancel":  (*hold.Hold).Cancel,
		} {
			t.Run(name, func(t *testing.T) {
				h, now := newPendingHold(t)
				at := now.Add(time.Hour)

				require.NoError(t, transition(h, at))
				assert.True(t, h.Status().IsTerminal())
				assert.Nil(t, h.BlockedSlotID())
				require.NotNil(t, h.RespondedAt())
				assert.Equal(t, at, *h.RespondedAt())
			})
		}
	})

	t.Run("terminal states refuse every further transition", func(t *testing.T) {
		h, now := newPendingHold(t)
		require.NoError(t, h.Decline(now.Add(time.Hour)))

		later := now.Add(2 * time.Hour)
		assert.ErrorIs(t, h.Accept(uuid.New(), later), hold.ErrInvalidTransition)
		assert.ErrorIs(t, h.Decline(later), hold.ErrInvalidTransition)
		assert.ErrorIs(t, h.Cancel(later), hold.ErrInvalidTransition)
		assert.ErrorIs(t, h.Expire(later.Add(hold.DefaultTTL)), hold.ErrInvalidTransition)
	})

	t.Run("responses past the deadline are refused", func(t *testing.T) {
		h, now := newPendingHold(t)
		past := now.Add(hold.DefaultTTL)

		assert.False(t, h.IsAnswerable(past))
		assert.ErrorIs(t, h.Accept(uuid.New(), past), hold.ErrInvalidTransition)
		assert.ErrorIs(t, h.Decline(past), hold.ErrInvalidTransition)
		assert.Equal(t, hold.StatusPending, h.Status())
	})
}

func TestHoldExpire(t *testing.T) {
	t.Run("expiry leaves respondedAt nil", func(t *testing.T) {
		h, now := newPendingHold(t)
		at := now.Add(hold.DefaultTTL)

		require.NoError(t, h.Expire(at))
		assert.Equal(t, hold.StatusExpired, h.Status())
		assert.Nil(t, h.RespondedAt())
	})

	t.Run("cannot expire before the deadline", func(t *testing.T) {
		h, now := newPendingHold(t)
		err := h.Expire(now.Add(hold.DefaultTTL - time.Second))
		assert.ErrorIs(t, err, hold.ErrNotExpired)
		assert.Equal(t, hold.StatusPending, h.Status())
	})
}

func TestHoldParties(t *testing.T) {
	h, _ := newPendingHold(t)

	assert.True(t, h.IsRequester(h.Requester().ID))
	assert.True(t, h.IsTarget(h.Target().ID))
	assert.True(t, h.IsParty(h.Requester().ID))
	assert.True(t, h.IsParty(h.Target().ID))
	assert.False(t, h.IsParty(uuid.New()))
}
