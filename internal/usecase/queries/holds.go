package queries

import (
	"context"

	"bookhold/internal/domain/hold"
	"bookhold/internal/infra"
	"bookhold/internal/pkg/errs"

	"github.com/google/uuid"
)

type HoldReadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*hold.Hold, error)
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]*hold.Hold, error)
}

type HoldQueries interface {
	GetByID(ctx context.Context, id, actorID uuid.UUID) (*HoldView, error)
	ListForParty(ctx context.Context, partyID uuid.UUID) ([]*HoldView, error)
}

type holdQueriesImpl struct {
	holds HoldReadRepository
}

func NewHoldQueries(holds HoldReadRepository) HoldQueries {
	return &holdQueriesImpl{holds: holds}
}

// GetByID hides holds from non-parties behind the same not-found error a
// missing id produces, so callers cannot probe other parties' holds.
func (q *holdQueriesImpl) GetByID(ctx context.Context, id, actorID uuid.UUID) (*HoldView, error) {
	h, err := q.holds.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrHoldNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !h.IsParty(actorID) {
		return nil, errs.ErrHoldNotFound
	}
	return NewHoldView(h), nil
}

func (q *holdQueriesImpl) ListForParty(ctx context.Context, partyID uuid.UUID) ([]*HoldView, error) {
	holds, err := q.holds.ListByParty(ctx, partyID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]*HoldView, len(holds))
	for i, h := range holds {
		views[i] = NewHoldView(h)
	}
	return views, nil
}
