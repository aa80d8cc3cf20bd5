package queries

import (
	"context"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/pkg/errs"
)

type SlotReadRepository interface {
	ListForRange(ctx context.Context, owner availability.Owner, from, to time.Time) ([]*availability.Slot, error)
}

type AvailabilityQueries interface {
	ListSlots(ctx context.Context, owner availability.Owner, from, to time.Time) ([]*SlotView, error)
	DayBreakdown(ctx context.Context, owner availability.Owner, day time.Time) ([]*HourStatusView, error)
}

type availabilityQueriesImpl struct {
	slots SlotReadRepository
}

func NewAvailabilityQueries(slots SlotReadRepository) AvailabilityQueries {
	return &availabilityQueriesImpl{slots: slots}
}

func (q *availabilityQueriesImpl) ListSlots(ctx context.Context, owner availability.Owner, from, to time.Time) ([]*SlotView, error) {
	if !to.After(from) {
		return nil, errs.Mark(availability.ErrInvalidWindow, errs.ErrValidation)
	}

	slots, err := q.slots.ListForRange(ctx, owner, from, to)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]*SlotView, len(slots))
	for i, s := range slots {
		views[i] = NewSlotView(s)
	}
	return views, nil
}

// DayBreakdown projects one UTC day onto 24 hour buckets for the calendar
// detail view, using the resolver so it can never disagree with the
// conflict checks.
func (q *availabilityQueriesImpl) DayBreakdown(ctx context.Context, owner availability.Owner, day time.Time) ([]*HourStatusView, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	slots, err := q.slots.ListForRange(ctx, owner, dayStart, dayEnd)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	breakdown := availability.HourlyBreakdown(slots, dayStart)
	views := make([]*HourStatusView, len(breakdown))
	for i, hs := range breakdown {
		views[i] = &HourStatusView{Hour: hs.Hour, Status: hs.Status.String()}
	}
	return views, nil
}
