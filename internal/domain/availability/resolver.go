package availability

import "time"

// The resolver is the single place where overlapping slots are reduced to
// one answer. Every caller that needs to know what a window reads as, the
// conflict check at hold creation, the re-check at acceptance and the
// calendar detail view, goes through these functions so they can never
// disagree with each other.

// StatusForWindow reduces every slot overlapping the window to the single
// winning status under blocked > unavailable > available > unset.
func StatusForWindow(slots []*Slot, window Window) Status {
	result := StatusUnset
	for _, s := range slots {
		if !s.Window().Overlaps(window) {
			continue
		}
		if s.Status().Wins(result) {
			result = s.Status()
		}
	}
	return result
}

// HasConflict reports whether a hold may NOT be placed on the window.
// Blocked and unavailable windows conflict outright; a window no slot marks
// available is conservatively treated as non-bookable, though the provider
// can still see and edit it.
func HasConflict(slots []*Slot, window Window) bool {
	switch StatusForWindow(slots, window) {
	case StatusBlocked, StatusUnavailable:
		return true
	case StatusAvailable:
		return false
	default:
		return true
	}
}

// HourSlice is one hour of a day's calendar detail.
type HourSlice struct {
	Hour   int
	Status Status
}

// HourlyBreakdown projects one day's slots onto 24 hour buckets, applying
// the same priority rule per bucket. Day boundaries are taken in UTC.
func HourlyBreakdown(slots []*Slot, day time.Time) []HourSlice {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]HourSlice, 24)
	for h := 0; h < 24; h++ {
		hourWindow := Window{
			start: dayStart.Add(time.Duration(h) * time.Hour),
			end:   dayStart.Add(time.Duration(h+1) * time.Hour),
		}
		out[h] = HourSlice{Hour: h, Status: StatusForWindow(slots, hourWindow)}
	}
	return out
}
