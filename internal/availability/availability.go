// Package availability decides whether a date range collides with the
// bookings that hold a vehicle. It is pure and side-effect free; the
// caller supplies the candidate bookings.
package availability

import (
	"time"

	"fleetrental-backend/internal/domain"
)

// ValidateRange checks the basic precondition on a requested range.
func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// Overlaps reports whether [start, end] collides with an existing
// booking range [s, e], both treated as closed date intervals: the new
// start falls inside the existing range, the new end falls inside it,
// or the new range fully contains it. Same-day handover therefore
// counts as a conflict.
func Overlaps(s, e, start, end time.Time) bool {
	startInside := !s.After(start) && !e.Before(start) // s <= start <= e
	endInside := !s.After(end) && !e.Before(end)       // s <= end <= e
	contains := !start.After(s) && !end.Before(e)      // start <= s && e <= end
	return startInside || endInside || contains
}

// FindConflicts returns the bookings whose status holds the vehicle and
// whose range overlaps the requested one.
func FindConflicts(existing []domain.Booking, start, end time.Time) []domain.Booking {
	var conflicts []domain.Booking
	for _, b := range existing {
		if !b.Blocks() {
			continue
		}
		if Overlaps(b.StartDate, b.EndDate, start, end) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
