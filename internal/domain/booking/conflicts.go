package booking

import (
	"errors"
	"fmt"

	"airbrb/internal/domain/availability"
	"airbrb/internal/domain/shared/daterange"
)

var (
	ErrPastDate            = errors.New("booking: start date is in the past")
	ErrOutsideAvailability = errors.New("booking: dates are outside the listing availability")
	ErrOverlap             = errors.New("booking: dates overlap an existing booking")
)

// CheckConflicts applies the booking rules in order and stops at the first failure:
// the stay must not start before today, must fit inside one availability window and
// must not overlap any pending or accepted booking of the same listing.
func CheckConflicts(candidate daterange.DateRange, today daterange.Date, windows availability.Windows, existing []*Booking) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	if candidate.Start.Before(today) {
		return ErrPastDate
	}
	if !windows.Covers(candidate) {
		return ErrOutsideAvailability
	}
	for _, other := range existing {
		if other == nil || !other.Status.Blocking() {
			continue
		}
		if other.Range.Overlaps(candidate) {
			return fmt.Errorf("%w (%s)", ErrOverlap, other.Range)
		}
	}
	return nil
}
