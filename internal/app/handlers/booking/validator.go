package booking

import (
	"context"

	"airbrb/internal/app/handlers/availability"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
)

// ConflictValidator decides whether a candidate stay may be requested. It reads the
// listing and its ledger from the unit of work in ctx.
type ConflictValidator struct {
	Availability availability.Store
}

// Validate checks, in order: past start, availability containment, overlap with a
// pending or accepted booking. Failures are input errors wrapping the domain sentinel.
func (v ConflictValidator) Validate(ctx context.Context, listingID domainlistings.ListingID, candidate daterange.DateRange, today daterange.Date) error {
	unit, err := uow.Current(ctx)
	if err != nil {
		return err
	}
	windows, err := v.Availability.Windows(ctx, listingID)
	if err != nil {
		return support.Classify(err)
	}
	existing, err := unit.Booking().ListByListing(ctx, listingID)
	if err != nil {
		return err
	}
	return support.Classify(domainbooking.CheckConflicts(candidate, today, windows, existing))
}
