// Package availability answers "may this listing be booked for these days".
package availability

import (
	"context"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/uow"
	domainavailability "airbrb/internal/domain/availability"
	domainlistings "airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
)

// Store reads and prepares listing availability inside the caller's unit of work.
type Store struct{}

// SetAvailability orders ranges by start date and rejects overlapping input. The result
// replaces the listing's windows when it is published.
func (Store) SetAvailability(ranges []daterange.DateRange) (domainavailability.Windows, error) {
	windows, err := domainavailability.NewWindows(ranges)
	if err != nil {
		return nil, apperr.Input(err)
	}
	return windows, nil
}

// Windows returns the bookable windows of a listing. An unpublished listing has none.
func (Store) Windows(ctx context.Context, listingID domainlistings.ListingID) (domainavailability.Windows, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Published {
		return domainavailability.Windows{}, nil
	}
	return listing.Availability, nil
}

// IsWithinAvailability reports whether a single window holds the whole candidate.
func (s Store) IsWithinAvailability(ctx context.Context, listingID domainlistings.ListingID, candidate daterange.DateRange) (bool, error) {
	windows, err := s.Windows(ctx, listingID)
	if err != nil {
		return false, err
	}
	return windows.Covers(candidate), nil
}
