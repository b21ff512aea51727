package support

import (
	"errors"

	"airbrb/internal/app/apperr"
	domainauth "airbrb/internal/domain/auth"
	domainavailability "airbrb/internal/domain/availability"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
	domainuser "airbrb/internal/domain/user"
)

var inputErrors = []error{
	daterange.ErrInvalidDate,
	daterange.ErrInvalidRange,
	money.ErrInvalidCurrency,
	money.ErrCurrencyMismatch,
	money.ErrNegativeAmount,
	money.ErrNotFinite,
	domainavailability.ErrOverlappingRanges,
	domainbooking.ErrPastDate,
	domainbooking.ErrOutsideAvailability,
	domainbooking.ErrOverlap,
	domainbooking.ErrInvalidState,
	domainbooking.ErrNotFound,
	domainbooking.ErrGuestRequired,
	domainbooking.ErrListingRequired,
	domainlistings.ErrNotFound,
	domainlistings.ErrTitleRequired,
	domainlistings.ErrOwnerRequired,
	domainreviews.ErrInvalidRating,
	domainreviews.ErrCommentTooLong,
	domainreviews.ErrWrongListing,
	domainreviews.ErrNotAccepted,
	domainuser.ErrEmailRequired,
	domainuser.ErrEmailInvalid,
	domainuser.ErrNameRequired,
	domainuser.ErrEmailAlreadyUsed,
}

var accessErrors = []error{
	domainlistings.ErrNotOwner,
	domainreviews.ErrNotGuest,
	domainauth.ErrSessionNotFound,
	domainauth.ErrTokenRequired,
}

// Classify tags known domain failures with their user-facing kind. Anything else is
// returned untouched and surfaces as a system error.
func Classify(err error) error {
	if err == nil || apperr.Classified(err) {
		return err
	}
	for _, target := range accessErrors {
		if errors.Is(err, target) {
			return apperr.Access(err)
		}
	}
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return apperr.Input(err)
		}
	}
	return err
}
