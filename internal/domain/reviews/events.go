package reviews

import (
	"time"

	"airbrb/internal/domain/booking"
	"airbrb/internal/domain/listings"
)

type ReviewSubmitted struct {
	ReviewID  ReviewID           `json:"review_id"`
	BookingID booking.BookingID  `json:"booking_id"`
	ListingID listings.ListingID `json:"listing_id"`
	AuthorID  string             `json:"author_id"`
	Rating    int                `json:"rating"`
	At        time.Time          `json:"at"`
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }

type ReviewRevised struct {
	ReviewID  ReviewID           `json:"review_id"`
	ListingID listings.ListingID `json:"listing_id"`
	Rating    int                `json:"rating"`
	At        time.Time          `json:"at"`
}

func (e ReviewRevised) EventName() string     { return "review.revised" }
func (e ReviewRevised) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewRevised) OccurredAt() time.Time { return e.At }
