package booking

import (
	"time"

	"airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
)

type BookingRequested struct {
	BookingID  BookingID           `json:"booking_id"`
	ListingID  listings.ListingID  `json:"listing_id"`
	GuestID    string              `json:"guest_id"`
	Range      daterange.DateRange `json:"range"`
	TotalPrice int64               `json:"total_price_cents"`
	At         time.Time           `json:"at"`
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingAccepted struct {
	BookingID BookingID          `json:"booking_id"`
	ListingID listings.ListingID `json:"listing_id"`
	GuestID   string             `json:"guest_id"`
	At        time.Time          `json:"at"`
}

func (e BookingAccepted) EventName() string     { return "booking.accepted" }
func (e BookingAccepted) AggregateID() string   { return string(e.BookingID) }
func (e BookingAccepted) OccurredAt() time.Time { return e.At }

type BookingDeclined struct {
	BookingID BookingID          `json:"booking_id"`
	ListingID listings.ListingID `json:"listing_id"`
	GuestID   string             `json:"guest_id"`
	At        time.Time          `json:"at"`
}

func (e BookingDeclined) EventName() string     { return "booking.declined" }
func (e BookingDeclined) AggregateID() string   { return string(e.BookingID) }
func (e BookingDeclined) OccurredAt() time.Time { return e.At }

type BookingRemoved struct {
	BookingID  BookingID          `json:"booking_id"`
	ListingID  listings.ListingID `json:"listing_id"`
	RemovedBy  string             `json:"removed_by"`
	LastStatus Status             `json:"last_status"`
	At         time.Time          `json:"at"`
}

func (e BookingRemoved) EventName() string     { return "booking.removed" }
func (e BookingRemoved) AggregateID() string   { return string(e.BookingID) }
func (e BookingRemoved) OccurredAt() time.Time { return e.At }
