package dto

import (
	"time"

	domainbooking "airbrb/internal/domain/booking"
	"airbrb/internal/domain/shared/daterange"
)

// DateRange is the wire form of an inclusive day range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func MapDateRange(r daterange.DateRange) DateRange {
	return DateRange{Start: r.Start.String(), End: r.End.String()}
}

func (d DateRange) Raw() daterange.Raw {
	return daterange.Raw{Start: d.Start, End: d.End}
}

// Booking keeps the field names clients already use: owner is the guest.
type Booking struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	ListingID  string    `json:"listingId"`
	DateRange  DateRange `json:"dateRange"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type BookingCollection struct {
	Bookings []Booking `json:"bookings"`
}

type BookingEnvelope struct {
	Booking Booking `json:"booking"`
}

type BookingCreated struct {
	BookingID string `json:"bookingId"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:         string(b.ID),
		Owner:      b.GuestID,
		ListingID:  string(b.ListingID),
		DateRange:  MapDateRange(b.Range),
		TotalPrice: b.TotalPrice.Float(),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
}

func MapBookings(items []*domainbooking.Booking) BookingCollection {
	out := make([]Booking, 0, len(items))
	for _, b := range items {
		out = append(out, MapBooking(b))
	}
	return BookingCollection{Bookings: out}
}
