package notifications

import (
	"context"

	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/booking"
	"airbrb/internal/app/queries"
)

// LedgerSource reads the feed through the in-process query bus.
type LedgerSource struct {
	Queries queries.Bus
}

func (s LedgerSource) Feed(ctx context.Context, userID string) (Feed, error) {
	res, err := queries.Ask[booking.BookingFeedQuery, booking.BookingFeed](ctx, s.Queries, booking.BookingFeedQuery{UserID: userID})
	if err != nil {
		return Feed{}, err
	}
	return Feed{Guest: FromDTO(res.Guest), Host: FromDTO(res.Host)}, nil
}

func FromDTO(items []dto.Booking) []Booking {
	out := make([]Booking, 0, len(items))
	for _, b := range items {
		out = append(out, Booking{ID: b.ID, ListingID: b.ListingID, Status: b.Status})
	}
	return out
}

var _ BookingSource = LedgerSource{}
