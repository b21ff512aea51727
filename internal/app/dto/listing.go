package dto

import (
	"time"

	domainlistings "airbrb/internal/domain/listings"
)

type Listing struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Owner        string      `json:"owner"`
	Address      string      `json:"address"`
	Price        float64     `json:"price"`
	Published    bool        `json:"published"`
	Availability []DateRange `json:"availability"`
	PostedOn     *time.Time  `json:"postedOn"`
	Reviews      []Review    `json:"reviews,omitempty"`
}

type ListingCollection struct {
	Listings []Listing `json:"listings"`
}

type ListingEnvelope struct {
	Listing Listing `json:"listing"`
}

type ListingCreated struct {
	ListingID string `json:"listingId"`
}

func MapListing(l *domainlistings.Listing) Listing {
	windows := make([]DateRange, 0, len(l.Availability))
	for _, r := range l.Availability {
		windows = append(windows, MapDateRange(r))
	}
	out := Listing{
		ID:           string(l.ID),
		Title:        l.Title,
		Owner:        string(l.Owner),
		Address:      l.Address,
		Price:        l.Price.Float(),
		Published:    l.Published,
		Availability: windows,
	}
	if l.Published && !l.PostedAt.IsZero() {
		posted := l.PostedAt
		out.PostedOn = &posted
	}
	return out
}

func MapListings(items []*domainlistings.Listing) ListingCollection {
	out := make([]Listing, 0, len(items))
	for _, l := range items {
		out = append(out, MapListing(l))
	}
	return ListingCollection{Listings: out}
}

// HostStats summarizes accepted bookings of one listing.
type HostStats struct {
	ListingID       string        `json:"listingId"`
	Year            int           `json:"year"`
	BookedDays      int           `json:"bookedDays"`
	Profit          float64       `json:"profit"`
	PendingRequests int           `json:"pendingRequests"`
	Last30Days      []DailyProfit `json:"last30Days"`
}

type DailyProfit struct {
	DaysAgo int     `json:"daysAgo"`
	Profit  float64 `json:"profit"`
}
