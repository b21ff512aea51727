package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainavailability "airbrb/internal/domain/availability"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
)

func mustRange(t *testing.T, start, end string) daterange.DateRange {
	t.Helper()
	r, err := daterange.Normalize(daterange.Raw{Start: start, End: end})
	require.NoError(t, err)
	return r
}

func TestListingDocumentKeepsAvailability(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID: "L1", Owner: "host@example.com", Title: "Cabin", Address: "1 Lake Rd",
		Price: money.Must(12000, money.DefaultCurrency), Now: now,
	})
	require.NoError(t, err)
	windows, err := domainavailability.NewWindows([]daterange.DateRange{
		mustRange(t, "2025-03-01", "2025-03-10"),
		mustRange(t, "2025-01-01", "2025-01-10"),
	})
	require.NoError(t, err)
	listing.Publish(windows, now)

	doc := newListingDocument(listing)
	assert.Equal(t, "2025-01-01", doc.Availability[0].Start)
	assert.Equal(t, now.UnixMilli(), doc.PostedAt)

	back, err := doc.toAggregate()
	require.NoError(t, err)
	assert.True(t, back.Published)
	assert.Equal(t, listing.Availability, back.Availability)
	assert.Equal(t, listing.Price, back.Price)
	assert.True(t, listing.PostedAt.Equal(back.PostedAt))
}

func TestBookingDocumentRejectsCorruptRange(t *testing.T) {
	doc := bookingDocument{ID: "B1", Range: rangeDocument{Start: "2025-01-05", End: "2025-01-01"}}
	_, err := doc.toAggregate()
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestBookingDocumentDefaultsCurrency(t *testing.T) {
	doc := bookingDocument{
		ID:         "B1",
		ListingID:  "L1",
		GuestID:    "g@example.com",
		Range:      rangeDocument{Start: "2025-01-03", End: "2025-01-05"},
		TotalPrice: moneyDocument{Amount: 30000},
		Status:     "accepted",
	}
	b, err := doc.toAggregate()
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusAccepted, b.Status)
	assert.Equal(t, money.DefaultCurrency, b.TotalPrice.Currency)
	assert.Equal(t, 3, b.Range.Days())
}

func TestReviewDocumentRoundsToMillis(t *testing.T) {
	created := time.Date(2025, 2, 1, 10, 0, 0, 123456789, time.UTC)
	review := &domainreviews.Review{
		ID: "R1", BookingID: "B1", ListingID: "L1", AuthorID: "guest@example.com",
		Rating: 4, Comment: "quiet street", CreatedAt: created, UpdatedAt: created.Add(time.Hour),
	}

	doc := newReviewDocument(review)
	assert.Equal(t, "B1", doc.BookingID)
	back := doc.toAggregate()
	assert.Equal(t, created.Truncate(time.Millisecond), back.CreatedAt)
	assert.Equal(t, domainlistings.ListingID("L1"), back.ListingID)
	assert.Equal(t, 4, back.Rating)
	assert.Equal(t, "quiet street", back.Comment)
}
