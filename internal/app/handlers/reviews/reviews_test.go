package reviews

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/dto"
	"airbrb/internal/app/middleware"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/queries"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
	"airbrb/internal/infra/storage/memory"
)

const (
	host  = "host@example.com"
	guest = "guest@example.com"
	other = "other@example.com"
)

var now = time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	commands commands.Bus
	queries  queries.Bus
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	outbox   *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		outbox:   memory.NewOutbox(),
	}
	factory := memory.NewFactory(f.listings, f.bookings, memory.NewReviewRepository())

	cmdBus := commands.NewInMemoryBus()
	commands.RegisterHandler[SubmitReviewCommand, *dto.Review](cmdBus, submitReviewKey, &SubmitReviewHandler{
		Outbox:  f.outbox,
		Encoder: outbox.JSONEventEncoder{},
		Clock:   func() time.Time { return now },
		NewID:   func() string { return "R1" },
	})
	f.commands = middleware.ChainCommands(cmdBus,
		middleware.RequireActor(),
		middleware.Validation(middleware.NewStructValidator()),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(f.outbox),
	)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[ListListingReviewsQuery, dto.ReviewCollection](queryBus, listListingReviewsKey, &ListListingReviewsHandler{UoWFactory: factory})
	f.queries = middleware.ChainQueries(queryBus, middleware.QueryValidation(middleware.NewStructValidator()))

	for _, id := range []string{"L1", "L2"} {
		listing, err := domainlistings.NewListing(domainlistings.CreateParams{
			ID: domainlistings.ListingID(id), Owner: host, Title: "Cabin " + id,
			Price: money.Must(10000, money.DefaultCurrency), Now: now.AddDate(0, -2, 0),
		})
		require.NoError(t, err)
		require.NoError(t, f.listings.Save(context.Background(), listing))
	}
	return f
}

func (f *fixture) seedBooking(t *testing.T, id, listingID string, status domainbooking.Status) {
	t.Helper()
	r, err := daterange.Normalize(daterange.Raw{Start: "2025-01-03", End: "2025-01-05"})
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		ListingID:  domainlistings.ListingID(listingID),
		GuestID:    guest,
		Range:      r,
		TotalPrice: money.Must(20000, money.DefaultCurrency),
		CreatedAt:  now.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	switch status {
	case domainbooking.StatusAccepted:
		require.NoError(t, b.Accept(now.AddDate(0, -1, 0)))
	case domainbooking.StatusDeclined:
		require.NoError(t, b.Decline(now.AddDate(0, -1, 0)))
	}
	require.NoError(t, f.bookings.Save(context.Background(), b))
}

func (f *fixture) submit(author, listingID, bookingID string, rating int, comment string) (*dto.Review, error) {
	return commands.Dispatch[SubmitReviewCommand, *dto.Review](context.Background(), f.commands, SubmitReviewCommand{
		AuthorID:  author,
		ListingID: listingID,
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
	})
}

func (f *fixture) list(t *testing.T, listingID string) dto.ReviewCollection {
	t.Helper()
	got, err := queries.Ask[ListListingReviewsQuery, dto.ReviewCollection](context.Background(), f.queries, ListListingReviewsQuery{ListingID: listingID})
	require.NoError(t, err)
	return got
}

func TestGuestReviewsAcceptedStay(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "B1", "L1", domainbooking.StatusAccepted)

	review, err := f.submit(guest, "L1", "B1", 5, " great view ")
	require.NoError(t, err)
	assert.Equal(t, "R1", review.ID)
	assert.Equal(t, "great view", review.Comment)

	got := f.list(t, "L1")
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, guest, got.Reviews[0].Author)
	assert.Equal(t, 1, got.Total)
	assert.InDelta(t, 5.0, got.Average, 0.001)
	assert.Equal(t, [5]int{0, 0, 0, 0, 1}, got.Counts)
	assert.Empty(t, f.list(t, "L2").Reviews)

	require.Equal(t, 1, f.outbox.Pending())
	entry, err := f.outbox.Claim(context.Background(), "test")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "review.submitted", entry.Record.Name)
	assert.Equal(t, "review", entry.Record.Headers[outbox.HeaderAggregateType])
	var payload map[string]any
	require.NoError(t, json.Unmarshal(entry.Record.Payload, &payload))
	assert.Equal(t, "B1", payload["booking_id"])
}

func TestResubmittingRevisesTheSameReview(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "B1", "L1", domainbooking.StatusAccepted)

	_, err := f.submit(guest, "L1", "B1", 2, "noisy")
	require.NoError(t, err)
	revised, err := f.submit(guest, "L1", "B1", 4, "better after a night")
	require.NoError(t, err)
	assert.Equal(t, "R1", revised.ID)
	assert.Equal(t, 4, revised.Rating)

	got := f.list(t, "L1")
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "better after a night", got.Reviews[0].Comment)
}

func TestReviewRejections(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "B1", "L1", domainbooking.StatusAccepted)
	f.seedBooking(t, "P1", "L1", domainbooking.StatusPending)
	f.seedBooking(t, "D1", "L1", domainbooking.StatusDeclined)

	cases := []struct {
		name      string
		author    string
		listingID string
		bookingID string
		rating    int
		access    bool
	}{
		{"not the guest", other, "L1", "B1", 4, true},
		{"host of the listing", host, "L1", "B1", 4, true},
		{"pending booking", guest, "L1", "P1", 4, false},
		{"declined booking", guest, "L1", "D1", 4, false},
		{"booking on another listing", guest, "L2", "B1", 4, false},
		{"unknown booking", guest, "L1", "missing", 4, false},
		{"unknown listing", guest, "nope", "B1", 4, false},
		{"rating too low", guest, "L1", "B1", 0, false},
		{"rating too high", guest, "L1", "B1", 6, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.submit(tc.author, tc.listingID, tc.bookingID, tc.rating, "")
			require.Error(t, err)
			if tc.access {
				assert.True(t, apperr.IsAccess(err), "%v", err)
			} else {
				assert.True(t, apperr.IsInput(err), "%v", err)
			}
		})
	}
	assert.Empty(t, f.list(t, "L1").Reviews)
	assert.Zero(t, f.outbox.Pending())
}

func TestAnonymousCannotReview(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "B1", "L1", domainbooking.StatusAccepted)
	_, err := f.submit("", "L1", "B1", 5, "")
	assert.True(t, apperr.IsAccess(err))
}

func TestListingReviewsForMissingListing(t *testing.T) {
	f := newFixture(t)
	_, err := queries.Ask[ListListingReviewsQuery, dto.ReviewCollection](context.Background(), f.queries, ListListingReviewsQuery{ListingID: "nope"})
	assert.True(t, apperr.IsInput(err))
}
