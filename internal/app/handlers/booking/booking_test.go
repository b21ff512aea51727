package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/availability"
	"airbrb/internal/app/middleware"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/queries"
	domainavailability "airbrb/internal/domain/availability"
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

var today = time.Date(2024, time.December, 20, 9, 30, 0, 0, time.UTC)

type harness struct {
	commands commands.Bus
	queries  queries.Bus
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	outbox   *memory.Outbox
	seq      atomic.Int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithStore(t, memory.NewIdempotencyStore(time.Hour))
}

func newHarnessWithStore(t *testing.T, store middleware.IdempotencyStore) *harness {
	t.Helper()
	h := &harness{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		outbox:   memory.NewOutbox(),
	}
	factory := memory.NewFactory(h.listings, h.bookings, memory.NewReviewRepository())
	clock := func() time.Time { return today }
	lifecycle := Lifecycle{Outbox: h.outbox, Encoder: outbox.JSONEventEncoder{}, Clock: clock}

	cmdBus := commands.NewInMemoryBus()
	commands.RegisterHandler[RequestBookingCommand, *RequestBookingResult](cmdBus, requestBookingKey, &RequestBookingHandler{
		Validator: ConflictValidator{Availability: availability.Store{}},
		Outbox:    h.outbox,
		Encoder:   outbox.JSONEventEncoder{},
		Clock:     clock,
		NewID: func() string {
			return fmt.Sprintf("b%d", h.seq.Add(1))
		},
	})
	commands.RegisterHandler[AcceptBookingCommand, *BookingActionResult](cmdBus, acceptBookingKey, &AcceptBookingHandler{Lifecycle: lifecycle})
	commands.RegisterHandler[DeclineBookingCommand, *BookingActionResult](cmdBus, declineBookingKey, &DeclineBookingHandler{Lifecycle: lifecycle})
	commands.RegisterHandler[RemoveBookingCommand, *BookingActionResult](cmdBus, removeBookingKey, &RemoveBookingHandler{Lifecycle: lifecycle})

	h.commands = middleware.ChainCommands(cmdBus,
		middleware.RequireActor(),
		middleware.Validation(middleware.NewStructValidator()),
		middleware.Transaction(factory, nil),
		middleware.Idempotency(store, middleware.JSONResultCodec{}),
		middleware.OutboxFlush(h.outbox),
	)

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[ListBookingsQuery, dto.BookingCollection](queryBus, listBookingsKey, &ListBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler[GetBookingQuery, dto.Booking](queryBus, getBookingKey, &GetBookingHandler{UoWFactory: factory})
	queries.RegisterHandler[BookingFeedQuery, BookingFeed](queryBus, bookingFeedKey, &BookingFeedHandler{UoWFactory: factory})
	queries.RegisterHandler[HostStatsQuery, dto.HostStats](queryBus, hostStatsKey, &HostStatsHandler{UoWFactory: factory, Clock: clock})
	h.queries = middleware.ChainQueries(queryBus,
		middleware.RequireViewer(),
		middleware.QueryValidation(middleware.NewStructValidator()),
	)
	return h
}

func (h *harness) seedListing(t *testing.T, id string, published bool, windows ...daterange.DateRange) {
	t.Helper()
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:    domainlistings.ListingID(id),
		Owner: host,
		Title: "Beach house",
		Price: money.Must(10000, money.DefaultCurrency),
		Now:   today.AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	if published {
		w, err := domainavailability.NewWindows(windows)
		require.NoError(t, err)
		listing.Publish(w, today.AddDate(0, -1, 0))
	}
	require.NoError(t, h.listings.Save(context.Background(), listing))
}

func (h *harness) request(guestID, listingID, start, end string) (*RequestBookingResult, error) {
	return commands.Dispatch[RequestBookingCommand, *RequestBookingResult](context.Background(), h.commands, RequestBookingCommand{
		GuestID:   guestID,
		ListingID: listingID,
		Range:     daterange.Raw{Start: start, End: end},
	})
}

func (h *harness) status(t *testing.T, id string) domainbooking.Status {
	t.Helper()
	b, err := h.bookings.ByID(context.Background(), domainbooking.BookingID(id))
	require.NoError(t, err)
	return b.Status
}

func span(t *testing.T, start, end string) daterange.DateRange {
	t.Helper()
	r, err := daterange.Normalize(daterange.Raw{Start: start, End: end})
	require.NoError(t, err)
	return r
}

func TestDeclineFreesOverlappingDates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-10"))

	first, err := h.request(guest, "L", "2025-01-03", "2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, h.status(t, first.BookingID))

	_, err = h.request(other, "L", "2025-01-04", "2025-01-06")
	require.Error(t, err)
	assert.True(t, apperr.IsInput(err))
	assert.ErrorIs(t, err, domainbooking.ErrOverlap)

	declined, err := commands.Dispatch[DeclineBookingCommand, *BookingActionResult](ctx, h.commands, DeclineBookingCommand{HostID: host, BookingID: first.BookingID})
	require.NoError(t, err)
	assert.Equal(t, "declined", declined.Status)

	second, err := h.request(other, "L", "2025-01-04", "2025-01-06")
	require.NoError(t, err)
	assert.NotEqual(t, first.BookingID, second.BookingID)
	assert.Equal(t, domainbooking.StatusPending, h.status(t, second.BookingID))
}

func TestRequestRejections(t *testing.T) {
	h := newHarness(t)
	h.seedListing(t, "L", true, span(t, "2024-12-01", "2025-01-10"))
	h.seedListing(t, "hidden", false)

	cases := []struct {
		name     string
		listing  string
		start    string
		end      string
		sentinel error
	}{
		{"start in the past", "L", "2024-12-19", "2024-12-22", domainbooking.ErrPastDate},
		{"past wins over availability", "L", "2024-11-01", "2024-11-02", domainbooking.ErrPastDate},
		{"outside availability", "L", "2025-01-08", "2025-01-12", domainbooking.ErrOutsideAvailability},
		{"unpublished listing", "hidden", "2025-01-02", "2025-01-03", domainbooking.ErrOutsideAvailability},
		{"reversed range", "L", "2025-01-05", "2025-01-03", daterange.ErrInvalidRange},
		{"malformed date", "L", "2025-13-01", "2025-01-03", daterange.ErrInvalidDate},
		{"unknown listing", "nope", "2025-01-02", "2025-01-03", domainlistings.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.request(guest, tc.listing, tc.start, tc.end)
			require.Error(t, err)
			assert.True(t, apperr.IsInput(err), "want input error, got %v", err)
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}

	all, err := h.bookings.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, h.outbox.Pending())
}

func TestRequestAllowsTodayAndRequiresGuest(t *testing.T) {
	h := newHarness(t)
	h.seedListing(t, "L", true, span(t, "2024-12-01", "2025-01-10"))

	_, err := h.request(guest, "L", "2024-12-20", "2024-12-20")
	require.NoError(t, err)

	_, err = h.request("", "L", "2024-12-22", "2024-12-23")
	assert.True(t, apperr.IsAccess(err))
}

func TestRequestQuotesNightsWhenTotalMissing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-31"))

	res, err := h.request(guest, "L", "2025-01-03", "2025-01-06")
	require.NoError(t, err)
	b, err := h.bookings.ByID(ctx, domainbooking.BookingID(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, int64(30000), b.TotalPrice.Amount)

	sameDay, err := h.request(guest, "L", "2025-01-10", "2025-01-10")
	require.NoError(t, err)
	b, err = h.bookings.ByID(ctx, domainbooking.BookingID(sameDay.BookingID))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), b.TotalPrice.Amount)

	total := 123.45
	explicit, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](ctx, h.commands, RequestBookingCommand{
		GuestID:    guest,
		ListingID:  "L",
		Range:      daterange.Raw{Start: "2025-01-20", End: "2025-01-22"},
		TotalPrice: &total,
	})
	require.NoError(t, err)
	b, err = h.bookings.ByID(ctx, domainbooking.BookingID(explicit.BookingID))
	require.NoError(t, err)
	assert.Equal(t, int64(12345), b.TotalPrice.Amount)

	negative := -1.0
	_, err = commands.Dispatch[RequestBookingCommand, *RequestBookingResult](ctx, h.commands, RequestBookingCommand{
		GuestID:    guest,
		ListingID:  "L",
		Range:      daterange.Raw{Start: "2025-01-25", End: "2025-01-26"},
		TotalPrice: &negative,
	})
	assert.True(t, apperr.IsInput(err))
}

func TestRequestReplaysIdempotencyKey(t *testing.T) {
	h := newHarness(t)
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-10"))
	cmd := RequestBookingCommand{
		GuestID:         guest,
		ListingID:       "L",
		Range:           daterange.Raw{Start: "2025-01-02", End: "2025-01-03"},
		IdempotencyKeyV: "retry-1",
	}

	first, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](context.Background(), h.commands, cmd)
	require.NoError(t, err)
	again, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](context.Background(), h.commands, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.BookingID, again.BookingID)

	all, err := h.bookings.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// slowLookupStore widens the gap between a key miss and the handler running.
type slowLookupStore struct {
	*memory.IdempotencyStore
	delay time.Duration
}

func (s slowLookupStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	time.Sleep(s.delay)
	return s.IdempotencyStore.Get(ctx, key)
}

func TestConcurrentRetriesShareOneOutcome(t *testing.T) {
	h := newHarnessWithStore(t, slowLookupStore{IdempotencyStore: memory.NewIdempotencyStore(time.Hour), delay: 20 * time.Millisecond})
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-10"))
	cmd := RequestBookingCommand{
		GuestID:         guest,
		ListingID:       "L",
		Range:           daterange.Raw{Start: "2025-01-02", End: "2025-01-04"},
		IdempotencyKeyV: "k1",
	}

	const retries = 4
	ids := make([]string, retries)
	errs := make([]error, retries)
	var wg sync.WaitGroup
	for i := 0; i < retries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](context.Background(), h.commands, cmd)
			errs[i] = err
			if res != nil {
				ids[i] = res.BookingID
			}
		}(i)
	}
	wg.Wait()
	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	again, err := commands.Dispatch[RequestBookingCommand, *RequestBookingResult](context.Background(), h.commands, cmd)
	require.NoError(t, err)
	assert.Equal(t, ids[0], again.BookingID)

	all, err := h.bookings.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConcurrentOverlappingRequestsAdmitOne(t *testing.T) {
	h := newHarness(t)
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-31"))

	const guests = 16
	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		overlaps atomic.Int32
	)
	for i := 0; i < guests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every range covers 2025-01-10
			start := fmt.Sprintf("2025-01-%02d", 3+i%7)
			_, err := h.request(fmt.Sprintf("guest%d@example.com", i), "L", start, "2025-01-12")
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, domainbooking.ErrOverlap):
				overlaps.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, accepted.Load())
	assert.EqualValues(t, guests-1, overlaps.Load())
	items, err := h.bookings.ListByListing(context.Background(), "L")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAcceptAndDeclineGuards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-10"))
	res, err := h.request(guest, "L", "2025-01-02", "2025-01-04")
	require.NoError(t, err)

	_, err = commands.Dispatch[AcceptBookingCommand, *BookingActionResult](ctx, h.commands, AcceptBookingCommand{HostID: guest, BookingID: res.BookingID})
	assert.True(t, apperr.IsAccess(err))
	assert.ErrorIs(t, err, domainlistings.ErrNotOwner)
	assert.Equal(t, domainbooking.StatusPending, h.status(t, res.BookingID))

	accepted, err := commands.Dispatch[AcceptBookingCommand, *BookingActionResult](ctx, h.commands, AcceptBookingCommand{HostID: host, BookingID: res.BookingID})
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.Status)

	_, err = commands.Dispatch[DeclineBookingCommand, *BookingActionResult](ctx, h.commands, DeclineBookingCommand{HostID: host, BookingID: res.BookingID})
	assert.True(t, apperr.IsInput(err))
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)

	_, err = commands.Dispatch[AcceptBookingCommand, *BookingActionResult](ctx, h.commands, AcceptBookingCommand{HostID: host, BookingID: res.BookingID})
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)
	assert.Equal(t, domainbooking.StatusAccepted, h.status(t, res.BookingID))

	_, err = commands.Dispatch[AcceptBookingCommand, *BookingActionResult](ctx, h.commands, AcceptBookingCommand{HostID: host, BookingID: "missing"})
	assert.True(t, apperr.IsInput(err))
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)

	_, err = h.request(other, "L", "2025-01-03", "2025-01-05")
	assert.ErrorIs(t, err, domainbooking.ErrOverlap)
}

func TestRemoveBooking(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-10"))
	byGuest, err := h.request(guest, "L", "2025-01-02", "2025-01-03")
	require.NoError(t, err)
	byHost, err := h.request(guest, "L", "2025-01-05", "2025-01-06")
	require.NoError(t, err)

	_, err = commands.Dispatch[RemoveBookingCommand, *BookingActionResult](ctx, h.commands, RemoveBookingCommand{ActorUserID: other, BookingID: byGuest.BookingID})
	assert.True(t, apperr.IsAccess(err))

	_, err = commands.Dispatch[RemoveBookingCommand, *BookingActionResult](ctx, h.commands, RemoveBookingCommand{ActorUserID: guest, BookingID: byGuest.BookingID})
	require.NoError(t, err)
	_, err = commands.Dispatch[AcceptBookingCommand, *BookingActionResult](ctx, h.commands, AcceptBookingCommand{HostID: host, BookingID: byGuest.BookingID})
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)

	_, err = commands.Dispatch[AcceptBookingCommand, *BookingActionResult](ctx, h.commands, AcceptBookingCommand{HostID: host, BookingID: byHost.BookingID})
	require.NoError(t, err)
	_, err = commands.Dispatch[RemoveBookingCommand, *BookingActionResult](ctx, h.commands, RemoveBookingCommand{ActorUserID: host, BookingID: byHost.BookingID})
	require.NoError(t, err)

	all, err := h.bookings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	again, err := h.request(other, "L", "2025-01-02", "2025-01-06")
	require.NoError(t, err)
	assert.NotEmpty(t, again.BookingID)
}

func TestBlockingBookingsNeverOverlap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-31"))
	attempts := [][2]string{
		{"2025-01-01", "2025-01-05"},
		{"2025-01-05", "2025-01-07"},
		{"2025-01-06", "2025-01-08"},
		{"2025-01-10", "2025-01-12"},
		{"2025-01-01", "2025-01-31"},
		{"2025-01-12", "2025-01-12"},
		{"2025-01-13", "2025-01-13"},
	}
	for _, a := range attempts {
		_, _ = h.request(guest, "L", a[0], a[1])
	}

	items, err := h.bookings.ListByListing(ctx, "L")
	require.NoError(t, err)
	require.Len(t, items, 4)
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			assert.False(t, items[i].Range.Overlaps(items[j].Range), "%s overlaps %s", items[i].Range, items[j].Range)
		}
	}
}

func TestRequestQueuesDomainEvent(t *testing.T) {
	h := newHarness(t)
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-10"))
	_, err := h.request(guest, "L", "2025-01-02", "2025-01-03")
	require.NoError(t, err)

	entry, err := h.outbox.Claim(context.Background(), "test")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "booking.requested", entry.Record.Name)
	assert.Equal(t, "b1", entry.Record.Aggregate)
}

func TestLedgerScopes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2025-01-01", "2025-01-20"))
	mine, err := h.request(guest, "L", "2025-01-02", "2025-01-03")
	require.NoError(t, err)
	theirs, err := h.request(other, "L", "2025-01-05", "2025-01-06")
	require.NoError(t, err)

	asGuest, err := queries.Ask[ListBookingsQuery, dto.BookingCollection](ctx, h.queries, ListBookingsQuery{UserID: guest, Role: RoleGuest})
	require.NoError(t, err)
	require.Len(t, asGuest.Bookings, 1)
	assert.Equal(t, mine.BookingID, asGuest.Bookings[0].ID)
	assert.Equal(t, guest, asGuest.Bookings[0].Owner)

	asHost, err := queries.Ask[ListBookingsQuery, dto.BookingCollection](ctx, h.queries, ListBookingsQuery{UserID: host, Role: RoleHost})
	require.NoError(t, err)
	assert.Len(t, asHost.Bookings, 2)

	visible, err := queries.Ask[ListBookingsQuery, dto.BookingCollection](ctx, h.queries, ListBookingsQuery{UserID: other})
	require.NoError(t, err)
	require.Len(t, visible.Bookings, 1)
	assert.Equal(t, theirs.BookingID, visible.Bookings[0].ID)

	_, err = queries.Ask[ListBookingsQuery, dto.BookingCollection](ctx, h.queries, ListBookingsQuery{UserID: guest, Role: "admin"})
	assert.True(t, apperr.IsInput(err))

	_, err = queries.Ask[ListBookingsQuery, dto.BookingCollection](ctx, h.queries, ListBookingsQuery{})
	assert.True(t, apperr.IsAccess(err))

	one, err := queries.Ask[GetBookingQuery, dto.Booking](ctx, h.queries, GetBookingQuery{UserID: host, BookingID: mine.BookingID})
	require.NoError(t, err)
	assert.Equal(t, "pending", one.Status)

	_, err = queries.Ask[GetBookingQuery, dto.Booking](ctx, h.queries, GetBookingQuery{UserID: other, BookingID: mine.BookingID})
	assert.True(t, apperr.IsAccess(err))

	feed, err := queries.Ask[BookingFeedQuery, BookingFeed](ctx, h.queries, BookingFeedQuery{UserID: host})
	require.NoError(t, err)
	assert.Empty(t, feed.Guest)
	assert.Len(t, feed.Host, 2)
}

func TestHostStatsSpreadsProfitPerNight(t *testing.T) {
	items := []*domainbooking.Booking{}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         "x",
		ListingID:  "L",
		GuestID:    guest,
		Range:      span(t, "2024-12-17", "2024-12-20"),
		TotalPrice: money.Must(10000, money.DefaultCurrency),
		CreatedAt:  today,
	})
	require.NoError(t, err)
	require.NoError(t, b.Accept(today))
	items = append(items, b)

	stats := summarize("L", 2024, daterange.DateOf(today), items)
	for _, ago := range []int{3, 2, 1} {
		assert.InDelta(t, 33.33, stats.Last30Days[ago].Profit, 0.001, "day %d", ago)
	}
	assert.Zero(t, stats.Last30Days[0].Profit)
	assert.InDelta(t, 100.0, stats.Profit, 0.001)
}

func TestHostStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedListing(t, "L", true, span(t, "2024-12-01", "2025-02-28"))

	seed := func(id, start, end string, status domainbooking.Status, cents int64) {
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID:         domainbooking.BookingID(id),
			ListingID:  "L",
			GuestID:    guest,
			Range:      span(t, start, end),
			TotalPrice: money.Must(cents, money.DefaultCurrency),
			CreatedAt:  today,
		})
		require.NoError(t, err)
		switch status {
		case domainbooking.StatusAccepted:
			require.NoError(t, b.Accept(today))
		case domainbooking.StatusDeclined:
			require.NoError(t, b.Decline(today))
		}
		require.NoError(t, h.bookings.Save(ctx, b))
	}
	seed("a1", "2024-12-10", "2024-12-12", domainbooking.StatusAccepted, 30000)
	seed("a2", "2024-12-20", "2024-12-20", domainbooking.StatusAccepted, 10000)
	seed("a3", "2025-01-05", "2025-01-06", domainbooking.StatusAccepted, 20000)
	seed("d1", "2024-12-14", "2024-12-15", domainbooking.StatusDeclined, 50000)
	seed("p1", "2025-02-01", "2025-02-02", domainbooking.StatusPending, 20000)

	stats, err := queries.Ask[HostStatsQuery, dto.HostStats](ctx, h.queries, HostStatsQuery{HostID: host, ListingID: "L"})
	require.NoError(t, err)
	assert.Equal(t, 2024, stats.Year)
	assert.Equal(t, 4, stats.BookedDays)
	assert.InDelta(t, 400.0, stats.Profit, 0.001)
	assert.Equal(t, 1, stats.PendingRequests)
	require.Len(t, stats.Last30Days, 31)
	assert.InDelta(t, 100.0, stats.Last30Days[0].Profit, 0.001)
	// a1 spans two nights, so its 300 lands as 150 on each
	assert.InDelta(t, 150.0, stats.Last30Days[10].Profit, 0.001)
	assert.InDelta(t, 150.0, stats.Last30Days[9].Profit, 0.001)
	assert.Zero(t, stats.Last30Days[8].Profit)

	next, err := queries.Ask[HostStatsQuery, dto.HostStats](ctx, h.queries, HostStatsQuery{HostID: host, ListingID: "L", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 2, next.BookedDays)
	assert.InDelta(t, 200.0, next.Profit, 0.001)

	_, err = queries.Ask[HostStatsQuery, dto.HostStats](ctx, h.queries, HostStatsQuery{HostID: guest, ListingID: "L"})
	assert.True(t, apperr.IsAccess(err))
}
