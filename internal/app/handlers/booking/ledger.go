package booking

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/queries"
	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
)

const (
	listBookingsKey = "booking.list"
	getBookingKey   = "booking.get"
	bookingFeedKey  = "booking.feed"

	RoleGuest = "guest"
	RoleHost  = "host"
)

// Ledger is the read side of bookings. Every method reads from the unit of work in ctx.
type Ledger struct{}

func (Ledger) unit(ctx context.Context) (uow.UnitOfWork, error) {
	return uow.Current(ctx)
}

func (l Ledger) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	unit, err := l.unit(ctx)
	if err != nil {
		return nil, err
	}
	return unit.Booking().ListByListing(ctx, listingID)
}

func (l Ledger) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	unit, err := l.unit(ctx)
	if err != nil {
		return nil, err
	}
	return unit.Booking().ListByGuest(ctx, guestID)
}

// ListByHost joins the host's listings against the ledger.
func (l Ledger) ListByHost(ctx context.Context, hostID string) ([]*domainbooking.Booking, error) {
	unit, err := l.unit(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := unit.Listings().List(ctx, domainlistings.Filter{Owner: domainlistings.HostID(hostID)})
	if err != nil {
		return nil, err
	}
	out := make([]*domainbooking.Booking, 0)
	for _, listing := range owned {
		items, err := unit.Booking().ListByListing(ctx, listing.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	sortByCreation(out)
	return out, nil
}

func (l Ledger) Get(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	unit, err := l.unit(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Booking().ByID(ctx, id)
	if err != nil {
		return nil, support.Classify(err)
	}
	return b, nil
}

// Visible returns the bookings where userID is the guest or the listing owner.
func (l Ledger) Visible(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	asGuest, asHost, err := l.Split(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[domainbooking.BookingID]struct{}, len(asGuest)+len(asHost))
	out := make([]*domainbooking.Booking, 0, len(asGuest)+len(asHost))
	for _, b := range append(asGuest, asHost...) {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	sortByCreation(out)
	return out, nil
}

// Split reads both views of a user in the same unit so they describe one moment.
func (l Ledger) Split(ctx context.Context, userID string) (asGuest, asHost []*domainbooking.Booking, err error) {
	asGuest, err = l.ListByGuest(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	asHost, err = l.ListByHost(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return asGuest, asHost, nil
}

func sortByCreation(items []*domainbooking.Booking) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

type ListBookingsQuery struct {
	UserID string
	Role   string `validate:"omitempty,oneof=guest host"`
}

func (q ListBookingsQuery) Key() string      { return listBookingsKey }
func (q ListBookingsQuery) ViewerID() string { return q.UserID }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Ledger     Ledger
	Logger     *slog.Logger
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (dto.BookingCollection, error) {
	_, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	var items []*domainbooking.Booking
	switch strings.ToLower(strings.TrimSpace(q.Role)) {
	case RoleGuest:
		items, err = h.Ledger.ListByGuest(execCtx, q.UserID)
	case RoleHost:
		items, err = h.Ledger.ListByHost(execCtx, q.UserID)
	default:
		items, err = h.Ledger.Visible(execCtx, q.UserID)
	}
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("bookings listed", "user_id", q.UserID, "role", q.Role, "count", len(items))
	}
	return dto.MapBookings(items), nil
}

type GetBookingQuery struct {
	UserID    string
	BookingID string `validate:"required"`
}

func (q GetBookingQuery) Key() string      { return getBookingKey }
func (q GetBookingQuery) ViewerID() string { return q.UserID }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
	Ledger     Ledger
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.Booking, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Booking{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	b, err := h.Ledger.Get(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	if !b.BookedBy(q.UserID) {
		listing, err := unit.Listings().ByID(execCtx, b.ListingID)
		if err != nil || !listing.OwnedBy(domainlistings.HostID(q.UserID)) {
			return dto.Booking{}, apperr.Accessf("booking %s is not visible to you", b.ID)
		}
	}
	return dto.MapBooking(b), nil
}

type BookingFeedQuery struct {
	UserID string
}

func (q BookingFeedQuery) Key() string      { return bookingFeedKey }
func (q BookingFeedQuery) ViewerID() string { return q.UserID }

// BookingFeed is what the notification poller needs from one tick.
type BookingFeed struct {
	Guest []dto.Booking `json:"guest"`
	Host  []dto.Booking `json:"host"`
}

type BookingFeedHandler struct {
	UoWFactory uow.UoWFactory
	Ledger     Ledger
}

func (h *BookingFeedHandler) Handle(ctx context.Context, q BookingFeedQuery) (BookingFeed, error) {
	_, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return BookingFeed{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	asGuest, asHost, err := h.Ledger.Split(execCtx, q.UserID)
	if err != nil {
		return BookingFeed{}, err
	}
	return BookingFeed{
		Guest: dto.MapBookings(asGuest).Bookings,
		Host:  dto.MapBookings(asHost).Bookings,
	}, nil
}

var _ queries.Handler[ListBookingsQuery, dto.BookingCollection] = (*ListBookingsHandler)(nil)
var _ queries.Handler[GetBookingQuery, dto.Booking] = (*GetBookingHandler)(nil)
var _ queries.Handler[BookingFeedQuery, BookingFeed] = (*BookingFeedHandler)(nil)
