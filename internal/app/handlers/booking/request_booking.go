package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/middleware"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	GuestID    string
	ListingID  string `validate:"required"`
	Range      daterange.Raw
	TotalPrice *float64 `validate:"omitempty,gte=0"`

	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) ActorID() string { return c.GuestID }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string `json:"bookingId"`
}

type RequestBookingHandler struct {
	Validator ConflictValidator
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Logger    *slog.Logger
	Clock     func() time.Time
	NewID     func() string
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	candidate, err := daterange.Normalize(cmd.Range)
	if err != nil {
		return nil, apperr.Input(err)
	}
	now := h.now()
	listingID := domainlistings.ListingID(cmd.ListingID)
	if err := h.Validator.Validate(ctx, listingID, candidate, daterange.DateOf(now)); err != nil {
		return nil, err
	}

	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		return nil, support.Classify(err)
	}
	total, err := quote(listing, candidate, cmd.TotalPrice)
	if err != nil {
		return nil, apperr.Input(err)
	}

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(h.newID()),
		ListingID:  listing.ID,
		GuestID:    cmd.GuestID,
		Range:      candidate,
		TotalPrice: total,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, support.Classify(err)
	}
	if err := unit.Booking().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking.Drain()); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking requested",
			"booking_id", booking.ID,
			"listing_id", booking.ListingID,
			"guest_id", booking.GuestID,
			"range", booking.Range.String(),
		)
	}
	return &RequestBookingResult{BookingID: string(booking.ID)}, nil
}

// quote uses the client's total when given, else nights times the nightly price.
// A same-day stay is charged as one night.
func quote(listing *domainlistings.Listing, stay daterange.DateRange, requested *float64) (money.Money, error) {
	if requested != nil {
		amount, err := money.FromFloat(*requested)
		if err != nil {
			return money.Money{}, err
		}
		if listing.Price.Currency != "" {
			amount.Currency = listing.Price.Currency
		}
		return amount, nil
	}
	nights := stay.Nights()
	if nights < 1 {
		nights = 1
	}
	return listing.Price.Multiply(int64(nights)), nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

func (h *RequestBookingHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
