package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
)

const (
	acceptBookingKey  = "booking.accept"
	declineBookingKey = "booking.decline"
	removeBookingKey  = "booking.remove"
)

type AcceptBookingCommand struct {
	HostID    string
	BookingID string `validate:"required"`
}

func (c AcceptBookingCommand) Key() string     { return acceptBookingKey }
func (c AcceptBookingCommand) ActorID() string { return c.HostID }

type DeclineBookingCommand struct {
	HostID    string
	BookingID string `validate:"required"`
}

func (c DeclineBookingCommand) Key() string     { return declineBookingKey }
func (c DeclineBookingCommand) ActorID() string { return c.HostID }

// RemoveBookingCommand deletes the record. Either the guest or the listing owner may remove it.
type RemoveBookingCommand struct {
	ActorUserID string
	BookingID   string `validate:"required"`
}

func (c RemoveBookingCommand) Key() string     { return removeBookingKey }
func (c RemoveBookingCommand) ActorID() string { return c.ActorUserID }

type BookingActionResult struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

// Lifecycle carries what the transition handlers share.
type Lifecycle struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Clock   func() time.Time
}

func (l Lifecycle) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}

// load returns the booking and, when it still exists, its listing.
func (l Lifecycle) load(ctx context.Context, unit uow.UnitOfWork, id string) (*domainbooking.Booking, *domainlistings.Listing, error) {
	booking, err := unit.Booking().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(id)))
	if err != nil {
		return nil, nil, support.Classify(err)
	}
	listing, err := unit.Listings().ByID(ctx, booking.ListingID)
	if err != nil {
		return booking, nil, support.Classify(err)
	}
	return booking, listing, nil
}

func (l Lifecycle) transition(ctx context.Context, hostID, bookingID string, apply func(*domainbooking.Booking, time.Time) error) (*domainbooking.Booking, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	booking, listing, err := l.load(ctx, unit, bookingID)
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.HostID(hostID)) {
		return nil, apperr.Access(domainlistings.ErrNotOwner)
	}
	if err := apply(booking, l.now()); err != nil {
		return nil, support.Classify(err)
	}
	if err := unit.Booking().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, l.Outbox, l.Encoder, booking.Drain()); err != nil {
		return nil, err
	}
	return booking, nil
}

type AcceptBookingHandler struct {
	Lifecycle
}

func (h *AcceptBookingHandler) Handle(ctx context.Context, cmd AcceptBookingCommand) (*BookingActionResult, error) {
	booking, err := h.transition(ctx, cmd.HostID, cmd.BookingID, (*domainbooking.Booking).Accept)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking accepted", "booking_id", booking.ID, "listing_id", booking.ListingID, "host_id", cmd.HostID)
	}
	return &BookingActionResult{BookingID: string(booking.ID), Status: string(booking.Status)}, nil
}

type DeclineBookingHandler struct {
	Lifecycle
}

func (h *DeclineBookingHandler) Handle(ctx context.Context, cmd DeclineBookingCommand) (*BookingActionResult, error) {
	booking, err := h.transition(ctx, cmd.HostID, cmd.BookingID, (*domainbooking.Booking).Decline)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking declined", "booking_id", booking.ID, "listing_id", booking.ListingID, "host_id", cmd.HostID)
	}
	return &BookingActionResult{BookingID: string(booking.ID), Status: string(booking.Status)}, nil
}

type RemoveBookingHandler struct {
	Lifecycle
}

func (h *RemoveBookingHandler) Handle(ctx context.Context, cmd RemoveBookingCommand) (*BookingActionResult, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	booking, listing, err := h.load(ctx, unit, cmd.BookingID)
	if booking == nil {
		return nil, err
	}
	actor := strings.TrimSpace(cmd.ActorUserID)
	isHost := listing != nil && listing.OwnedBy(domainlistings.HostID(actor))
	if !booking.BookedBy(actor) && !isHost {
		return nil, apperr.Accessf("booking %s is neither yours nor on your listing", booking.ID)
	}
	booking.MarkRemoved(actor, h.now())
	if err := unit.Booking().Delete(ctx, booking.ID); err != nil {
		return nil, support.Classify(err)
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking.Drain()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking removed", "booking_id", booking.ID, "listing_id", booking.ListingID, "actor_id", actor, "last_status", booking.Status)
	}
	return &BookingActionResult{BookingID: string(booking.ID), Status: string(booking.Status)}, nil
}

var _ commands.Handler[AcceptBookingCommand, *BookingActionResult] = (*AcceptBookingHandler)(nil)
var _ commands.Handler[DeclineBookingCommand, *BookingActionResult] = (*DeclineBookingHandler)(nil)
var _ commands.Handler[RemoveBookingCommand, *BookingActionResult] = (*RemoveBookingHandler)(nil)
