package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/events"
	"airbrb/internal/domain/shared/money"
)

var (
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrNotFound        = errors.New("booking: not found")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrListingRequired = errors.New("booking: listing id required")
)

type BookingID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Terminal statuses admit no further transition, only removal.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Blocking statuses hold their dates against other requests.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusAccepted
}

type Booking struct {
	ID         BookingID
	ListingID  listings.ListingID
	GuestID    string
	Range      daterange.DateRange
	TotalPrice money.Money
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id BookingID) error
	List(ctx context.Context) ([]*Booking, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}

type CreateParams struct {
	ID         BookingID
	ListingID  listings.ListingID
	GuestID    string
	Range      daterange.DateRange
	TotalPrice money.Money
	CreatedAt  time.Time
}

// NewBooking builds a pending booking. Conflict checks are the caller's job.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id required")
	}
	if strings.TrimSpace(params.GuestID) == "" {
		return nil, ErrGuestRequired
	}
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.TotalPrice.Amount < 0 {
		return nil, money.ErrNegativeAmount
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		ListingID:  params.ListingID,
		GuestID:    params.GuestID,
		Range:      params.Range,
		TotalPrice: params.TotalPrice,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, Range: b.Range, TotalPrice: b.TotalPrice.Amount, At: now})
	return b, nil
}

func (b *Booking) Accept(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusAccepted
	b.UpdatedAt = now.UTC()
	b.Record(BookingAccepted{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Decline(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusDeclined
	b.UpdatedAt = now.UTC()
	b.Record(BookingDeclined{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, At: b.UpdatedAt})
	return nil
}

// MarkRemoved records the removal; deleting the record is the repository's job.
func (b *Booking) MarkRemoved(actor string, now time.Time) {
	b.UpdatedAt = now.UTC()
	b.Record(BookingRemoved{BookingID: b.ID, ListingID: b.ListingID, RemovedBy: actor, LastStatus: b.Status, At: b.UpdatedAt})
}

func (b *Booking) BookedBy(guestID string) bool {
	return guestID != "" && b.GuestID == guestID
}
