package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"airbrb/internal/domain/availability"
	"airbrb/internal/domain/shared/events"
	"airbrb/internal/domain/shared/money"
)

var (
	ErrIDRequired    = errors.New("listings: id is required")
	ErrOwnerRequired = errors.New("listings: owner is required")
	ErrTitleRequired = errors.New("listings: title is required")
	ErrNotFound      = errors.New("listings: not found")
	ErrNotOwner      = errors.New("listings: caller does not own this listing")
)

type ListingID string

// HostID identifies the user owning a listing.
type HostID string

type Listing struct {
	ID           ListingID
	Owner        HostID
	Title        string
	Address      string
	Price        money.Money
	Published    bool
	Availability availability.Windows
	PostedAt     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.EventRecorder
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Owner         HostID
	PublishedOnly bool
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	List(ctx context.Context, filter Filter) ([]*Listing, error)
}

type CreateParams struct {
	ID      ListingID
	Owner   HostID
	Title   string
	Address string
	Price   money.Money
	Now     time.Time
}

// NewListing creates an unpublished listing with no availability.
func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.Price.Amount < 0 {
		return nil, money.ErrNegativeAmount
	}
	now := params.Now.UTC()
	l := &Listing{
		ID:        params.ID,
		Owner:     params.Owner,
		Title:     strings.TrimSpace(params.Title),
		Address:   strings.TrimSpace(params.Address),
		Price:     params.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Record(ListingCreatedEvent{ListingID: l.ID, Owner: l.Owner, At: now})
	return l, nil
}

func (l *Listing) OwnedBy(host HostID) bool {
	return host != "" && l.Owner == host
}

func (l *Listing) UpdateDetails(title, address string, price money.Money, now time.Time) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if price.Amount < 0 {
		return money.ErrNegativeAmount
	}
	l.Title = strings.TrimSpace(title)
	l.Address = strings.TrimSpace(address)
	l.Price = price
	l.UpdatedAt = now.UTC()
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// Publish replaces the whole availability set and marks the listing visible.
func (l *Listing) Publish(windows availability.Windows, now time.Time) {
	l.Availability = append(availability.Windows(nil), windows...)
	l.Published = true
	l.PostedAt = now.UTC()
	l.UpdatedAt = l.PostedAt
	l.Record(ListingPublishedEvent{ListingID: l.ID, Owner: l.Owner, Windows: len(l.Availability), At: l.PostedAt})
}

// Unpublish hides the listing; availability is kept for a later republish.
func (l *Listing) Unpublish(now time.Time) {
	l.Published = false
	l.UpdatedAt = now.UTC()
	l.Record(ListingUnpublishedEvent{ListingID: l.ID, Owner: l.Owner, At: l.UpdatedAt})
}
