package listings

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/handlers/availability"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/uow"
	domainlistings "airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
)

const (
	createListingKey    = "listings.create"
	updateListingKey    = "listings.update"
	publishListingKey   = "listings.publish"
	unpublishListingKey = "listings.unpublish"
)

type ListingDetails struct {
	Title   string  `validate:"required,max=200"`
	Address string  `validate:"max=500"`
	Price   float64 `validate:"gte=0"`
}

type CreateListingCommand struct {
	HostID  string
	Details ListingDetails
}

func (c CreateListingCommand) Key() string     { return createListingKey }
func (c CreateListingCommand) ActorID() string { return c.HostID }

type CreateListingResult struct {
	ListingID string `json:"listingId"`
}

// Host groups what every owner-side handler needs.
type Host struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Clock   func() time.Time
}

func (h Host) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

// owned loads a listing and checks hostID owns it.
func (h Host) owned(ctx context.Context, unit uow.UnitOfWork, hostID, listingID string) (*domainlistings.Listing, error) {
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(strings.TrimSpace(listingID)))
	if err != nil {
		return nil, support.Classify(err)
	}
	if !listing.OwnedBy(domainlistings.HostID(hostID)) {
		return nil, apperr.Access(domainlistings.ErrNotOwner)
	}
	return listing, nil
}

func (h Host) save(ctx context.Context, unit uow.UnitOfWork, listing *domainlistings.Listing) error {
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return err
	}
	return outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, listing.Drain())
}

type CreateListingHandler struct {
	Host
	NewID func() string
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*CreateListingResult, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	price, err := money.FromFloat(cmd.Details.Price)
	if err != nil {
		return nil, apperr.Input(err)
	}
	newID := h.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:      domainlistings.ListingID(newID()),
		Owner:   domainlistings.HostID(cmd.HostID),
		Title:   cmd.Details.Title,
		Address: cmd.Details.Address,
		Price:   price,
		Now:     h.now(),
	})
	if err != nil {
		return nil, support.Classify(err)
	}
	if err := h.save(ctx, unit, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing created", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	return &CreateListingResult{ListingID: string(listing.ID)}, nil
}

type UpdateListingCommand struct {
	HostID    string
	ListingID string `validate:"required"`
	Details   ListingDetails
}

func (c UpdateListingCommand) Key() string     { return updateListingKey }
func (c UpdateListingCommand) ActorID() string { return c.HostID }

type UpdateListingHandler struct {
	Host
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*struct{}, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := h.owned(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	price, err := money.FromFloat(cmd.Details.Price)
	if err != nil {
		return nil, apperr.Input(err)
	}
	if err := listing.UpdateDetails(cmd.Details.Title, cmd.Details.Address, price, h.now()); err != nil {
		return nil, support.Classify(err)
	}
	if err := h.save(ctx, unit, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing updated", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	return &struct{}{}, nil
}

type PublishListingCommand struct {
	HostID       string
	ListingID    string `validate:"required"`
	Availability []daterange.Raw
}

func (c PublishListingCommand) Key() string     { return publishListingKey }
func (c PublishListingCommand) ActorID() string { return c.HostID }

// PublishListingHandler replaces the whole availability set and makes the listing
// bookable. Nothing is written when any range is malformed or two ranges overlap.
type PublishListingHandler struct {
	Host
	Availability availability.Store
}

func (h *PublishListingHandler) Handle(ctx context.Context, cmd PublishListingCommand) (*struct{}, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := h.owned(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	ranges := make([]daterange.DateRange, 0, len(cmd.Availability))
	for _, raw := range cmd.Availability {
		r, err := daterange.Normalize(raw)
		if err != nil {
			return nil, apperr.Input(err)
		}
		ranges = append(ranges, r)
	}
	windows, err := h.Availability.SetAvailability(ranges)
	if err != nil {
		return nil, err
	}
	listing.Publish(windows, h.now())
	if err := h.save(ctx, unit, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing published", "listing_id", listing.ID, "host_id", cmd.HostID, "windows", len(windows))
	}
	return &struct{}{}, nil
}

type UnpublishListingCommand struct {
	HostID    string
	ListingID string `validate:"required"`
}

func (c UnpublishListingCommand) Key() string     { return unpublishListingKey }
func (c UnpublishListingCommand) ActorID() string { return c.HostID }

type UnpublishListingHandler struct {
	Host
}

func (h *UnpublishListingHandler) Handle(ctx context.Context, cmd UnpublishListingCommand) (*struct{}, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	listing, err := h.owned(ctx, unit, cmd.HostID, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	listing.Unpublish(h.now())
	if err := h.save(ctx, unit, listing); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("listing unpublished", "listing_id", listing.ID, "host_id", cmd.HostID)
	}
	return &struct{}{}, nil
}

var _ commands.Handler[CreateListingCommand, *CreateListingResult] = (*CreateListingHandler)(nil)
var _ commands.Handler[UpdateListingCommand, *struct{}] = (*UpdateListingHandler)(nil)
var _ commands.Handler[PublishListingCommand, *struct{}] = (*PublishListingHandler)(nil)
var _ commands.Handler[UnpublishListingCommand, *struct{}] = (*UnpublishListingHandler)(nil)
