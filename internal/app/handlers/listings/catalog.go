package listings

import (
	"context"
	"strings"

	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/queries"
	"airbrb/internal/app/uow"
	domainlistings "airbrb/internal/domain/listings"
)

const (
	listListingsKey = "listings.list"
	getListingKey   = "listings.get"
)

// ListListingsQuery is public; Owner narrows to one host's listings.
type ListListingsQuery struct {
	Owner         string
	PublishedOnly bool
}

func (q ListListingsQuery) Key() string { return listListingsKey }

type ListListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListListingsHandler) Handle(ctx context.Context, q ListListingsQuery) (dto.ListingCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Listings().List(execCtx, domainlistings.Filter{
		Owner:         domainlistings.HostID(strings.TrimSpace(q.Owner)),
		PublishedOnly: q.PublishedOnly,
	})
	if err != nil {
		return dto.ListingCollection{}, err
	}
	return dto.MapListings(items), nil
}

type GetListingQuery struct {
	ListingID string `validate:"required"`
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.Listing, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Listing{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(strings.TrimSpace(q.ListingID)))
	if err != nil {
		return dto.Listing{}, support.Classify(err)
	}
	reviews, err := unit.Reviews().ListByListing(execCtx, listing.ID)
	if err != nil {
		return dto.Listing{}, err
	}
	out := dto.MapListing(listing)
	out.Reviews = dto.MapReviews(reviews).Reviews
	return out, nil
}

var _ queries.Handler[ListListingsQuery, dto.ListingCollection] = (*ListListingsHandler)(nil)
var _ queries.Handler[GetListingQuery, dto.Listing] = (*GetListingHandler)(nil)
