package reviews

import (
	"context"
	"strings"

	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/queries"
	"airbrb/internal/app/uow"
	domainlistings "airbrb/internal/domain/listings"
)

const listListingReviewsKey = "reviews.listing.list"

// ListListingReviewsQuery is public, like the listing it belongs to.
type ListListingReviewsQuery struct {
	ListingID string `validate:"required"`
}

func (q ListListingReviewsQuery) Key() string { return listListingReviewsKey }

type ListListingReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListListingReviewsHandler) Handle(ctx context.Context, q ListListingReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listingID := domainlistings.ListingID(strings.TrimSpace(q.ListingID))
	if _, err := unit.Listings().ByID(execCtx, listingID); err != nil {
		return dto.ReviewCollection{}, support.Classify(err)
	}
	items, err := unit.Reviews().ListByListing(execCtx, listingID)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	return dto.MapReviews(items), nil
}

var _ queries.Handler[ListListingReviewsQuery, dto.ReviewCollection] = (*ListListingReviewsHandler)(nil)
