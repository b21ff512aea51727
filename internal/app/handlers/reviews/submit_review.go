package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"airbrb/internal/app/commands"
	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
)

const submitReviewKey = "reviews.submit"

// SubmitReviewCommand leaves or revises the review of one accepted booking.
type SubmitReviewCommand struct {
	AuthorID  string
	ListingID string `validate:"required"`
	BookingID string `validate:"required"`
	Rating    int    `validate:"min=1,max=5"`
	Comment   string `validate:"max=2000"`
}

func (c SubmitReviewCommand) Key() string     { return submitReviewKey }
func (c SubmitReviewCommand) ActorID() string { return c.AuthorID }

type SubmitReviewHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Clock   func() time.Time
	NewID   func() string
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*dto.Review, error) {
	unit, err := uow.Current(ctx)
	if err != nil {
		return nil, err
	}
	listingID := domainlistings.ListingID(strings.TrimSpace(cmd.ListingID))
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, support.Classify(err)
	}
	booking, err := unit.Booking().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return nil, support.Classify(err)
	}

	now := h.now()
	review, err := unit.Reviews().ByBooking(ctx, booking.ID)
	switch {
	case err == nil:
		if err := domainreviews.CanReview(booking, listingID, cmd.AuthorID); err != nil {
			return nil, support.Classify(err)
		}
		if err := review.Revise(cmd.Rating, cmd.Comment, now); err != nil {
			return nil, support.Classify(err)
		}
	case errors.Is(err, domainreviews.ErrNotFound):
		review, err = domainreviews.Submit(domainreviews.SubmitParams{
			ID:        domainreviews.ReviewID(h.newID()),
			Booking:   booking,
			ListingID: listingID,
			AuthorID:  cmd.AuthorID,
			Rating:    cmd.Rating,
			Comment:   cmd.Comment,
			Now:       now,
		})
		if err != nil {
			return nil, support.Classify(err)
		}
	default:
		return nil, err
	}

	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, review.Drain()); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("review saved", "review_id", review.ID, "booking_id", review.BookingID, "listing_id", review.ListingID, "rating", review.Rating)
	}
	out := dto.MapReview(review)
	return &out, nil
}

func (h *SubmitReviewHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

func (h *SubmitReviewHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

var _ commands.Handler[SubmitReviewCommand, *dto.Review] = (*SubmitReviewHandler)(nil)
