package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"airbrb/internal/domain/booking"
	"airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/events"
)

const maxCommentLength = 2000

var (
	ErrInvalidRating   = errors.New("reviews: rating must be between 1 and 5")
	ErrCommentTooLong  = errors.New("reviews: comment too long")
	ErrNotFound        = errors.New("reviews: not found")
	ErrNotGuest        = errors.New("reviews: booking does not belong to the reviewer")
	ErrWrongListing    = errors.New("reviews: booking is for another listing")
	ErrNotAccepted     = errors.New("reviews: only accepted bookings can be reviewed")
)

type ReviewID string

// Review is a guest's rating of a listing, one per booking. Submitting again for the
// same booking revises it in place.
type Review struct {
	ID        ReviewID
	BookingID booking.BookingID
	ListingID listings.ListingID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Review, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	Booking   *booking.Booking
	ListingID listings.ListingID
	AuthorID  string
	Rating    int
	Comment   string
	Now       time.Time
}

// CanReview reports whether author may review listingID through b.
func CanReview(b *booking.Booking, listingID listings.ListingID, author string) error {
	if b.GuestID != author {
		return ErrNotGuest
	}
	if b.ListingID != listingID {
		return ErrWrongListing
	}
	if b.Status != booking.StatusAccepted {
		return ErrNotAccepted
	}
	return nil
}

func Submit(p SubmitParams) (*Review, error) {
	if err := CanReview(p.Booking, p.ListingID, p.AuthorID); err != nil {
		return nil, err
	}
	rating, comment, err := clean(p.Rating, p.Comment)
	if err != nil {
		return nil, err
	}
	now := p.Now.UTC()
	r := &Review{
		ID:        p.ID,
		BookingID: p.Booking.ID,
		ListingID: p.ListingID,
		AuthorID:  p.AuthorID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(ReviewSubmitted{ReviewID: r.ID, BookingID: r.BookingID, ListingID: r.ListingID, AuthorID: r.AuthorID, Rating: r.Rating, At: now})
	return r, nil
}

func (r *Review) Revise(rating int, comment string, now time.Time) error {
	rating, comment, err := clean(rating, comment)
	if err != nil {
		return err
	}
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = now.UTC()
	r.Record(ReviewRevised{ReviewID: r.ID, ListingID: r.ListingID, Rating: r.Rating, At: r.UpdatedAt})
	return nil
}

func clean(rating int, comment string) (int, string, error) {
	if rating < 1 || rating > 5 {
		return 0, "", ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return 0, "", ErrCommentTooLong
	}
	return rating, comment, nil
}

// Summary is the star breakdown shown next to a listing.
type Summary struct {
	Total   int
	Average float64
	Counts  [5]int
}

func Summarize(items []*Review) Summary {
	var s Summary
	sum := 0
	for _, r := range items {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		s.Counts[r.Rating-1]++
		sum += r.Rating
	}
	s.Total = len(items)
	if s.Total > 0 {
		s.Average = float64(sum) / float64(s.Total)
	}
	return s
}
