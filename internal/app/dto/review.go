package dto

import (
	"time"

	domainreviews "airbrb/internal/domain/reviews"
)

type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	PostedOn  time.Time `json:"postedOn"`
}

// ReviewCollection carries a listing's reviews and the star breakdown, Counts[0] being
// one-star reviews.
type ReviewCollection struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
	Average float64  `json:"average"`
	Counts  [5]int   `json:"counts"`
}

func MapReview(r *domainreviews.Review) Review {
	return Review{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		Author:    r.AuthorID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		PostedOn:  r.UpdatedAt,
	}
}

func MapReviews(items []*domainreviews.Review) ReviewCollection {
	out := make([]Review, 0, len(items))
	for _, r := range items {
		out = append(out, MapReview(r))
	}
	summary := domainreviews.Summarize(items)
	return ReviewCollection{Reviews: out, Total: summary.Total, Average: summary.Average, Counts: summary.Counts}
}
