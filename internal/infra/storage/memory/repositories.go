package memory

import (
	"context"
	"sort"
	"sync"

	domainavailability "airbrb/internal/domain/availability"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
	"airbrb/internal/domain/shared/events"
)

// ListingRepository keeps listings in memory. Reads and writes copy the aggregate so
// callers never share state with the store.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return cloneListing(listing), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil || listing.ID == "" {
		return domainlistings.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneListing(listing)
	if prev, ok := r.items[listing.ID]; ok {
		stored.Version = prev.Version + 1
	} else {
		stored.Version = 1
	}
	listing.Version = stored.Version
	r.items[listing.ID] = stored
	return nil
}

// List returns matching listings, newest first.
func (r *ListingRepository) List(ctx context.Context, filter domainlistings.Filter) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filter.Owner != "" && listing.Owner != filter.Owner {
			continue
		}
		if filter.PublishedOnly && !listing.Published {
			continue
		}
		out = append(out, cloneListing(listing))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneListing(l *domainlistings.Listing) *domainlistings.Listing {
	cp := *l
	cp.Availability = append(domainavailability.Windows(nil), l.Availability...)
	cp.EventRecorder = events.EventRecorder{}
	return &cp
}

// BookingRepository keeps the booking ledger in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		items: make(map[domainbooking.BookingID]*domainbooking.Booking),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b == nil || b.ID == "" {
		return domainbooking.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneBooking(b)
	if prev, ok := r.items[b.ID]; ok {
		stored.Version = prev.Version + 1
	} else {
		stored.Version = 1
	}
	b.Version = stored.Version
	r.items[b.ID] = stored
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.BookingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.filter(func(*domainbooking.Booking) bool { return true }), nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool { return b.ListingID == listingID }), nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool { return b.GuestID == guestID }), nil
}

// filter returns copies ordered by creation time so ledger reads are stable.
func (r *BookingRepository) filter(keep func(*domainbooking.Booking) bool) []*domainbooking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	cp := *b
	cp.EventRecorder = events.EventRecorder{}
	return &cp
}

// ReviewRepository indexes reviews by booking; a booking has at most one.
type ReviewRepository struct {
	mu        sync.RWMutex
	byBooking map[domainbooking.BookingID]*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byBooking: make(map[domainbooking.BookingID]*domainreviews.Review)}
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domainreviews.ErrNotFound
	}
	return cloneReview(review), nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0)
	for _, review := range r.byBooking {
		if review.ListingID == listingID {
			out = append(out, cloneReview(review))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	if review == nil || review.ID == "" || review.BookingID == "" {
		return domainreviews.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byBooking[review.BookingID] = cloneReview(review)
	return nil
}

func cloneReview(r *domainreviews.Review) *domainreviews.Review {
	cp := *r
	cp.EventRecorder = events.EventRecorder{}
	return &cp
}

var (
	_ domainlistings.Repository = (*ListingRepository)(nil)
	_ domainbooking.Repository  = (*BookingRepository)(nil)
	_ domainreviews.Repository  = (*ReviewRepository)(nil)
)
