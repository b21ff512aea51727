package memory

import (
	"context"
	"errors"
	"sync"

	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory serializes units of work over the in-memory repositories: write units hold
// an exclusive lock until Commit or Rollback, read-only units share it. This is what
// makes validate-then-append atomic for booking requests in a single process.
type Factory struct {
	mu       sync.RWMutex
	listings domainlistings.Repository
	bookings domainbooking.Repository
	reviews  domainreviews.Repository
}

func NewFactory(listings domainlistings.Repository, bookings domainbooking.Repository, reviews domainreviews.Repository) *Factory {
	return &Factory{listings: listings, bookings: bookings, reviews: reviews}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f == nil || f.listings == nil || f.bookings == nil || f.reviews == nil {
		return nil, ErrFactoryMisconfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unit := &Unit{listings: f.listings, bookings: f.bookings, reviews: f.reviews}
	if opts.ReadOnly {
		f.mu.RLock()
		unit.release = f.mu.RUnlock
	} else {
		f.mu.Lock()
		unit.release = f.mu.Unlock
	}
	return unit, nil
}

// Unit is a uow.UnitOfWork backed by in-memory stores. Writes are applied directly;
// Commit and Rollback only release the factory lock.
type Unit struct {
	listings domainlistings.Repository
	bookings domainbooking.Repository
	reviews  domainreviews.Repository
	release  func()
	once     sync.Once
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Booking() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Commit(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) done() {
	u.once.Do(func() {
		if u.release != nil {
			u.release()
		}
	})
}

var _ uow.UoWFactory = (*Factory)(nil)
