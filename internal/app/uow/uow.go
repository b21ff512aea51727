package uow

import (
	"context"

	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
// Availability windows live on the listing aggregate, so there is no separate repository.
type UnitOfWork interface {
	Listings() domainlistings.Repository
	Booking() domainbooking.Repository
	Reviews() domainreviews.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
