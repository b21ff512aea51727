package mongo

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface. Write units
// are also serialized in-process: a booking request reads the ledger and then inserts,
// and snapshot isolation alone would let two overlapping requests both commit.
type Factory struct {
	DB           *mongo.Database
	ListingsRepo domainlistings.Repository
	BookingRepo  domainbooking.Repository
	ReviewRepo   domainreviews.Repository

	writeMu sync.Mutex
}

func NewFactory(db *mongo.Database, listings domainlistings.Repository, bookings domainbooking.Repository, reviews domainreviews.Repository) *Factory {
	return &Factory{DB: db, ListingsRepo: listings, BookingRepo: bookings, ReviewRepo: reviews}
}

// Begin starts a MongoDB session/transaction.
func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f == nil || f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	var release func()
	if !opts.ReadOnly {
		f.writeMu.Lock()
		release = f.writeMu.Unlock
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(readconcern.Snapshot()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		if release != nil {
			release()
		}
		return nil, err
	}
	return &Unit{
		session:  session,
		listings: f.ListingsRepo,
		booking:  f.BookingRepo,
		reviews:  f.ReviewRepo,
		release:  release,
	}, nil
}

type Unit struct {
	session  mongo.Session
	listings domainlistings.Repository
	booking  domainbooking.Repository
	reviews  domainreviews.Repository
	release  func()
	once     sync.Once
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Booking() domainbooking.Repository {
	return u.booking
}

func (u *Unit) Reviews() domainreviews.Repository {
	return u.reviews
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.end(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	var err error
	u.once.Do(func() {
		err = u.session.AbortTransaction(ctx)
		u.session.EndSession(ctx)
		if u.release != nil {
			u.release()
		}
	})
	return err
}

func (u *Unit) end(ctx context.Context) {
	u.once.Do(func() {
		u.session.EndSession(ctx)
		if u.release != nil {
			u.release()
		}
	})
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = (*Factory)(nil)
