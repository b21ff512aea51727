// Package registry wires use-case handlers onto the command and query buses.
package registry

import (
	"log/slog"
	"time"

	"airbrb/internal/app/commands"
	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/availability"
	bookingapp "airbrb/internal/app/handlers/booking"
	listingapp "airbrb/internal/app/handlers/listings"
	reviewapp "airbrb/internal/app/handlers/reviews"
	"airbrb/internal/app/middleware"
	"airbrb/internal/app/outbox"
	"airbrb/internal/app/queries"
	"airbrb/internal/app/uow"
)

type Deps struct {
	UoW         uow.UoWFactory
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Idempotency middleware.IdempotencyStore
	Logger      *slog.Logger
	Clock       func() time.Time
	NewID       func() string
}

type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
	// Keys and QueryKeys list registered routing keys, for startup logging.
	Keys      []string
	QueryKeys []string
}

// Build registers every handler and wraps the buses. Command middleware order, outermost
// first: logging, actor check, validation, transaction, idempotency, outbox flush. Key
// lookup and save happen under the write unit, so concurrent retries of one key run in turn.
func Build(d Deps) Buses {
	if d.Encoder == nil {
		d.Encoder = outbox.JSONEventEncoder{}
	}
	lifecycle := bookingapp.Lifecycle{Outbox: d.Outbox, Encoder: d.Encoder, Logger: d.Logger, Clock: d.Clock}
	host := listingapp.Host{Outbox: d.Outbox, Encoder: d.Encoder, Logger: d.Logger, Clock: d.Clock}
	store := availability.Store{}
	ledger := bookingapp.Ledger{}

	cmdBus := commands.NewInMemoryBus()
	commands.RegisterHandler[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](cmdBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		Validator: bookingapp.ConflictValidator{Availability: store},
		Outbox:    d.Outbox,
		Encoder:   d.Encoder,
		Logger:    d.Logger,
		Clock:     d.Clock,
		NewID:     d.NewID,
	})
	commands.RegisterHandler[bookingapp.AcceptBookingCommand, *bookingapp.BookingActionResult](cmdBus, bookingapp.AcceptBookingCommand{}.Key(), &bookingapp.AcceptBookingHandler{Lifecycle: lifecycle})
	commands.RegisterHandler[bookingapp.DeclineBookingCommand, *bookingapp.BookingActionResult](cmdBus, bookingapp.DeclineBookingCommand{}.Key(), &bookingapp.DeclineBookingHandler{Lifecycle: lifecycle})
	commands.RegisterHandler[bookingapp.RemoveBookingCommand, *bookingapp.BookingActionResult](cmdBus, bookingapp.RemoveBookingCommand{}.Key(), &bookingapp.RemoveBookingHandler{Lifecycle: lifecycle})
	commands.RegisterHandler[listingapp.CreateListingCommand, *listingapp.CreateListingResult](cmdBus, listingapp.CreateListingCommand{}.Key(), &listingapp.CreateListingHandler{Host: host, NewID: d.NewID})
	commands.RegisterHandler[listingapp.UpdateListingCommand, *struct{}](cmdBus, listingapp.UpdateListingCommand{}.Key(), &listingapp.UpdateListingHandler{Host: host})
	commands.RegisterHandler[listingapp.PublishListingCommand, *struct{}](cmdBus, listingapp.PublishListingCommand{}.Key(), &listingapp.PublishListingHandler{Host: host, Availability: store})
	commands.RegisterHandler[listingapp.UnpublishListingCommand, *struct{}](cmdBus, listingapp.UnpublishListingCommand{}.Key(), &listingapp.UnpublishListingHandler{Host: host})
	commands.RegisterHandler[reviewapp.SubmitReviewCommand, *dto.Review](cmdBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{
		Outbox:  d.Outbox,
		Encoder: d.Encoder,
		Logger:  d.Logger,
		Clock:   d.Clock,
		NewID:   d.NewID,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[bookingapp.ListBookingsQuery, dto.BookingCollection](queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{UoWFactory: d.UoW, Ledger: ledger, Logger: d.Logger})
	queries.RegisterHandler[bookingapp.GetBookingQuery, dto.Booking](queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{UoWFactory: d.UoW, Ledger: ledger})
	queries.RegisterHandler[bookingapp.BookingFeedQuery, bookingapp.BookingFeed](queryBus, bookingapp.BookingFeedQuery{}.Key(), &bookingapp.BookingFeedHandler{UoWFactory: d.UoW, Ledger: ledger})
	queries.RegisterHandler[bookingapp.HostStatsQuery, dto.HostStats](queryBus, bookingapp.HostStatsQuery{}.Key(), &bookingapp.HostStatsHandler{UoWFactory: d.UoW, Ledger: ledger, Clock: d.Clock})
	queries.RegisterHandler[listingapp.ListListingsQuery, dto.ListingCollection](queryBus, listingapp.ListListingsQuery{}.Key(), &listingapp.ListListingsHandler{UoWFactory: d.UoW})
	queries.RegisterHandler[listingapp.GetListingQuery, dto.Listing](queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{UoWFactory: d.UoW})
	queries.RegisterHandler[reviewapp.ListListingReviewsQuery, dto.ReviewCollection](queryBus, reviewapp.ListListingReviewsQuery{}.Key(), &reviewapp.ListListingReviewsHandler{UoWFactory: d.UoW})

	validator := middleware.NewStructValidator()
	cmdMiddleware := []middleware.CommandMiddleware{
		middleware.Logging(d.Logger),
		middleware.RequireActor(),
		middleware.Validation(validator),
	}
	cmdMiddleware = append(cmdMiddleware, middleware.Transaction(d.UoW, nil))
	if d.Idempotency != nil {
		cmdMiddleware = append(cmdMiddleware, middleware.Idempotency(d.Idempotency, nil))
	}
	cmdMiddleware = append(cmdMiddleware, middleware.OutboxFlush(d.Outbox))

	return Buses{
		Commands: middleware.ChainCommands(cmdBus, cmdMiddleware...),
		Queries: middleware.ChainQueries(queryBus,
			middleware.QueryLogging(d.Logger),
			middleware.RequireViewer(),
			middleware.QueryValidation(validator),
		),
		Keys:      cmdBus.Keys(),
		QueryKeys: queryBus.Keys(),
	}
}
