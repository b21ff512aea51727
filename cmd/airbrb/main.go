package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"airbrb/internal/app/middleware"
	appoutbox "airbrb/internal/app/outbox"
	"airbrb/internal/app/registry"
	authsvc "airbrb/internal/app/services/auth"
	"airbrb/internal/app/uow"
	domainauth "airbrb/internal/domain/auth"
	domainuser "airbrb/internal/domain/user"
	"airbrb/internal/infra/broker/kafka"
	"airbrb/internal/infra/config"
	mongostore "airbrb/internal/infra/db/mongo"
	ginserver "airbrb/internal/infra/http/gin"
	"airbrb/internal/infra/obs"
	infraoutbox "airbrb/internal/infra/outbox"
	"airbrb/internal/infra/security"
	"airbrb/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer st.close()

	buses := registry.Build(registry.Deps{
		UoW:         st.uow,
		Outbox:      st.outbox,
		Idempotency: st.idempotency,
		Logger:      logger,
		NewID:       uuid.NewString,
	})
	logger.Info("buses ready", "commands", buses.Keys, "queries", buses.QueryKeys)

	if err := loadListingFixtures(ctx, buses.Commands, fixturesPath(), logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err)
	}

	producer, closeProducer, err := newProducer(cfg, logger)
	if err != nil {
		logger.Error("kafka producer init failed", "error", err)
		os.Exit(1)
	}
	defer closeProducer()
	worker := &infraoutbox.Worker{
		Queue:       st.queue,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	authService := &authsvc.Service{
		Users:      st.users,
		Sessions:   st.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.JWTIssuer{Secret: []byte(cfg.JWTSecret)},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	server, err := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: st.ready}, ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Listing:        ginserver.ListingHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		Booking:        ginserver.BookingHandler{Commands: buses.Commands, Queries: buses.Queries, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	})
	if err != nil {
		logger.Error("http server init failed", "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type stores struct {
	uow         uow.UoWFactory
	outbox      appoutbox.Outbox
	queue       infraoutbox.Queue
	idempotency middleware.IdempotencyStore
	users       domainuser.Repository
	sessions    domainauth.SessionStore
	ready       func(context.Context) error
	close       func()
}

// openStores uses MongoDB when MONGO_URI is set and process memory otherwise.
func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	if cfg.MongoURI == "" {
		logger.Info("storage: in-memory")
		box := memory.NewOutbox()
		return stores{
			uow:         memory.NewFactory(memory.NewListingRepository(), memory.NewBookingRepository(), memory.NewReviewRepository()),
			outbox:      box,
			queue:       box,
			idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
			users:       memory.NewUserRepository(),
			sessions:    memory.NewSessionStore(),
			ready:       func(context.Context) error { return nil },
			close:       func() {},
		}, nil
	}

	client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return stores{}, err
	}
	closeClient := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(shutdownCtx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
	fail := func(err error) (stores, error) {
		closeClient()
		return stores{}, err
	}
	listings, err := mongostore.NewListingRepository(ctx, client.DB)
	if err != nil {
		return fail(err)
	}
	bookings, err := mongostore.NewBookingRepository(ctx, client.DB)
	if err != nil {
		return fail(err)
	}
	reviews, err := mongostore.NewReviewRepository(ctx, client.DB)
	if err != nil {
		return fail(err)
	}
	box, err := mongostore.NewOutboxStore(ctx, client.DB)
	if err != nil {
		return fail(err)
	}
	idem, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return fail(err)
	}
	sessions, err := mongostore.NewSessionStore(ctx, client.DB)
	if err != nil {
		return fail(err)
	}
	logger.Info("storage: mongo", "database", cfg.MongoDB)
	return stores{
		uow:         mongostore.NewFactory(client.DB, listings, bookings, reviews),
		outbox:      box,
		queue:       box,
		idempotency: idem,
		users:       mongostore.NewUserRepository(client.DB),
		sessions:    sessions,
		ready:       client.Ping,
		close:       closeClient,
	}, nil
}

func newProducer(cfg config.Config, logger *slog.Logger) (infraoutbox.Producer, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("outbox: no kafka brokers configured, logging events")
		return infraoutbox.LogProducer{Logger: logger}, func() {}, nil
	}
	p, err := kafka.NewProducer(kafka.ProducerOptions{Brokers: cfg.KafkaBrokers, ClientID: "airbrb"})
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}, nil
}
