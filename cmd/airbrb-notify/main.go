// Command airbrb-notify follows one user's bookings and logs a notification whenever a
// request they made is answered or a guest asks for one of their listings.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"airbrb/internal/app/notifications"
	domainuser "airbrb/internal/domain/user"
	"airbrb/internal/infra/config"
	"airbrb/internal/infra/http/client"
	"airbrb/internal/infra/kv"
	"airbrb/internal/infra/obs"
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
	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("notifier stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	userID, err := domainuser.IDFromEmail(cfg.NotifyEmail)
	if err != nil {
		return err
	}
	backend := &client.Backend{BaseURL: cfg.BackendURL, Token: cfg.NotifyToken, Logger: logger}
	if backend.Token == "" {
		if _, err := backend.Login(ctx, cfg.NotifyEmail, os.Getenv("NOTIFY_PASSWORD")); err != nil {
			return err
		}
		logger.Info("signed in", "user_id", userID)
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	engine := &notifications.Engine{Source: backend, Store: store, Logger: logger}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	poller := &notifications.Poller{
		Engine:         engine,
		Interval:       cfg.PollInterval,
		Logger:         logger,
		OnSessionEnded: cancel,
		OnNotify: func(batch []notifications.Notification) {
			for _, n := range batch {
				logger.Info(n.Title, "kind", n.Kind, "message", n.Message, "booking_id", n.BookingID, "listing_id", n.ListingID)
			}
		},
	}
	logger.Info("polling bookings", "backend", cfg.BackendURL, "interval", cfg.PollInterval)
	stopPolling := poller.Start(ctx, string(userID))
	<-ctx.Done()
	stopPolling()

	log, err := notifications.NewLog(store, string(userID))
	if err != nil {
		return err
	}
	unread, err := log.Unread(context.Background())
	if err != nil {
		return err
	}
	logger.Info("notifier stopped", "unread", len(unread))
	return nil
}

// openStore keeps the baseline in Redis when REDIS_ADDR is set, so restarts do not
// replay old changes. Without it the baseline lives for one process.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (notifications.KeyValueStore, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("notification store: in-memory")
		return kv.NewMemory(), func() {}, nil
	}
	r, err := kv.NewRedis(ctx, kv.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("notification store: redis", "addr", cfg.RedisAddr)
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}, nil
}
