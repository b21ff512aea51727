package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const DefaultInterval = time.Second

// Poller drives an Engine on a fixed cadence for one user session.
type Poller struct {
	Engine   *Engine
	Interval time.Duration
	Logger   *slog.Logger
	// OnNotify, when set, receives each batch of new notifications.
	OnNotify func([]Notification)
	// OnSessionEnded, when set, runs once if the source reports ErrSessionEnded.
	OnSessionEnded func()
}

// Start ticks immediately and then every Interval until ctx is done, the returned stop
// is called, or the source reports the session ended. stop blocks until the loop has
// exited, so no write happens after it returns. It is safe to call more than once.
func (p *Poller) Start(ctx context.Context, userID string) (stop func()) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			added, err := p.Engine.Tick(ctx, userID)
			switch {
			case err == nil:
				if len(added) > 0 && p.OnNotify != nil {
					p.OnNotify(added)
				}
			case errors.Is(err, ErrSessionEnded):
				logger.Info("notification polling stopped", "user_id", userID, "reason", err.Error())
				if p.OnSessionEnded != nil {
					p.OnSessionEnded()
				}
				return
			case ctx.Err() != nil:
				return
			default:
				logger.Warn("notification poll failed", "user_id", userID, "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
