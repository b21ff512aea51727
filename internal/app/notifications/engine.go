package notifications

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Engine runs one diff step per call. It is not safe to tick the same user from two
// goroutines; the Poller guarantees one loop per session.
type Engine struct {
	Source BookingSource
	Store  KeyValueStore
	Logger *slog.Logger
	Clock  func() time.Time
}

// Tick reads the feed once, compares it with the stored baseline, records what is new
// in the user's log and overwrites the baseline. A role without a baseline is seeded
// without emitting anything. Nothing is written once ctx is done.
func (e *Engine) Tick(ctx context.Context, userID string) ([]Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	feed, err := e.Source.Feed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := snapshotState{store: e.Store}
	now := e.now()
	var fresh []Notification

	prevGuest, seeded, err := state.loadGuest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seeded {
		fresh = append(fresh, DiffGuest(prevGuest, feed.Guest, now)...)
	}
	prevHost, seeded, err := state.loadHost(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seeded {
		fresh = append(fresh, DiffHost(prevHost, feed.Host, now)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := &Log{Store: e.Store, UserID: userID}
	added, err := log.Append(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if err := state.saveGuest(ctx, userID, NewGuestSnapshot(feed.Guest)); err != nil {
		return added, err
	}
	if err := state.saveHost(ctx, userID, NewHostSnapshot(feed.Host)); err != nil {
		return added, err
	}
	if e.Logger != nil && len(added) > 0 {
		e.Logger.Info("notifications emitted", "user_id", userID, "count", len(added))
	}
	return added, nil
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock().UTC()
	}
	return time.Now().UTC()
}
