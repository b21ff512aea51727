package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "airbrb/internal/app/outbox"
	infraoutbox "airbrb/internal/infra/outbox"
)

type outboxEntry struct {
	entry     infraoutbox.Entry
	claimedBy string
}

// Outbox stages records added during a command and releases them to the worker queue
// on Flush. Discard drops what a failed command staged.
type Outbox struct {
	mu     sync.Mutex
	staged []appoutbox.EventRecord
	queue  []*outboxEntry
	now    func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	at := o.now().UTC()
	for _, rec := range o.staged {
		o.queue = append(o.queue, &outboxEntry{entry: infraoutbox.Entry{Record: rec, NextAttempt: at}})
	}
	o.staged = nil
	return nil
}

func (o *Outbox) Discard(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = nil
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.Entry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	at := o.now().UTC()
	for _, item := range o.queue {
		if item.claimedBy != "" || item.entry.NextAttempt.After(at) {
			continue
		}
		item.claimedBy = workerID
		claimed := item.entry
		return &claimed, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, item := range o.queue {
		if item.entry.Record.ID == id {
			o.queue = append(o.queue[:i], o.queue[i+1:]...)
			return nil
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, item := range o.queue {
		if item.entry.Record.ID == id {
			item.claimedBy = ""
			item.entry.Attempts++
			item.entry.NextAttempt = next.UTC()
			item.entry.LastError = errMsg
			return nil
		}
	}
	return nil
}

// Pending counts records waiting for delivery, staged ones excluded.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Queue = (*Outbox)(nil)
)
