package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Log is the per-user notification list, newest first.
type Log struct {
	Store  KeyValueStore
	UserID string
}

func NewLog(store KeyValueStore, userID string) (*Log, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	return &Log{Store: store, UserID: userID}, nil
}

func (l *Log) List(ctx context.Context) ([]Notification, error) {
	raw, ok, err := l.Store.Get(ctx, NamespaceNotifications, l.UserID)
	if err != nil || !ok {
		return []Notification{}, err
	}
	var items []Notification
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("notifications: decode log: %w", err)
	}
	if items == nil {
		items = []Notification{}
	}
	return items, nil
}

func (l *Log) Unread(ctx context.Context) ([]Notification, error) {
	items, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(items))
	for _, n := range items {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

// Append prepends entries whose id is not already in the log and returns those added.
func (l *Log) Append(ctx context.Context, entries []Notification) ([]Notification, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	items, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(items))
	for _, n := range items {
		known[n.ID] = struct{}{}
	}
	added := make([]Notification, 0, len(entries))
	for _, n := range entries {
		if _, dup := known[n.ID]; dup {
			continue
		}
		known[n.ID] = struct{}{}
		added = append(added, n)
	}
	if len(added) == 0 {
		return nil, nil
	}
	merged := append(append(make([]Notification, 0, len(added)+len(items)), added...), items...)
	return added, l.write(ctx, merged)
}

// MarkRead flips one entry. Unknown ids are ignored.
func (l *Log) MarkRead(ctx context.Context, id string) error {
	return l.update(ctx, func(n *Notification) {
		if n.ID == id {
			n.Read = true
		}
	})
}

func (l *Log) MarkAllRead(ctx context.Context) error {
	return l.update(ctx, func(n *Notification) { n.Read = true })
}

func (l *Log) update(ctx context.Context, fn func(*Notification)) error {
	items, err := l.List(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		fn(&items[i])
	}
	return l.write(ctx, items)
}

func (l *Log) write(ctx context.Context, items []Notification) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return l.Store.Set(ctx, NamespaceNotifications, l.UserID, raw)
}
