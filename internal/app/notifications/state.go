package notifications

import (
	"context"
	"encoding/json"
	"fmt"
)

type snapshotState struct {
	store KeyValueStore
}

func (s snapshotState) loadGuest(ctx context.Context, userID string) (GuestSnapshot, bool, error) {
	var snap GuestSnapshot
	ok, err := s.load(ctx, userID+":guest", &snap)
	if err != nil || !ok {
		return nil, ok, err
	}
	if snap == nil {
		snap = GuestSnapshot{}
	}
	return snap, true, nil
}

func (s snapshotState) loadHost(ctx context.Context, userID string) (HostSnapshot, bool, error) {
	var ids []string
	ok, err := s.load(ctx, userID+":host", &ids)
	if err != nil || !ok {
		return nil, ok, err
	}
	snap := make(HostSnapshot, len(ids))
	for _, id := range ids {
		snap[id] = struct{}{}
	}
	return snap, true, nil
}

func (s snapshotState) saveGuest(ctx context.Context, userID string, snap GuestSnapshot) error {
	return s.save(ctx, userID+":guest", snap)
}

func (s snapshotState) saveHost(ctx context.Context, userID string, snap HostSnapshot) error {
	return s.save(ctx, userID+":host", snap.ids())
}

func (s snapshotState) load(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, NamespaceSnapshots, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("notifications: decode snapshot %s: %w", key, err)
	}
	return true, nil
}

func (s snapshotState) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, NamespaceSnapshots, key, raw)
}
