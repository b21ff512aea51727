// Package notifications turns successive observations of the booking ledger into
// one-time user notifications. It runs on the client side of a session and keeps its
// baseline in an injected KeyValueStore.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	NamespaceSnapshots     = "snapshots"
	NamespaceNotifications = "notifications"
)

var (
	ErrUserRequired = errors.New("notifications: user id is required")
	ErrSessionEnded = errors.New("notifications: session ended")
)

// KeyValueStore is a durable per-user scratch space. Get reports ok=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, namespace, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, namespace, key string, value []byte) error
}

type Kind string

const (
	KindGuestAccepted  Kind = "GUEST_ACCEPTED"
	KindGuestDeclined  Kind = "GUEST_DECLINED"
	KindHostNewRequest Kind = "HOST_NEW_REQUEST"
)

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	BookingID string    `json:"bookingId"`
	ListingID string    `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// Booking is the slice of a ledger entry the diff needs.
type Booking struct {
	ID        string `json:"id"`
	ListingID string `json:"listingId"`
	Status    string `json:"status"`
}

// Feed is one consistent read of the ledger for a user in both roles.
type Feed struct {
	Guest []Booking `json:"guest"`
	Host  []Booking `json:"host"`
}

// BookingSource returns the current feed of userID. Implementations must read both
// roles from the same moment.
type BookingSource interface {
	Feed(ctx context.Context, userID string) (Feed, error)
}

const (
	statusPending  = "pending"
	statusAccepted = "accepted"
	statusDeclined = "declined"
)

func guestNotification(b Booking, at time.Time) Notification {
	n := Notification{
		ID:        fmt.Sprintf("guest-%s-%s", b.ID, b.Status),
		Message:   fmt.Sprintf("Your booking for listing %s was %s.", b.ListingID, b.Status),
		BookingID: b.ID,
		ListingID: b.ListingID,
		CreatedAt: at,
	}
	if b.Status == statusAccepted {
		n.Kind, n.Title = KindGuestAccepted, "Booking accepted"
	} else {
		n.Kind, n.Title = KindGuestDeclined, "Booking declined"
	}
	return n
}

func hostNotification(b Booking, at time.Time) Notification {
	return Notification{
		ID:        "host-" + b.ID,
		Kind:      KindHostNewRequest,
		Title:     "New booking request",
		Message:   fmt.Sprintf("New booking request for listing %s.", b.ListingID),
		BookingID: b.ID,
		ListingID: b.ListingID,
		CreatedAt: at,
	}
}
