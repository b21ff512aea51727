package notifications

import (
	"sort"
	"time"
)

// GuestSnapshot maps booking id to the last status seen by the guest.
type GuestSnapshot map[string]string

// HostSnapshot is the set of booking ids last seen on the host's listings.
type HostSnapshot map[string]struct{}

func NewGuestSnapshot(items []Booking) GuestSnapshot {
	out := make(GuestSnapshot, len(items))
	for _, b := range items {
		out[b.ID] = b.Status
	}
	return out
}

func NewHostSnapshot(items []Booking) HostSnapshot {
	out := make(HostSnapshot, len(items))
	for _, b := range items {
		out[b.ID] = struct{}{}
	}
	return out
}

// DiffGuest emits one notification per booking that went from pending to a decision.
// Bookings unknown to prev are not reported.
func DiffGuest(prev GuestSnapshot, current []Booking, at time.Time) []Notification {
	var out []Notification
	for _, b := range current {
		before, seen := prev[b.ID]
		if !seen || before != statusPending {
			continue
		}
		if b.Status == statusAccepted || b.Status == statusDeclined {
			out = append(out, guestNotification(b, at))
		}
	}
	return sorted(out)
}

// DiffHost emits one notification per pending booking that was not in prev.
func DiffHost(prev HostSnapshot, current []Booking, at time.Time) []Notification {
	var out []Notification
	for _, b := range current {
		if _, seen := prev[b.ID]; seen {
			continue
		}
		if b.Status == statusPending {
			out = append(out, hostNotification(b, at))
		}
	}
	return sorted(out)
}

func sorted(items []Notification) []Notification {
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s HostSnapshot) ids() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
