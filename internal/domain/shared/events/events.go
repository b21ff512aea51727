package events

import (
	"strings"
	"time"
)

// DomainEvent is a fact recorded by an aggregate and shipped through the outbox. Names
// are "<aggregate>.<past-tense verb>", e.g. "booking.accepted".
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// AggregateType is the part of an event name before the first dot.
func AggregateType(name string) string {
	if head, _, ok := strings.Cut(name, "."); ok && head != "" {
		return head
	}
	return name
}

// EventRecorder is embedded by aggregates to collect events until the handler that
// saved the aggregate drains them into the outbox.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event != nil {
		r.pending = append(r.pending, event)
	}
}

func (r *EventRecorder) Drain() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}
