package listings

import (
	"time"
)

type ListingCreatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	Owner     HostID    `json:"owner"`
	At        time.Time `json:"at"`
}

func (e ListingCreatedEvent) EventName() string     { return "listing.created" }
func (e ListingCreatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreatedEvent) OccurredAt() time.Time { return e.At }

type ListingUpdatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingUpdatedEvent) EventName() string     { return "listing.updated" }
func (e ListingUpdatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdatedEvent) OccurredAt() time.Time { return e.At }

type ListingPublishedEvent struct {
	ListingID ListingID `json:"listing_id"`
	Owner     HostID    `json:"owner"`
	Windows   int       `json:"windows"`
	At        time.Time `json:"at"`
}

func (e ListingPublishedEvent) EventName() string     { return "listing.published" }
func (e ListingPublishedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingPublishedEvent) OccurredAt() time.Time { return e.At }

type ListingUnpublishedEvent struct {
	ListingID ListingID `json:"listing_id"`
	Owner     HostID    `json:"owner"`
	At        time.Time `json:"at"`
}

func (e ListingUnpublishedEvent) EventName() string     { return "listing.unpublished" }
func (e ListingUnpublishedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingUnpublishedEvent) OccurredAt() time.Time { return e.At }
