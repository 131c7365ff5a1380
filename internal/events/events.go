// Package events publishes domain events after a store mutation has been applied.
// Publishing is best effort: a failed publish never undoes the mutation.
package events

import (
	"context"
	"time"
)

// Event types
const (
	UserRegistered  = "user.registered"
	UserPromoted    = "user.promoted"
	ProductCreated  = "product.created"
	ProductUpdated  = "product.updated"
	ProductArchived = "product.archived"
	OrderCreated    = "order.created"
)

// Event is a single change notification. Payload is the record after the change.
type Event struct {
	Type        string
	AggregateID string
	Payload     any
	OccurredAt  time.Time
}

// Publisher delivers events to some sink
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
