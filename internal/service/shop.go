// Package service is the single entry point the transport layer uses. Every
// sensitive operation takes the resolved caller and is checked against the
// access policy before any store is touched.
package service

import (
	"context"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/events"
	"github.com/fjod/go_cart/shop-service/internal/store"
)

const defaultPublishTimeout = 2 * time.Second

type Shop struct {
	users    store.UserStore
	products store.ProductStore
	orders   store.OrderStore

	events         events.Publisher
	publishTimeout time.Duration
	sanitizer      *bluemonday.Policy
	log            *zap.Logger
	now            func() time.Time
}

// New wires the stores together with an event sink and logger.
// A nil publisher disables events.
func New(users store.UserStore, products store.ProductStore, orders store.OrderStore, publisher events.Publisher, logger *zap.Logger) *Shop {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Shop{
		users:          users,
		products:       products,
		orders:         orders,
		events:         publisher,
		publishTimeout: defaultPublishTimeout,
		sanitizer:      bluemonday.UGCPolicy(),
		log:            logger,
		now:            time.Now,
	}
}

// NewInMemory builds a Shop over fresh in-memory stores
func NewInMemory(publisher events.Publisher, logger *zap.Logger, opts ...store.Option) *Shop {
	users := store.NewMemoryUserStore(opts...)
	products := store.NewMemoryProductStore(opts...)
	orders := store.NewMemoryOrderStore(users, products, opts...)
	return New(users, products, orders, publisher, logger)
}

func (s *Shop) publish(ctx context.Context, eventType, aggregateID string, payload any) {
	// The mutation already happened; a cancelled request must not stop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	err := s.events.Publish(ctx, events.Event{
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  s.now(),
	})
	if err != nil {
		s.log.Warn("event publish failed",
			zap.String("event_type", eventType),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err))
	}
}
