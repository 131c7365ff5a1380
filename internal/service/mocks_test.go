package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/events"
	"github.com/fjod/go_cart/shop-service/internal/idgen"
	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBrokerDown = errors.New("broker down")

var fixedTime = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

type fixture struct {
	shop      *Shop
	publisher *recordingPublisher
	admin     policy.Caller
	customer  policy.Caller
}

// setupShop returns a shop with one admin and one customer already registered
func setupShop(t *testing.T) fixture {
	t.Helper()
	pub := &recordingPublisher{}
	shop := NewInMemory(pub, zap.NewNop(),
		store.WithIDGenerator(idgen.NewSequence("id")),
		store.WithClock(func() time.Time { return fixedTime }),
	)

	ctx := context.Background()
	adminUser, err := shop.EnsureAdmin(ctx, "admin@x.com", "admin")
	if err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	customerUser, err := shop.Register(ctx, "a@x.com", "p")
	if err != nil {
		t.Fatalf("register customer: %v", err)
	}

	pub.events = nil
	return fixture{
		shop:      shop,
		publisher: pub,
		admin:     policy.NewCaller(adminUser.ID, true),
		customer:  policy.NewCaller(customerUser.ID, false),
	}
}
