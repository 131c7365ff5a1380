package store

import (
	"errors"
	"time"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/idgen"
)

// Common errors returned by the stores
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore owns the user collection
type UserStore interface {
	// Register creates a non-admin user. Fails with ErrDuplicateUser when the
	// email is already taken (exact match).
	Register(email, password string) (domain.User, error)

	// Authenticate returns the user matching both email and password, or
	// ErrInvalidCredentials
	Authenticate(email, password string) (domain.User, error)

	FindByID(id string) (domain.User, error)
	FindByEmail(email string) (domain.User, error)

	// PromoteToAdmin sets IsAdmin. Calling it on an admin is a no-op that still succeeds.
	PromoteToAdmin(id string) (domain.User, error)
}

// ProductStore owns the product catalog. Products are archived, never removed.
type ProductStore interface {
	Create(name, description string, price float64) domain.Product
	ListAll() []domain.Product
	ListActive() []domain.Product
	FindByID(id string) (domain.Product, error)

	// Update overwrites name, description and price together
	Update(id, name, description string, price float64) (domain.Product, error)

	// Archive marks the product inactive. Archiving twice succeeds.
	Archive(id string) error
}

// OrderStore owns the order collection. Orders are immutable once created.
type OrderStore interface {
	// Create fails with ErrUserNotFound if the user does not exist. Unknown
	// product ids contribute nothing to the total.
	Create(userID string, items []domain.LineItem) (domain.Order, error)
	ListAll() []domain.Order
	ListForUser(userID string) ([]domain.Order, error)
}

// UserLookup is the read-only view of users the order store needs
type UserLookup interface {
	FindByID(id string) (domain.User, error)
}

// PriceLookup is the read-only view of the catalog the order store needs
type PriceLookup interface {
	// Price reports the current price of a product, archived or not
	Price(productID string) (float64, bool)
}

// Option configures a memory store
type Option func(*options)

type options struct {
	ids idgen.Generator
	now func() time.Time
}

// WithIDGenerator replaces the default UUID generator
func WithIDGenerator(g idgen.Generator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithClock replaces time.Now for timestamps stamped at creation
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		ids: idgen.NewUUID(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
