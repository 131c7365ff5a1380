package store

import (
	"errors"
	"sync"

	"github.com/fjod/go_cart/shop-service/internal/domain"
)

// MemoryOrderStore implements OrderStore with in-memory storage.
// It reads users and prices through lookups but never holds its own lock
// while calling them.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders []domain.Order    // creation order
	byUser map[string][]int // userID -> indexes into orders

	users  UserLookup
	prices PriceLookup
	opts   options
}

// NewMemoryOrderStore creates an empty order store reading from the given user and price views
func NewMemoryOrderStore(users UserLookup, prices PriceLookup, opts ...Option) *MemoryOrderStore {
	return &MemoryOrderStore{
		byUser: make(map[string][]int),
		users:  users,
		prices: prices,
		opts:   buildOptions(opts),
	}
}

func (s *MemoryOrderStore) Create(userID string, items []domain.LineItem) (domain.Order, error) {
	if err := s.ensureUser(userID); err != nil {
		return domain.Order{}, err
	}

	lines := make([]domain.LineItem, len(items))
	copy(lines, items)

	// Prices are resolved before taking the lock; the total is a snapshot of
	// the catalog at this moment and is never recomputed.
	var total float64
	for _, item := range lines {
		price, _ := s.prices.Price(item.ProductID)
		total += price * float64(item.Quantity)
	}

	order := domain.Order{
		ID:          s.opts.ids.NewID(),
		UserID:      userID,
		Products:    lines,
		TotalAmount: total,
		PurchasedOn: s.opts.now(),
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.byUser[userID] = append(s.byUser[userID], len(s.orders)-1)
	s.mu.Unlock()

	return order.Clone(), nil
}

func (s *MemoryOrderStore) ListAll() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, o.Clone())
	}
	return result
}

func (s *MemoryOrderStore) ListForUser(userID string) ([]domain.Order, error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.byUser[userID]
	result := make([]domain.Order, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, s.orders[i].Clone())
	}
	return result, nil
}

// Count returns the number of orders placed
func (s *MemoryOrderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *MemoryOrderStore) ensureUser(userID string) error {
	if _, err := s.users.FindByID(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
