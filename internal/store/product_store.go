package store

import (
	"sync"

	"github.com/fjod/go_cart/shop-service/internal/domain"
)

// MemoryProductStore implements ProductStore and PriceLookup with in-memory storage
type MemoryProductStore struct {
	mu       sync.RWMutex
	products []*domain.Product          // creation order
	byID     map[string]*domain.Product // id -> product

	opts options
}

// NewMemoryProductStore creates an empty catalog
func NewMemoryProductStore(opts ...Option) *MemoryProductStore {
	return &MemoryProductStore{
		byID: make(map[string]*domain.Product),
		opts: buildOptions(opts),
	}
}

func (s *MemoryProductStore) Create(name, description string, price float64) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := &domain.Product{
		ID:          s.opts.ids.NewID(),
		Name:        name,
		Description: description,
		Price:       price,
		IsActive:    true,
		CreatedOn:   s.opts.now(),
	}

	s.products = append(s.products, product)
	s.byID[product.ID] = product
	return *product
}

func (s *MemoryProductStore) ListAll() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, *p)
	}
	return result
}

func (s *MemoryProductStore) ListActive() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive {
			result = append(result, *p)
		}
	}
	return result
}

func (s *MemoryProductStore) FindByID(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.byID[id]
	if !exists {
		return domain.Product{}, ErrNotFound
	}
	return *product, nil
}

func (s *MemoryProductStore) Update(id, name, description string, price float64) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.byID[id]
	if !exists {
		return domain.Product{}, ErrNotFound
	}

	product.Name = name
	product.Description = description
	product.Price = price
	return *product, nil
}

func (s *MemoryProductStore) Archive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.byID[id]
	if !exists {
		return ErrNotFound
	}

	product.IsActive = false
	return nil
}

// Price ignores IsActive: archived products can still be ordered
func (s *MemoryProductStore) Price(productID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.byID[productID]
	if !exists {
		return 0, false
	}
	return product.Price, true
}
