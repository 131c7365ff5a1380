package store

import (
	"sync"

	"github.com/fjod/go_cart/shop-service/internal/domain"
)

// MemoryUserStore implements UserStore with in-memory storage
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   []*domain.User          // registration order
	byID    map[string]*domain.User // id -> user
	byEmail map[string]*domain.User // email -> user

	opts options
}

// NewMemoryUserStore creates an empty user store
func NewMemoryUserStore(opts ...Option) *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		opts:    buildOptions(opts),
	}
}

// Register checks for the email and appends under one write lock, so two
// concurrent registrations of the same email cannot both succeed.
func (s *MemoryUserStore) Register(email, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return domain.User{}, ErrDuplicateUser
	}

	user := &domain.User{
		ID:       s.opts.ids.NewID(),
		Email:    email,
		Password: password,
		IsAdmin:  false,
	}

	s.users = append(s.users, user)
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return *user, nil
}

func (s *MemoryUserStore) Authenticate(email, password string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byEmail[email]
	if !exists || user.Password != password {
		return domain.User{}, ErrInvalidCredentials
	}
	return *user, nil
}

func (s *MemoryUserStore) FindByID(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byID[id]
	if !exists {
		return domain.User{}, ErrNotFound
	}
	return *user, nil
}

func (s *MemoryUserStore) FindByEmail(email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byEmail[email]
	if !exists {
		return domain.User{}, ErrNotFound
	}
	return *user, nil
}

func (s *MemoryUserStore) PromoteToAdmin(id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return domain.User{}, ErrNotFound
	}

	user.IsAdmin = true
	return *user, nil
}

// Count returns the number of registered users
func (s *MemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
