package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/events"
	"github.com/fjod/go_cart/shop-service/internal/policy"
	"github.com/fjod/go_cart/shop-service/internal/store"
)

// userEvent is the event payload for users; credentials never leave the process
type userEvent struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func newUserEvent(u domain.User) userEvent {
	return userEvent{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (s *Shop) Register(ctx context.Context, email, password string) (domain.User, error) {
	if email == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: email and password", ErrMissingField)
	}

	user, err := s.users.Register(email, password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			s.log.Info("registration rejected, email taken", zap.String("email", email))
		}
		return domain.User{}, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	s.publish(ctx, events.UserRegistered, user.ID, newUserEvent(user))
	return user, nil
}

// Login checks credentials and returns the stored record
func (s *Shop) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.Authenticate(email, password)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Debug("user logged in", zap.String("user_id", user.ID))
	return user, nil
}

// ResolveCaller turns request credentials into a caller. Admin status comes
// from the stored record.
func (s *Shop) ResolveCaller(ctx context.Context, email, password string) (policy.Caller, error) {
	user, err := s.users.Authenticate(email, password)
	if err != nil {
		return policy.Anonymous, err
	}
	return policy.NewCaller(user.ID, user.IsAdmin), nil
}

func (s *Shop) PromoteToAdmin(ctx context.Context, caller policy.Caller, userID string) (domain.User, error) {
	if err := policy.Check(caller, policy.CanPromoteUsers(caller)); err != nil {
		return domain.User{}, err
	}

	user, err := s.users.PromoteToAdmin(userID)
	if err != nil {
		return domain.User{}, err
	}

	s.log.Info("user promoted to admin",
		zap.String("user_id", user.ID),
		zap.String("by", caller.UserID))
	s.publish(ctx, events.UserPromoted, user.ID, newUserEvent(user))
	return user, nil
}

// EnsureAdmin registers the account if it does not exist and promotes it.
// It runs once at startup, before any caller exists, so it skips the policy.
func (s *Shop) EnsureAdmin(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.FindByEmail(email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user, err = s.Register(ctx, email, password)
		if err != nil {
			return domain.User{}, fmt.Errorf("register admin: %w", err)
		}
	case err != nil:
		return domain.User{}, err
	}

	if user.IsAdmin {
		return user, nil
	}

	user, err = s.users.PromoteToAdmin(user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("promote admin: %w", err)
	}

	s.log.Info("bootstrap admin ready", zap.String("user_id", user.ID))
	s.publish(ctx, events.UserPromoted, user.ID, newUserEvent(user))
	return user, nil
}
