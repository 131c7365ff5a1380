package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/events"
	"github.com/fjod/go_cart/shop-service/internal/policy"
)

// PlaceOrder creates an order for userID. Unknown product ids are accepted
// and priced at zero.
func (s *Shop) PlaceOrder(ctx context.Context, caller policy.Caller, userID string, items []domain.LineItem) (domain.Order, error) {
	if err := policy.Check(caller, policy.CanPlaceOrder(caller, userID)); err != nil {
		return domain.Order{}, err
	}
	for i, item := range items {
		if item.Quantity < 1 {
			return domain.Order{}, fmt.Errorf("%w: item %d has quantity %d", ErrInvalidQuantity, i, item.Quantity)
		}
	}

	order, err := s.orders.Create(userID, items)
	if err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("items", len(order.Products)),
		zap.Float64("total_amount", order.TotalAmount))
	s.publish(ctx, events.OrderCreated, order.ID, order)
	return order, nil
}

func (s *Shop) ListAllOrders(ctx context.Context, caller policy.Caller) ([]domain.Order, error) {
	if err := policy.Check(caller, policy.CanViewAllOrders(caller)); err != nil {
		return nil, err
	}
	return s.orders.ListAll(), nil
}

func (s *Shop) ListUserOrders(ctx context.Context, caller policy.Caller, userID string) ([]domain.Order, error) {
	if err := policy.Check(caller, policy.CanViewUserOrders(caller, userID)); err != nil {
		return nil, err
	}
	return s.orders.ListForUser(userID)
}
