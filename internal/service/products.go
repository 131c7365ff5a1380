package service

import (
	"context"
	"html"
	"math"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/shop-service/internal/domain"
	"github.com/fjod/go_cart/shop-service/internal/events"
	"github.com/fjod/go_cart/shop-service/internal/policy"
)

// ProductInput carries the mutable product fields. Updates replace all three.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
}

func (s *Shop) validateProduct(in ProductInput) (ProductInput, error) {
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return ProductInput{}, ErrInvalidPrice
	}
	in.Description = s.sanitizeDescription(in.Description)
	return in, nil
}

// sanitizeDescription strips unsafe markup. bluemonday entity-escapes the text
// it keeps, which the JSON API must not store, so the escaping is undone
// unless unescaping would turn escaped text back into markup.
func (s *Shop) sanitizeDescription(desc string) string {
	clean := s.sanitizer.Sanitize(desc)
	plain := html.UnescapeString(clean)
	if html.UnescapeString(s.sanitizer.Sanitize(plain)) == plain {
		return plain
	}
	return clean
}

func (s *Shop) CreateProduct(ctx context.Context, caller policy.Caller, in ProductInput) (domain.Product, error) {
	if err := policy.Check(caller, policy.CanManageProducts(caller)); err != nil {
		return domain.Product{}, err
	}
	in, err := s.validateProduct(in)
	if err != nil {
		return domain.Product{}, err
	}

	product := s.products.Create(in.Name, in.Description, in.Price)

	s.log.Info("product created",
		zap.String("product_id", product.ID),
		zap.Float64("price", product.Price))
	s.publish(ctx, events.ProductCreated, product.ID, product)
	return product, nil
}

func (s *Shop) ListProducts(ctx context.Context) []domain.Product {
	return s.products.ListAll()
}

func (s *Shop) ListActiveProducts(ctx context.Context) []domain.Product {
	return s.products.ListActive()
}

func (s *Shop) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	return s.products.FindByID(productID)
}

func (s *Shop) UpdateProduct(ctx context.Context, caller policy.Caller, productID string, in ProductInput) (domain.Product, error) {
	if err := policy.Check(caller, policy.CanManageProducts(caller)); err != nil {
		return domain.Product{}, err
	}
	in, err := s.validateProduct(in)
	if err != nil {
		return domain.Product{}, err
	}

	product, err := s.products.Update(productID, in.Name, in.Description, in.Price)
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Info("product updated", zap.String("product_id", product.ID))
	s.publish(ctx, events.ProductUpdated, product.ID, product)
	return product, nil
}

func (s *Shop) ArchiveProduct(ctx context.Context, caller policy.Caller, productID string) error {
	if err := policy.Check(caller, policy.CanManageProducts(caller)); err != nil {
		return err
	}

	if err := s.products.Archive(productID); err != nil {
		return err
	}

	s.log.Info("product archived", zap.String("product_id", productID))
	s.publish(ctx, events.ProductArchived, productID, map[string]string{"id": productID})
	return nil
}
