package product

import (
	"context"
)

// Service defines the business logic for the catalog.
type Service interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, opts ListOptions) ([]*Product, error)
	CreateProduct(ctx context.Context, input NewProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, patch UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, opts ListOptions) ([]*Product, error) {
	return s.repo.GetList(ctx, opts)
}

func (s *service) CreateProduct(ctx context.Context, input NewProductInput) (*Product, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	return s.repo.Create(ctx, input)
}

func (s *service) UpdateProduct(ctx context.Context, id string, patch UpdateProductInput) (*Product, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, ErrNameRequired
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, ErrInvalidStock
	}

	return s.repo.Update(ctx, id, patch)
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
