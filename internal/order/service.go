package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Service interface {
	// PlaceOrder converts the shopper's cart into an immutable order. The
	// idempotency key is optional; retries carrying the same key return the
	// order created by the first successful attempt.
	PlaceOrder(ctx context.Context, shopper string, shipping ShippingInfo, idemKey string) (*Order, error)

	GetOrder(ctx context.Context, id string) (*Order, error)
	ListByShopper(ctx context.Context, shopper string) ([]*Order, error)

	// UpdateOrder is the administrative patch path: status moves are checked
	// against the forward-only lifecycle, shipping fields change freely.
	UpdateOrder(ctx context.Context, id string, patch UpdateOrderInput) (*Order, error)
}

type service struct {
	repo        Repository
	carts       cart.Service
	productRepo product.Repository
	metrics     *metrics.Registry
}

func NewService(repo Repository, carts cart.Service, productRepo product.Repository, reg *metrics.Registry) Service {
	if reg == nil {
		reg = metrics.Default
	}
	return &service{
		repo:        repo,
		carts:       carts,
		productRepo: productRepo,
		metrics:     reg,
	}
}

func (s *service) PlaceOrder(ctx context.Context, shopper string, shipping ShippingInfo, idemKey string) (*Order, error) {
	if shopper == "" {
		return nil, ErrShopperRequired
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("shopper", shopper),
	)

	// 1. Idempotency check
	if idemKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, shopper, idemKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			log.Info("duplicate placement, returning existing order",
				zap.String("order_id", existing.ID),
			)
			return existing, nil
		}
	}

	var placed *Order

	// 2. Read-validate-snapshot-persist-clear runs under the shopper's cart
	// lock; no cart mutation can interleave.
	err := s.carts.Checkout(ctx, shopper, func(lines []cart.Line, total float64) error {
		// Re-validate every line against the current catalog; reject the
		// whole order on the first failure, never partially fulfill.
		for _, l := range lines {
			p, err := s.productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				return fmt.Errorf("line %s: %w", l.ProductID, err)
			}
			if p.Stock < l.Quantity {
				return fmt.Errorf("line %s: %w", l.ProductID, ErrInsufficientStock)
			}
		}

		o := &Order{
			ID:             uuid.New().String(),
			Shopper:        shopper,
			Items:          snapshotLines(lines),
			Total:          total,
			Status:         StatusPending,
			Shipping:       shipping,
			IdempotencyKey: idemKey,
			CreatedAt:      time.Now().UTC(),
		}
		o.UpdatedAt = o.CreatedAt

		if err := s.repo.CreateOrderTx(ctx, o); err != nil {
			return err
		}

		placed = o
		return nil
	})

	if err != nil {
		// A concurrent retry with the same key may have won the race; the
		// unique index on (shopper_id, idempotency_key) is the backstop.
		if idemKey != "" && isUniqueViolation(err) {
			if existing, lookupErr := s.repo.GetByIdempotencyKey(ctx, shopper, idemKey); lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		s.metrics.OrdersFailed.Inc()
		log.Warn("order placement failed", zap.Error(err))
		return nil, err
	}

	s.metrics.OrdersPlaced.Inc()
	log.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.Float64("total", placed.Total),
		zap.Int("items", len(placed.Items)),
	)

	return placed, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByShopper(ctx context.Context, shopper string) ([]*Order, error) {
	if shopper == "" {
		return nil, ErrShopperRequired
	}
	return s.repo.ListByShopper(ctx, shopper)
}

func (s *service) UpdateOrder(ctx context.Context, id string, patch UpdateOrderInput) (*Order, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if !current.Status.CanTransitionTo(*patch.Status) {
			return nil, ErrInvalidTransition
		}
	}

	return s.repo.Update(ctx, id, patch)
}

func snapshotLines(lines []cart.Line) []Line {
	items := make([]Line, len(lines))
	for i, l := range lines {
		items[i] = Line{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		}
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation
}
