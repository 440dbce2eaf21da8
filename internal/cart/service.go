package cart

import (
	"context"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts. Every operation is keyed by
// shopper id and serialized per shopper, so concurrent mutations for the same
// shopper never lose updates.
type Service interface {
	GetCart(ctx context.Context, shopper string) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (*Cart, error)
	UpdateItem(ctx context.Context, shopper, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, shopper, productID string) (*Cart, error)
	ClearCart(ctx context.Context, shopper string) error
	RefreshPrice(ctx context.Context, shopper, productID string) (*Cart, error)

	// Checkout snapshots the cart under the shopper lock, hands the snapshot
	// to commit, and clears the cart only after commit succeeds. No cart
	// mutation can interleave between the total being computed and the cart
	// being cleared.
	Checkout(ctx context.Context, shopper string, commit func(lines []Line, total float64) error) error
}

// service implements the Service interface
type service struct {
	store       Store
	productRepo product.Repository
	locks       *shopperLocks
}

// NewService creates a new cart service
func NewService(store Store, productRepo product.Repository) Service {
	return &service{
		store:       store,
		productRepo: productRepo,
		locks:       newShopperLocks(),
	}
}

// GetCart never fails for an absent shopper; it yields an empty cart with
// total 0. The total is recomputed on every read.
func (s *service) GetCart(ctx context.Context, shopper string) (*Cart, error) {
	if shopper == "" {
		return nil, ErrShopperRequired
	}

	release := s.locks.acquire(shopper)
	defer release()

	lines, err := s.store.Get(ctx, shopper)
	if err != nil {
		return nil, err
	}

	return s.view(shopper, lines), nil
}

// AddItem puts a product into the shopper's cart. The unit price is read from
// the catalog at add time; adding an already-present product increments its
// quantity and keeps the price locked at first add.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Cart, error) {
	if params.Shopper == "" {
		return nil, ErrShopperRequired
	}
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("shopper", params.Shopper),
		zap.String("product_id", params.ProductID),
		zap.Int("quantity", params.Quantity),
	)

	release := s.locks.acquire(params.Shopper)
	defer release()

	// 1. Get product; the catalog is the source of truth for price and stock.
	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	// 2. Get current lines
	lines, err := s.store.Get(ctx, params.Shopper)
	if err != nil {
		return nil, err
	}

	// 3. Calculate final quantity
	idx := findLine(lines, params.ProductID)
	finalQty := params.Quantity
	if idx >= 0 {
		finalQty += lines[idx].Quantity
	}

	// 4. Validate stock
	if p.Stock < finalQty {
		log.Warn("insufficient stock",
			zap.Int("stock", p.Stock),
			zap.Int("requested", finalQty),
		)
		return nil, ErrInsufficientStock
	}

	// 5. Create or update the line
	if idx >= 0 {
		lines[idx].Quantity = finalQty
	} else {
		lines = append(lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  params.Quantity,
			Image:     p.Image,
		})
	}

	if err := s.store.Put(ctx, params.Shopper, lines); err != nil {
		return nil, err
	}

	metrics.Default.CartMutations.Inc()
	log.Debug("item added to cart")
	return s.view(params.Shopper, lines), nil
}

// UpdateItem replaces a line's quantity. A quantity of zero or less removes
// the line instead of retaining it.
func (s *service) UpdateItem(ctx context.Context, shopper, productID string, quantity int) (*Cart, error) {
	if shopper == "" {
		return nil, ErrShopperRequired
	}

	release := s.locks.acquire(shopper)
	defer release()

	lines, err := s.store.Get(ctx, shopper)
	if err != nil {
		return nil, err
	}

	idx := findLine(lines, productID)
	if len(lines) == 0 || idx < 0 {
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = quantity
	}

	if err := s.store.Put(ctx, shopper, lines); err != nil {
		return nil, err
	}

	metrics.Default.CartMutations.Inc()
	return s.view(shopper, lines), nil
}

// RemoveItem deletes a line; the order of remaining lines is preserved.
func (s *service) RemoveItem(ctx context.Context, shopper, productID string) (*Cart, error) {
	if shopper == "" {
		return nil, ErrShopperRequired
	}

	release := s.locks.acquire(shopper)
	defer release()

	lines, err := s.store.Get(ctx, shopper)
	if err != nil {
		return nil, err
	}

	idx := findLine(lines, productID)
	if len(lines) == 0 || idx < 0 {
		return nil, ErrCartItemNotFound
	}

	lines = append(lines[:idx], lines[idx+1:]...)

	if err := s.store.Put(ctx, shopper, lines); err != nil {
		return nil, err
	}

	metrics.Default.CartMutations.Inc()
	return s.view(shopper, lines), nil
}

// ClearCart is idempotent and succeeds even when no cart exists.
func (s *service) ClearCart(ctx context.Context, shopper string) error {
	if shopper == "" {
		return ErrShopperRequired
	}

	release := s.locks.acquire(shopper)
	defer release()

	if err := s.store.Delete(ctx, shopper); err != nil {
		return err
	}

	metrics.Default.CartMutations.Inc()
	return nil
}

// RefreshPrice re-reads the catalog price into an existing line, for callers
// that want to opt out of the price-lock-at-first-add behavior.
func (s *service) RefreshPrice(ctx context.Context, shopper, productID string) (*Cart, error) {
	if shopper == "" {
		return nil, ErrShopperRequired
	}

	release := s.locks.acquire(shopper)
	defer release()

	lines, err := s.store.Get(ctx, shopper)
	if err != nil {
		return nil, err
	}

	idx := findLine(lines, productID)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	lines[idx].Price = p.Price
	lines[idx].Name = p.Name

	if err := s.store.Put(ctx, shopper, lines); err != nil {
		return nil, err
	}

	metrics.Default.CartMutations.Inc()
	return s.view(shopper, lines), nil
}

func (s *service) Checkout(ctx context.Context, shopper string, commit func(lines []Line, total float64) error) error {
	if shopper == "" {
		return ErrShopperRequired
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("shopper", shopper),
	)

	release := s.locks.acquire(shopper)
	defer release()

	lines, err := s.store.Get(ctx, shopper)
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		return ErrCartEmpty
	}

	snapshot := make([]Line, len(lines))
	copy(snapshot, lines)

	if err := commit(snapshot, Total(snapshot)); err != nil {
		return err
	}

	// The order is committed at this point. A failed clear leaves a stale
	// cart behind but must not surface as a failed placement; retries are
	// deduplicated by idempotency key upstream.
	if err := s.store.Delete(ctx, shopper); err != nil {
		log.Error("failed to clear cart after checkout", zap.Error(err))
	}

	return nil
}

func (s *service) view(shopper string, lines []Line) *Cart {
	if lines == nil {
		lines = []Line{}
	}
	return &Cart{
		Shopper: shopper,
		Items:   lines,
		Total:   Total(lines),
	}
}

func findLine(lines []Line, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
