package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	// -- Validation & Input --
	ErrShopperRequired   = errors.New("shopper id is required")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrEmptyPatch        = errors.New("no fields to update")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
