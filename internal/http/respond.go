package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/media"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError translates domain sentinels into HTTP statuses. Unknown
// errors are treated as storage failures and never leak internals.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, media.ErrTokenNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, cart.ErrCartEmpty):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())

	case errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, order.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())

	case errors.Is(err, order.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())

	case errors.Is(err, media.ErrBlobUnavailable):
		respondError(w, http.StatusConflict, "blob_unavailable", err.Error())

	case errors.Is(err, product.ErrNameRequired),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, product.ErrEmptyPatch),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrShopperRequired),
		errors.Is(err, order.ErrShopperRequired),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrEmptyPatch),
		errors.Is(err, media.ErrFilenameRequired):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())

	default:
		logger.L().Error("unhandled service error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "storage_error", "internal server error")
	}
}
