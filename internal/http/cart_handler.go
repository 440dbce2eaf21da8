package http

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/cart"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts cart.Service
}

func NewCartHandler(carts cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")

	c, err := h.carts.GetCart(r.Context(), shopper)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")

	var dto AddItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.carts.AddItem(r.Context(), cart.AddItemParams{
		Shopper:   shopper,
		ProductID: dto.ProductID,
		Quantity:  dto.Quantity,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	var dto UpdateQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.carts.UpdateItem(r.Context(), shopper, productID, dto.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	c, err := h.carts.RemoveItem(r.Context(), shopper, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")

	if err := h.carts.ClearCart(r.Context(), shopper); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshPrice re-reads the catalog price into an existing line, for shoppers
// who accept the current price over the one locked at add time.
func (h *CartHandler) RefreshPrice(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	c, err := h.carts.RefreshPrice(r.Context(), shopper, productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}
