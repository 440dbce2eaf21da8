package http

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/order"

	"github.com/go-chi/chi/v5"
)

const idempotencyKeyHeader = "Idempotency-Key"

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type ShippingDTO struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type PlaceOrderDTO struct {
	UserID   string      `json:"user_id"`
	Shipping ShippingDTO `json:"shipping"`
}

type UpdateOrderDTO struct {
	Status         *string `json:"status"`
	ShippingName   *string `json:"shipping_name"`
	ShippingEmail  *string `json:"shipping_email"`
	ShippingPhone  *string `json:"shipping_phone"`
	ShippingStreet *string `json:"shipping_street"`
	ShippingCity   *string `json:"shipping_city"`
	ShippingState  *string `json:"shipping_state"`
	ShippingZip    *string `json:"shipping_zip"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var dto PlaceOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	shipping := order.ShippingInfo{
		Name:   dto.Shipping.Name,
		Email:  dto.Shipping.Email,
		Phone:  dto.Shipping.Phone,
		Street: dto.Shipping.Street,
		City:   dto.Shipping.City,
		State:  dto.Shipping.State,
		Zip:    dto.Shipping.Zip,
	}

	o, err := h.orders.PlaceOrder(r.Context(), dto.UserID, shipping, r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	shopper := chi.URLParam(r, "userID")

	orders, err := h.orders.ListByShopper(r.Context(), shopper)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	patch := order.UpdateOrderInput{
		ShippingName:   dto.ShippingName,
		ShippingEmail:  dto.ShippingEmail,
		ShippingPhone:  dto.ShippingPhone,
		ShippingStreet: dto.ShippingStreet,
		ShippingCity:   dto.ShippingCity,
		ShippingState:  dto.ShippingState,
		ShippingZip:    dto.ShippingZip,
	}
	if dto.Status != nil {
		status := order.Status(*dto.Status)
		patch.Status = &status
	}

	o, err := h.orders.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}
