package http

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/product"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

type CreateProductDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
}

type UpdateProductDTO struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Rating      *float64 `json:"rating"`
	Reviews     *int     `json:"reviews"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var opts product.ListOptions

	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		opts.Category = &category
	}
	if search := q.Get("search"); search != "" {
		opts.Search = &search
	}
	opts.Sort = q.Get("sort")

	items, err := h.products.ListProducts(r.Context(), opts)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.products.CreateProduct(r.Context(), product.NewProductInput{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Image:       dto.Image,
		Category:    dto.Category,
		Stock:       dto.Stock,
		Rating:      dto.Rating,
		Reviews:     dto.Reviews,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.products.UpdateProduct(r.Context(), id, product.UpdateProductInput{
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Image:       dto.Image,
		Category:    dto.Category,
		Stock:       dto.Stock,
		Rating:      dto.Rating,
		Reviews:     dto.Reviews,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
