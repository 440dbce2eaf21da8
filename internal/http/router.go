package http

import (
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/media"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the REST surface of the storefront.
func NewRouter(cfg *config.Config, products product.Service, carts cart.Service, orders order.Service, uploads media.Service) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.RateLimit(cfg.InternalKey))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	productHandler := NewProductHandler(products)
	cartHandler := NewCartHandler(carts)
	orderHandler := NewOrderHandler(orders)
	mediaHandler := NewMediaHandler(uploads)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Route("/cart/{userID}", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/", cartHandler.AddItem)
			r.Delete("/", cartHandler.Clear)
			r.Put("/{productID}", cartHandler.UpdateItem)
			r.Delete("/{productID}", cartHandler.RemoveItem)
			r.Post("/{productID}/refresh-price", cartHandler.RefreshPrice)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.Place)
			r.Get("/user/{userID}", orderHandler.ListByUser)
			r.Get("/{id}", orderHandler.Get)
			r.Put("/{id}", orderHandler.Update)
		})

		r.Route("/media/uploads", func(r chi.Router) {
			r.Post("/", mediaHandler.Authorize)
			r.Post("/{token}/complete", mediaHandler.Complete)
		})
	})

	return r
}
