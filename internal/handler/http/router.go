package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nyxieeee/aa2000-website/internal/cart"
	"github.com/nyxieeee/aa2000-website/internal/catalog"
	"github.com/nyxieeee/aa2000-website/internal/checkout"
	"github.com/nyxieeee/aa2000-website/internal/client"
	"github.com/nyxieeee/aa2000-website/pkg/health"
	"github.com/nyxieeee/aa2000-website/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cache *catalog.Cache,
	sessions *cart.Sessions,
	checkoutSvc *checkout.Service,
	backend *client.Backend,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(cache, logger)
	cartHandler := NewCartHandler(sessions, cache, logger)
	checkoutHandler := NewCheckoutHandler(checkoutSvc, logger)
	adminHandler := NewAdminHandler(backend, logger)

	// Catalog endpoints
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", catalogHandler.ListProducts)
		r.Get("/{id}", catalogHandler.GetProduct)
		r.Post("/", catalogHandler.CreateProduct)
		r.Put("/{id}", catalogHandler.UpdateProduct)
		r.Delete("/{id}", catalogHandler.DeleteProduct)
	})
	r.Get("/api/v1/catalog/status", catalogHandler.Status)
	r.Post("/api/v1/catalog/refresh", catalogHandler.Refresh)

	// Cart endpoints, keyed by session
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.SetQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)

		r.Post("/discount", cartHandler.ApplyDiscount)
	})

	// Checkout endpoints, keyed by session
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Post("/", checkoutHandler.Submit)
		r.Get("/status", checkoutHandler.Status)
	})

	// Back office pass-through endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/suppliers", adminHandler.ListSuppliers)
		r.Post("/suppliers", adminHandler.CreateSupplier)
		r.Get("/suppliers/{id}", adminHandler.GetSupplier)
		r.Put("/suppliers/{id}", adminHandler.UpdateSupplier)
		r.Delete("/suppliers/{id}", adminHandler.DeleteSupplier)
		r.Get("/suppliers/{id}/products", adminHandler.ListSupplierProducts)

		r.Get("/customers", adminHandler.ListCustomers)
		r.Post("/customers", adminHandler.CreateCustomer)
		r.Put("/customers/{id}", adminHandler.UpdateCustomer)
		r.Delete("/customers/{id}", adminHandler.DeleteCustomer)

		r.Get("/orders", adminHandler.ListOrders)
		r.Get("/orders/{id}", adminHandler.GetOrder)

		r.Post("/auth/login", adminHandler.Login)
	})

	return r
}
