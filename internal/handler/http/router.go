package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RouterDeps carries the services the router exposes.
type RouterDeps struct {
	Catalog   *service.CatalogService
	Cart      *service.CartStore
	Wishlist  *service.WishlistStore
	Orders    *service.OrderService
	Analytics *service.AnalyticsService
	Health    *health.Handler
	Logger    *slog.Logger

	CORS       middleware.CORSConfig
	PprofCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)

	productHandler := NewProductHandler(deps.Catalog, deps.Analytics, deps.Logger)
	cartHandler := NewCartHandler(deps.Cart, deps.Catalog, deps.Analytics, deps.Logger)
	wishlistHandler := NewWishlistHandler(deps.Wishlist, deps.Catalog, deps.Logger)
	orderHandler := NewOrderHandler(deps.Orders, deps.Analytics, deps.Logger)
	analyticsHandler := NewAnalyticsHandler(deps.Analytics, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.HeaderIdentity())

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.CacheControl(60)).Get("/", productHandler.ListProducts)
			r.With(middleware.CacheControl(60)).Get("/{id}", productHandler.GetProduct)
			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productID}", cartHandler.UpdateItem)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.Clear)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{productID}", wishlistHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{id}", orderHandler.GetOrder)
		})

		r.Route("/admin/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))
			r.Patch("/{id}/status", orderHandler.UpdateStatus)
			r.Patch("/{id}/tracking", orderHandler.UpdateTracking)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/report", analyticsHandler.GetReport)
			r.Post("/cache/invalidate", analyticsHandler.InvalidateCache)
		})
	})

	return r
}
