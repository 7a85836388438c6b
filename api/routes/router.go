package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kiranalabs/storefront/api/controllers"
	"github.com/kiranalabs/storefront/api/middleware"
	cartsvc "github.com/kiranalabs/storefront/internal/cart"
	catalogsvc "github.com/kiranalabs/storefront/internal/catalog"
	"github.com/kiranalabs/storefront/internal/pricing"
	"github.com/kiranalabs/storefront/pkg/config"
	"github.com/kiranalabs/storefront/pkg/logger"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisPinger     controllers.Pinger
	Registry        *prometheus.Registry
	Carts           *cartsvc.Manager
	Pricing         pricing.Policy
	CatalogService  catalogsvc.Service
	SessionService  controllers.SessionService
	CheckoutService controllers.CheckoutService
	OrderService    controllers.OrderService
	AdminService    controllers.AdminService
}

// NewRouter assembles the storefront's HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DBPinger,
			"redis": deps.RedisPinger,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.SessionService, logg))
		r.Post("/signup", controllers.AuthSignup(deps.SessionService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/search", controllers.ProductSearch(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.AuthMe(deps.SessionService, logg))
			r.Post("/logout", controllers.AuthLogout(deps.SessionService, logg))
			r.Put("/addresses", controllers.AuthAddresses(deps.SessionService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Carts, deps.Pricing, logg))
			r.Post("/items", controllers.CartAdd(deps.Carts, deps.CatalogService, deps.Pricing, logg))
			r.Put("/items", controllers.CartUpdate(deps.Carts, deps.Pricing, logg))
			r.Delete("/items", controllers.CartRemove(deps.Carts, deps.Pricing, logg))
			r.Delete("/", controllers.CartClear(deps.Carts, deps.Pricing, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/reconcile", controllers.CheckoutReconcile(deps.CheckoutService, logg))
			r.Get("/state", controllers.CheckoutState(deps.CheckoutService, logg))
			r.Post("/order", controllers.CheckoutPlaceOrder(deps.CheckoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrderService, logg))
			r.Put("/{orderId}/cancel", controllers.OrderCancel(deps.OrderService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(deps.AdminService, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(deps.AdminService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.AdminService, logg))
		})
		r.Put("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.AdminService, logg))
	})

	return r
}
