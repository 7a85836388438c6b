package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	cartsvc "github.com/kiranalabs/storefront/internal/cart"
	catalogsvc "github.com/kiranalabs/storefront/internal/catalog"
	"github.com/kiranalabs/storefront/internal/pricing"
	sessionsvc "github.com/kiranalabs/storefront/internal/session"
	"github.com/kiranalabs/storefront/internal/stock"
	"github.com/kiranalabs/storefront/pkg/config"
	"github.com/kiranalabs/storefront/pkg/enums"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
	"github.com/kiranalabs/storefront/pkg/types"
)

type noopCatalog struct{}

func (noopCatalog) GetProduct(context.Context, string) (*catalogsvc.Product, error) {
	return &catalogsvc.Product{ID: "p1"}, nil
}
func (noopCatalog) ListByCategory(context.Context, string, int) ([]catalogsvc.Product, error) {
	return nil, nil
}
func (noopCatalog) Search(context.Context, string) ([]catalogsvc.Product, error) {
	return nil, nil
}

type noopSession struct{}

func (noopSession) Login(context.Context, string, string) (*sessionsvc.Session, error) {
	return &sessionsvc.Session{ShopperID: "s1"}, nil
}
func (noopSession) Signup(context.Context, string, string, string) (*sessionsvc.Session, error) {
	return &sessionsvc.Session{ShopperID: "s1"}, nil
}
func (noopSession) Current(context.Context, string) (*sessionsvc.Session, bool) {
	return nil, false
}
func (noopSession) Logout(context.Context, string) error { return nil }
func (noopSession) UpdateAddresses(context.Context, *sessionsvc.Session, []types.Address) (*sessionsvc.Session, error) {
	return nil, nil
}

type noopCheckout struct{}

func (noopCheckout) Reconcile(context.Context, string) (stock.Result, error) {
	return stock.Result{}, nil
}
func (noopCheckout) State(context.Context, string) enums.CheckoutState {
	return enums.CheckoutStateIdle
}
func (noopCheckout) PlaceOrder(context.Context, string, string, types.Address) (*shopapi.Order, error) {
	return &shopapi.Order{}, nil
}

type noopOrders struct{}

func (noopOrders) List(context.Context, string) ([]shopapi.Order, error) { return nil, nil }
func (noopOrders) Cancel(context.Context, string, string, string) (*shopapi.Order, error) {
	return &shopapi.Order{}, nil
}

type noopAdmin struct{}

func (noopAdmin) CreateProduct(context.Context, string, shopapi.ProductInput) (*shopapi.Product, error) {
	return &shopapi.Product{}, nil
}
func (noopAdmin) UpdateProduct(context.Context, string, string, shopapi.ProductInput) (*shopapi.Product, error) {
	return &shopapi.Product{}, nil
}
func (noopAdmin) DeleteProduct(context.Context, string, string) error { return nil }
func (noopAdmin) UpdateOrderStatus(context.Context, string, string, string) (*shopapi.Order, error) {
	return &shopapi.Order{}, nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	policy, err := pricing.NewPolicy(config.PricingConfig{FreeDeliveryThreshold: "999", DeliveryFee: "50"})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	return NewRouter(Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "test"},
			JWT: config.JWTConfig{Secret: "test-secret", Issuer: "shop-api"},
		},
		Logger:          logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Carts:           cartsvc.NewManager(nil, nil),
		Pricing:         policy,
		CatalogService:  noopCatalog{},
		SessionService:  noopSession{},
		CheckoutService: noopCheckout{},
		OrderService:    noopOrders{},
		AdminService:    noopAdmin{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterPublicProductRoutes(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("product listing must not require auth, got %d", rec.Code)
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart/"},
		{http.MethodPost, "/api/v1/checkout/reconcile"},
		{http.MethodGet, "/api/v1/orders/"},
		{http.MethodPost, "/api/admin/v1/products/"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}
