package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranalabs/storefront/api/middleware"
	"github.com/kiranalabs/storefront/internal/cart"
	"github.com/kiranalabs/storefront/internal/stock"
	"github.com/kiranalabs/storefront/pkg/enums"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/shopapi"
	"github.com/kiranalabs/storefront/pkg/types"
)

type stubCheckout struct {
	result    stock.Result
	resultErr error
	state     enums.CheckoutState
	order     *shopapi.Order
	orderErr  error
	gotToken  string
}

func (s *stubCheckout) Reconcile(context.Context, string) (stock.Result, error) {
	return s.result, s.resultErr
}

func (s *stubCheckout) State(context.Context, string) enums.CheckoutState {
	return s.state
}

func (s *stubCheckout) PlaceOrder(_ context.Context, _, token string, _ types.Address) (*shopapi.Order, error) {
	s.gotToken = token
	return s.order, s.orderErr
}

const addressBody = `{"shippingAddress":{"fullName":"Asha Rao","phone":"9999988888","addressLine1":"12 Lake View Road","city":"Bengaluru","state":"Karnataka","zipCode":"560001"}}`

func TestCheckoutReconcileReturnsVerdicts(t *testing.T) {
	svc := &stubCheckout{
		result: stock.Result{
			Revision: 3,
			State:    enums.CheckoutStateBlocked,
			Lines: []stock.LineVerdict{
				{Availability: enums.AvailabilityInsufficientStock, AvailableStock: 2},
			},
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/reconcile", nil)
	req = req.WithContext(shopperCtx("s1"))
	rec := httptest.NewRecorder()
	CheckoutReconcile(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		State    string `json:"state"`
		Revision uint64 `json:"revision"`
		Lines    []struct {
			Availability   string `json:"availability"`
			AvailableStock int    `json:"availableStock"`
		} `json:"lines"`
	}
	decodeData(t, rec, &resp)
	if resp.State != "blocked" || resp.Revision != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Lines[0].Availability != "insufficient_stock" || resp.Lines[0].AvailableStock != 2 {
		t.Fatalf("unexpected verdict %+v", resp.Lines[0])
	}
}

func TestCheckoutReconcileReportsUnverifiedProducts(t *testing.T) {
	svc := &stubCheckout{
		result: stock.Result{
			Revision:   1,
			State:      enums.CheckoutStateBlocked,
			Unverified: []string{"down"},
			Lines: []stock.LineVerdict{
				{Item: cart.LineItem{ProductID: "down", Quantity: 1}, Availability: enums.AvailabilityOutOfStock, Unverified: true},
			},
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/reconcile", nil)
	req = req.WithContext(shopperCtx("s1"))
	rec := httptest.NewRecorder()
	CheckoutReconcile(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Unverified []string `json:"unverified"`
		Lines      []struct {
			ProductID  string `json:"productId"`
			Unverified bool   `json:"unverified"`
		} `json:"lines"`
	}
	decodeData(t, rec, &resp)
	if len(resp.Unverified) != 1 || resp.Unverified[0] != "down" {
		t.Fatalf("unverified products must reach the client, got %v", resp.Unverified)
	}
	if !resp.Lines[0].Unverified {
		t.Fatalf("the failed line must carry the unverified flag, got %+v", resp.Lines[0])
	}
}

func TestCheckoutPlaceOrderForwardsToken(t *testing.T) {
	svc := &stubCheckout{order: &shopapi.Order{ID: "o1", Status: enums.OrderStatusPending}}

	ctx := middleware.WithToken(shopperCtx("s1"), "bearer-token")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/order", bytes.NewBufferString(addressBody))
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", rec.Code, rec.Body.String())
	}
	if svc.gotToken != "bearer-token" {
		t.Fatal("bearer token must be forwarded to the service")
	}
}

func TestCheckoutPlaceOrderStateConflict(t *testing.T) {
	svc := &stubCheckout{orderErr: pkgerrors.New(pkgerrors.CodeStateConflict, "stock check required before placing the order")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/order", bytes.NewBufferString(addressBody))
	req = req.WithContext(shopperCtx("s1"))
	rec := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCheckoutStateEndpoint(t *testing.T) {
	svc := &stubCheckout{state: enums.CheckoutStateCleared}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/state", nil)
	req = req.WithContext(shopperCtx("s1"))
	rec := httptest.NewRecorder()
	CheckoutState(svc, testLogger()).ServeHTTP(rec, req)

	var resp struct {
		State string `json:"state"`
	}
	decodeData(t, rec, &resp)
	if resp.State != "cleared" {
		t.Fatalf("unexpected state %q", resp.State)
	}
}
