package controllers

import (
	"context"
	"net/http"

	"github.com/kiranalabs/storefront/api/middleware"
	"github.com/kiranalabs/storefront/api/responses"
	"github.com/kiranalabs/storefront/api/validators"
	"github.com/kiranalabs/storefront/internal/stock"
	"github.com/kiranalabs/storefront/pkg/enums"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
	"github.com/kiranalabs/storefront/pkg/types"
)

// CheckoutService is the slice of the checkout service the controllers
// need.
type CheckoutService interface {
	Reconcile(ctx context.Context, shopperID string) (stock.Result, error)
	State(ctx context.Context, shopperID string) enums.CheckoutState
	PlaceOrder(ctx context.Context, shopperID, token string, address types.Address) (*shopapi.Order, error)
}

type verdictResponse struct {
	ProductID      string  `json:"productId"`
	Size           *string `json:"size,omitempty"`
	Quantity       int     `json:"quantity"`
	Availability   string  `json:"availability"`
	AvailableStock int     `json:"availableStock"`
	LivePrice      string  `json:"livePrice"`
	Unverified     bool    `json:"unverified,omitempty"`
}

// reconcileResponse carries the per-line verdicts plus the IDs of any
// products the stock check could not verify, so a client can distinguish
// an upstream outage from a genuine sell-out.
type reconcileResponse struct {
	State      string            `json:"state"`
	Revision   uint64            `json:"revision"`
	Lines      []verdictResponse `json:"lines"`
	Unverified []string          `json:"unverified,omitempty"`
}

func newReconcileResponse(result stock.Result) reconcileResponse {
	resp := reconcileResponse{
		State:      result.State.String(),
		Revision:   result.Revision,
		Lines:      make([]verdictResponse, 0, len(result.Lines)),
		Unverified: result.Unverified,
	}
	for _, line := range result.Lines {
		resp.Lines = append(resp.Lines, verdictResponse{
			ProductID:      line.Item.ProductID,
			Size:           line.Item.VariantLabel,
			Quantity:       line.Item.Quantity,
			Availability:   line.Availability.String(),
			AvailableStock: line.AvailableStock,
			LivePrice:      line.LivePrice.String(),
			Unverified:     line.Unverified,
		})
	}
	return resp
}

type placeOrderRequest struct {
	ShippingAddress types.Address `json:"shippingAddress" validate:"required"`
}

// CheckoutReconcile runs a stock check over the shopper's cart.
func CheckoutReconcile(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		result, err := svc.Reconcile(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newReconcileResponse(result))
	}
}

// CheckoutState reports where the shopper stands in the checkout flow.
func CheckoutState(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		state := svc.State(r.Context(), shopperID)
		responses.WriteSuccess(w, map[string]string{"state": state.String()})
	}
}

// CheckoutPlaceOrder submits the cart as an order.
func CheckoutPlaceOrder(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopperID := middleware.ShopperIDFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		order, err := svc.PlaceOrder(r.Context(), shopperID, token, payload.ShippingAddress)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
