package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiranalabs/storefront/api/middleware"
	"github.com/kiranalabs/storefront/api/responses"
	"github.com/kiranalabs/storefront/api/validators"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

// OrderService is the slice of the order service the controllers need.
type OrderService interface {
	List(ctx context.Context, token string) ([]shopapi.Order, error)
	Cancel(ctx context.Context, token, orderID, reason string) (*shopapi.Order, error)
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// OrdersList returns the shopper's order history.
func OrdersList(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.TokenFromContext(r.Context())
		orders, err := svc.List(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// OrderCancel cancels one of the shopper's orders with a mandatory reason.
func OrderCancel(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.TokenFromContext(r.Context())
		orderID := chi.URLParam(r, "orderId")

		order, err := svc.Cancel(r.Context(), token, orderID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
