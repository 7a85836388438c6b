package controllers

import (
	"net/http"

	"github.com/kiranalabs/storefront/api/middleware"
	"github.com/kiranalabs/storefront/api/responses"
	"github.com/kiranalabs/storefront/api/validators"
	cartsvc "github.com/kiranalabs/storefront/internal/cart"
	catalogsvc "github.com/kiranalabs/storefront/internal/catalog"
	"github.com/kiranalabs/storefront/internal/pricing"
	"github.com/kiranalabs/storefront/pkg/logger"
)

type cartItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	UnitPrice string  `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Size      *string `json:"size,omitempty"`
	Subtotal  string  `json:"subtotal"`
}

type cartResponse struct {
	Items        []cartItemResponse `json:"items"`
	Count        int                `json:"count"`
	Revision     uint64             `json:"revision"`
	ItemsTotal   string             `json:"itemsTotal"`
	DeliveryFee  string             `json:"deliveryFee"`
	OtherCharges string             `json:"otherCharges"`
	GrandTotal   string             `json:"grandTotal"`
	Degraded     bool               `json:"degraded"`
}

func newCartResponse(store *cartsvc.Store, policy pricing.Policy) cartResponse {
	items := store.Items()
	quote := policy.Compute(items)

	resp := cartResponse{
		Items:        make([]cartItemResponse, 0, len(items)),
		Count:        store.Count(),
		Revision:     store.Revision(),
		ItemsTotal:   quote.ItemsTotal.String(),
		DeliveryFee:  quote.DeliveryFee.String(),
		OtherCharges: quote.OtherCharges.String(),
		GrandTotal:   quote.GrandTotal.String(),
		Degraded:     store.LastSaveErr() != nil,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, cartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Category:  item.Category,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
			Size:      item.VariantLabel,
			Subtotal:  item.Subtotal().String(),
		})
	}
	return resp
}

type addItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Size      *string `json:"size"`
}

type updateItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity"`
	Size      *string `json:"size"`
}

// CartFetch returns the shopper's cart with its priced totals.
func CartFetch(carts *cartsvc.Manager, policy pricing.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		store := carts.Get(r.Context(), shopperID)
		responses.WriteSuccess(w, newCartResponse(store, policy))
	}
}

// CartAdd fetches the live product and adds it to the cart, capturing the
// current discounted price on the new line.
func CartAdd(carts *cartsvc.Manager, catalog catalogsvc.Service, policy pricing.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopperID := middleware.ShopperIDFromContext(r.Context())
		store := carts.Get(r.Context(), shopperID)
		if err := store.AddItem(r.Context(), *product, payload.Quantity, payload.Size); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store, policy))
	}
}

// CartUpdate sets the quantity of an existing line; zero removes it.
func CartUpdate(carts *cartsvc.Manager, policy pricing.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopperID := middleware.ShopperIDFromContext(r.Context())
		store := carts.Get(r.Context(), shopperID)
		store.SetQuantity(r.Context(), payload.ProductID, payload.Size, payload.Quantity)

		responses.WriteSuccess(w, newCartResponse(store, policy))
	}
}

// CartRemove drops a line from the cart.
func CartRemove(carts *cartsvc.Manager, policy pricing.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shopperID := middleware.ShopperIDFromContext(r.Context())
		store := carts.Get(r.Context(), shopperID)
		store.RemoveItem(r.Context(), payload.ProductID, payload.Size)

		responses.WriteSuccess(w, newCartResponse(store, policy))
	}
}

// CartClear empties the cart.
func CartClear(carts *cartsvc.Manager, policy pricing.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		store := carts.Get(r.Context(), shopperID)
		store.Clear(r.Context())

		responses.WriteSuccess(w, newCartResponse(store, policy))
	}
}
