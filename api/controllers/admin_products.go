package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/storefront/api/middleware"
	"github.com/kiranalabs/storefront/api/responses"
	"github.com/kiranalabs/storefront/api/validators"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

// AdminService is the slice of the admin service the controllers need.
type AdminService interface {
	CreateProduct(ctx context.Context, token string, input shopapi.ProductInput) (*shopapi.Product, error)
	UpdateProduct(ctx context.Context, token, id string, input shopapi.ProductInput) (*shopapi.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*shopapi.Order, error)
}

type productVariantPayload struct {
	Label string `json:"label" validate:"required"`
	Price string `json:"price" validate:"required"`
	Stock int    `json:"stock"`
}

type productRequest struct {
	Name            string                  `json:"name" validate:"required"`
	Description     string                  `json:"description"`
	Price           string                  `json:"price" validate:"required"`
	DiscountPercent int                     `json:"discountPercent"`
	Category        string                  `json:"category"`
	Images          []string                `json:"images"`
	Stock           *int                    `json:"stock"`
	Sizes           []productVariantPayload `json:"sizes"`
}

func (p productRequest) toInput() (shopapi.ProductInput, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return shopapi.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	input := shopapi.ProductInput{
		Name:            p.Name,
		Description:     p.Description,
		Price:           price,
		DiscountPercent: p.DiscountPercent,
		Category:        p.Category,
		Images:          p.Images,
		Stock:           p.Stock,
	}
	for _, size := range p.Sizes {
		variantPrice, err := decimal.NewFromString(size.Price)
		if err != nil {
			return shopapi.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant price")
		}
		input.Sizes = append(input.Sizes, shopapi.Variant{
			Label: size.Label,
			Price: variantPrice,
			Stock: size.Stock,
		})
	}
	return input, nil
}

// AdminCreateProduct adds a product to the catalog.
func AdminCreateProduct(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.TokenFromContext(r.Context())
		product, err := svc.CreateProduct(r.Context(), token, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct edits an existing product.
func AdminUpdateProduct(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.TokenFromContext(r.Context())
		id := chi.URLParam(r, "productId")

		product, err := svc.UpdateProduct(r.Context(), token, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.TokenFromContext(r.Context())
		id := chi.URLParam(r, "productId")

		if err := svc.DeleteProduct(r.Context(), token, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminUpdateOrderStatus moves an order along the fulfilment pipeline.
func AdminUpdateOrderStatus(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Status string `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := middleware.TokenFromContext(r.Context())
		orderID := chi.URLParam(r, "orderId")

		order, err := svc.UpdateOrderStatus(r.Context(), token, orderID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
