// Package admin covers the back-office operations: product catalog
// management and order status transitions. Every call forwards the admin
// bearer token; the upstream enforces the role server-side as well.
package admin

import (
	"context"
	"fmt"

	"github.com/kiranalabs/storefront/pkg/enums"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

type adminAPI interface {
	CreateProduct(ctx context.Context, token string, input shopapi.ProductInput) (*shopapi.Product, error)
	UpdateProduct(ctx context.Context, token, id string, input shopapi.ProductInput) (*shopapi.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	UpdateOrderStatus(ctx context.Context, token, orderID string, status enums.OrderStatus) (*shopapi.Order, error)
}

// Service wraps the admin operations.
type Service struct {
	api adminAPI
}

// NewService wires the admin service.
func NewService(api adminAPI) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	return &Service{api: api}, nil
}

// CreateProduct validates and submits a new product.
func (s *Service) CreateProduct(ctx context.Context, token string, input shopapi.ProductInput) (*shopapi.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.api.CreateProduct(ctx, token, input)
}

// UpdateProduct validates and submits changes to an existing product.
func (s *Service) UpdateProduct(ctx context.Context, token, id string, input shopapi.ProductInput) (*shopapi.Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.api.UpdateProduct(ctx, token, id, input)
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, token, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.api.DeleteProduct(ctx, token, id)
}

// UpdateOrderStatus moves an order to a new fulfilment status.
func (s *Service) UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*shopapi.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return s.api.UpdateOrderStatus(ctx, token, orderID, parsed)
}

// validateInput enforces the product shape before it leaves the
// storefront. Stock and size variants are mutually exclusive ways of
// expressing availability; a record carrying both is ambiguous.
func validateInput(input shopapi.ProductInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}

	hasFlat := input.Stock != nil
	hasSizes := len(input.Sizes) > 0
	if hasFlat == hasSizes {
		return pkgerrors.New(pkgerrors.CodeValidation, "exactly one of stock or sizes must be set")
	}
	if hasFlat && *input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	seen := make(map[string]bool, len(input.Sizes))
	for _, variant := range input.Sizes {
		if variant.Label == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant label is required")
		}
		if seen[variant.Label] {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate variant label %q", variant.Label))
		}
		seen[variant.Label] = true
		if variant.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant price must not be negative")
		}
		if variant.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant stock must not be negative")
		}
	}
	return nil
}
