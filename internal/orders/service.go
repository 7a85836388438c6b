// Package orders gives shoppers their order history and self-service
// cancellation over the shop API.
package orders

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

type orderAPI interface {
	ListOrders(ctx context.Context, token string) ([]shopapi.Order, error)
	CancelOrder(ctx context.Context, token, orderID, reason string) (*shopapi.Order, error)
}

// Service wraps the shopper-facing order operations.
type Service struct {
	api orderAPI
}

// NewService wires the order service.
func NewService(api orderAPI) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	return &Service{api: api}, nil
}

// List returns the shopper's orders as the upstream reports them.
func (s *Service) List(ctx context.Context, token string) ([]shopapi.Order, error) {
	return s.api.ListOrders(ctx, token)
}

// Cancel requests cancellation of one of the shopper's orders. A reason
// is mandatory; the upstream records it alongside who cancelled.
func (s *Service) Cancel(ctx context.Context, token, orderID, reason string) (*shopapi.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}
	return s.api.CancelOrder(ctx, token, orderID, reason)
}
