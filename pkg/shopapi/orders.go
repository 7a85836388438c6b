package shopapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/storefront/pkg/enums"
	"github.com/kiranalabs/storefront/pkg/types"
)

// OrderItem is one submitted line of an order payload.
type OrderItem struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      *string         `json:"size"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderPayload is the order-creation request body. GrandTotal must equal
// the pricing engine's computed value; the upstream re-validates stock and
// totals on its side.
type OrderPayload struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress types.Address   `json:"shippingAddress"`
	ItemsTotal      decimal.Decimal `json:"itemsTotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	OtherCharges    decimal.Decimal `json:"otherCharges"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

// Cancellation records who cancelled an order and why.
type Cancellation struct {
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelledAt"`
	CancelledBy string    `json:"cancelledBy"`
}

// Order is the order record as returned by the shop API.
type Order struct {
	ID              string            `json:"_id"`
	Items           []OrderItem       `json:"items"`
	ShippingAddress types.Address     `json:"shippingAddress"`
	ItemsTotal      decimal.Decimal   `json:"itemsTotal"`
	DeliveryFee     decimal.Decimal   `json:"deliveryFee"`
	OtherCharges    decimal.Decimal   `json:"otherCharges"`
	GrandTotal      decimal.Decimal   `json:"grandTotal"`
	Status          enums.OrderStatus `json:"orderStatus"`
	Cancellation    *Cancellation     `json:"cancellation,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, token string, payload OrderPayload) (*Order, error) {
	var order Order
	if err := c.do(ctx, "create_order", http.MethodPost, "/orders", token, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the caller's orders; admins receive every order.
func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "list_orders", http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder cancels an order with the given reason.
func (c *Client) CancelOrder(ctx context.Context, token, orderID, reason string) (*Order, error) {
	var order Order
	path := "/orders/" + url.PathEscape(orderID) + "/cancel"
	body := map[string]string{"reason": reason}
	if err := c.do(ctx, "cancel_order", http.MethodPut, path, token, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to a new fulfilment status (admin only).
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status enums.OrderStatus) (*Order, error) {
	var order Order
	path := "/orders/" + url.PathEscape(orderID) + "/status"
	body := map[string]string{"status": status.String()}
	if err := c.do(ctx, "update_order_status", http.MethodPut, path, token, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
