// Package checkout drives the reconcile-then-submit flow. An order may
// only be placed against a stock check that is both clear and computed
// from the cart exactly as it stands.
package checkout

import (
	"context"
	"sync"

	"github.com/kiranalabs/storefront/internal/cart"
	"github.com/kiranalabs/storefront/internal/pricing"
	"github.com/kiranalabs/storefront/internal/stock"
	"github.com/kiranalabs/storefront/pkg/enums"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
	"github.com/kiranalabs/storefront/pkg/types"
)

type reconciler interface {
	Reconcile(ctx context.Context, revision uint64, items []cart.LineItem) stock.Result
}

type orderAPI interface {
	CreateOrder(ctx context.Context, token string, payload shopapi.OrderPayload) (*shopapi.Order, error)
}

// Service coordinates reconciliation results and order submission per
// shopper. It remembers the last reconciliation and the cart revision it
// was computed against; any cart mutation in between invalidates it.
type Service struct {
	mu          sync.Mutex
	carts       *cart.Manager
	reconciler  reconciler
	orders      orderAPI
	policy      pricing.Policy
	logg        *logger.Logger
	lastResults map[string]stock.Result
	inflight    map[string]int
}

// NewService wires the checkout flow.
func NewService(carts *cart.Manager, rec reconciler, orders orderAPI, policy pricing.Policy, logg *logger.Logger) *Service {
	return &Service{
		carts:       carts,
		reconciler:  rec,
		orders:      orders,
		policy:      policy,
		logg:        logg,
		lastResults: make(map[string]stock.Result),
		inflight:    make(map[string]int),
	}
}

// Reconcile runs a stock check over the shopper's current cart and caches
// the result. If the cart mutates while the check is in flight the result
// is discarded and the caller gets a conflict to retry on.
func (s *Service) Reconcile(ctx context.Context, shopperID string) (stock.Result, error) {
	store := s.carts.Get(ctx, shopperID)
	items := store.Items()
	if len(items) == 0 {
		return stock.Result{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	revision := store.Revision()

	s.mu.Lock()
	s.inflight[shopperID]++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.inflight[shopperID]--; s.inflight[shopperID] <= 0 {
			delete(s.inflight, shopperID)
		}
		s.mu.Unlock()
	}()

	result := s.reconciler.Reconcile(ctx, revision, items)

	if store.Revision() != revision {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart changed during stock check, result discarded")
		}
		return stock.Result{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed during stock check")
	}

	s.mu.Lock()
	s.lastResults[shopperID] = result
	s.mu.Unlock()
	return result, nil
}

// State derives the shopper's checkout state. A check in flight reads as
// reconciling; a cached result that no longer matches the cart revision
// counts as idle, not as cleared.
func (s *Service) State(ctx context.Context, shopperID string) enums.CheckoutState {
	store := s.carts.Get(ctx, shopperID)

	s.mu.Lock()
	running := s.inflight[shopperID] > 0
	result, ok := s.lastResults[shopperID]
	s.mu.Unlock()

	if running {
		return enums.CheckoutStateReconciling
	}
	if !ok || result.Revision != store.Revision() {
		return enums.CheckoutStateIdle
	}
	return result.State
}

// PlaceOrder submits the cart as an order. It requires a cleared stock
// check computed against the cart's current revision, and clears the cart
// only after the upstream confirms the order. A failed submission leaves
// both the cart and the cached check untouched.
func (s *Service) PlaceOrder(ctx context.Context, shopperID, token string, address types.Address) (*shopapi.Order, error) {
	store := s.carts.Get(ctx, shopperID)
	items := store.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !address.Complete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}

	s.mu.Lock()
	result, ok := s.lastResults[shopperID]
	s.mu.Unlock()

	if !ok || result.Revision != store.Revision() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stock check required before placing the order")
	}
	if result.State != enums.CheckoutStateCleared {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart has unavailable items").
			WithDetails(result.Lines)
	}

	quote := s.policy.Compute(items)
	payload := buildPayload(items, address, quote)

	order, err := s.orders.CreateOrder(ctx, token, payload)
	if err != nil {
		return nil, err
	}

	store.Clear(ctx)
	s.mu.Lock()
	delete(s.lastResults, shopperID)
	s.mu.Unlock()

	if s.logg != nil {
		s.logg.Info(ctx, "order placed, cart cleared")
	}
	return order, nil
}

func buildPayload(items []cart.LineItem, address types.Address, quote pricing.Quote) shopapi.OrderPayload {
	payload := shopapi.OrderPayload{
		Items:           make([]shopapi.OrderItem, 0, len(items)),
		ShippingAddress: address,
		ItemsTotal:      quote.ItemsTotal,
		DeliveryFee:     quote.DeliveryFee,
		OtherCharges:    quote.OtherCharges,
		GrandTotal:      quote.GrandTotal,
	}
	for _, item := range items {
		payload.Items = append(payload.Items, shopapi.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.VariantLabel,
			Subtotal:  item.Subtotal(),
		})
	}
	return payload
}
