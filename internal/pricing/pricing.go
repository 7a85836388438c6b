// Package pricing derives cart totals from line items. The rules are
// deliberately dumb: a flat delivery fee waived above a threshold, plus a
// pass-through bucket for any extra charges.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/storefront/internal/cart"
	"github.com/kiranalabs/storefront/pkg/config"
)

// Policy holds the delivery fee rules. Amounts are decimals so totals
// never pick up float drift.
type Policy struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	OtherCharges          decimal.Decimal
}

// NewPolicy parses the configured amounts into a policy.
func NewPolicy(cfg config.PricingConfig) (Policy, error) {
	threshold, err := cfg.Threshold()
	if err != nil {
		return Policy{}, fmt.Errorf("parsing free delivery threshold: %w", err)
	}
	fee, err := cfg.Fee()
	if err != nil {
		return Policy{}, fmt.Errorf("parsing delivery fee: %w", err)
	}
	return Policy{
		FreeDeliveryThreshold: threshold,
		DeliveryFee:           fee,
		OtherCharges:          decimal.Zero,
	}, nil
}

// Quote is a priced snapshot of a cart.
type Quote struct {
	ItemsTotal   decimal.Decimal `json:"itemsTotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	OtherCharges decimal.Decimal `json:"otherCharges"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
}

// Compute prices the given lines. The delivery fee drops to zero once the
// items total reaches the threshold; the threshold itself qualifies.
func (p Policy) Compute(items []cart.LineItem) Quote {
	itemsTotal := decimal.Zero
	for _, item := range items {
		itemsTotal = itemsTotal.Add(item.Subtotal())
	}
	return p.quoteFor(itemsTotal)
}

// QuoteTotal prices a precomputed items total.
func (p Policy) QuoteTotal(itemsTotal decimal.Decimal) Quote {
	return p.quoteFor(itemsTotal)
}

func (p Policy) quoteFor(itemsTotal decimal.Decimal) Quote {
	fee := p.DeliveryFee
	if itemsTotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	return Quote{
		ItemsTotal:   itemsTotal.Round(2),
		DeliveryFee:  fee.Round(2),
		OtherCharges: p.OtherCharges.Round(2),
		GrandTotal:   itemsTotal.Add(fee).Add(p.OtherCharges).Round(2),
	}
}
