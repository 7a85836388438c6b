// Package stock re-checks a cart against live product stock right before
// checkout. The cart is the shopper's claim; the shop API is the truth.
package stock

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/kiranalabs/storefront/internal/cart"
	"github.com/kiranalabs/storefront/internal/catalog"
	"github.com/kiranalabs/storefront/pkg/enums"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/metrics"
)

// ProductFetcher is the slice of the catalog the reconciler needs.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// LineVerdict is the reconciliation outcome for a single cart line.
// Unverified marks a line whose product could not be fetched: its stock
// reads as zero, but the caller can tell an upstream failure apart from a
// genuinely sold-out product.
type LineVerdict struct {
	Item           cart.LineItem      `json:"item"`
	Availability   enums.Availability `json:"availability"`
	AvailableStock int                `json:"availableStock"`
	LivePrice      decimal.Decimal    `json:"livePrice"`
	Unverified     bool               `json:"unverified,omitempty"`
}

// Result is a full-cart reconciliation keyed by the cart revision it was
// computed against. A result whose revision no longer matches the cart is
// stale and must be discarded, not acted on.
type Result struct {
	Revision    uint64              `json:"revision"`
	State       enums.CheckoutState `json:"state"`
	Lines       []LineVerdict       `json:"lines"`
	Unverified  []string            `json:"unverified,omitempty"`
	CheckedAt   time.Time           `json:"checkedAt"`
	FetchErrors error               `json:"-"`
}

// Blocked reports whether any line prevents checkout.
func (r Result) Blocked() bool {
	return r.State == enums.CheckoutStateBlocked
}

// Reconciler fetches live stock for every distinct product in a cart and
// classifies each line against it.
type Reconciler struct {
	fetcher ProductFetcher
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
}

// NewReconciler builds a reconciler. Metrics and logger may be nil.
func NewReconciler(fetcher ProductFetcher, m *metrics.StorefrontMetrics, logg *logger.Logger) *Reconciler {
	return &Reconciler{fetcher: fetcher, metrics: m, logg: logg}
}

// Reconcile checks every line of the given snapshot against live stock.
// One fetch is issued per distinct product ID; lines for different
// variants of the same product share the fetch. A fetch failure is read
// as stock zero for the affected lines, so an unreachable upstream blocks
// checkout instead of letting an unverified order through. Products whose
// fetch failed are listed in Result.Unverified so the caller can report
// them distinctly from genuine sell-outs.
func (r *Reconciler) Reconcile(ctx context.Context, revision uint64, items []cart.LineItem) Result {
	start := time.Now()

	products := r.fetchAll(ctx, items)

	result := Result{
		Revision:  revision,
		State:     enums.CheckoutStateCleared,
		Lines:     make([]LineVerdict, 0, len(items)),
		CheckedAt: time.Now(),
	}

	var fetchErrs error
	seen := make(map[string]bool)
	for _, item := range items {
		fetched := products[item.ProductID]
		if fetched.err != nil && !seen[item.ProductID] {
			seen[item.ProductID] = true
			fetchErrs = multierr.Append(fetchErrs, fetched.err)
			result.Unverified = append(result.Unverified, item.ProductID)
		}

		verdict := classify(item, fetched.product)
		verdict.Unverified = fetched.err != nil
		if verdict.Availability.Blocks() {
			result.State = enums.CheckoutStateBlocked
		}
		result.Lines = append(result.Lines, verdict)
	}
	result.FetchErrors = fetchErrs

	if r.metrics != nil {
		r.metrics.ObserveReconcile(result.State.String(), time.Since(start))
	}
	if fetchErrs != nil && r.logg != nil {
		r.logg.Warn(ctx, "stock reconciliation had fetch failures: "+fetchErrs.Error())
	}
	return result
}

type fetchOutcome struct {
	product *catalog.Product
	err     error
}

// fetchAll resolves each distinct product concurrently. Every goroutine
// writes only its own map entry, allocated before the fan-out.
func (r *Reconciler) fetchAll(ctx context.Context, items []cart.LineItem) map[string]*fetchOutcome {
	outcomes := make(map[string]*fetchOutcome)
	for _, item := range items {
		if _, ok := outcomes[item.ProductID]; !ok {
			outcomes[item.ProductID] = &fetchOutcome{}
		}
	}

	var wg sync.WaitGroup
	for id, slot := range outcomes {
		wg.Add(1)
		go func(id string, slot *fetchOutcome) {
			defer wg.Done()
			slot.product, slot.err = r.fetcher.GetProduct(ctx, id)
		}(id, slot)
	}
	wg.Wait()
	return outcomes
}

// classify compares one line against the fetched product. A nil product
// means the fetch failed or the record vanished; both read as stock zero.
func classify(item cart.LineItem, product *catalog.Product) LineVerdict {
	verdict := LineVerdict{
		Item:      item,
		LivePrice: item.UnitPrice,
	}

	available := 0
	if product != nil {
		if item.VariantLabel != nil {
			if variant, ok := product.Stock.FindVariant(*item.VariantLabel); ok {
				available = variant.Stock
				verdict.LivePrice = product.DiscountedPrice(variant.Price)
			}
		} else if !product.Stock.HasVariants() {
			available = product.Stock.Flat()
			verdict.LivePrice = product.DiscountedPrice(product.Price)
		}
	}

	verdict.AvailableStock = available
	switch {
	case available <= 0:
		verdict.Availability = enums.AvailabilityOutOfStock
	case available < item.Quantity:
		verdict.Availability = enums.AvailabilityInsufficientStock
	default:
		verdict.Availability = enums.AvailabilityInStock
	}
	return verdict
}
