package stock

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/storefront/internal/cart"
	"github.com/kiranalabs/storefront/internal/catalog"
	"github.com/kiranalabs/storefront/pkg/enums"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
)

type stubFetcher struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
	failing  map[string]bool
	calls    map[string]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		products: make(map[string]*catalog.Product),
		failing:  make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (f *stubFetcher) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if f.failing[id] {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "shop api down")
	}
	product, ok := f.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func strptr(s string) *string { return &s }

func flat(id string, stock int) *catalog.Product {
	return &catalog.Product{ID: id, Price: decimal.NewFromInt(100), Stock: catalog.FlatStock(stock)}
}

func sized(id string, variants ...catalog.Variant) *catalog.Product {
	return &catalog.Product{ID: id, Price: decimal.NewFromInt(100), Stock: catalog.VariantStock(variants)}
}

func line(productID string, qty int, label *string) cart.LineItem {
	return cart.LineItem{
		ProductID:    productID,
		UnitPrice:    decimal.NewFromInt(100),
		Quantity:     qty,
		VariantLabel: label,
	}
}

func TestReconcileClearsWhenStockCovers(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.products["p1"] = flat("p1", 10)

	result := NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 7, []cart.LineItem{
		line("p1", 3, nil),
	})

	if result.State != enums.CheckoutStateCleared {
		t.Fatalf("expected cleared, got %s", result.State)
	}
	if result.Revision != 7 {
		t.Fatalf("result must carry the cart revision, got %d", result.Revision)
	}
	if result.Lines[0].Availability != enums.AvailabilityInStock {
		t.Fatalf("unexpected verdict %s", result.Lines[0].Availability)
	}
}

func TestReconcileInsufficientVariantStock(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.products["p1"] = sized("p1", catalog.Variant{Label: "M", Price: decimal.NewFromInt(100), Stock: 3})

	result := NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 1, []cart.LineItem{
		line("p1", 5, strptr("M")),
	})

	if result.State != enums.CheckoutStateBlocked {
		t.Fatalf("expected blocked, got %s", result.State)
	}
	verdict := result.Lines[0]
	if verdict.Availability != enums.AvailabilityInsufficientStock {
		t.Fatalf("unexpected verdict %s", verdict.Availability)
	}
	if verdict.AvailableStock != 3 {
		t.Fatalf("expected available 3, got %d", verdict.AvailableStock)
	}
}

func TestReconcileZeroStockBlocks(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.products["p1"] = flat("p1", 0)

	result := NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 1, []cart.LineItem{
		line("p1", 1, nil),
	})

	if result.State != enums.CheckoutStateBlocked {
		t.Fatalf("expected blocked, got %s", result.State)
	}
	if result.Lines[0].Availability != enums.AvailabilityOutOfStock {
		t.Fatalf("unexpected verdict %s", result.Lines[0].Availability)
	}
}

func TestReconcileFetchErrorReadsAsStockZero(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.products["ok"] = flat("ok", 10)
	fetcher.failing["down"] = true

	result := NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 1, []cart.LineItem{
		line("ok", 1, nil),
		line("down", 1, nil),
	})

	if result.State != enums.CheckoutStateBlocked {
		t.Fatalf("unverified lines must block, got %s", result.State)
	}
	if result.Lines[1].Availability != enums.AvailabilityOutOfStock {
		t.Fatalf("unexpected verdict %s", result.Lines[1].Availability)
	}
	if result.FetchErrors == nil {
		t.Fatal("fetch failures must be reported on the result")
	}
	if len(result.Unverified) != 1 || result.Unverified[0] != "down" {
		t.Fatalf("expected [down] as unverified, got %v", result.Unverified)
	}
	if !result.Lines[1].Unverified {
		t.Fatal("failed fetch must mark the line unverified")
	}
	if result.Lines[0].Unverified {
		t.Fatal("a verified line must not be marked unverified")
	}
}

func TestReconcileMissingVariantBlocksLine(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.products["p1"] = sized("p1", catalog.Variant{Label: "M", Price: decimal.NewFromInt(100), Stock: 5})

	result := NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 1, []cart.LineItem{
		line("p1", 1, strptr("XL")),
	})

	if result.Lines[0].Availability != enums.AvailabilityOutOfStock {
		t.Fatalf("a vanished variant must read as out of stock, got %s", result.Lines[0].Availability)
	}
}

func TestReconcileFetchesEachProductOnce(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.products["p1"] = sized("p1",
		catalog.Variant{Label: "M", Price: decimal.NewFromInt(100), Stock: 5},
		catalog.Variant{Label: "L", Price: decimal.NewFromInt(100), Stock: 5},
	)
	fetcher.products["p2"] = flat("p2", 5)

	NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 1, []cart.LineItem{
		line("p1", 1, strptr("M")),
		line("p1", 1, strptr("L")),
		line("p2", 1, nil),
	})

	if fetcher.calls["p1"] != 1 || fetcher.calls["p2"] != 1 {
		t.Fatalf("expected one fetch per product, got %v", fetcher.calls)
	}
}

func TestReconcileReportsLivePrice(t *testing.T) {
	fetcher := newStubFetcher()
	repriced := flat("p1", 10)
	repriced.Price = decimal.NewFromInt(150)
	repriced.DiscountPercent = 10
	fetcher.products["p1"] = repriced

	result := NewReconciler(fetcher, nil, nil).Reconcile(context.Background(), 1, []cart.LineItem{
		line("p1", 1, nil),
	})

	if result.Lines[0].LivePrice.String() != "135" {
		t.Fatalf("expected live price 135, got %s", result.Lines[0].LivePrice)
	}
	// The captured cart price is untouched.
	if result.Lines[0].Item.UnitPrice.String() != "100" {
		t.Fatalf("cart price must not be rewritten, got %s", result.Lines[0].Item.UnitPrice)
	}
}
