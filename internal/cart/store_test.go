package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/storefront/internal/catalog"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
)

type memoryPort struct {
	mu      sync.Mutex
	slots   map[string][]byte
	saveErr error
	saves   int
}

func newMemoryPort() *memoryPort {
	return &memoryPort{slots: make(map[string][]byte)}
}

func (p *memoryPort) Load(_ context.Context, shopperID string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	payload, ok := p.slots[shopperID]
	return payload, ok, nil
}

func (p *memoryPort) Save(_ context.Context, shopperID string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.slots[shopperID] = payload
	return nil
}

func (p *memoryPort) Clear(_ context.Context, shopperID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	delete(p.slots, shopperID)
	return nil
}

func strptr(s string) *string { return &s }

func flatProduct(id string, price int64, discount int) catalog.Product {
	return catalog.Product{
		ID:              id,
		Name:            "Product " + id,
		Price:           decimal.NewFromInt(price),
		DiscountPercent: discount,
		Category:        "Test",
		Stock:           catalog.FlatStock(10),
	}
}

func sizedProduct(id string, basePrice int64, discount int, variants ...catalog.Variant) catalog.Product {
	return catalog.Product{
		ID:              id,
		Name:            "Product " + id,
		Price:           decimal.NewFromInt(basePrice),
		DiscountPercent: discount,
		Category:        "Test",
		Stock:           catalog.VariantStock(variants),
	}
}

func TestAddItemMergesOnIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	product := flatProduct("p1", 100, 0)
	if err := store.AddItem(ctx, product, 2, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := store.AddItem(ctx, product, 3, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestMergeKeepsFirstCapturedPrice(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	if err := store.AddItem(ctx, flatProduct("p1", 100, 20), 1, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	// Same identity added again after an upstream price change.
	if err := store.AddItem(ctx, flatProduct("p1", 200, 0), 1, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected one line, got %d", len(items))
	}
	if items[0].UnitPrice.String() != "80" {
		t.Fatalf("merge must keep the first unit price, got %s", items[0].UnitPrice)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestVariantLinesAreDistinct(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	product := sizedProduct("p1", 100, 0,
		catalog.Variant{Label: "M", Price: decimal.NewFromInt(100), Stock: 5},
		catalog.Variant{Label: "L", Price: decimal.NewFromInt(120), Stock: 5},
	)
	if err := store.AddItem(ctx, product, 1, strptr("M")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := store.AddItem(ctx, product, 1, strptr("L")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("expected two lines, got %d", len(items))
	}
	if items[1].UnitPrice.String() != "120" {
		t.Fatalf("variant line must use the variant price, got %s", items[1].UnitPrice)
	}
}

func TestAddItemValidatesVariantSelection(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	sized := sizedProduct("p1", 100, 0, catalog.Variant{Label: "M", Price: decimal.NewFromInt(100), Stock: 5})

	cases := []struct {
		name    string
		product catalog.Product
		qty     int
		label   *string
	}{
		{"zero quantity", flatProduct("p2", 100, 0), 0, nil},
		{"missing label", sized, 1, nil},
		{"unknown label", sized, 1, strptr("XL")},
		{"label on flat product", flatProduct("p2", 100, 0), 1, strptr("M")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.AddItem(ctx, tc.product, tc.qty, tc.label)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(store.Items()) != 0 {
		t.Fatal("rejected adds must not touch the cart")
	}
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	if err := store.AddItem(ctx, flatProduct("p1", 100, 0), 2, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	store.SetQuantity(ctx, "p1", nil, 0)

	if len(store.Items()) != 0 {
		t.Fatal("quantity zero should remove the line")
	}
}

func TestMutationsOnAbsentLinesAreNoOps(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	if err := store.AddItem(ctx, flatProduct("p1", 100, 0), 1, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	before := store.Revision()

	store.RemoveItem(ctx, "missing", nil)
	store.SetQuantity(ctx, "missing", nil, 3)
	store.RemoveItem(ctx, "p1", strptr("M"))

	if store.Revision() != before {
		t.Fatal("no-op mutations must not bump the revision")
	}
	if len(store.Items()) != 1 {
		t.Fatal("no-op mutations must not change the lines")
	}
}

func TestItemsTotalIsOrderInvariant(t *testing.T) {
	ctx := context.Background()

	a := flatProduct("a", 100, 10)
	b := flatProduct("b", 250, 0)
	c := sizedProduct("c", 0, 0, catalog.Variant{Label: "M", Price: decimal.NewFromFloat(99.99), Stock: 5})

	first := NewStore("s1", nil, nil)
	for _, add := range []func() error{
		func() error { return first.AddItem(ctx, a, 2, nil) },
		func() error { return first.AddItem(ctx, b, 1, nil) },
		func() error { return first.AddItem(ctx, c, 3, strptr("M")) },
	} {
		if err := add(); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	second := NewStore("s2", nil, nil)
	for _, add := range []func() error{
		func() error { return second.AddItem(ctx, c, 3, strptr("M")) },
		func() error { return second.AddItem(ctx, a, 2, nil) },
		func() error { return second.AddItem(ctx, b, 1, nil) },
	} {
		if err := add(); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	if !first.ItemsTotal().Equal(second.ItemsTotal()) {
		t.Fatalf("totals differ by insertion order: %s vs %s", first.ItemsTotal(), second.ItemsTotal())
	}
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	port := newMemoryPort()

	store := NewStore("shopper", port, nil)
	if err := store.AddItem(ctx, flatProduct("p1", 100, 10), 2, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := store.AddItem(ctx, sizedProduct("p2", 0, 0, catalog.Variant{Label: "M", Price: decimal.NewFromInt(50), Stock: 3}), 1, strptr("M")); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	restored := LoadStore(ctx, "shopper", port, nil)
	items := restored.Items()
	if len(items) != 2 {
		t.Fatalf("expected two restored lines, got %d", len(items))
	}
	if items[0].UnitPrice.String() != "90" {
		t.Fatalf("restored unit price lost: %s", items[0].UnitPrice)
	}
	if items[1].VariantLabel == nil || *items[1].VariantLabel != "M" {
		t.Fatalf("restored variant label lost: %+v", items[1])
	}
	if !restored.ItemsTotal().Equal(store.ItemsTotal()) {
		t.Fatalf("restored total %s != original %s", restored.ItemsTotal(), store.ItemsTotal())
	}
}

func TestSaveFailureKeepsCartUsable(t *testing.T) {
	ctx := context.Background()
	port := newMemoryPort()
	port.saveErr = errors.New("disk full")

	store := NewStore("shopper", port, nil)
	if err := store.AddItem(ctx, flatProduct("p1", 100, 0), 1, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(store.Items()) != 1 {
		t.Fatal("cart must keep working in memory after a save failure")
	}
	if store.LastSaveErr() == nil {
		t.Fatal("save failure must be reported")
	}

	port.saveErr = nil
	store.SetQuantity(ctx, "p1", nil, 4)
	if store.LastSaveErr() != nil {
		t.Fatal("successful save must clear the degraded flag")
	}
}

func TestSubscribersSeeEveryRevision(t *testing.T) {
	ctx := context.Background()
	store := NewStore("shopper", nil, nil)

	var seen []uint64
	store.Subscribe(func(revision uint64) {
		seen = append(seen, revision)
	})

	if err := store.AddItem(ctx, flatProduct("p1", 100, 0), 1, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	store.SetQuantity(ctx, "p1", nil, 2)
	store.Clear(ctx)

	if len(seen) != 3 {
		t.Fatalf("expected three notifications, got %d", len(seen))
	}
	for i, revision := range seen {
		if revision != uint64(i+1) {
			t.Fatalf("expected revision %d, got %d", i+1, revision)
		}
	}
}

func TestManagerReturnsSameStore(t *testing.T) {
	ctx := context.Background()
	port := newMemoryPort()
	manager := NewManager(port, nil)

	first := manager.Get(ctx, "shopper")
	if err := first.AddItem(ctx, flatProduct("p1", 100, 0), 1, nil); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	second := manager.Get(ctx, "shopper")
	if first != second {
		t.Fatal("manager must cache the store per shopper")
	}

	manager.Drop("shopper")
	third := manager.Get(ctx, "shopper")
	if third == first {
		t.Fatal("dropped store should be reloaded")
	}
	if len(third.Items()) != 1 {
		t.Fatal("reloaded store should restore the persisted lines")
	}
}
