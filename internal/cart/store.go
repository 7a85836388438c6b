package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/storefront/internal/catalog"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/logger"
)

// Store holds one shopper's cart. All mutations go through its methods so
// the line list, the revision counter, and the persisted slot stay in step.
// The revision increments on every mutation; readers that captured a
// revision can later tell whether the cart changed underneath them.
type Store struct {
	mu        sync.Mutex
	shopperID string
	port      Port
	logg      *logger.Logger

	items       []LineItem
	revision    uint64
	lastSaveErr error
	subscribers []func(revision uint64)
}

// NewStore builds an empty store bound to a persistence port. Port may be
// nil for a purely in-memory cart.
func NewStore(shopperID string, port Port, logg *logger.Logger) *Store {
	return &Store{shopperID: shopperID, port: port, logg: logg}
}

// LoadStore restores a store from its persisted slot. A missing or
// unreadable slot yields an empty cart, never an error surfaced to the
// shopper; the cart is not worth blocking a session over.
func LoadStore(ctx context.Context, shopperID string, port Port, logg *logger.Logger) *Store {
	store := NewStore(shopperID, port, logg)
	if port == nil {
		return store
	}

	payload, ok, err := port.Load(ctx, shopperID)
	if err != nil {
		if logg != nil {
			logg.Warn(ctx, fmt.Sprintf("cart slot load failed, starting empty: %v", err))
		}
		return store
	}
	if !ok {
		return store
	}

	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		if logg != nil {
			logg.Warn(ctx, fmt.Sprintf("cart slot payload unreadable, starting empty: %v", err))
		}
		return store
	}
	store.items = items
	return store
}

// AddItem appends a line for the product, or merges into the existing line
// with the same identity by bumping its quantity. The merged line keeps
// the unit price captured when it was first added. For products with
// variants a label naming an existing variant is required; for flat-stock
// products the label must be nil.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int, variantLabel *string) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	basePrice := product.Price
	if product.Stock.HasVariants() {
		if variantLabel == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant selection required for this product")
		}
		variant, ok := product.Stock.FindVariant(*variantLabel)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown variant %q", *variantLabel))
		}
		basePrice = variant.Price
	} else if variantLabel != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product has no variants")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(product.ID, variantLabel)
	for i := range s.items {
		if s.items[i].key() == key {
			s.items[i].Quantity += quantity
			s.afterMutation(ctx)
			return nil
		}
	}

	var label *string
	if variantLabel != nil {
		copied := *variantLabel
		label = &copied
	}
	s.items = append(s.items, LineItem{
		ProductID:     product.ID,
		Name:          product.Name,
		Image:         product.PrimaryImage(),
		Category:      product.Category,
		UnitPrice:     product.DiscountedPrice(basePrice),
		OriginalPrice: basePrice,
		Quantity:      quantity,
		VariantLabel:  label,
	})
	s.afterMutation(ctx)
	return nil
}

// RemoveItem drops the line with the given identity. Removing an absent
// line is a no-op and does not bump the revision.
func (s *Store) RemoveItem(ctx context.Context, productID string, variantLabel *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(productID, variantLabel)
	for i := range s.items {
		if s.items[i].key() == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.afterMutation(ctx)
			return
		}
	}
}

// SetQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line. Targeting an absent line is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, variantLabel *string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(productID, variantLabel)
	for i := range s.items {
		if s.items[i].key() != key {
			continue
		}
		if quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = quantity
		}
		s.afterMutation(ctx)
		return
	}
}

// Clear empties the cart and removes the persisted slot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.revision++
	if s.port != nil {
		if err := s.port.Clear(ctx, s.shopperID); err != nil {
			s.lastSaveErr = err
			if s.logg != nil {
				s.logg.Warn(ctx, fmt.Sprintf("cart slot clear failed: %v", err))
			}
		} else {
			s.lastSaveErr = nil
		}
	}
	s.notify()
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// ItemsTotal sums the line subtotals.
func (s *Store) ItemsTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the total unit count across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// LastSaveErr reports whether the most recent persist attempt failed. The
// cart keeps working in memory when it did; callers can surface the
// degraded state without losing the shopper's lines.
func (s *Store) LastSaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// Subscribe registers a callback invoked with the new revision after every
// mutation. Callbacks run while the store lock is held, so they must not
// call back into the store.
func (s *Store) Subscribe(fn func(revision uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// afterMutation bumps the revision, persists the slot, and fans out to
// subscribers. Caller holds the lock.
func (s *Store) afterMutation(ctx context.Context) {
	s.revision++
	s.persist(ctx)
	s.notify()
}

func (s *Store) persist(ctx context.Context) {
	if s.port == nil {
		return
	}
	payload, err := json.Marshal(s.items)
	if err == nil {
		err = s.port.Save(ctx, s.shopperID, payload)
	}
	if err != nil {
		s.lastSaveErr = err
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("cart slot save failed, continuing in memory: %v", err))
		}
		return
	}
	s.lastSaveErr = nil
}

func (s *Store) notify() {
	for _, fn := range s.subscribers {
		fn(s.revision)
	}
}
