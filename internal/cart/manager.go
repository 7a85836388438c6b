package cart

import (
	"context"
	"sync"

	"github.com/kiranalabs/storefront/pkg/logger"
)

// Manager hands out one Store per shopper, restoring it from the
// persistence port on first use and caching it afterwards so every request
// for the same shopper sees the same in-memory cart.
type Manager struct {
	mu     sync.Mutex
	port   Port
	logg   *logger.Logger
	stores map[string]*Store
}

// NewManager builds a manager over the given port. Port may be nil to run
// every cart in memory only.
func NewManager(port Port, logg *logger.Logger) *Manager {
	return &Manager{
		port:   port,
		logg:   logg,
		stores: make(map[string]*Store),
	}
}

// Get returns the shopper's store, loading it on first access.
func (m *Manager) Get(ctx context.Context, shopperID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[shopperID]; ok {
		return store
	}
	store := LoadStore(ctx, shopperID, m.port, m.logg)
	m.stores[shopperID] = store
	return store
}

// Drop forgets the cached store for a shopper, for example on logout. The
// persisted slot is untouched; the cart comes back on the next Get.
func (m *Manager) Drop(shopperID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, shopperID)
}
