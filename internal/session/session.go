// Package session keeps the authenticated shopper identity in a named
// persistence slot, mirroring the cart's slot layout.
package session

import (
	"context"

	"github.com/kiranalabs/storefront/pkg/types"
)

// slotSchemaVersion tags the serialized session layout.
const slotSchemaVersion = 1

// Session is the stored identity for a logged-in shopper, including the
// upstream bearer token forwarded on their behalf.
type Session struct {
	ShopperID string          `json:"shopper_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	IsAdmin   bool            `json:"is_admin"`
	Addresses []types.Address `json:"addresses"`
	Token     string          `json:"token"`
}

// Port is the persistence seam for the session slot.
type Port interface {
	Load(ctx context.Context, shopperID string) ([]byte, bool, error)
	Save(ctx context.Context, shopperID string, payload []byte) error
	Clear(ctx context.Context, shopperID string) error
}
