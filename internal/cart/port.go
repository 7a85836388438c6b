package cart

import "context"

// slotSchemaVersion tags the serialized cart layout. A stored slot with a
// different version is treated as absent rather than decoded on a guess.
const slotSchemaVersion = 1

// Port is the persistence seam for the cart slot. Implementations store a
// single opaque payload per shopper; the store decides what goes in it.
type Port interface {
	// Load returns the stored payload. The second return is false when no
	// usable slot exists for the shopper.
	Load(ctx context.Context, shopperID string) ([]byte, bool, error)
	Save(ctx context.Context, shopperID string, payload []byte) error
	Clear(ctx context.Context, shopperID string) error
}
