package cart

import "github.com/shopspring/decimal"

// LineItem is one cart line. Identity is the (ProductID, VariantLabel)
// pair; a nil label and a non-nil label are always distinct lines even for
// the same product. UnitPrice is captured when the line is created and is
// never recomputed on merge, so a price change upstream does not silently
// reprice an existing line.
type LineItem struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Quantity      int             `json:"quantity"`
	VariantLabel  *string         `json:"variant_label,omitempty"`
}

// Subtotal is UnitPrice times Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type itemKey struct {
	productID  string
	label      string
	hasVariant bool
}

func (li LineItem) key() itemKey {
	return keyOf(li.ProductID, li.VariantLabel)
}

func keyOf(productID string, variantLabel *string) itemKey {
	key := itemKey{productID: productID}
	if variantLabel != nil {
		key.hasVariant = true
		key.label = *variantLabel
	}
	return key
}
