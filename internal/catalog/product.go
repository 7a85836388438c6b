package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/imageurl"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

// Variant is a priced, separately stocked sub-SKU of a product.
type Variant struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// StockModel is the tagged availability union: a product either carries a
// flat stock count or a variant list, never both. Construct via FlatStock
// or VariantStock so the invariant cannot be violated.
type StockModel struct {
	variants []Variant
	flat     int
	tagged   bool
}

// FlatStock builds the single-SKU availability model.
func FlatStock(count int) StockModel {
	if count < 0 {
		count = 0
	}
	return StockModel{flat: count}
}

// VariantStock builds the per-variant availability model.
func VariantStock(variants []Variant) StockModel {
	return StockModel{variants: variants, tagged: true}
}

// HasVariants reports which arm of the union is populated.
func (s StockModel) HasVariants() bool {
	return s.tagged
}

// Flat returns the flat stock count; zero when the product has variants.
func (s StockModel) Flat() int {
	if s.tagged {
		return 0
	}
	return s.flat
}

// Variants returns the variant list; nil for flat-stock products.
func (s StockModel) Variants() []Variant {
	return s.variants
}

// FindVariant looks up a variant by label.
func (s StockModel) FindVariant(label string) (Variant, bool) {
	for _, v := range s.variants {
		if v.Label == label {
			return v, true
		}
	}
	return Variant{}, false
}

// Product is the validated domain product the storefront renders and adds
// to carts. Image references are already normalized.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discountPercent"`
	Category        string          `json:"category"`
	Images          []string        `json:"images"`
	Stock           StockModel      `json:"-"`
}

// DiscountedPrice applies the product discount to the given base price,
// rounded to two decimal places.
func (p Product) DiscountedPrice(base decimal.Decimal) decimal.Decimal {
	if p.DiscountPercent <= 0 {
		return base.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return base.Mul(factor).Round(2)
}

// PrimaryImage returns the first image reference, if any.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// FromAPI validates a raw upstream record into a domain product. The flat
// stock field and the variant list are mutually exclusive; records
// carrying both are rejected rather than interpreted by convention.
func FromAPI(raw shopapi.Product) (*Product, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if raw.DiscountPercent < 0 || raw.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	if raw.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	var stock StockModel
	switch {
	case len(raw.Sizes) > 0 && raw.Stock > 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product cannot carry both flat stock and variants").
			WithDetails(map[string]any{"product_id": raw.ID})
	case len(raw.Sizes) > 0:
		variants := make([]Variant, 0, len(raw.Sizes))
		seen := map[string]struct{}{}
		for _, size := range raw.Sizes {
			label := strings.TrimSpace(size.Label)
			if label == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant label is required")
			}
			if _, dup := seen[label]; dup {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant labels must be unique").
					WithDetails(map[string]any{"label": label})
			}
			seen[label] = struct{}{}
			if size.Stock < 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant stock cannot be negative")
			}
			variants = append(variants, Variant{Label: label, Price: size.Price, Stock: size.Stock})
		}
		stock = VariantStock(variants)
	default:
		stock = FlatStock(raw.Stock)
	}

	return &Product{
		ID:              raw.ID,
		Name:            raw.Name,
		Description:     raw.Description,
		Price:           raw.Price,
		DiscountPercent: raw.DiscountPercent,
		Category:        raw.Category,
		Images:          imageurl.NormalizeAll(raw.Images),
		Stock:           stock,
	}, nil
}
