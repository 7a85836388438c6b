package enums

import "fmt"

// Availability classifies a cart line against freshly fetched stock.
type Availability string

const (
	AvailabilityInStock           Availability = "in_stock"
	AvailabilityOutOfStock        Availability = "out_of_stock"
	AvailabilityInsufficientStock Availability = "insufficient_stock"
)

var validAvailabilities = []Availability{
	AvailabilityInStock,
	AvailabilityOutOfStock,
	AvailabilityInsufficientStock,
}

// String implements fmt.Stringer.
func (a Availability) String() string {
	return string(a)
}

// IsValid reports whether the value is known.
func (a Availability) IsValid() bool {
	for _, candidate := range validAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// Blocks reports whether the availability prevents checkout.
func (a Availability) Blocks() bool {
	return a == AvailabilityOutOfStock || a == AvailabilityInsufficientStock
}

// ParseAvailability converts raw input into an Availability.
func ParseAvailability(value string) (Availability, error) {
	for _, candidate := range validAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability %q", value)
}
