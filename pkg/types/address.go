package types

import "strings"

// Address is the shipping address submitted with an order.
type Address struct {
	FullName     string `json:"fullName" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zipCode" validate:"required"`
}

// Complete reports whether every required field is populated.
func (a Address) Complete() bool {
	for _, field := range []string{a.FullName, a.Phone, a.AddressLine1, a.City, a.State, a.ZipCode} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
