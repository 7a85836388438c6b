package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims represents the typed JWT minted by the upstream shop
// API and presented by storefront clients.
type AccessTokenClaims struct {
	ShopperID string `json:"shopper_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}
