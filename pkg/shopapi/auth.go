package shopapi

import (
	"context"
	"net/http"

	"github.com/kiranalabs/storefront/pkg/types"
)

// AuthUser is the authenticated identity returned by login/signup,
// including the bearer token the storefront forwards on later calls.
type AuthUser struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	IsAdmin   bool            `json:"isAdmin"`
	Addresses []types.Address `json:"addresses"`
	Token     string          `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addressesRequest struct {
	Addresses []types.Address `json:"addresses"`
}

type addressesResponse struct {
	Addresses []types.Address `json:"addresses"`
}

// Login exchanges credentials for an authenticated identity.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthUser, error) {
	var user AuthUser
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Signup registers a new shopper.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthUser, error) {
	var user AuthUser
	body := signupRequest{Name: name, Email: email, Password: password}
	if err := c.do(ctx, "signup", http.MethodPost, "/auth/signup", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAddresses replaces the caller's saved address list.
func (c *Client) UpdateAddresses(ctx context.Context, token string, addresses []types.Address) ([]types.Address, error) {
	var resp addressesResponse
	body := addressesRequest{Addresses: addresses}
	if err := c.do(ctx, "update_addresses", http.MethodPut, "/auth/addresses", token, body, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}
