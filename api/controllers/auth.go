package controllers

import (
	"context"
	"net/http"

	"github.com/kiranalabs/storefront/api/middleware"
	"github.com/kiranalabs/storefront/api/responses"
	"github.com/kiranalabs/storefront/api/validators"
	sessionsvc "github.com/kiranalabs/storefront/internal/session"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/types"
)

// SessionService is the slice of the session service the auth controllers
// need.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*sessionsvc.Session, error)
	Signup(ctx context.Context, name, email, password string) (*sessionsvc.Session, error)
	Current(ctx context.Context, shopperID string) (*sessionsvc.Session, bool)
	Logout(ctx context.Context, shopperID string) error
	UpdateAddresses(ctx context.Context, sess *sessionsvc.Session, addresses []types.Address) (*sessionsvc.Session, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type addressesRequest struct {
	Addresses []types.Address `json:"addresses" validate:"required,dive"`
}

type sessionResponse struct {
	ShopperID string          `json:"shopperId"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	IsAdmin   bool            `json:"isAdmin"`
	Addresses []types.Address `json:"addresses"`
	Token     string          `json:"token"`
}

func newSessionResponse(sess *sessionsvc.Session) sessionResponse {
	return sessionResponse{
		ShopperID: sess.ShopperID,
		Name:      sess.Name,
		Email:     sess.Email,
		IsAdmin:   sess.IsAdmin,
		Addresses: sess.Addresses,
		Token:     sess.Token,
	}
}

// AuthLogin exchanges credentials for a session.
func AuthLogin(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

// AuthSignup registers a new shopper.
func AuthSignup(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload signupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Signup(r.Context(), payload.Name, payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionResponse(sess))
	}
}

// AuthMe returns the persisted session for the authenticated shopper.
func AuthMe(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		sess, ok := svc.Current(r.Context(), shopperID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active session"))
			return
		}
		responses.WriteSuccess(w, newSessionResponse(sess))
	}
}

// AuthLogout removes the persisted session.
func AuthLogout(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), shopperID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthAddresses replaces the shopper's saved address list.
func AuthAddresses(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID := middleware.ShopperIDFromContext(r.Context())
		sess, ok := svc.Current(r.Context(), shopperID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active session"))
			return
		}

		var payload addressesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateAddresses(r.Context(), sess, payload.Addresses)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSessionResponse(updated))
	}
}
