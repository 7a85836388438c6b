package session

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
	"github.com/kiranalabs/storefront/pkg/types"
)

type authAPI interface {
	Login(ctx context.Context, email, password string) (*shopapi.AuthUser, error)
	Signup(ctx context.Context, name, email, password string) (*shopapi.AuthUser, error)
	UpdateAddresses(ctx context.Context, token string, addresses []types.Address) ([]types.Address, error)
}

// Service authenticates shoppers against the shop API and keeps the
// resulting identity in the session slot. A save failure degrades to an
// in-memory session rather than failing the login.
type Service struct {
	api  authAPI
	port Port
	logg *logger.Logger
}

// NewService wires the session service. Port may be nil.
func NewService(api authAPI, port Port, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	return &Service{api: api, port: port, logg: logg}, nil
}

// Login exchanges credentials for a session and persists it.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, user), nil
}

// Signup registers a new shopper and persists the resulting session.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	user, err := s.api.Signup(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, user), nil
}

// Current restores the persisted session, if any.
func (s *Service) Current(ctx context.Context, shopperID string) (*Session, bool) {
	if s.port == nil {
		return nil, false
	}
	payload, ok, err := s.port.Load(ctx, shopperID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("session slot load failed: %v", err))
		}
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("session slot payload unreadable: %v", err))
		}
		return nil, false
	}
	return &sess, true
}

// Logout removes the persisted session. The cart slot is left alone; a
// shopper who logs back in finds their cart where they left it.
func (s *Service) Logout(ctx context.Context, shopperID string) error {
	if s.port == nil {
		return nil
	}
	if err := s.port.Clear(ctx, shopperID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing session")
	}
	return nil
}

// UpdateAddresses replaces the shopper's saved addresses upstream and in
// the persisted session.
func (s *Service) UpdateAddresses(ctx context.Context, sess *Session, addresses []types.Address) (*Session, error) {
	for _, address := range addresses {
		if !address.Complete() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete")
		}
	}
	saved, err := s.api.UpdateAddresses(ctx, sess.Token, addresses)
	if err != nil {
		return nil, err
	}
	updated := *sess
	updated.Addresses = saved
	s.persist(ctx, &updated)
	return &updated, nil
}

func (s *Service) establish(ctx context.Context, user *shopapi.AuthUser) *Session {
	sess := &Session{
		ShopperID: user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		Addresses: user.Addresses,
		Token:     user.Token,
	}
	s.persist(ctx, sess)
	return sess
}

func (s *Service) persist(ctx context.Context, sess *Session) {
	if s.port == nil {
		return
	}
	payload, err := json.Marshal(sess)
	if err == nil {
		err = s.port.Save(ctx, sess.ShopperID, payload)
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("session slot save failed, continuing in memory: %v", err))
	}
}
