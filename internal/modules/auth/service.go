package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/foodiespos/terminal/internal/remote"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotManager         = errors.New("auth: manager role required")
	ErrNoOverridePIN      = errors.New("auth: no override PIN configured")
)

// Authenticator verifies credentials against the remote system.
type Authenticator interface {
	SignIn(ctx context.Context, username, password string) (remote.SignInResult, error)
}

// Service signs operators in and authorizes manager-gated actions
// such as discount entry.
type Service struct {
	session *Session
	api     Authenticator

	// bcrypt hash of the terminal-local override PIN; used when the
	// remote cannot be reached or no hash means remote-only override.
	overridePINHash string
}

func NewService(session *Session, api Authenticator, overridePINHash string) *Service {
	return &Service{session: session, api: api, overridePINHash: overridePINHash}
}

// SignIn authenticates the operator and installs the session.
func (s *Service) SignIn(ctx context.Context, username, password string) (User, error) {
	result, err := s.api.SignIn(ctx, username, password)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	user := User{
		ID:        result.ID,
		Firstname: result.Firstname,
		Lastname:  result.Lastname,
		Username:  result.Username,
		Role:      result.Role,
	}
	s.session.set(result.Token, user)
	return user, nil
}

// SignOut ends the session.
func (s *Service) SignOut() {
	s.session.clear()
}

// CanApplyDiscount reports whether the signed-in operator may open the
// discount entry without a manager override.
func (s *Service) CanApplyDiscount() bool {
	user, ok := s.session.User()
	return ok && user.Role == RoleAdmin
}

// Override re-authenticates a manager without replacing the session;
// the credentials must belong to an ADMIN account.
func (s *Service) Override(ctx context.Context, username, password string) error {
	result, err := s.api.SignIn(ctx, username, password)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			return ErrInvalidCredentials
		}
		return err
	}
	if result.Role != RoleAdmin {
		return ErrNotManager
	}
	return nil
}

// OverrideWithPIN checks the terminal-local manager PIN.
func (s *Service) OverrideWithPIN(pin string) error {
	if s.overridePINHash == "" {
		return ErrNoOverridePIN
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.overridePINHash), []byte(pin)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
