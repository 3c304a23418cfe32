package auth

import (
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// User is the operator signed in at this terminal.
type User struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// RoleAdmin is the role allowed to apply discounts without a manager
// override.
const RoleAdmin = "ADMIN"

// DisplayName is the operator name shown on headers and receipts.
func (u User) DisplayName() string {
	if u.Firstname != "" && u.Lastname != "" {
		return u.Firstname + " " + u.Lastname
	}
	return "@" + u.Username
}

// Session holds the bearer token and user profile for the current
// sitting. The token's expiry is read from its JWT claims without
// signature verification — the terminal is not the token's audience,
// it only needs to know when to force a re-login.
type Session struct {
	mu     sync.RWMutex
	token  string
	user   *User
	expiry time.Time
}

func NewSession() *Session { return &Session{} }

// Token implements the remote client's token source; it returns the
// empty string once the token has expired.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.expiry.IsZero() && time.Now().After(s.expiry) {
		return ""
	}
	return s.token
}

// User returns the signed-in operator, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a non-expired session is active.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// set installs a new token and user, reading the expiry from the
// token's claims.
func (s *Session) set(token string, user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.expiry = tokenExpiry(token)
}

// clear ends the session.
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.expiry = time.Time{}
}

func tokenExpiry(token string) time.Time {
	claims := &jwt.StandardClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(claims.ExpiresAt, 0)
}
