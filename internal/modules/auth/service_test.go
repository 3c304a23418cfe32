package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodiespos/terminal/internal/modules/auth"
	"github.com/foodiespos/terminal/internal/remote"
)

type stubAuthenticator struct {
	result remote.SignInResult
	err    error
}

func (s stubAuthenticator) SignIn(ctx context.Context, username, password string) (remote.SignInResult, error) {
	return s.result, s.err
}

func signedToken(t *testing.T, expiresAt int64) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: expiresAt,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestService_SignIn(t *testing.T) {
	session := auth.NewSession()
	service := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{
			Token:     signedToken(t, time.Now().Add(time.Hour).Unix()),
			ID:        9,
			Firstname: "Alice",
			Lastname:  "Martin",
			Username:  "alice",
			Role:      "WAITER",
		},
	}, "")

	user, err := service.SignIn(context.Background(), "alice", "pw")

	require.NoError(t, err)
	require.Equal(t, int64(9), user.ID)
	require.Equal(t, "Alice Martin", user.DisplayName())
	require.True(t, session.Authenticated())

	got, ok := session.User()
	require.True(t, ok)
	require.Equal(t, "alice", got.Username)
}

func TestService_SignInRejected(t *testing.T) {
	session := auth.NewSession()
	service := auth.NewService(session, stubAuthenticator{err: remote.ErrUnauthorized}, "")

	_, err := service.SignIn(context.Background(), "alice", "wrong")

	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.False(t, session.Authenticated())
}

func TestService_SignOut(t *testing.T) {
	session := auth.NewSession()
	service := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: signedToken(t, time.Now().Add(time.Hour).Unix()), Username: "alice"},
	}, "")

	_, err := service.SignIn(context.Background(), "alice", "pw")
	require.NoError(t, err)

	service.SignOut()

	require.False(t, session.Authenticated())
	_, ok := session.User()
	require.False(t, ok)
}

func TestSession_ExpiredTokenIsDropped(t *testing.T) {
	session := auth.NewSession()
	service := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: signedToken(t, time.Now().Add(-time.Minute).Unix()), Username: "alice"},
	}, "")

	_, err := service.SignIn(context.Background(), "alice", "pw")
	require.NoError(t, err)

	require.Empty(t, session.Token())
	require.False(t, session.Authenticated())

	// The profile stays readable so the UI can show who to re-login as.
	_, ok := session.User()
	require.True(t, ok)
}

func TestSession_OpaqueTokenNeverExpires(t *testing.T) {
	session := auth.NewSession()
	service := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: "not-a-jwt", Username: "alice"},
	}, "")

	_, err := service.SignIn(context.Background(), "alice", "pw")
	require.NoError(t, err)

	require.Equal(t, "not-a-jwt", session.Token())
}

func TestService_CanApplyDiscount(t *testing.T) {
	session := auth.NewSession()

	waiter := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: "tok", Role: "WAITER"},
	}, "")
	_, err := waiter.SignIn(context.Background(), "bob", "pw")
	require.NoError(t, err)
	require.False(t, waiter.CanApplyDiscount())

	admin := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: "tok", Role: auth.RoleAdmin},
	}, "")
	_, err = admin.SignIn(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.True(t, admin.CanApplyDiscount())
}

func TestService_Override(t *testing.T) {
	session := auth.NewSession()

	service := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: "tok", Role: auth.RoleAdmin},
	}, "")
	require.NoError(t, service.Override(context.Background(), "manager", "pw"))

	// Override never replaces the active session.
	_, ok := session.User()
	require.False(t, ok)

	notManager := auth.NewService(session, stubAuthenticator{
		result: remote.SignInResult{Token: "tok", Role: "WAITER"},
	}, "")
	require.ErrorIs(t, notManager.Override(context.Background(), "bob", "pw"), auth.ErrNotManager)

	rejected := auth.NewService(session, stubAuthenticator{err: remote.ErrUnauthorized}, "")
	require.ErrorIs(t, rejected.Override(context.Background(), "x", "y"), auth.ErrInvalidCredentials)
}

func TestService_OverrideWithPIN(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	service := auth.NewService(auth.NewSession(), stubAuthenticator{}, string(hash))

	require.NoError(t, service.OverrideWithPIN("1234"))
	require.ErrorIs(t, service.OverrideWithPIN("9999"), auth.ErrInvalidCredentials)

	unconfigured := auth.NewService(auth.NewSession(), stubAuthenticator{}, "")
	require.ErrorIs(t, unconfigured.OverrideWithPIN("1234"), auth.ErrNoOverridePIN)
}
