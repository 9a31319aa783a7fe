package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kupolls/api/internal/core/domain"
	"github.com/kupolls/api/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeAuthRepo, *recordingSink) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	authRepo := newFakeAuthRepo()
	sink := &recordingSink{}
	service := NewAuthService(userRepo, authRepo, nil, sink)
	return service, userRepo, authRepo, sink
}

func TestSignupAndLogin(t *testing.T) {
	service, _, _, sink := newTestAuthService(t)
	ctx := context.Background()

	accessToken, refreshToken, err := service.Signup(ctx, "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessToken, refreshToken, err = service.Login(ctx, "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	assert.Equal(t, []string{"registered", "login"}, sink.kinds())

	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "alice", claims["username"])
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := service.Signup(ctx, "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)

	_, _, err = service.Signup(ctx, "alice", "other", "10.0.0.2")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestSignupRejectsEmptyCredentials(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)

	_, _, err := service.Signup(context.Background(), "", "pw", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = service.Signup(context.Background(), "bob", "", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginFailureIsAudited(t *testing.T) {
	service, _, _, sink := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := service.Signup(ctx, "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "alice", "wrong", "10.9.9.9")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = service.Login(ctx, "nobody", "whatever", "10.9.9.9")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, []string{"registered", "login_failed", "login_failed"}, sink.kinds())
}

func TestRefreshAccessToken(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, refreshToken, err := service.Signup(ctx, "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)

	accessToken, returnedRefresh, err := service.RefreshAccessToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Equal(t, refreshToken, returnedRefresh, "refresh token is kept until expiry")

	_, _, err = service.RefreshAccessToken(ctx, "bogus-token")
	assert.EqualError(t, err, "refresh token not found")
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	service, _, _, sink := newTestAuthService(t)
	ctx := context.Background()

	_, refreshToken, err := service.Signup(ctx, "alice", "s3cret", "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, refreshToken, "10.0.0.1"))

	_, _, err = service.RefreshAccessToken(ctx, refreshToken)
	assert.EqualError(t, err, "refresh token revoked")

	assert.Contains(t, sink.kinds(), "logout")
}

func TestLoginWithGoogleCreatesAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userRepo := newFakeUserRepo()
	authRepo := newFakeAuthRepo()
	sink := &recordingSink{}
	verifier := &fakeVerifier{payload: &ports.TokenPayload{Email: "alice@example.com", Name: "Alice"}}
	service := NewAuthService(userRepo, authRepo, verifier, sink)
	ctx := context.Background()

	accessToken, _, err := service.LoginWithGoogle(ctx, "google-credential", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	// First sign-in registers an account keyed on the email.
	user, err := userRepo.GetByUsername(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, []string{"registered", "login"}, sink.kinds())

	// Second sign-in reuses it.
	_, _, err = service.LoginWithGoogle(ctx, "google-credential", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"registered", "login", "login"}, sink.kinds())
}

func TestLoginWithGoogleInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	sink := &recordingSink{}
	verifier := &fakeVerifier{err: errors.New("token expired")}
	service := NewAuthService(newFakeUserRepo(), newFakeAuthRepo(), verifier, sink)

	_, _, err := service.LoginWithGoogle(context.Background(), "stale-credential", "10.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid google token")
	assert.Equal(t, []string{"login_failed"}, sink.kinds())
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	service, _, _, _ := newTestAuthService(t)
	assert.NoError(t, service.Logout(context.Background(), "unknown", "10.0.0.1"))
}
