package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kupolls/api/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes refresh tokens whose expiry lies before now and
	// reports how many rows went away. The batch job runs it as a cleanup.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthService interface {
	// Signup registers a new user and logs them in. Returns access_token,
	// refresh_token.
	Signup(ctx context.Context, username, password, clientIP string) (string, string, error)
	// Login verifies credentials. Returns access_token, refresh_token.
	Login(ctx context.Context, username, password, clientIP string) (string, string, error)
	LoginWithGoogle(ctx context.Context, googleToken, clientIP string) (string, string, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken, clientIP string) error
}

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

// AuthEventSink receives auth lifecycle events for audit logging. The poll
// core never depends on it; only the auth service emits events.
type AuthEventSink interface {
	LoggedIn(ctx context.Context, username, clientIP string)
	LoggedOut(ctx context.Context, username, clientIP string)
	LoginFailed(ctx context.Context, username, clientIP string)
	Registered(ctx context.Context, username, clientIP string)
}
