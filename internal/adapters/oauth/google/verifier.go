package google

import (
	"context"
	"errors"

	"github.com/kupolls/api/internal/core/ports"
	"google.golang.org/api/idtoken"
)

type GoogleVerifier struct{}

func NewVerifier() ports.TokenVerifier {
	return &GoogleVerifier{}
}

// Verify validates the Google ID token and extracts the claims the auth
// service needs. Accounts key on the email, so an unverified email is
// rejected and a missing name claim falls back to the email.
func (v *GoogleVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return nil, err
	}
	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("email not found in claims")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); !ok || !verified {
		return nil, errors.New("email not verified")
	}
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return &ports.TokenPayload{Email: email, Name: name}, nil
}
