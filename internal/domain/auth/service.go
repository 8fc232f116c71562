package auth

import (
	"context"
)

// AuthService mints bearer tokens for directory users. Interactive login
// is handled by the identity provider in front of this service.
type AuthService interface {
	IssueToken(ctx context.Context, req IssueTokenRequest) (AccessTokenResponse, error)
}
