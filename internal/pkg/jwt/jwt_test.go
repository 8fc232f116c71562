package jwt

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	actor := scope.Actor{UserID: "u1", Role: user.RoleManager, DepartmentID: "5"}

	token, expiresAt, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	got, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "fifteen")
	_, _, err := svc.GenerateAccessToken(scope.Actor{UserID: "u1", Role: user.RoleEmployee})
	assert.Error(t, err)
}

func TestActorFromClaims_Invalid(t *testing.T) {
	cases := []map[string]interface{}{
		{"role": "employee"},
		{"user_id": "u1", "role": "owner"},
		{"user_id": "u1", "role": "manager"},
		{"user_id": "u1", "role": "employee", "type": "refresh"},
	}
	for _, c := range cases {
		_, err := ActorFromClaims(c)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	}
}
