package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

type Service interface {
	// GenerateAccessToken issues a bearer token for an actor. Tokens are
	// normally minted by the identity provider; this is used by tooling and tests.
	GenerateAccessToken(actor scope.Actor) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(actor scope.Actor) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":       actor.UserID,
		"department_id": actor.DepartmentID,
		"role":          string(actor.Role),
		"type":          "access",
		"exp":           expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ActorFromClaims builds the request actor from verified token claims.
func ActorFromClaims(claims map[string]interface{}) (scope.Actor, error) {
	if tokenType, ok := claims["type"].(string); ok && tokenType != "access" {
		return scope.Actor{}, fmt.Errorf("%w: token type %q", ErrInvalidClaims, tokenType)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return scope.Actor{}, fmt.Errorf("%w: user_id", ErrInvalidClaims)
	}

	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).Valid() {
		return scope.Actor{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}

	departmentID, _ := claims["department_id"].(string)
	if departmentID == "" && user.Role(role) == user.RoleManager {
		return scope.Actor{}, fmt.Errorf("%w: department_id", ErrInvalidClaims)
	}

	return scope.Actor{
		UserID:       userID,
		Role:         user.Role(role),
		DepartmentID: departmentID,
	}, nil
}
