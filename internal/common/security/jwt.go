package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"practice_tracker/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityProvider resolves the caller of a request to an opaque user id.
// Failures wrap common.ErrUnauthorized.
type IdentityProvider interface {
	UserID(r *http.Request) (string, error)
}

// JWTIdentity verifies HS256 bearer tokens (Authorization header or the
// "jwt" cookie). The user id is the "sub" claim, or the legacy "user_id"
// claim when "sub" is absent.
type JWTIdentity struct {
	TokenAuth *jwtauth.JWTAuth
	exp       time.Duration
	now       func() time.Time
}

func NewJWTIdentity(secret []byte, exp time.Duration) *JWTIdentity {
	return &JWTIdentity{
		TokenAuth: jwtauth.New("HS256", secret, nil),
		exp:       exp,
		now:       time.Now,
	}
}

func (j *JWTIdentity) UserID(r *http.Request) (string, error) {
	token, err := jwtauth.VerifyRequest(j.TokenAuth, r, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie)
	if err != nil {
		return "", fmt.Errorf("verify token: %v: %w", err, common.ErrUnauthorized)
	}
	if sub := token.Subject(); sub != "" {
		return sub, nil
	}
	id, err := GetUserIDFromClaims(token.PrivateClaims())
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, common.ErrUnauthorized)
	}
	return id, nil
}

// GenerateToken mints a token for userID, used by trackerctl and tests.
func (j *JWTIdentity) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := j.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(j.exp).Unix(),
		"iat": now.Unix(),
	}
	_, tokenString, err := j.TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}
