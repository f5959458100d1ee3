// Package auth issues and verifies the signed identity tokens the API
// hands out at signup and login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. Expiry is the only
// invalidation mechanism; there is no revocation list.
const TokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies identity tokens with an HMAC secret.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret must not be empty")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue creates a signed token for the given user id, expiring TokenTTL
// from now.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithTTL(userID, TokenTTL)
}

// IssueWithTTL issues a token with a custom lifetime. Used by tests to
// produce already-expired tokens.
func (s *TokenService) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the embedded user id. It fails if
// the signature is invalid, the token is malformed, the signing method is
// not HS256, or the token has expired.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", errors.New("auth: invalid token claims")
	}
	return claims.UserID, nil
}
