// Package token issues and verifies the HS256 bearer tokens used by the API.
// Only verification is on the request path; issuing is used by ops tooling and
// tests.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
}

type Verified struct {
	UserID    string
	ExpiresAt time.Time
}

// Issue signs a token whose subject is the user id.
func Issue(userID, secret string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing secret")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// Verify parses and validates a bearer token and returns the user id it names.
func Verify(tokenString, secret string, now time.Time) (*Verified, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, fmt.Errorf("token expired")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject")
	}

	return &Verified{UserID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
