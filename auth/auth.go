// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingToken    = errors.New("missing bearer token")
)

// Audience is the audience claim carried by signed-in user tokens.
const Audience = "authenticated"

// UserClaims are the claims read from a user's access token.
type UserClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ValidateAdminKey checks the provided key against the configured one
// in constant time.
func ValidateAdminKey(provided, expected string) error {
	if expected == "" || !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// ParseUserToken verifies an HS256 access token and returns the user id
// held in its subject claim.
func ParseUserToken(tokenString, secret string) (string, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return userID.String(), nil
}

// IssueUserToken signs an access token for userID. It exists for local
// development and tests; production tokens come from the auth provider.
func IssueUserToken(userID, secret string, ttl time.Duration) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("user id must be a UUID: %w", err)
	}

	now := time.Now()
	claims := UserClaims{
		Role: Audience,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// NewUserID returns a fresh random user id.
func NewUserID() string {
	return uuid.NewString()
}
