// Package session reads the access token handed over by the authentication
// flow. The signature is not checked here: the backend verifies the token on
// every call, the engine only needs the user id and expiry.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyToken   = errors.New("empty access token")
	ErrTokenExpired = errors.New("access token expired")
)

// ParseClaims decodes the token payload. A "Bearer " prefix is accepted.
func ParseClaims(token string) (*models.Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrEmptyToken
	}

	claims := &models.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding access token: %w", err)
	}

	return claims, nil
}

// CheckExpiry fails when the claims carry an expiry before now.
func CheckExpiry(claims *models.Claims, now time.Time) error {
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(now) {
		return ErrTokenExpired
	}

	return nil
}

// Subject prefers the explicit user id claim over the registered subject.
func Subject(claims *models.Claims) string {
	if claims.UserID != "" {
		return claims.UserID
	}

	return claims.Subject
}
