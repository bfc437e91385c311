package models

import "github.com/golang-jwt/jwt/v5"

// Claims carried by the storefront access token. Only read on the client,
// the signature is checked by the API.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
