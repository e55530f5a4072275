package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the client reads from the store's bearer token.
type Claims struct {
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Expired reports whether the token carries an expiry that has passed.
// Tokens without an exp claim never expire from the client's point of view.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}

	return !now.Before(c.ExpiresAt.Time)
}

// TokenInspector reads a bearer token's claims without verifying its
// signature; only the store holds the signing key.
type TokenInspector interface {
	Inspect(token string) (*Claims, error)
}
