// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"

	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// claimsInspector reads bearer token claims without verifying the signature.
// The store signs its tokens with a key the client never sees, so the claims
// are only a hint (e.g. to skip a profile call with an expired token).
type claimsInspector struct {
	parser *jwt.Parser
}

// NewClaimsInspector is the constructor for claimsInspector.
func NewClaimsInspector() service.TokenInspector {
	return &claimsInspector{
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Inspect decodes the token's claims. Opaque (non-JWT) tokens yield an error.
func (s *claimsInspector) Inspect(tokenString string) (*service.Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	claims := &service.Claims{}
	if _, _, err := s.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token claims")
	}

	// Fall back to the registered subject when the store does not send an id claim.
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}

	return claims, nil
}
