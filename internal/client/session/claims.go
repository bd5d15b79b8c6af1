package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a bearer token cannot be decoded or lacks
// the lifetime claims the session relies on.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the bearer-token claims the session cares about. The token is
// decoded, not verified: the session trusts the issuer and uses the claims
// for display and lifetime bookkeeping only. Verification stays server-side.
type Claims struct {
	jwt.RegisteredClaims
	UniqueName string `json:"unique_name"`
}

// ParseClaims decodes the payload segment of token without verifying the
// signature. Tokens missing nbf or exp are rejected because the session
// cannot bound their local lifetime.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil || claims.NotBefore == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
