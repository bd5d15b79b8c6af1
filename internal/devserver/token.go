package devserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid or expired token")

const tokenIssuer = "flashdeck-dev"

// tokenClaims carry the registered claims the client decodes (sub, nbf, exp,
// iss) plus the display name.
type tokenClaims struct {
	jwt.RegisteredClaims
	UniqueName string `json:"unique_name"`
}

// issueToken signs an HS256 token for the user, valid for ttl from now.
func issueToken(userID, userName, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UniqueName: userName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken validates an HS256 token and returns the subject user id.
func parseToken(raw, secret string) (string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}
