// Package token inspects the opaque bearer token for display purposes. The
// backend is the only party that verifies tokens; the client merely peeks at
// the expiry claim, if there is one, to show it in the status line.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the expiry of a JWT-shaped bearer token without
// verifying its signature. ok is false when the token is not a JWT or
// carries no expiry claim; such tokens are still perfectly usable, the
// client just cannot display a lifetime for them.
func ExpiresAt(tokenString string) (t time.Time, ok bool) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
