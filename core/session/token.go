package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// The backend signs its tokens; this side only inspects claims to decide
// whether a rehydrated session is still worth presenting. Verification stays
// with the issuer.

type tokenClaims struct {
	jwt.StandardClaims
}

// TokenExpired reports whether the bearer token carries an exp claim in the
// past. Tokens that do not parse as JWTs are treated as opaque and never
// expire client-side; the backend rejects them with a 401 if they are stale.
func TokenExpired(token string, now time.Time) bool {
	claims := new(tokenClaims)
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == 0 {
		return false
	}
	return now.After(time.Unix(claims.ExpiresAt, 0))
}
