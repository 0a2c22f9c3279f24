package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Claims is the subset of the access token's JWT claims the client cares
// about. The client never verifies signatures - that is the server's job -
// it only peeks at the payload for expiry and identity hints.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// PeekClaims decodes an access token without verifying it.
func PeekClaims(token string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "parsing access token")
	}
	return claims, nil
}

// ExpiresIn reports how long until the token expires; zero or negative means
// it already has. Tokens without an exp claim report a zero duration.
func (c *Claims) ExpiresIn() time.Duration {
	if c.ExpiresAt == 0 {
		return 0
	}
	return time.Until(time.Unix(c.ExpiresAt, 0))
}
