package utils // package utils provides helper functions for token creation

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role allowed to remove users and move seats when
// authentication is enabled.
const RoleAdmin = "ADMIN"

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT.  The claims carry the
// subject (sub), role, expiration (exp) and issued at (iat).
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, errors.New("empty signing secret")
	}
	if ttl <= 0 {
		return AccessToken{}, errors.New("token ttl must be positive")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
