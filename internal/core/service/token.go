package service

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identware/user-service/internal/core/domain"
)

const defaultTokenLifetime = 8 * 24 * time.Hour

// TokenClaims is the payload embedded in an issued token. Role is
// deliberately absent: authorization re-reads the user on every request so
// role changes take effect without reissuing tokens.
type TokenClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 bearer tokens. The secret is fixed for
// the life of the process; there is no rotation and no revocation list, so
// expiry is the only invalidation path.
type TokenCodec struct {
	secret   []byte
	audience string
	issuer   string
	lifetime time.Duration
}

func NewTokenCodec(secret, audience, issuer string, lifetime time.Duration) *TokenCodec {
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}
	return &TokenCodec{
		secret:   []byte(secret),
		audience: audience,
		issuer:   issuer,
		lifetime: lifetime,
	}
}

// Issue signs a token for user. A zero expiresAt means "now + configured
// lifetime".
func (c *TokenCodec) Issue(user *domain.User, expiresAt time.Time) (string, error) {
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(c.lifetime)
	}
	claims := TokenClaims{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Audience:  jwt.ClaimStrings{c.audience},
			Issuer:    c.issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature, expiry, audience and issuer. Every failure
// collapses to domain.ErrInvalidToken so a caller cannot distinguish a forged
// token from an expired one.
func (c *TokenCodec) Decode(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(c.audience),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// RandomSecret returns a URL-safe random signing secret. Used when no secret
// is configured; tokens signed with it do not survive a process restart.
func RandomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
