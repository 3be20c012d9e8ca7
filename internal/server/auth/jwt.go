// Package auth mints and verifies access tokens and hashes passwords.
package auth

import (
	"time"

	"github.com/bannakon/zentasks/internal/common"
	"github.com/bannakon/zentasks/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and checks HS256 access tokens. It holds no per-token
// state; the secret and lifetime are fixed at construction.
type TokenIssuer struct {
	secretKey []byte
	lifetime  time.Duration
	now       func() time.Time
}

// NewTokenIssuer reads the secret and access token lifetime from cfg.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		secretKey: []byte(cfg.SecretKey),
		lifetime:  cfg.AccessTokenValidityDuration,
		now:       time.Now,
	}
}

// Mint returns a signed token for subject expiring after the configured lifetime.
func (i *TokenIssuer) Mint(subject string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	})

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify reports whether the token carries a valid HS256 signature and has
// not expired. Malformed input is simply invalid.
func (i *TokenIssuer) Verify(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return false
	}
	return token.Valid
}

// ExtractSubject returns the token subject without checking the signature or
// expiry. Use Verify for that.
func (i *TokenIssuer) ExtractSubject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", common.ErrMalformedToken
	}
	if claims.Subject == "" {
		return "", common.ErrMalformedToken
	}
	return claims.Subject, nil
}

// LifetimeSeconds is the configured access token lifetime in whole seconds.
func (i *TokenIssuer) LifetimeSeconds() int64 {
	return int64(i.lifetime / time.Second)
}
