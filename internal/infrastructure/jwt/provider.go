package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/staHong/user-auth-account-system/internal/config"
	"github.com/staHong/user-auth-account-system/internal/domain"
)

// Claims holds the JWT payload fields. Subject carries the account id; Kind
// distinguishes primary from delegated logins. For delegated logins Paid is
// the owning primary account's flag.
type Claims struct {
	Paid bool   `json:"paid"`
	Kind string `json:"kind"` // domain.KindPrimary | domain.KindDelegated
	jwt.RegisteredClaims
}

// AccountID returns the token subject.
func (c *Claims) AccountID() string { return c.Subject }

// Provider signs and verifies HS256 JWTs with a fixed expiry offset.
// There is no refresh mechanism; expiry forces a full re-login.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry}, nil
}

func (p *Provider) Sign(accountID string, paid bool, kind string) (string, error) {
	now := time.Now()
	claims := Claims{
		Paid: paid,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify validates signature and expiry. Expired tokens surface as
// domain.ErrTokenExpired, every other failure as domain.ErrTokenInvalid.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%v: %w", err, domain.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrTokenInvalid)
	}
	return claims, nil
}
