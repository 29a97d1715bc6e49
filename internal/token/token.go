// Package token issues and verifies signed identity tokens carrying user id and role.
package token

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/errs"
	"github.com/manoj-kumar111/sweet-shop/internal/model"
)

// Claims is the JWT payload: subject carries the user id, Role the authorization level.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with a fixed TTL.
// Verification is a pure function of the token and the signing key.
type Service struct {
	signKey []byte
	ttl     time.Duration
}

// NewService constructs a token service. TTL defaults to one hour when non-positive.
func NewService(signKey []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{signKey: signKey, ttl: ttl}
}

// Issue creates a signed HS256 JWT for the given user and role.
func (s *Service) Issue(userID uuid.UUID, role model.Role) (model.Tokens, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}

// Identity is the verified content of a token.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// Verify parses and validates a signed token, returning the embedded identity.
// Any parse, signature, expiry or claim-shape failure maps to errs.ErrUnauthorized.
func (s *Service) Verify(raw string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.signKey, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthorized)
	}
	uid, err := uuid.FromString(claims.Subject)
	if err != nil || !claims.Role.Valid() {
		return Identity{}, fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthorized)
	}
	return Identity{UserID: uid, Role: claims.Role}, nil
}
