// Package jwt issues and validates the signed, expiring access tokens used by
// the auth gate. The token subject is the user's email.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every validation failure: malformed input, bad
// signature, wrong algorithm, expiry and a missing subject.
var ErrInvalidToken = errors.New("invalid or expired token")

type JWTService struct {
	secret []byte
	ttl    time.Duration
	method gojwt.SigningMethod
	now    func() time.Time
}

// NewJWTService creates a service signing with HMAC. algorithm is one of
// HS256, HS384 or HS512.
func NewJWTService(secret string, ttl time.Duration, algorithm string) (*JWTService, error) {
	method, ok := gojwt.GetSigningMethod(algorithm).(*gojwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		method: method,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime of tokens issued by this service.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken issues a token whose subject is email.
func (s *JWTService) GenerateToken(email string) (string, error) {
	now := s.now()
	claims := gojwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies signature and expiry and returns the subject.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	claims := &gojwt.RegisteredClaims{}

	token, err := gojwt.ParseWithClaims(tokenString, claims,
		func(t *gojwt.Token) (any, error) {
			return s.secret, nil
		},
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
