// Package jwttoken signs and verifies the compact admin session tokens. A
// token is the serialized claims plus a keyed HMAC-SHA256 tag appended after
// a "." separator (HS256 JWS); the tag comparison happens in constant time
// inside the library.
package jwttoken

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "verify-gateway/pkg/domain-errors"
)

// TokenLifetime bounds how long an issued admin token stays valid.
const TokenLifetime = 12 * time.Hour

// Claims carried by an admin token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service handles admin token creation and validation.
type Service struct {
	signingKey []byte
}

func NewService(signingSecret string) *Service {
	return &Service{signingKey: []byte(signingSecret)}
}

// Generate issues a token for email, valid for TokenLifetime from now.
func (s *Service) Generate(email string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Validate checks signature and lifetime and returns the email the token was
// issued for. Malformed input, a tampered tag, a foreign signing method, and
// an expired token all come back as the same unauthorized error so callers
// cannot distinguish them.
func (s *Service) Validate(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Email == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims.Email, nil
}
