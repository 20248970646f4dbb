// Package admin implements the dashboard login against the single configured
// admin identity. Tokens are issued by the jwt_token codec; the middleware
// gate lives in internal/platform/middleware.
package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"verify-gateway/internal/platform/metrics"
	dErrors "verify-gateway/pkg/domain-errors"
)

// TokenIssuer issues signed admin session tokens.
type TokenIssuer interface {
	Generate(email string, now time.Time) (string, error)
}

// LoginResult carries the normalized email and the issued bearer token.
type LoginResult struct {
	Email string
	Token string
}

// Service validates admin credentials and issues tokens.
type Service struct {
	adminEmail    string
	adminPassword string
	tokens        TokenIssuer
	logger        *slog.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewService(adminEmail, adminPassword string, tokens TokenIssuer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		adminEmail:    strings.ToLower(adminEmail),
		adminPassword: adminPassword,
		tokens:        tokens,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
	}
}

// Login checks the supplied credentials in order: both present, email matches
// the configured admin (when one is configured), password matches the
// configured bootstrap credential. A gateway with no admin password
// configured accepts no one.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "missing credentials")
	}
	if s.adminEmail != "" && email != s.adminEmail {
		s.metrics.AdminLogins.WithLabelValues("forbidden").Inc()
		s.logger.WarnContext(ctx, "admin login for non-admin email rejected")
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed")
	}
	if s.adminPassword == "" || !passwordMatches(s.adminPassword, password) {
		s.metrics.AdminLogins.WithLabelValues("invalid").Inc()
		s.logger.WarnContext(ctx, "admin login with invalid credentials rejected")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Generate(email, s.now())
	if err != nil {
		return nil, err
	}

	s.metrics.AdminLogins.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "admin login succeeded")
	return &LoginResult{Email: email, Token: token}, nil
}

// passwordMatches accepts either a bcrypt hash (recognizable by its prefix)
// or a plain bootstrap credential compared in constant time.
func passwordMatches(configured, supplied string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) == 1
}
